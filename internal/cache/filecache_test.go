package cache

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache(t *testing.T) {
	fc, err := NewFileCache(filepath.Join(t.TempDir(), "http"))
	require.NoError(t, err)

	key := "https://connect.garmin.com/workout-service/workouts?limit=999&start=1"
	_, ok := fc.Get(key)
	assert.False(t, ok)

	fc.Set(key, []byte("HTTP/1.1 200 OK\r\n\r\n[]"))
	got, ok := fc.Get(key)
	require.True(t, ok)
	assert.Equal(t, "HTTP/1.1 200 OK\r\n\r\n[]", string(got))

	entries, err := os.ReadDir(fc.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "/")
	assert.NotContains(t, entries[0].Name(), ".tmp.")

	fc.Delete(key)
	_, ok = fc.Get(key)
	assert.False(t, ok)
}

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "https___host_a_b_c_1", sanitizeKey("https://host/a?b=c&1"))

	long := strings.Repeat("x", 300)
	assert.Equal(t, sanitizeKey(long), sanitizeKey(long))
	assert.True(t, strings.HasPrefix(sanitizeKey(long), "hash_"))
	assert.NotEqual(t, sanitizeKey(long), sanitizeKey(long+"y"))
}

func TestTransportServesFromDisk(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Cache-Control", "max-age=300")
		fmt.Fprint(w, `[{"workoutId":1}]`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		// a fresh transport each time so only the disk is shared
		tr, err := NewTransport(dir, http.DefaultTransport)
		require.NoError(t, err)
		resp, err := (&http.Client{Transport: tr}).Get(srv.URL + "/workouts")
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, `[{"workoutId":1}]`, string(body))
	}
	assert.Equal(t, int32(1), hits.Load())
}
