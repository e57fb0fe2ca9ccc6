package setup

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// SaveEnv merges values into the env file at path, creating it if needed.
// Empty values remove the key.
func SaveEnv(path string, values map[string]string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		env = map[string]string{}
	}
	for k, v := range values {
		if v == "" {
			delete(env, k)
			continue
		}
		env[k] = v
	}
	return godotenv.Write(env, path)
}
