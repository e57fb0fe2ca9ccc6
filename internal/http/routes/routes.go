package routes

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/toffan/running/internal/catalog"
	"github.com/toffan/running/internal/garmin"
	appmw "github.com/toffan/running/internal/http/middleware"
	"github.com/toffan/running/internal/jobs"
	"github.com/toffan/running/internal/plans"
	"github.com/toffan/running/internal/workout"
)

type Server struct {
	Router     *chi.Mux
	Catalog    *catalog.Registry
	Plans      plans.Set
	Serializer garmin.Serializer
	Queue      jobs.Enqueuer // nil disables plan scheduling
}

type ServerOptions struct {
	Catalog    *catalog.Registry
	Plans      plans.Set
	Serializer garmin.Serializer
	Queue      jobs.Enqueuer
	Token      string // bearer token for the scheduling endpoint
	Logger     zerolog.Logger
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(hlog.NewHandler(opts.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	}))
	r.Use(chimw.Recoverer)

	s := &Server{Router: r, Catalog: opts.Catalog, Plans: opts.Plans, Serializer: opts.Serializer, Queue: opts.Queue}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("write health check response")
		}
	})

	r.Get("/catalog", s.handleCatalog)
	r.Get("/workouts/{name}", s.handleWorkout)
	r.Get("/workouts/{name}/garmin", s.handleWorkoutDocument)
	r.Get("/plans", s.handlePlans)
	r.Get("/plans/{plan}", s.handlePlan)

	if opts.Queue != nil {
		r.Group(func(pr chi.Router) {
			pr.Use(appmw.RequireToken(opts.Token))
			pr.Post("/plans/{plan}/schedule", s.handleSchedulePlan)
		})
	}

	return s
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("encode response")
	}
}

type familyView struct {
	Key      string   `json:"key"`
	Title    string   `json:"title"`
	Workouts []string `json:"workouts"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	out := []familyView{}
	for _, f := range s.Catalog.Families() {
		v := familyView{Key: f.Key, Title: f.Title}
		for _, wk := range f.Workouts {
			v.Workouts = append(v.Workouts, wk.Name)
		}
		out = append(out, v)
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

type workoutView struct {
	Name         string  `json:"name"`
	Steps        int     `json:"steps"`
	TotalSeconds int     `json:"total_seconds"`
	TotalKm      float64 `json:"total_km"`
	Display      string  `json:"display"`
}

func (s *Server) workout(w http.ResponseWriter, r *http.Request) (*workout.Workout, bool) {
	// chi hands back the decoded segment
	wk, err := s.Catalog.Workout(chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, "workout not found", http.StatusNotFound)
		return nil, false
	}
	return wk, true
}

func (s *Server) handleWorkout(w http.ResponseWriter, r *http.Request) {
	wk, ok := s.workout(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, r, http.StatusOK, workoutView{
		Name:         wk.Name,
		Steps:        wk.Count(),
		TotalSeconds: int(wk.TotalTime() / time.Second),
		TotalKm:      wk.TotalDistance(),
		Display:      wk.Display(),
	})
}

func (s *Server) handleWorkoutDocument(w http.ResponseWriter, r *http.Request) {
	wk, ok := s.workout(w, r)
	if !ok {
		return
	}
	doc, err := s.Serializer.Serialize(wk)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("workout", wk.Name).Msg("serialize workout")
		http.Error(w, "could not render workout", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, r, http.StatusOK, doc)
}

type planSummary struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Weeks int    `json:"weeks"`
}

type weekView struct {
	Label string    `json:"label"`
	Days  []*string `json:"days"`
}

type planView struct {
	Name  string     `json:"name"`
	Title string     `json:"title"`
	Weeks []weekView `json:"weeks"`
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	out := []planSummary{}
	for _, name := range s.Plans.Names() {
		p := s.Plans[name]
		out = append(out, planSummary{Name: p.Name, Title: p.Title, Weeks: len(p.Weeks)})
	}
	s.writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	p, err := s.Plans.Get(chi.URLParam(r, "plan"))
	if err != nil {
		http.Error(w, "plan not found", http.StatusNotFound)
		return
	}
	v := planView{Name: p.Name, Title: p.Title}
	for _, wk := range p.Weeks {
		week := weekView{Label: wk.Label}
		for _, d := range wk.Days {
			if d == nil {
				week.Days = append(week.Days, nil)
				continue
			}
			name := d.Name
			week.Days = append(week.Days, &name)
		}
		v.Weeks = append(v.Weeks, week)
	}
	s.writeJSON(w, r, http.StatusOK, v)
}

// handleSchedulePlan queues a plan for the worker.
// Query: start=YYYY-MM-DD (required), week=LABEL, save=false.
func (s *Server) handleSchedulePlan(w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)

	p, err := s.Plans.Get(chi.URLParam(r, "plan"))
	if err != nil {
		http.Error(w, "plan not found", http.StatusNotFound)
		return
	}
	q := r.URL.Query()
	start, err := time.Parse(garmin.DateLayout, q.Get("start"))
	if err != nil {
		http.Error(w, "start must be a YYYY-MM-DD date", http.StatusBadRequest)
		return
	}
	if week := q.Get("week"); week != "" {
		if p, err = p.From(week); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	save := true
	if raw := q.Get("save"); raw != "" {
		if save, err = strconv.ParseBool(raw); err != nil {
			http.Error(w, "save must be a boolean", http.StatusBadRequest)
			return
		}
	}

	res, err := jobs.EnqueuePlan(r.Context(), s.Queue, p.Slots(), start, save)
	if err != nil {
		logger.Error().Err(err).Str("plan", p.Name).Msg("enqueue plan")
		http.Error(w, "failed to queue plan", http.StatusInternalServerError)
		return
	}
	logger.Info().Str("plan", p.Name).Int("queued", res.Queued).Int("duplicate", res.Duplicate).Msg("plan queued")
	s.writeJSON(w, r, http.StatusAccepted, map[string]int{"queued": res.Queued, "duplicate": res.Duplicate})
}
