package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/utils"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/advance"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/export"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/places"
	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/pkg/riskbrief"
)

// BriefGenerator produces a risk brief for a record.
type BriefGenerator interface {
	Generate(ctx context.Context, a advance.Advance, redact bool) (riskbrief.RiskBrief, error)
}

// PlaceLookup resolves venue searches.
type PlaceLookup interface {
	Autocomplete(ctx context.Context, q string) ([]places.Suggestion, error)
	Details(ctx context.Context, placeID string) (*places.Details, error)
}

// Engine names accepted by POST /api/export.
const (
	EngineBox    = "box"
	EngineChrome = "chrome"
)

type Server struct {
	Session *advance.Session
	// Exporters is keyed by engine name.
	Exporters     map[string]*export.Exporter
	DefaultEngine string

	// Briefs is nil when no provider could be configured; BriefsErr says why.
	Briefs    BriefGenerator
	BriefsErr error

	Places    PlaceLookup
	PlacesErr error

	Username string
	Password string

	// Now stamps the brief footer year. Defaults to time.Now.
	Now func() time.Time
}

func New(session *advance.Session, user, pass string) *Server {
	return &Server{
		Session:       session,
		Exporters:     map[string]*export.Exporter{},
		DefaultEngine: EngineBox,
		Username:      user,
		Password:      pass,
		Now:           time.Now,
	}
}

// Handler returns the routed API with request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/advance", s.basicAuth(s.handleGetAdvance))
	mux.HandleFunc("PUT /api/advance", s.basicAuth(s.handlePutAdvance))
	mux.HandleFunc("DELETE /api/advance", s.basicAuth(s.handleResetAdvance))
	mux.HandleFunc("GET /api/advance/preview", s.basicAuth(s.handlePreviewAdvance))
	mux.HandleFunc("POST /api/advance/template/{key}", s.basicAuth(s.handleApplyTemplate))
	mux.HandleFunc("GET /api/templates", s.basicAuth(s.handleTemplates))

	mux.HandleFunc("GET /preview", s.basicAuth(s.handlePreviewHTML))
	mux.HandleFunc("POST /api/export", s.basicAuth(s.handleExport))

	// Preflight carries no credentials, so auth is checked inside.
	mux.HandleFunc("/api/risk-brief", s.handleRiskBrief)

	mux.HandleFunc("GET /api/places/autocomplete", s.basicAuth(s.handleAutocomplete))
	mux.HandleFunc("GET /api/places/details", s.basicAuth(s.handlePlaceDetails))

	return s.requestLog(mux)
}

func (s *Server) Start(addr string) error {
	utils.Log.Infof("Starting server on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) authorized(r *http.Request) bool {
	if s.Username == "" && s.Password == "" {
		return true
	}
	user, pass, ok := r.BasicAuth()
	return ok && user == s.Username && pass == s.Password
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		rec := &statusRecorder{ResponseWriter: w}
		start := time.Now()

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		utils.Log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"bytes":      rec.bytes,
			"duration":   time.Since(start).String(),
		}).Info("request")
	})
}
