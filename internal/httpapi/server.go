package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/wslwatch/internal/display"
	apimw "github.com/hamed0406/wslwatch/internal/httpapi/middleware"
	"github.com/hamed0406/wslwatch/internal/metrics"
)

type Server struct {
	Logger  *zap.Logger
	Board   *display.Board
	Metrics *metrics.Registry
	Refresh time.Duration // widget poll interval, defaults to 1s
}

func NewServer(l *zap.Logger, board *display.Board, m *metrics.Registry) *Server {
	return &Server{Logger: l, Board: board, Metrics: m, Refresh: time.Second}
}

type RouterOptions struct {
	AllowedOrigins []string // empty allows any origin
	PublicRPM      int      // 0 disables rate limiting
	PublicBurst    int
}

func (s *Server) Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(apimw.AccessLog(s.Logger, s.Metrics))

	if len(opts.AllowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(opts.PublicRPM, opts.PublicBurst))
		r.Get("/", s.handleWidget)
		r.Get("/api/status", s.handleStatus)
	})

	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}
	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(s.Board.Snapshot())
}

func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	refresh := s.Refresh
	if refresh <= 0 {
		refresh = time.Second
	}
	if err := widgetTmpl.Execute(w, widgetData{
		Snapshot: s.Board.Snapshot(),
		Refresh:  refresh.Milliseconds(),
	}); err != nil {
		s.Logger.Warn("widget_render_error", zap.Error(err))
	}
}
