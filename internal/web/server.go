package web

import (
	"net/http"

	"glyphembed/internal/config"
	"glyphembed/internal/ffmpeg"
	"glyphembed/internal/logger"
)

type Server struct {
	jobMgr *JobManager
	config config.Config
	tools  *ffmpeg.Tools
	logger *logger.Logger
}

func NewServer(jobMgr *JobManager, cfg config.Config, tools *ffmpeg.Tools, log *logger.Logger) *Server {
	return &Server{
		jobMgr: jobMgr,
		config: cfg,
		tools:  tools,
		logger: log,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/", http.FileServer(http.Dir("web/static")))

	// API endpoints
	mux.HandleFunc("/api/embed", s.handleEmbed)
	mux.HandleFunc("/api/jobs", s.handleJobs)
	mux.HandleFunc("/api/jobs/", s.handleJobAction)
	mux.HandleFunc("/ws", s.handleWebSocket)

	return s.loggingMiddleware(mux)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
