package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"glyphembed/internal/pipeline"
	"glyphembed/pkg/utils"
)

type JobResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Status      JobStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
	Download    string    `json:"download,omitempty"`
	CreatedAt   string    `json:"created_at"`
	StartedAt   *string   `json:"started_at,omitempty"`
	CompletedAt *string   `json:"completed_at,omitempty"`
}

// embedRequest is a parsed multipart embed submission with the upload already
// staged on disk.
type embedRequest struct {
	pipeline.Request
	DownloadName string
}

// readEmbedRequest parses the multipart form and stages the uploaded audio
// under dir. The second return value is a client-facing message when the
// request is malformed or a required part is missing (HTTP 400); the error
// covers server-side failures.
func (s *Server) readEmbedRequest(w http.ResponseWriter, r *http.Request, dir string) (*embedRequest, string, error) {
	maxBytes := s.config.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, "Invalid multipart form", nil
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		return nil, "Missing audio file or glyph script", nil
	}
	defer file.Close()

	// An empty script is a valid (silent) composition, so check presence of
	// the field rather than its value.
	scriptValues, ok := r.MultipartForm.Value["script"]
	if !ok || len(scriptValues) == 0 {
		return nil, "Missing audio file or glyph script", nil
	}

	name := utils.SanitizeFilename(header.Filename, "input.ogg")
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if base == "" {
		base = "input"
	}

	inPath := filepath.Join(dir, "upload"+ext)
	dst, err := os.Create(inPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to stage upload: %w", err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		return nil, "", fmt.Errorf("failed to store upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to store upload: %w", err)
	}

	return &embedRequest{
		Request: pipeline.Request{
			AudioPath: inPath,
			Ext:       ext,
			Script:    scriptValues[0],
			Title:     r.FormValue("title"),
		},
		DownloadName: base + "_glyphed.ogg",
	}, "", nil
}

// handleEmbed runs one embed synchronously and responds with the tagged file
// as a download attachment.
func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tmpDir, err := utils.CreateTempDir()
	if err != nil {
		s.logger.Error("Failed to create temp dir: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	defer utils.Cleanup(tmpDir)

	req, clientErr, err := s.readEmbedRequest(w, r, tmpDir)
	if clientErr != "" {
		http.Error(w, clientErr, http.StatusBadRequest)
		return
	}
	if err != nil {
		s.logger.Error("Failed to read embed request: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	outPath, err := pipeline.Run(r.Context(), s.config, s.logger, s.tools, tmpDir, req.Request)
	if err != nil {
		s.logger.Error("Embed failed: %v", err)
		http.Error(w, fmt.Sprintf("Embed failed: %v", err), http.StatusInternalServerError)
		return
	}

	s.serveAttachment(w, r, outPath, req.DownloadName)
}

// handleJobs creates an async embed job (POST) or lists all jobs (GET).
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateJob(w, r)
	case http.MethodGet:
		jobs := s.jobMgr.ListJobs()
		responses := make([]*JobResponse, len(jobs))
		for i, job := range jobs {
			responses[i] = s.jobToResponse(job)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(responses)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	jobDir, err := utils.CreateTempDir()
	if err != nil {
		s.logger.Error("Failed to create job dir: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	req, clientErr, err := s.readEmbedRequest(w, r, jobDir)
	if clientErr != "" {
		utils.Cleanup(jobDir)
		http.Error(w, clientErr, http.StatusBadRequest)
		return
	}
	if err != nil {
		utils.Cleanup(jobDir)
		s.logger.Error("Failed to read embed request: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	job := s.jobMgr.CreateJob(req.Request, jobDir, req.DownloadName)
	s.logger.Info("Created job %s (%s)", job.ID, req.DownloadName)

	go s.processJob(job)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.jobToResponse(job))
}

func (s *Server) handleJobAction(w http.ResponseWriter, r *http.Request) {
	// Extract job ID from path: /api/jobs/{id}, /api/jobs/{id}/cancel
	// or /api/jobs/{id}/download
	path := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Job ID required", http.StatusBadRequest)
		return
	}

	job, err := s.jobMgr.GetJob(parts[0])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	// Handle GET /api/jobs/{id}
	if r.Method == http.MethodGet && len(parts) == 1 {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.jobToResponse(job))
		return
	}

	// Handle POST /api/jobs/{id}/cancel
	if r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "cancel" {
		if job.Cancel != nil {
			job.Cancel()
		}

		s.jobMgr.UpdateJob(job.ID, func(j *Job) {
			j.Status = StatusCancelled
		})

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "cancelled"})
		return
	}

	// Handle GET /api/jobs/{id}/download
	if r.Method == http.MethodGet && len(parts) == 2 && parts[1] == "download" {
		if job.Status != StatusCompleted || job.OutputPath == "" {
			http.Error(w, "Job output not available", http.StatusConflict)
			return
		}
		s.serveAttachment(w, r, job.OutputPath, job.DownloadName)
		return
	}

	http.Error(w, "Invalid request", http.StatusBadRequest)
}

func (s *Server) processJob(job *Job) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store cancel function in job
	s.jobMgr.UpdateJob(job.ID, func(j *Job) {
		j.Cancel = cancel
		j.Status = StatusRunning
	})

	// A cancel that arrived while the job was still pending kept its
	// terminal status; don't start the pipeline for it.
	cur, err := s.jobMgr.GetJob(job.ID)
	if err != nil || cur.Status != StatusRunning {
		utils.Cleanup(job.WorkDir)
		s.jobMgr.UpdateJob(job.ID, func(j *Job) {
			j.WorkDir = ""
		})
		return
	}

	s.logger.Info("Starting job %s", job.ID)

	outPath, err := pipeline.Run(ctx, s.config, s.logger, s.tools, job.WorkDir, job.Request)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled via the API; status was already set there.
			utils.Cleanup(job.WorkDir)
			s.jobMgr.UpdateJob(job.ID, func(j *Job) {
				j.WorkDir = ""
			})
			return
		}

		s.logger.Error("Job %s failed: %v", job.ID, err)
		utils.Cleanup(job.WorkDir)
		s.jobMgr.UpdateJob(job.ID, func(j *Job) {
			j.Status = StatusFailed
			j.Error = err.Error()
			j.WorkDir = ""
		})
		return
	}

	s.jobMgr.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusCompleted
		j.OutputPath = outPath
	})

	s.logger.Info("Job %s completed successfully", job.ID)
}

func (s *Server) serveAttachment(w http.ResponseWriter, r *http.Request, path, name string) {
	w.Header().Set("Content-Type", "audio/ogg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

func (s *Server) jobToResponse(job *Job) *JobResponse {
	resp := &JobResponse{
		ID:        job.ID,
		Title:     job.Title,
		Status:    job.Status,
		Error:     job.Error,
		CreatedAt: job.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	if job.Status == StatusCompleted {
		resp.Download = "/api/jobs/" + job.ID + "/download"
	}

	if job.StartedAt != nil {
		started := job.StartedAt.Format("2006-01-02 15:04:05")
		resp.StartedAt = &started
	}

	if job.CompletedAt != nil {
		completed := job.CompletedAt.Format("2006-01-02 15:04:05")
		resp.CompletedAt = &completed
	}

	return resp
}
