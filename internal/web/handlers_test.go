package web

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"glyphembed/internal/config"
	"glyphembed/internal/logger"
)

func testServer() *Server {
	// tools stay nil: these tests only exercise paths that reject the
	// request before any external invocation.
	return NewServer(NewJobManager(), config.DefaultConfig(), nil, logger.New(false))
}

// multipartBody builds a multipart form with the given parts. A nil audio
// slice omits the file part entirely.
func multipartBody(t *testing.T, audio []byte, fields map[string]string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if audio != nil {
		fw, err := mw.CreateFormFile("audio", "tone.ogg")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(audio); err != nil {
			t.Fatal(err)
		}
	}

	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}

	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHandleEmbedRejectsGet(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "/api/embed", nil)
	rec := httptest.NewRecorder()
	s.handleEmbed(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleEmbedMissingForm(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodPost, "/api/embed", strings.NewReader("not a form"))
	rec := httptest.NewRecorder()
	s.handleEmbed(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleEmbedMissingScript(t *testing.T) {
	s := testServer()

	body, contentType := multipartBody(t, []byte("fake-audio"), map[string]string{
		"title": "Tone",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/embed", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.handleEmbed(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleEmbedMissingAudio(t *testing.T) {
	s := testServer()

	body, contentType := multipartBody(t, nil, map[string]string{
		"script": "1,2,3",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/embed", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.handleEmbed(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestReadEmbedRequestStagesUpload(t *testing.T) {
	s := testServer()
	dir := t.TempDir()

	body, contentType := multipartBody(t, []byte("fake-audio"), map[string]string{
		"script": "1,2,3",
		"title":  "Tone",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/embed", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	parsed, clientErr, err := s.readEmbedRequest(rec, req, dir)
	if clientErr != "" || err != nil {
		t.Fatalf("readEmbedRequest: clientErr=%q err=%v", clientErr, err)
	}

	if parsed.Ext != ".ogg" {
		t.Errorf("Ext = %q, want .ogg", parsed.Ext)
	}
	if parsed.Script != "1,2,3" {
		t.Errorf("Script = %q", parsed.Script)
	}
	if parsed.Title != "Tone" {
		t.Errorf("Title = %q", parsed.Title)
	}
	if parsed.DownloadName != "tone_glyphed.ogg" {
		t.Errorf("DownloadName = %q, want tone_glyphed.ogg", parsed.DownloadName)
	}
	if !strings.HasPrefix(parsed.AudioPath, dir) {
		t.Errorf("AudioPath %q not staged under %q", parsed.AudioPath, dir)
	}
}

func TestReadEmbedRequestAllowsEmptyScript(t *testing.T) {
	s := testServer()
	dir := t.TempDir()

	body, contentType := multipartBody(t, []byte("fake-audio"), map[string]string{
		"script": "",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/embed", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	_, clientErr, err := s.readEmbedRequest(rec, req, dir)
	if clientErr != "" || err != nil {
		t.Fatalf("empty script should be accepted: clientErr=%q err=%v", clientErr, err)
	}
}

func TestHandleJobActionUnknownJob(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/no-such-id", nil)
	rec := httptest.NewRecorder()
	s.handleJobAction(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleJobActionCancelPendingSticks(t *testing.T) {
	s := testServer()
	job := s.jobMgr.CreateJob(testRequest(), "", "out.ogg")

	req := httptest.NewRequest(http.MethodPost, "/api/jobs/"+job.ID+"/cancel", nil)
	rec := httptest.NewRecorder()
	s.handleJobAction(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	// The worker's pending→running transition must not undo the cancel.
	s.jobMgr.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusRunning
	})
	j, err := s.jobMgr.GetJob(job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if j.Status != StatusCancelled {
		t.Errorf("status = %s, want %s", j.Status, StatusCancelled)
	}
}

func TestHandleJobsRejectsPut(t *testing.T) {
	s := testServer()

	req := httptest.NewRequest(http.MethodPut, "/api/jobs", nil)
	rec := httptest.NewRecorder()
	s.handleJobs(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
