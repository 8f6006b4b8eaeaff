package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/notexlabs/notex/internal/extract"
	"github.com/notexlabs/notex/internal/session"
	"github.com/notexlabs/notex/internal/split"
	"github.com/notexlabs/notex/internal/summarize"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New(uuid.NewString())
	s.sessions.Put(sess)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"session_id": sess.ID,
		"state":      sess.State(),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if s.sessions.Get(id) == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	s.sessions.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

// handleExtract loads text into a session from exactly one input: an
// uploaded file, a YouTube reference, or an article URL. A new input
// replaces whatever was loaded before.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	contentType := r.Header.Get("Content-Type")
	multipart := strings.HasPrefix(contentType, "multipart/form-data")
	if multipart {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()
	} else {
		if err := r.ParseForm(); err != nil {
			jsonError(w, "invalid form: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	youtubeRef := r.FormValue("youtube")
	articleURL := r.FormValue("url")
	hasFile := false
	if multipart && r.MultipartForm != nil {
		hasFile = len(r.MultipartForm.File["file"]) > 0
	}

	inputs := 0
	for _, present := range []bool{hasFile, youtubeRef != "", articleURL != ""} {
		if present {
			inputs++
		}
	}
	if inputs != 1 {
		jsonError(w, "exactly one of file, youtube, url is required", http.StatusBadRequest)
		return
	}

	var text, source string
	var err error
	switch {
	case hasFile:
		text, source, err = s.extractUpload(r)
	case youtubeRef != "":
		source = "youtube"
		var videoID string
		videoID, err = extract.VideoID(youtubeRef)
		if err == nil {
			text, err = s.transcripts.Fetch(r.Context(), videoID)
		}
	default:
		source = "web"
		text, err = s.articles.Fetch(r.Context(), articleURL)
	}
	if err != nil {
		s.log.Warn("extraction failed", "session_id", sess.ID, "source", source, "error", err)
		jsonError(w, "extraction failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	sess.SetText(text, source)
	snap := sess.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"session_id":   snap.ID,
		"state":        snap.State,
		"source":       snap.Source,
		"word_count":   snap.WordCount,
		"text_preview": snap.TextPreview,
	})
}

func (s *Server) extractUpload(r *http.Request) (text, source string, err error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "upload", fmt.Errorf("file is required: %w", err)
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !extract.IsSupportedExtension(filename) {
		return "", "upload", fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
	source = strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")

	if header.Size > s.cfg.MaxUploadBytes {
		return "", source, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}

	extractor, err := extract.ForFilename(filename)
	if err != nil {
		return "", source, err
	}

	text, err = extractor.Extract(io.LimitReader(file, s.cfg.MaxUploadBytes), header.Size)
	return text, source, err
}

// handleSummarize splits the loaded text into sections and summarizes
// them in document order, one capability call at a time. The resulting
// context replaces the session's previous one.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	text := sess.Text()
	if text == "" {
		jsonError(w, "no text loaded: extract a document first", http.StatusBadRequest)
		return
	}

	sections := split.Split(text)
	results := summarize.BySections(r.Context(), s.summarizer, sections)
	sess.SetSummaries(results, summarize.Context(results))

	s.log.Info("summarized",
		"session_id", sess.ID,
		"sections", len(sections),
		"failures", countKind(results, summarize.KindError),
		"skipped", countKind(results, summarize.KindSkipped),
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"session_id": sess.ID,
		"sections":   results,
	})
}

type answerRequest struct {
	Question string `json:"question"`
}

// handleAnswer answers a question against the session's summary context.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}

	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}

	contextText, err := sess.Context()
	if err != nil {
		if errors.Is(err, session.ErrNoContext) {
			jsonError(w, err.Error(), http.StatusConflict)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	answer, err := s.qa.Answer(r.Context(), req.Question, contextText)
	if err != nil {
		s.log.Warn("answer failed", "session_id", sess.ID, "error", err)
		jsonError(w, "answer failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	sess.Touch()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"session_id": sess.ID,
		"question":   req.Question,
		"answer":     answer,
	})
}

func countKind(results []summarize.SectionSummary, kind summarize.Kind) int {
	n := 0
	for _, r := range results {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
