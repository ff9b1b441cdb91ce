// Package server exposes the museum pipeline over HTTP.
//
// Routes mirror the pipeline stages: upload, analyze, cluster, layout,
// scene build, archive, and category galleries. All request and response
// bodies are JSON except the upload asset resolver, which serves the
// stored media bytes directly.
package server

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/core"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/layout"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/session"
)

// Handler handles museum pipeline HTTP requests.
type Handler struct {
	client *core.Client
}

// NewHandler creates a new pipeline handler backed by the given client.
func NewHandler(client *core.Client) *Handler {
	return &Handler{client: client}
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateSession handles POST /api/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := h.client.CreateSession()
	writeJSON(w, http.StatusCreated, map[string]string{"sessionId": sessionID})
}

// ListSessions handles GET /api/sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	infos := h.client.Sessions()
	if infos == nil {
		infos = []session.Info{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": infos})
}

type uploadRequest struct {
	SessionID string                   `json:"sessionId"`
	Files     []museum.UploadedFileRef `json:"files"`
}

// Upload handles POST /api/upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	if len(req.Files) == 0 {
		writeError(w, http.StatusBadRequest, "files is required")
		return
	}

	files, err := h.client.RegisterFiles(r.Context(), req.SessionID, req.Files)
	if err != nil {
		// Persistence is best-effort: state is registered even when a
		// snapshot tier is down, so the upload still succeeds.
		if files == nil {
			h.writeClientError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"sessionId": req.SessionID,
		"files":     files,
	})
}

// Asset handles GET /api/upload?sessionId=...&id=...
//
// It resolves the stored file and serves its bytes: images decode their
// data URL, text files serve their content. The layout engine emits
// exactly these paths in exhibit asset URLs.
func (h *Handler) Asset(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	fileID := r.URL.Query().Get("id")
	if sessionID == "" || fileID == "" {
		writeError(w, http.StatusBadRequest, "sessionId and id are required")
		return
	}

	file, err := h.client.FileAsset(r.Context(), sessionID, fileID)
	if err != nil {
		h.writeClientError(w, err)
		return
	}

	if file.DataURL != "" {
		mime, payload, ok := splitDataURL(file.DataURL)
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, "stored asset is not a data url")
			return
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "stored asset payload is corrupt")
			return
		}
		w.Header().Set("Content-Type", mime)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	if file.TextContent != "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(file.TextContent))
		return
	}

	writeError(w, http.StatusNotFound, "file has no stored content")
}

type sessionRequest struct {
	SessionID string `json:"sessionId"`
}

// Analyze handles POST /api/analyze
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	artifacts, err := h.client.Analyze(r.Context(), req.SessionID)
	if err != nil && artifacts == nil {
		h.writeClientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"artifacts": artifacts})
}

// Cluster handles POST /api/cluster
func (h *Handler) Cluster(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	clusters, err := h.client.Cluster(r.Context(), req.SessionID)
	if err != nil && clusters == nil {
		h.writeClientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"clusters": clusters})
}

type buildRequest struct {
	SessionID         string `json:"sessionId"`
	PreferredCategory string `json:"preferredCategory,omitempty"`
	LayoutMode        string `json:"layoutMode,omitempty"`
}

// buildOptions converts request fields into per-call build options.
func (req *buildRequest) buildOptions() []core.BuildOption {
	var options []core.BuildOption
	if req.PreferredCategory != "" {
		options = append(options, core.WithPreferredCategory(req.PreferredCategory))
	}
	if req.LayoutMode != "" {
		options = append(options, core.WithLayoutMode(layout.Mode(req.LayoutMode)))
	}
	return options
}

// GenerateLayout handles POST /api/generate-layout
func (h *Handler) GenerateLayout(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.client.Layout(r.Context(), req.SessionID, req.buildOptions()...)
	if err != nil {
		h.writeClientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// BuildScene handles POST /api/build-scene
func (h *Handler) BuildScene(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	sceneDef, err := h.client.BuildScene(r.Context(), req.SessionID, req.buildOptions()...)
	if err != nil && sceneDef == nil {
		h.writeClientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sceneDef)
}

// Scene handles GET /api/build-scene?sessionId=...
func (h *Handler) Scene(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	sceneDef, err := h.client.Scene(r.Context(), sessionID)
	if err != nil {
		h.writeClientError(w, err)
		return
	}
	if sceneDef == nil {
		writeError(w, http.StatusNotFound, "no scene built for session")
		return
	}
	writeJSON(w, http.StatusOK, sceneDef)
}

// CategoryScene handles GET /api/category-scene?category=...
func (h *Handler) CategoryScene(w http.ResponseWriter, r *http.Request) {
	categoryValue := r.URL.Query().Get("category")
	if categoryValue == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	sceneDef, err := h.client.CategoryScene(r.Context(), categoryValue)
	if err != nil {
		h.writeClientError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sceneDef)
}

type archiveRequest struct {
	SessionID  string `json:"sessionId"`
	ArtifactID string `json:"artifactId"`
}

// ArchiveEntry handles POST /api/entries
func (h *Handler) ArchiveEntry(w http.ResponseWriter, r *http.Request) {
	var req archiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.SessionID == "" || req.ArtifactID == "" {
		writeError(w, http.StatusBadRequest, "sessionId and artifactId are required")
		return
	}

	entry, err := h.client.ArchiveArtifact(r.Context(), req.SessionID, req.ArtifactID)
	if err != nil {
		h.writeClientError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ListEntries handles GET /api/entries?category=...
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	categoryValue := r.URL.Query().Get("category")
	if categoryValue == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}

	entries, err := h.client.Entries(r.Context(), categoryValue)
	if err != nil {
		h.writeClientError(w, err)
		return
	}
	if entries == nil {
		entries = []*session.ArchiveEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// writeClientError maps pipeline errors to HTTP statuses.
func (h *Handler) writeClientError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrNoEntries):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrNoFiles),
		errors.Is(err, core.ErrNoArtifacts),
		errors.Is(err, core.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// splitDataURL parses "data:<mime>;base64,<payload>" into its parts.
func splitDataURL(dataURL string) (mime, payload string, ok bool) {
	if !strings.HasPrefix(dataURL, "data:") {
		return "", "", false
	}
	rest := dataURL[len("data:"):]
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", "", false
	}
	return rest[:sep], rest[sep+len(";base64,"):], true
}
