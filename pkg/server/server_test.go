package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/core"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/layout"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/server"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	config := &core.Config{
		Analyzer: core.AnalyzerConfig{Provider: "synthetic", Dimensions: 24},
		Snapshot: core.SnapshotConfig{Provider: "memory"},
		Pipeline: core.PipelineConfig{
			ClusterThreshold: 0.5,
			LayoutMode:       layout.ModeRadial,
		},
	}

	client, err := core.NewClient(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(server.NewRouter(client, logger))
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestPipelineFlow(t *testing.T) {
	ts := newTestServer(t)

	// Create session
	resp := postJSON(t, ts.URL+"/api/sessions", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]string
	decodeBody(t, resp, &created)
	sessionID := created["sessionId"]
	require.NotEmpty(t, sessionID)

	// Upload files
	resp = postJSON(t, ts.URL+"/api/upload", map[string]any{
		"sessionId": sessionID,
		"files": []museum.UploadedFileRef{
			{Name: "beach-sunset.jpg", Type: "image/jpeg", SourceType: museum.SourceImage},
			{Name: "city-notes.txt", Type: "text/plain", SourceType: museum.SourceText,
				TextContent: "Rainy night downtown."},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var uploaded struct {
		Files []museum.UploadedFileRef `json:"files"`
	}
	decodeBody(t, resp, &uploaded)
	require.Len(t, uploaded.Files, 2)

	// Analyze
	resp = postJSON(t, ts.URL+"/api/analyze", map[string]string{"sessionId": sessionID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var analyzed struct {
		Artifacts []museum.MemoryArtifact `json:"artifacts"`
	}
	decodeBody(t, resp, &analyzed)
	require.Len(t, analyzed.Artifacts, 2)

	// Cluster
	resp = postJSON(t, ts.URL+"/api/cluster", map[string]string{"sessionId": sessionID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var clustered struct {
		Clusters []museum.MemoryCluster `json:"clusters"`
	}
	decodeBody(t, resp, &clustered)
	require.NotEmpty(t, clustered.Clusters)

	// Layout preview
	resp = postJSON(t, ts.URL+"/api/generate-layout", map[string]string{"sessionId": sessionID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var preview layout.Result
	decodeBody(t, resp, &preview)
	assert.NotEmpty(t, preview.Rooms)
	assert.Len(t, preview.Exhibits, 2)

	// Build scene
	resp = postJSON(t, ts.URL+"/api/build-scene", map[string]string{"sessionId": sessionID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sceneDef museum.SceneDefinition
	decodeBody(t, resp, &sceneDef)
	assert.Equal(t, sessionID, sceneDef.SessionID)
	assert.NotEmpty(t, sceneDef.Rooms)
	assert.Len(t, sceneDef.Exhibits, 2)

	// Fetch the stored scene
	resp, err := http.Get(ts.URL + "/api/build-scene?sessionId=" + sessionID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored museum.SceneDefinition
	decodeBody(t, resp, &stored)
	assert.Equal(t, sceneDef.Rooms[0].ID, stored.Rooms[0].ID)

	// List sessions
	resp, err = http.Get(ts.URL + "/api/sessions")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed struct {
		Sessions []map[string]any `json:"sessions"`
	}
	decodeBody(t, resp, &listed)
	require.Len(t, listed.Sessions, 1)
}

func TestAssetResolution(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/sessions", nil)
	var created map[string]string
	decodeBody(t, resp, &created)
	sessionID := created["sessionId"]

	// "hello" as a base64 image payload
	resp = postJSON(t, ts.URL+"/api/upload", map[string]any{
		"sessionId": sessionID,
		"files": []museum.UploadedFileRef{
			{Name: "beach.jpg", Type: "image/jpeg", SourceType: museum.SourceImage,
				DataURL: "data:image/jpeg;base64,aGVsbG8="},
			{Name: "notes.txt", Type: "text/plain", SourceType: museum.SourceText,
				TextContent: "plain text memory"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var uploaded struct {
		Files []museum.UploadedFileRef `json:"files"`
	}
	decodeBody(t, resp, &uploaded)
	require.Len(t, uploaded.Files, 2)

	// Image asset: decoded data URL bytes with the original MIME type
	resp, err := http.Get(ts.URL + "/api/upload?sessionId=" + sessionID + "&id=" + uploaded.Files[0].ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	// Text asset: raw content
	resp, err = http.Get(ts.URL + "/api/upload?sessionId=" + sessionID + "&id=" + uploaded.Files[1].ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "plain text memory", string(data))

	// Unknown file id
	resp, err = http.Get(ts.URL + "/api/upload?sessionId=" + sessionID + "&id=file_missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestErrorStatuses(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		expected int
	}{
		{
			name:     "analyze unknown session",
			method:   http.MethodPost,
			path:     "/api/analyze",
			body:     map[string]string{"sessionId": "sess_missing"},
			expected: http.StatusNotFound,
		},
		{
			name:     "upload without session id",
			method:   http.MethodPost,
			path:     "/api/upload",
			body:     map[string]any{"files": []museum.UploadedFileRef{{Name: "x.jpg"}}},
			expected: http.StatusBadRequest,
		},
		{
			name:     "scene without session id",
			method:   http.MethodGet,
			path:     "/api/build-scene",
			expected: http.StatusBadRequest,
		},
		{
			name:     "category scene invalid category",
			method:   http.MethodGet,
			path:     "/api/category-scene?category=bogus",
			expected: http.StatusBadRequest,
		},
		{
			name:     "entries without category",
			method:   http.MethodGet,
			path:     "/api/entries",
			expected: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp *http.Response
			var err error
			if tt.method == http.MethodGet {
				resp, err = http.Get(ts.URL + tt.path)
				require.NoError(t, err)
			} else {
				resp = postJSON(t, ts.URL+tt.path, tt.body)
			}
			resp.Body.Close()
			assert.Equal(t, tt.expected, resp.StatusCode)
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Len(t, resp.Header.Get("X-Request-ID"), 8)
}
