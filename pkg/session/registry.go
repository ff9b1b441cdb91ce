package session

import (
	"sync"
	"time"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
)

// Registry is the process-local session store serving live requests.
//
// It is safe for concurrent use. Reads return a copy of the state struct;
// the contained slices are shared but treated as immutable by every
// pipeline stage (artifacts and clusters are never mutated after
// creation, scenes are replaced wholesale).
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*State
}

// Info summarizes one registered session for listings.
type Info struct {
	SessionID        string    `json:"sessionId"`
	CreatedAt        time.Time `json:"createdAt"`
	FileCount        int       `json:"fileCount"`
	ArtifactCount    int       `json:"artifactCount"`
	SelectedCategory string    `json:"selectedCategory,omitempty"`
	HasScene         bool      `json:"hasScene"`
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*State)}
}

// Create registers a fresh empty session under sessionID, replacing any
// existing state.
func (r *Registry) Create(sessionID string) *State {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := &State{
		CreatedAt: time.Now().UTC(),
		Files:     []museum.UploadedFileRef{},
		Artifacts: []museum.MemoryArtifact{},
		Clusters:  []museum.MemoryCluster{},
	}
	r.sessions[sessionID] = state
	copied := *state
	return &copied
}

// Get returns a copy of the session state, or nil if the session is
// unknown.
func (r *Registry) Get(sessionID string) *State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	copied := *state
	return &copied
}

// AppendFiles adds uploaded files to the session, creating it on demand.
func (r *Registry) AppendFiles(sessionID string, files []museum.UploadedFileRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := r.upsertLocked(sessionID)
	state.Files = append(state.Files, files...)
}

// SetFiles replaces the session's file list, creating it on demand.
func (r *Registry) SetFiles(sessionID string, files []museum.UploadedFileRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(sessionID).Files = files
}

// SetArtifacts replaces the session's artifacts.
func (r *Registry) SetArtifacts(sessionID string, artifacts []museum.MemoryArtifact) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(sessionID).Artifacts = artifacts
}

// SetClusters replaces the session's clusters.
func (r *Registry) SetClusters(sessionID string, clusters []museum.MemoryCluster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(sessionID).Clusters = clusters
}

// SetScene replaces the session's scene.
func (r *Registry) SetScene(sessionID string, sceneDef *museum.SceneDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(sessionID).Scene = sceneDef
}

// SetSelectedCategory records the preferred category. Empty values are
// ignored so a recovery pass cannot clear an explicit selection.
func (r *Registry) SetSelectedCategory(sessionID, categorySlug string) {
	if categorySlug == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(sessionID).SelectedCategory = categorySlug
}

// Restore loads a full session state into the registry, e.g. from a
// snapshot store. Nil slices become empty; an absent scene or category in
// the restored data keeps whatever the registry already holds.
func (r *Registry) Restore(sessionID string, restored *State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.upsertLocked(sessionID)
	state.Files = orEmptyFiles(restored.Files)
	state.Artifacts = orEmptyArtifacts(restored.Artifacts)
	state.Clusters = orEmptyClusters(restored.Clusters)
	if restored.Scene != nil {
		state.Scene = restored.Scene
	}
	if restored.SelectedCategory != "" {
		state.SelectedCategory = restored.SelectedCategory
	}
	if !restored.CreatedAt.IsZero() {
		state.CreatedAt = restored.CreatedAt
	}
}

// List summarizes all registered sessions. Order is unspecified.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.sessions))
	for sessionID, state := range r.sessions {
		infos = append(infos, Info{
			SessionID:        sessionID,
			CreatedAt:        state.CreatedAt,
			FileCount:        len(state.Files),
			ArtifactCount:    len(state.Artifacts),
			SelectedCategory: state.SelectedCategory,
			HasScene:         state.Scene != nil,
		})
	}
	return infos
}

// upsertLocked returns the live state for sessionID, creating it if
// needed. Callers must hold the write lock.
func (r *Registry) upsertLocked(sessionID string) *State {
	if state, ok := r.sessions[sessionID]; ok {
		return state
	}
	state := &State{
		CreatedAt: time.Now().UTC(),
		Files:     []museum.UploadedFileRef{},
		Artifacts: []museum.MemoryArtifact{},
		Clusters:  []museum.MemoryCluster{},
	}
	r.sessions[sessionID] = state
	return state
}

func orEmptyFiles(files []museum.UploadedFileRef) []museum.UploadedFileRef {
	if files == nil {
		return []museum.UploadedFileRef{}
	}
	return files
}

func orEmptyArtifacts(artifacts []museum.MemoryArtifact) []museum.MemoryArtifact {
	if artifacts == nil {
		return []museum.MemoryArtifact{}
	}
	return artifacts
}

func orEmptyClusters(clusters []museum.MemoryCluster) []museum.MemoryCluster {
	if clusters == nil {
		return []museum.MemoryCluster{}
	}
	return clusters
}
