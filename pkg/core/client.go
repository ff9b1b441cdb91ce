package core

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/analyzer"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/analyzer/openai"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/analyzer/synthetic"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/category"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/cluster"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/layout"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/museum"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/scene"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/session"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/session/mysql"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/session/postgres"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/session/sqlite"
)

// Client is the main entry point of the museum pipeline.
//
// It orchestrates the full flow from uploaded files to a validated scene:
// analysis, clustering, layout, scene assembly, archival, and session
// recovery across snapshot tiers.
//
// A Client is safe for concurrent use.
//
// Example:
//
//	config, _ := core.LoadConfigFromEnv()
//	client, err := core.NewClient(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	sessionID := client.CreateSession()
//	client.RegisterFiles(ctx, sessionID, files)
//	sceneDef, err := client.BuildScene(ctx, sessionID)
type Client struct {
	config   *Config
	registry *session.Registry

	// stores are the snapshot tiers in recovery order: remote first,
	// local SQLite last. Empty when the provider is "memory".
	stores []session.Store

	analyzer analyzer.Provider

	// node generates archive entry ids and monotonic archive indexes.
	node *snowflake.Node
}

// NewClient creates a new Mnemosyne client with the given configuration.
//
// The function:
//  1. Validates the configuration
//  2. Initializes the analyzer provider (openai or synthetic)
//  3. Initializes the snapshot store tiers
//  4. Initializes the snowflake id generator for archive entries
//
// Parameters:
//   - config: The client configuration
//
// Returns:
//   - *Client: The client instance
//   - error: Error if validation or initialization fails
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, NewError("NewClient", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	provider, err := initAnalyzer(&config.Analyzer)
	if err != nil {
		return nil, NewError("NewClient", err)
	}

	stores, err := initStores(&config.Snapshot)
	if err != nil {
		return nil, NewError("NewClient", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, NewError("NewClient", err)
	}

	return &Client{
		config:   config,
		registry: session.NewRegistry(),
		stores:   stores,
		analyzer: provider,
		node:     node,
	}, nil
}

// NewClientFromEnv creates a client from environment variables.
//
// Convenience wrapper around LoadConfigFromEnv and NewClient.
func NewClientFromEnv() (*Client, error) {
	config, err := LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewClient(config)
}

// initAnalyzer creates the analyzer provider named by the configuration.
func initAnalyzer(cfg *AnalyzerConfig) (analyzer.Provider, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewClient(&openai.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.BaseURL,
			Dimensions: cfg.Dimensions,
		})
	case "synthetic":
		return synthetic.NewClient(cfg.Dimensions), nil
	default:
		return nil, ErrInvalidConfig
	}
}

// initStores creates the snapshot store tiers named by the configuration,
// remote tier first. A remote provider always gets a local SQLite tier
// underneath it so sessions survive remote outages.
func initStores(cfg *SnapshotConfig) ([]session.Store, error) {
	local := func() (session.Store, error) {
		return sqlite.NewClient(&sqlite.Config{DBPath: cfg.SQLitePath})
	}

	switch cfg.Provider {
	case "memory":
		return nil, nil

	case "sqlite":
		store, err := local()
		if err != nil {
			return nil, err
		}
		return []session.Store{store}, nil

	case "postgres":
		remote, err := postgres.NewClient(&postgres.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBName:   cfg.Postgres.DBName,
			SSLMode:  cfg.Postgres.SSLMode,
		})
		if err != nil {
			return nil, err
		}
		fallback, err := local()
		if err != nil {
			remote.Close()
			return nil, err
		}
		return []session.Store{remote, fallback}, nil

	case "mysql":
		remote, err := mysql.NewClient(&mysql.Config{
			Host:     cfg.MySQL.Host,
			Port:     cfg.MySQL.Port,
			User:     cfg.MySQL.User,
			Password: cfg.MySQL.Password,
			DBName:   cfg.MySQL.DBName,
		})
		if err != nil {
			return nil, err
		}
		fallback, err := local()
		if err != nil {
			remote.Close()
			return nil, err
		}
		return []session.Store{remote, fallback}, nil

	default:
		return nil, ErrInvalidConfig
	}
}

// CreateSession registers a fresh session and returns its id.
func (c *Client) CreateSession() string {
	sessionID := museum.MakeID("session")
	c.registry.Create(sessionID)
	return sessionID
}

// Sessions summarizes all sessions known to the in-memory registry.
func (c *Client) Sessions() []session.Info {
	return c.registry.List()
}

// RegisterFiles records uploaded files in a session.
//
// Files without an id are assigned one; files without an upload timestamp
// get the current time. The returned slice carries the completed
// references in upload order. The session snapshot is persisted
// best-effort after the update.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sessionID: The session to record the files in
//   - files: Uploaded file references
//
// Returns the completed file references and any persistence error.
func (c *Client) RegisterFiles(ctx context.Context, sessionID string, files []museum.UploadedFileRef) ([]museum.UploadedFileRef, error) {
	if sessionID == "" {
		return nil, NewError("RegisterFiles", ErrSessionNotFound)
	}

	completed := make([]museum.UploadedFileRef, len(files))
	for i, file := range files {
		if file.ID == "" {
			file.ID = museum.MakeID("file")
		}
		if file.UploadedAt == "" {
			file.UploadedAt = time.Now().UTC().Format(time.RFC3339)
		}
		completed[i] = file
	}

	c.registry.AppendFiles(sessionID, completed)
	return completed, c.persistSession(ctx, sessionID)
}

// FileAsset resolves one uploaded file reference, recovering the session
// from snapshot stores if it is not in the registry.
//
// Returns ErrSessionNotFound if the session cannot be recovered, and
// ErrNoFiles if the session has no file with the given id.
func (c *Client) FileAsset(ctx context.Context, sessionID, fileID string) (*museum.UploadedFileRef, error) {
	state, err := c.RecoverSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i := range state.Files {
		if state.Files[i].ID == fileID {
			file := state.Files[i]
			return &file, nil
		}
	}
	return nil, NewError("FileAsset", ErrNoFiles)
}

// Analyze runs the analyzer over every file in the session and replaces
// the session's artifacts with the result.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sessionID: The session to analyze
//
// Returns the analyzed artifacts in file order, or ErrNoFiles when the
// session holds no files.
func (c *Client) Analyze(ctx context.Context, sessionID string) ([]museum.MemoryArtifact, error) {
	state, err := c.RecoverSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(state.Files) == 0 {
		return nil, NewError("Analyze", ErrNoFiles)
	}

	artifacts, err := c.analyzer.AnalyzeBatch(ctx, state.Files)
	if err != nil {
		return nil, NewError("Analyze", err)
	}

	c.registry.SetArtifacts(sessionID, artifacts)
	if err := c.persistSession(ctx, sessionID); err != nil {
		return artifacts, err
	}
	return artifacts, nil
}

// Cluster groups the session's artifacts by composite similarity and
// replaces the session's clusters with the result.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sessionID: The session to cluster
//   - options: Optional per-call overrides (threshold)
//
// Returns the clusters, or ErrNoArtifacts when the session holds no
// analyzed artifacts.
func (c *Client) Cluster(ctx context.Context, sessionID string, options ...BuildOption) ([]museum.MemoryCluster, error) {
	state, err := c.RecoverSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(state.Artifacts) == 0 {
		return nil, NewError("Cluster", ErrNoArtifacts)
	}

	opts := c.applyBuildOptions(options)
	clusters := cluster.Build(state.Artifacts, opts.Threshold)

	c.registry.SetClusters(sessionID, clusters)
	if err := c.persistSession(ctx, sessionID); err != nil {
		return clusters, err
	}
	return clusters, nil
}

// Layout places the session's clusters and artifacts into 3D space
// without assembling a full scene. Useful for previewing room geometry.
//
// Returns ErrNoArtifacts when the session holds no artifacts; missing
// clusters are built on the fly with the configured threshold.
func (c *Client) Layout(ctx context.Context, sessionID string, options ...BuildOption) (*layout.Result, error) {
	state, err := c.RecoverSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(state.Artifacts) == 0 {
		return nil, NewError("Layout", ErrNoArtifacts)
	}

	opts := c.applyBuildOptions(options)
	clusters := state.Clusters
	if len(clusters) == 0 {
		clusters = cluster.Build(state.Artifacts, opts.Threshold)
		c.registry.SetClusters(sessionID, clusters)
	}

	preferred := c.preferredCategory(state, opts)
	result := layout.Build(opts.LayoutMode, sessionID, clusters, state.Artifacts, preferred)
	return &result, nil
}

// BuildScene builds and validates a complete scene for the session.
//
// The build recovers the session first, then prefers stored pipeline
// output over recomputation:
//  1. Stored artifacts and clusters are reused when present
//  2. Otherwise files are re-analyzed and re-clustered
//
// The assembled scene is validated before being stored; an invalid scene
// is rejected with ErrInvalidScene and never persisted.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sessionID: The session to build
//   - options: Optional per-call overrides (category, mode, threshold)
//
// Returns:
//   - *museum.SceneDefinition: The validated scene
//   - error: ErrSessionNotFound, ErrNoFiles, ErrInvalidScene, or a
//     pipeline error
func (c *Client) BuildScene(ctx context.Context, sessionID string, options ...BuildOption) (*museum.SceneDefinition, error) {
	state, err := c.RecoverSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	opts := c.applyBuildOptions(options)

	artifacts := state.Artifacts
	if len(artifacts) == 0 {
		if len(state.Files) == 0 {
			return nil, NewError("BuildScene", ErrNoFiles)
		}
		artifacts, err = c.analyzer.AnalyzeBatch(ctx, state.Files)
		if err != nil {
			return nil, NewError("BuildScene", err)
		}
		c.registry.SetArtifacts(sessionID, artifacts)
	}

	clusters := state.Clusters
	if len(clusters) == 0 {
		clusters = cluster.Build(artifacts, opts.Threshold)
		c.registry.SetClusters(sessionID, clusters)
	}

	preferred := c.preferredCategory(state, opts)
	if opts.PreferredCategory != "" {
		c.registry.SetSelectedCategory(sessionID, opts.PreferredCategory)
	}

	sceneDef := scene.Build(opts.LayoutMode, sessionID, clusters, artifacts, preferred)
	if !scene.IsValid(sceneDef) {
		return nil, NewError("BuildScene", ErrInvalidScene)
	}

	c.registry.SetScene(sessionID, sceneDef)
	if err := c.persistSession(ctx, sessionID); err != nil {
		return sceneDef, err
	}
	return sceneDef, nil
}

// Scene returns the most recently built scene for the session, or nil if
// none has been built yet.
func (c *Client) Scene(ctx context.Context, sessionID string) (*museum.SceneDefinition, error) {
	state, err := c.RecoverSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return state.Scene, nil
}

// RecoverSession returns the session state, restoring it from snapshot
// stores when the in-memory registry does not hold it.
//
// Recovery order:
//  1. In-memory registry
//  2. Snapshot stores in tier order (remote first, local last)
//
// Returns ErrSessionNotFound when no tier knows the session.
func (c *Client) RecoverSession(ctx context.Context, sessionID string) (*session.State, error) {
	if sessionID == "" {
		return nil, NewError("RecoverSession", ErrSessionNotFound)
	}

	if state := c.registry.Get(sessionID); state != nil {
		return state, nil
	}

	for _, store := range c.stores {
		snapshot, err := store.LoadSnapshot(ctx, sessionID)
		if err != nil {
			continue
		}
		c.registry.Restore(sessionID, &snapshot.State)
		return c.registry.Get(sessionID), nil
	}

	return nil, NewError("RecoverSession", ErrSessionNotFound)
}

// ArchiveArtifact files one analyzed artifact into the permanent archive,
// making it browsable by category independent of its session.
//
// The entry id and monotonic archive index come from the snowflake node.
// The entry is written to every snapshot tier; the write succeeds if any
// tier accepts it.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sessionID: The session the artifact belongs to
//   - artifactID: The artifact to archive
//
// Returns the created archive entry, or ErrNoArtifacts if the artifact is
// unknown, or ErrStorageOperation if no tier accepted the write.
func (c *Client) ArchiveArtifact(ctx context.Context, sessionID, artifactID string) (*session.ArchiveEntry, error) {
	state, err := c.RecoverSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var artifact *museum.MemoryArtifact
	for i := range state.Artifacts {
		if state.Artifacts[i].ID == artifactID {
			artifact = &state.Artifacts[i]
			break
		}
	}
	if artifact == nil {
		return nil, NewError("ArchiveArtifact", ErrNoArtifacts)
	}

	var file *museum.UploadedFileRef
	for i := range state.Files {
		if state.Files[i].ID == artifact.FileID {
			file = &state.Files[i]
			break
		}
	}

	categorySlug := category.Normalize(artifact.Category)
	if categorySlug == "" {
		categorySlug = category.Culture
	}

	id := c.node.Generate()
	entry := &session.ArchiveEntry{
		ID:             id.String(),
		Index:          id.Int64(),
		Category:       string(categorySlug),
		Title:          artifact.Title,
		Description:    artifact.Description,
		SourceType:     artifact.SourceType,
		FileID:         artifact.FileID,
		ArtifactID:     artifact.ID,
		Emotion:        artifact.Emotion,
		SentimentScore: artifact.SentimentScore,
		Objects:        artifact.Objects,
		SemanticTags:   artifact.SemanticTags,
		Palette:        artifact.Palette,
		Embedding:      artifact.Embedding,
		CreatedAt:      time.Now().UTC(),
	}
	if file != nil {
		entry.FileName = file.Name
		entry.FileType = file.Type
		entry.FileSize = file.Size
		entry.TextContent = file.TextContent
		if artifact.SourceType == museum.SourceImage {
			entry.ImageDataURL = file.DataURL
			entry.ImageMimeType = file.Type
		}
	}

	if len(c.stores) == 0 {
		return entry, nil
	}

	saved := false
	var saveErr error
	for _, store := range c.stores {
		if err := store.SaveEntry(ctx, entry); err != nil {
			saveErr = errors.Join(saveErr, err)
			continue
		}
		saved = true
	}
	if !saved {
		return nil, NewError("ArchiveArtifact", errors.Join(ErrStorageOperation, saveErr))
	}
	return entry, nil
}

// Entries returns all archive entries filed under a category, ordered by
// archive index. The first tier that answers wins.
//
// Returns ErrInvalidCategory for unknown category values.
func (c *Client) Entries(ctx context.Context, categoryValue string) ([]*session.ArchiveEntry, error) {
	categorySlug := category.Normalize(categoryValue)
	if categorySlug == "" {
		return nil, NewError("Entries", ErrInvalidCategory)
	}

	var lastErr error
	for _, store := range c.stores {
		entries, err := store.ListEntriesByCategory(ctx, string(categorySlug))
		if err != nil {
			lastErr = err
			continue
		}
		return entries, nil
	}
	if lastErr != nil {
		return nil, NewError("Entries", errors.Join(ErrStorageOperation, lastErr))
	}
	return nil, nil
}

// CategoryScene builds a tunnel-gallery scene over every archived entry
// of one category.
//
// The entries' preserved artifacts are re-clustered with the configured
// threshold and laid out in the tunnel mode. Image exhibits are hydrated
// with the archived data URLs so the scene renders without the
// originating sessions.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - categoryValue: Category slug or display label (any casing)
//
// Returns:
//   - *museum.SceneDefinition: The validated category scene
//   - error: ErrInvalidCategory, ErrNoEntries, or ErrInvalidScene
func (c *Client) CategoryScene(ctx context.Context, categoryValue string) (*museum.SceneDefinition, error) {
	categorySlug := category.Normalize(categoryValue)
	if categorySlug == "" {
		return nil, NewError("CategoryScene", ErrInvalidCategory)
	}

	entries, err := c.Entries(ctx, string(categorySlug))
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, NewError("CategoryScene", ErrNoEntries)
	}

	artifacts := make([]museum.MemoryArtifact, len(entries))
	assetByArtifact := make(map[string]string, len(entries))
	for i, entry := range entries {
		artifacts[i] = entry.Artifact()
		if entry.ImageDataURL != "" {
			assetByArtifact[entry.ArtifactID] = entry.ImageDataURL
		}
	}

	clusters := cluster.Build(artifacts, c.config.Pipeline.ClusterThreshold)
	galleryID := "category_" + string(categorySlug)

	sceneDef := scene.Build(layout.ModeTunnel, galleryID, clusters, artifacts, string(categorySlug))
	for i := range sceneDef.Exhibits {
		if dataURL, ok := assetByArtifact[sceneDef.Exhibits[i].ArtifactID]; ok {
			sceneDef.Exhibits[i].AssetURL = dataURL
		}
	}

	if !scene.IsValid(sceneDef) {
		return nil, NewError("CategoryScene", ErrInvalidScene)
	}
	return sceneDef, nil
}

// preferredCategory resolves the category used for layout ordering: an
// explicit per-call option wins over the session's stored selection.
func (c *Client) preferredCategory(state *session.State, opts *BuildOptions) string {
	if opts.PreferredCategory != "" {
		return opts.PreferredCategory
	}
	return state.SelectedCategory
}

// persistSession writes the session's current snapshot to every tier,
// best-effort. A tier failure does not abort the others; the joined error
// is returned wrapped in ErrStorageOperation.
func (c *Client) persistSession(ctx context.Context, sessionID string) error {
	if len(c.stores) == 0 {
		return nil
	}

	state := c.registry.Get(sessionID)
	if state == nil {
		return nil
	}
	snapshot := &session.Snapshot{SessionID: sessionID, State: *state}

	var saveErr error
	for _, store := range c.stores {
		if err := store.SaveSnapshot(ctx, snapshot); err != nil {
			saveErr = errors.Join(saveErr, err)
		}
	}
	if saveErr != nil {
		return NewError("persistSession", errors.Join(ErrStorageOperation, saveErr))
	}
	return nil
}

// Close closes the analyzer and every snapshot store.
func (c *Client) Close() error {
	var closeErr error
	if c.analyzer != nil {
		closeErr = errors.Join(closeErr, c.analyzer.Close())
	}
	for _, store := range c.stores {
		closeErr = errors.Join(closeErr, store.Close())
	}
	return closeErr
}
