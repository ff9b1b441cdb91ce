package core

import (
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/layout"
)

// BuildOptions contains per-call options for scene builds.
//
// Zero values mean "use the client configuration": the configured layout
// mode, the configured cluster threshold, and the session's stored
// category selection.
type BuildOptions struct {
	// PreferredCategory reorders clusters matching this category to the
	// front of the layout. Overrides the session's stored selection.
	PreferredCategory string

	// LayoutMode selects the spatial arrangement for this build.
	LayoutMode layout.Mode

	// Threshold overrides the clustering similarity threshold.
	Threshold float64
}

// BuildOption is a functional option for scene builds.
type BuildOption func(*BuildOptions)

// WithPreferredCategory sets the preferred category for cluster ordering.
//
// Parameters:
//   - categoryValue: Category slug or display label (any casing)
//
// Example:
//
//	sceneDef, err := client.BuildScene(ctx, sessionID,
//	    core.WithPreferredCategory("travel"))
func WithPreferredCategory(categoryValue string) BuildOption {
	return func(opts *BuildOptions) {
		opts.PreferredCategory = categoryValue
	}
}

// WithLayoutMode sets the layout mode for this build.
//
// Parameters:
//   - mode: layout.ModeRadial or layout.ModeTunnel
func WithLayoutMode(mode layout.Mode) BuildOption {
	return func(opts *BuildOptions) {
		opts.LayoutMode = mode
	}
}

// WithThreshold overrides the clustering similarity threshold for this
// build. Values must be positive; non-positive values are ignored.
func WithThreshold(threshold float64) BuildOption {
	return func(opts *BuildOptions) {
		if threshold > 0 {
			opts.Threshold = threshold
		}
	}
}

// applyBuildOptions resolves per-call options against the client
// configuration.
func (c *Client) applyBuildOptions(options []BuildOption) *BuildOptions {
	opts := &BuildOptions{
		LayoutMode: c.config.Pipeline.LayoutMode,
		Threshold:  c.config.Pipeline.ClusterThreshold,
	}
	for _, option := range options {
		option(opts)
	}
	if !opts.LayoutMode.IsValid() {
		opts.LayoutMode = layout.ModeRadial
	}
	return opts
}
