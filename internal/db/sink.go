package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-converter/internal/rendering"
)

// ArtifactStore is the subset of DB used by ArtifactSink.
type ArtifactStore interface {
	SaveArtifact(ctx context.Context, runID uuid.UUID, name, markdown, html string) error
}

// ArtifactSink stores pipeline artifacts for a single run.
type ArtifactSink struct {
	ctx      context.Context
	store    ArtifactStore
	runID    uuid.UUID
	renderer rendering.Renderer
}

// NewArtifactSink creates a sink writing to store under runID.
// A nil renderer selects the default Markdown renderer.
func NewArtifactSink(ctx context.Context, store ArtifactStore, runID uuid.UUID, renderer rendering.Renderer) *ArtifactSink {
	if renderer == nil {
		renderer = rendering.NewMarkdown()
	}
	return &ArtifactSink{ctx: ctx, store: store, runID: runID, renderer: renderer}
}

// Write renders text to HTML and saves both forms under name.
func (s *ArtifactSink) Write(name, text string) error {
	html, err := s.renderer.Render(text)
	if err != nil {
		return fmt.Errorf("failed to render artifact %s: %w", name, err)
	}
	return s.store.SaveArtifact(s.ctx, s.runID, name, text, html)
}
