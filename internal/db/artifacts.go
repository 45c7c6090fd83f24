package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveArtifact stores both renderings of a named artifact for a run.
// Saving the same name twice replaces the earlier content.
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, name, markdown, html string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO conversion_artifacts (run_id, name, markdown, html)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, name) DO UPDATE SET markdown = $3, html = $4, created_at = NOW()`,
		runID, name, markdown, html,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", name, err)
	}
	return nil
}

// GetArtifact retrieves an artifact by run ID and name. It returns nil when absent.
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, name string) (*Artifact, error) {
	var a Artifact
	err := db.pool.QueryRow(ctx,
		`SELECT id, run_id, name, markdown, html, created_at
		 FROM conversion_artifacts WHERE run_id = $1 AND name = $2`,
		runID, name,
	).Scan(&a.ID, &a.RunID, &a.Name, &a.Markdown, &a.HTML, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", name, err)
	}
	return &a, nil
}

// ListArtifacts returns the artifacts of a run in the order they were written.
func (db *DB) ListArtifacts(ctx context.Context, runID uuid.UUID) ([]Artifact, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, run_id, name, markdown, html, created_at
		 FROM conversion_artifacts WHERE run_id = $1 ORDER BY created_at ASC, name ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.ID, &a.RunID, &a.Name, &a.Markdown, &a.HTML, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return artifacts, nil
}
