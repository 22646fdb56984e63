// Package store persists the results produced by model-backed tools.
package store

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned when a result does not exist.
var ErrNotFound = errors.New("result not found")

// Record is one stored tool run.
type Record struct {
	// ID identifies the record. Assigned on save when empty.
	ID string `json:"id"`
	// Tool is the tool name the record belongs to.
	Tool string `json:"tool"`
	// ToolVersion is the version of the tool that produced the output.
	// Results from older versions can be discarded on upgrade.
	ToolVersion string `json:"tool_version"`
	// Input is the tool input.
	Input string `json:"input,omitempty"`
	// Output is the tool output.
	Output string `json:"output"`
	// Model is the name of the model that produced the output.
	Model string `json:"model,omitempty"`
	// Metadata carries extra fields, such as token counts.
	Metadata map[string]any `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ResultStore stores tool run records.
type ResultStore interface {
	// Save persists the record, assigning an ID when it has none, and
	// returns the ID.
	Save(ctx context.Context, rec *Record) (string, error)
	// Get returns the record by tool name and ID, or ErrNotFound.
	Get(ctx context.Context, tool, id string) (*Record, error)
	// List returns the IDs of all records for the tool.
	List(ctx context.Context, tool string) ([]string, error)
	// Reset removes all records for the tool.
	Reset(ctx context.Context, tool string) error
	// Cleanup removes records for the tool older than the given age and
	// returns the number removed.
	Cleanup(ctx context.Context, tool string, olderThan time.Duration) (uint32, error)
}
