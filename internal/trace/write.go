package trace

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run identifies one recorded chain fold.
type Run struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Step is one recorded fold step. Negation is empty for the initial
// step, which returns the chain's first entry unjoined.
type Step struct {
	Seq      int
	URL      string
	Negation string
}

// BeginRun registers a new fold run and returns it.
// Run IDs are UUIDv7, so creation order sorts lexically.
func (s *Store) BeginRun(ctx context.Context, name string) (Run, error) {
	run := Run{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, name, created_at)
		VALUES (?, ?, ?)
	`, run.ID, run.Name, run.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}

	return run, nil
}

// AppendStep records one fold step under a run.
// Steps are keyed by (run, seq); recording the same seq twice is an error.
func (s *Store) AppendStep(ctx context.Context, runID string, step Step) error {
	negation := sql.NullString{String: step.Negation, Valid: step.Negation != ""}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO steps (run_id, seq, url, negation)
		VALUES (?, ?, ?, ?)
	`, runID, step.Seq, step.URL, negation)
	if err != nil {
		return fmt.Errorf("append step %d: %w", step.Seq, err)
	}

	return nil
}
