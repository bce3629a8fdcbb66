package workflow

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/workflow-builder/pkg/models/store"
	"github.com/google/uuid"
)

const selectColumns = `id, title, steps, created_at, updated_at, is_running`

// Store keeps one row per workflow in the DuckDB workflows table. Steps are
// serialized as a JSON array.
type Store struct {
	db    *sql.DB
	newID func() (uuid.UUID, error)
}

func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &Store{
		db:    db,
		newID: uuid.NewV7,
	}, nil
}

func (s *Store) Create(ctx context.Context, wf *store.Workflow) (string, error) {
	id, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}

	steps, err := json.Marshal(wf.Steps)
	if err != nil {
		return "", fmt.Errorf("marshal steps: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workflows (id, title, steps, created_at, updated_at, is_running)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(),
		wf.Title,
		string(steps),
		nullTime(wf.CreatedAt),
		nullTime(wf.UpdatedAt),
		nullBool(wf.IsRunning),
	)
	if err != nil {
		return "", fmt.Errorf("insert workflow: %w", err)
	}
	return id.String(), nil
}

func (s *Store) Get(ctx context.Context, id string) (*store.Workflow, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM workflows WHERE id = ?`, id)
	wf, err := scanWorkflow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}
	return wf, nil
}

func (s *Store) List(ctx context.Context) ([]*store.Workflow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM workflows ORDER BY created_at DESC NULLS LAST, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query workflows: %w", err)
	}
	defer rows.Close()

	workflows := make([]*store.Workflow, 0)
	for rows.Next() {
		wf, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		workflows = append(workflows, wf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workflows: %w", err)
	}
	return workflows, nil
}

func (s *Store) Update(ctx context.Context, id string, update store.WorkflowUpdate) error {
	steps, err := json.Marshal(update.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE workflows SET title = ?, steps = ?, updated_at = ? WHERE id = ?`,
		update.Title, string(steps), update.UpdatedAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	return requireAffected(result)
}

func (s *Store) SetRunning(ctx context.Context, id string, running bool) error {
	result, err := s.db.ExecContext(ctx, `UPDATE workflows SET is_running = ? WHERE id = ?`, running, id)
	if err != nil {
		return fmt.Errorf("update workflow status: %w", err)
	}
	return requireAffected(result)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM workflows WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkflow(row scanner) (*store.Workflow, error) {
	var (
		wf        store.Workflow
		steps     sql.NullString
		createdAt sql.NullTime
		updatedAt sql.NullTime
		running   sql.NullBool
	)
	if err := row.Scan(&wf.ID, &wf.Title, &steps, &createdAt, &updatedAt, &running); err != nil {
		return nil, err
	}

	if steps.Valid {
		if err := json.Unmarshal([]byte(steps.String), &wf.Steps); err != nil {
			return nil, fmt.Errorf("unmarshal steps: %w", err)
		}
	}
	if createdAt.Valid {
		t := createdAt.Time.UTC()
		wf.CreatedAt = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		wf.UpdatedAt = &t
	}
	if running.Valid {
		r := running.Bool
		wf.IsRunning = &r
	}
	return &wf, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
