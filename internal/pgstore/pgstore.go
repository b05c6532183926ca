// Package pgstore writes beacons into the projects table of a PostgreSQL
// database.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/mark3labs/beacon/internal/logger"
	"github.com/mark3labs/beacon/internal/store"
)

// DB is the subset of *pgxpool.Pool the submitter needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DB = (*pgxpool.Pool)(nil)

// ErrNotDraft is returned when a save targets a row that is already published.
var ErrNotDraft = errors.New("project is not a draft")

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id                 UUID PRIMARY KEY,
	slug               TEXT NOT NULL,
	owner              TEXT NOT NULL,
	status             TEXT NOT NULL,
	title              TEXT NOT NULL,
	description        TEXT NOT NULL,
	category           TEXT NOT NULL,
	difficulty         TEXT NOT NULL,
	team_size_min      INTEGER NOT NULL,
	team_size_max      INTEGER NOT NULL,
	is_remote          BOOLEAN NOT NULL DEFAULT FALSE,
	is_paid            BOOLEAN NOT NULL DEFAULT FALSE,
	repository_url     TEXT,
	demo_url           TEXT,
	tags               TEXT[] NOT NULL DEFAULT '{}',
	project_type       TEXT NOT NULL,
	type_specific_data JSONB NOT NULL DEFAULT '{}',
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const upsert = `
INSERT INTO projects (
	id, slug, owner, status, title, description, category, difficulty,
	team_size_min, team_size_max, is_remote, is_paid, repository_url, demo_url,
	tags, project_type, type_specific_data
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
ON CONFLICT (id) DO UPDATE SET
	slug = EXCLUDED.slug,
	status = EXCLUDED.status,
	title = EXCLUDED.title,
	description = EXCLUDED.description,
	category = EXCLUDED.category,
	difficulty = EXCLUDED.difficulty,
	team_size_min = EXCLUDED.team_size_min,
	team_size_max = EXCLUDED.team_size_max,
	is_remote = EXCLUDED.is_remote,
	is_paid = EXCLUDED.is_paid,
	repository_url = EXCLUDED.repository_url,
	demo_url = EXCLUDED.demo_url,
	tags = EXCLUDED.tags,
	project_type = EXCLUDED.project_type,
	type_specific_data = EXCLUDED.type_specific_data,
	updated_at = now()
WHERE projects.status = 'draft'`

// Submitter writes wizard payloads as rows of the projects table. Draft saves
// from one wizard update the same row; the final submit publishes it.
type Submitter struct {
	db    DB
	owner string

	mu      sync.Mutex
	draftID string
}

// Connect opens a pool for databaseURL and verifies it.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// New returns a submitter writing rows owned by owner.
func New(db DB, owner string) *Submitter {
	return &Submitter{db: db, owner: owner}
}

// EnsureSchema creates the projects table when it does not already exist.
func (s *Submitter) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating projects table: %w", err)
	}
	return nil
}

// Submit revalidates p and publishes it.
func (s *Submitter) Submit(ctx context.Context, p beacon.Payload) error {
	if err := p.Validate().Err(); err != nil {
		return fmt.Errorf("invalid beacon: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.draftID
	if id == "" {
		id = uuid.NewString()
	}
	if err := s.write(ctx, id, store.StatusPublished, p); err != nil {
		return err
	}
	s.draftID = ""
	logger.Info("Published project %s", id)
	return nil
}

// SaveDraft upserts p as this wizard's draft row.
func (s *Submitter) SaveDraft(ctx context.Context, p beacon.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.draftID
	if id == "" {
		id = uuid.NewString()
	}
	if err := s.write(ctx, id, store.StatusDraft, p); err != nil {
		return err
	}
	s.draftID = id
	return nil
}

func (s *Submitter) write(ctx context.Context, id, status string, p beacon.Payload) error {
	typed := []byte("{}")
	if p.TypeSpecificData != nil {
		data, err := json.Marshal(p.TypeSpecificData)
		if err != nil {
			return fmt.Errorf("marshaling type_specific_data: %w", err)
		}
		typed = data
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	tag, err := s.db.Exec(ctx, upsert,
		id, store.Slug(p.Title), s.owner, status,
		p.Title, p.Description, p.Category, p.Difficulty,
		p.TeamSizeMin, p.TeamSizeMax, p.IsRemote, p.IsPaid,
		nullable(p.RepositoryURL), nullable(p.DemoURL),
		tags, string(p.ProjectType), typed,
	)
	if err != nil {
		return fmt.Errorf("writing project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotDraft, id)
	}
	return nil
}

// Status returns the status column of the row with id.
func (s *Submitter) Status(ctx context.Context, id string) (string, error) {
	var status string
	err := s.db.QueryRow(ctx, `SELECT status FROM projects WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", store.ErrBeaconNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("reading project: %w", err)
	}
	return status, nil
}

// DraftID returns the id of the current draft row, if any.
func (s *Submitter) DraftID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftID
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
