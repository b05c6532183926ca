package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/beacon/internal/config"
	"github.com/mark3labs/beacon/internal/form"
	"github.com/mark3labs/beacon/internal/logger"
	"github.com/mark3labs/beacon/internal/nats"
	"github.com/mark3labs/beacon/internal/pgstore"
	"github.com/mark3labs/beacon/internal/store"
)

// errNeedsNATS is returned by commands that browse the beacon log.
var errNeedsNATS = errors.New("this command requires the nats backend")

// backend is the storage the CLI writes to. Store is nil for postgres.
type backend struct {
	Store  *store.Store
	Collab form.Collaborators

	resume func(id string)
	close  func() error
}

// Resume makes the next saves target an existing draft.
func (b *backend) Resume(id string) {
	if b.resume != nil {
		b.resume(id)
	}
}

// Close releases connections and stops any embedded server.
func (b *backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// openBackend connects to the configured storage.
func openBackend(ctx context.Context, c *config.Config) (*backend, error) {
	switch c.Backend {
	case config.BackendPostgres:
		return openPostgres(ctx, c)
	default:
		return openNATS(ctx, c)
	}
}

func openNATS(ctx context.Context, c *config.Config) (*backend, error) {
	logger.Debug("Opening NATS store in %s", c.DataDir)
	emb, err := nats.Open(ctx, c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open beacon store: %w", err)
	}
	st := store.NewStore(emb.JS, emb.Stream)
	sub := store.NewSubmitter(st, c.Author)
	return &backend{
		Store:  st,
		Collab: form.Collaborators{Submit: sub.Submit, SaveDraft: sub.SaveDraft},
		resume: sub.Resume,
		close:  emb.Close,
	}, nil
}

func openPostgres(ctx context.Context, c *config.Config) (*backend, error) {
	pool, err := pgstore.Connect(ctx, c.DatabaseURL)
	if err != nil {
		return nil, err
	}
	sub := pgstore.New(pool, c.Author)
	if err := sub.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &backend{
		Collab: form.Collaborators{Submit: sub.Submit, SaveDraft: sub.SaveDraft},
		close: func() error {
			pool.Close()
			return nil
		},
	}, nil
}

// requireStore returns the beacon log or errNeedsNATS.
func (b *backend) requireStore() (*store.Store, error) {
	if b.Store == nil {
		return nil, errNeedsNATS
	}
	return b.Store, nil
}
