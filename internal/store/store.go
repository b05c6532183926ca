// Package store keeps beacons in an append-only JetStream event log and
// reduces the log into a catalog on load.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/mark3labs/beacon/internal/logger"
	"github.com/mark3labs/beacon/internal/nats"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/xid"
)

// Event actions.
const (
	ActionPublish = "publish"
	ActionDraft   = "draft"
	ActionDiscard = "discard"
)

// Record statuses.
const (
	StatusDraft     = beacon.StatusDraft
	StatusPublished = "published"
)

// minPrefixLen is the shortest ID prefix Get resolves.
const minPrefixLen = 8

var (
	ErrBeaconNotFound   = errors.New("beacon not found")
	ErrAmbiguousID      = errors.New("ambiguous beacon id")
	ErrAlreadyPublished = errors.New("beacon already published")
)

// Event is one entry of the beacon event log.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Beacon    string          `json:"beacon"`
	Type      string          `json:"type"`
	Action    string          `json:"action"`
	Meta      json.RawMessage `json:"meta,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// eventMeta is carried by publish and draft events.
type eventMeta struct {
	Author string `json:"author"`
	Slug   string `json:"slug"`
}

// Record is a beacon as reconstructed from the log.
type Record struct {
	ID        string         `json:"id"`
	Slug      string         `json:"slug"`
	Author    string         `json:"author"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Payload   beacon.Payload `json:"payload"`
}

// Catalog is the reduced state of the log.
type Catalog struct {
	Beacons map[string]*Record `json:"beacons"`
}

// Apply reduces one event into the catalog. Events that do not decode are
// skipped.
func (c *Catalog) Apply(event Event) {
	if event.Type != nats.EventTypeBeacon {
		return
	}

	switch event.Action {
	case ActionPublish, ActionDraft:
		var meta eventMeta
		if len(event.Meta) > 0 {
			if err := json.Unmarshal(event.Meta, &meta); err != nil {
				logger.Warn("Skipping beacon event %s with bad meta: %v", event.ID, err)
				return
			}
		}
		var p beacon.Payload
		if err := json.Unmarshal(event.Data, &p); err != nil {
			logger.Warn("Skipping beacon event %s with bad payload: %v", event.ID, err)
			return
		}

		rec, exists := c.Beacons[event.Beacon]
		if !exists {
			rec = &Record{ID: event.Beacon, CreatedAt: event.Timestamp}
			c.Beacons[event.Beacon] = rec
		}
		if rec.Status == StatusPublished {
			// Published beacons are final.
			return
		}
		rec.Slug = meta.Slug
		rec.Author = meta.Author
		rec.Payload = p
		rec.UpdatedAt = event.Timestamp
		rec.Status = StatusDraft
		if event.Action == ActionPublish {
			rec.Status = StatusPublished
			rec.Payload.Status = ""
		}

	case ActionDiscard:
		if rec, ok := c.Beacons[event.Beacon]; ok && rec.Status == StatusDraft {
			delete(c.Beacons, event.Beacon)
		}
	}
}

// Store manages beacons through JetStream event sourcing.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
	now    func() time.Time
}

// NewStore creates a store over the beacon event stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{js: js, stream: stream, now: time.Now}
}

// PublishEvent appends an event to the log.
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.ID == "" {
		event.ID = xid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Beacon, event.Type)
	logger.Debug("Publishing event: beacon=%s action=%s", event.Beacon, event.Action)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	return ack, nil
}

// Publish validates p and stores it as a published beacon. When id names an
// existing draft, the draft is promoted; an empty id creates a new beacon.
func (s *Store) Publish(ctx context.Context, id, author string, p beacon.Payload) (*Record, error) {
	p.Status = ""
	if err := p.Validate().Err(); err != nil {
		return nil, fmt.Errorf("invalid beacon: %w", err)
	}
	if id != "" {
		rec, err := s.Get(ctx, id)
		switch {
		case errors.Is(err, ErrBeaconNotFound):
		case err != nil:
			return nil, err
		case rec.Status == StatusPublished:
			return nil, fmt.Errorf("%w: %s", ErrAlreadyPublished, rec.ID)
		default:
			id = rec.ID
		}
	}
	return s.write(ctx, ActionPublish, id, author, p)
}

// SaveDraft stores p as a draft. Drafts are not validated. An empty id creates
// a new draft; otherwise the draft with that id is overwritten.
func (s *Store) SaveDraft(ctx context.Context, id, author string, p beacon.Payload) (*Record, error) {
	p.Status = StatusDraft
	if p.ProjectType == "" {
		return nil, errors.New("draft needs a project type")
	}
	return s.write(ctx, ActionDraft, id, author, p)
}

func (s *Store) write(ctx context.Context, action, id, author string, p beacon.Payload) (*Record, error) {
	if id == "" {
		id = newRecordID()
	}
	now := s.now()

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshaling payload: %w", err)
	}
	meta, _ := json.Marshal(eventMeta{Author: author, Slug: Slug(p.Title)})

	event := Event{
		Timestamp: now,
		Beacon:    id,
		Type:      nats.EventTypeBeacon,
		Action:    action,
		Meta:      meta,
		Data:      data,
	}
	if _, err := s.PublishEvent(ctx, event); err != nil {
		return nil, err
	}

	status := StatusDraft
	if action == ActionPublish {
		status = StatusPublished
	}
	return &Record{
		ID:        id,
		Slug:      Slug(p.Title),
		Author:    author,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
		Payload:   p,
	}, nil
}

// Discard removes a draft. Published beacons cannot be discarded.
func (s *Store) Discard(ctx context.Context, id string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if rec.Status != StatusDraft {
		return fmt.Errorf("%w: %s", ErrAlreadyPublished, rec.ID)
	}
	_, err = s.PublishEvent(ctx, Event{
		Beacon: rec.ID,
		Type:   nats.EventTypeBeacon,
		Action: ActionDiscard,
	})
	return err
}

// LoadCatalog replays the whole log into a catalog.
func (s *Store) LoadCatalog(ctx context.Context) (*Catalog, error) {
	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}
	defer func() {
		if err := s.stream.DeleteConsumer(context.WithoutCancel(ctx), consumer.CachedInfo().Name); err != nil {
			logger.Debug("Deleting catalog consumer: %v", err)
		}
	}()

	catalog := &Catalog{Beacons: make(map[string]*Record)}

	const batchSize = 1000
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				meta, _ := msg.Metadata()
				if meta != nil {
					logger.Warn("Skipping malformed event (seq=%d): %v", meta.Sequence.Stream, err)
				}
				_ = msg.Ack()
				continue
			}
			catalog.Apply(event)
			_ = msg.Ack()
		}
		if err := msgs.Error(); err != nil {
			logger.Debug("Fetch ended: %v", err)
		}
		if count < batchSize {
			break
		}
	}

	logger.Debug("Loaded catalog: %d beacons", len(catalog.Beacons))
	return catalog, nil
}

// List returns the beacons with the given status, newest first. An empty
// status lists everything.
func (s *Store) List(ctx context.Context, status string) ([]*Record, error) {
	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	var out []*Record
	for _, rec := range catalog.Beacons {
		if status == "" || rec.Status == status {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Get resolves a beacon by full ID, by ID prefix of at least eight
// characters, or by slug.
func (s *Store) Get(ctx context.Context, ref string) (*Record, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrBeaconNotFound
	}
	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if rec, ok := catalog.Beacons[ref]; ok {
		return rec, nil
	}

	var matches []*Record
	for id, rec := range catalog.Beacons {
		if (len(ref) >= minPrefixLen && strings.HasPrefix(id, ref)) || rec.Slug == ref {
			matches = append(matches, rec)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrBeaconNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return nil, fmt.Errorf("%w: %q matches %d beacons", ErrAmbiguousID, ref, len(matches))
}

// Slug returns the URL slug for a beacon title.
func Slug(title string) string {
	s := slug.Make(title)
	if s == "" {
		return "beacon"
	}
	return s
}
