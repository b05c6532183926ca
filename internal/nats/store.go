package nats

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName = "beacon_events"
	subjectAll = "beacon.>"

	// EventTypeBeacon is the type of every beacon lifecycle event.
	EventTypeBeacon = "beacon"
)

// SubjectForBeacon returns the wildcard subject for all events of one beacon.
// Example: "beacon.9m4e2mr0ui3e8a215n4g.>"
func SubjectForBeacon(id string) string {
	return fmt.Sprintf("beacon.%s.>", id)
}

// SubjectForEvent returns the subject for an event type of one beacon.
// Example: "beacon.9m4e2mr0ui3e8a215n4g.beacon"
func SubjectForEvent(id, eventType string) string {
	return fmt.Sprintf("beacon.%s.%s", id, eventType)
}

// SetupStream creates or updates the beacon event stream. Beacons are kept
// until discarded, so the stream has no age limit.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectAll},
		Storage:  jetstream.FileStorage,
	})
}
