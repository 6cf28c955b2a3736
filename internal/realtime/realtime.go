package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Channel is the postgres NOTIFY channel the table triggers publish on.
const Channel = "realtime"

type EventKind string

const (
	Insert EventKind = "INSERT"
	Update EventKind = "UPDATE"
	Delete EventKind = "DELETE"
)

var ErrMalformedEvent = errors.New("malformed realtime event")

// Event is one row change. Record is the row as JSON.
type Event struct {
	Table  string          `json:"table"`
	Kind   EventKind       `json:"type"`
	Record json.RawMessage `json:"record"`
}

type Handler func(Event)

type Subscription interface {
	// Unsubscribe stops delivery and waits for the handler to return. Safe to call twice.
	Unsubscribe()
}

//go:generate go run go.uber.org/mock/mockgen -source=realtime.go -destination=mocks/mock.go
type Client interface {
	// Subscribe delivers events for table and kind to handler until ctx is done
	// or the subscription is released. Handler calls are sequential.
	Subscribe(ctx context.Context, table string, kind EventKind, handler Handler) (Subscription, error)
}

// Decode parses a notification payload.
func Decode(payload string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if ev.Table == "" || ev.Kind == "" || len(ev.Record) == 0 {
		return Event{}, ErrMalformedEvent
	}
	return ev, nil
}

// Matches reports whether ev is what a subscription on table/kind wants.
func (ev Event) Matches(table string, kind EventKind) bool {
	return ev.Table == table && ev.Kind == kind
}
