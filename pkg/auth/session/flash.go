package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FlashKind separates success notices from error notices.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot message shown on the client's next render.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

type flashStore interface {
	Append(ctx context.Context, key string, ttl time.Duration, values ...string) error
	Drain(ctx context.Context, key string) ([]string, error)
	FlashKey(accessID string) string
}

// Flashes stores per-session one-shot messages.
type Flashes struct {
	store flashStore
	ttl   time.Duration
}

// NewFlashes builds a flash store whose entries expire with the session.
func NewFlashes(store flashStore, ttl time.Duration) *Flashes {
	return &Flashes{store: store, ttl: ttl}
}

// Push queues a message for the session.
func (f *Flashes) Push(ctx context.Context, accessID string, flash Flash) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	raw, err := json.Marshal(flash)
	if err != nil {
		return fmt.Errorf("encoding flash: %w", err)
	}
	return f.store.Append(ctx, f.store.FlashKey(accessID), f.ttl, string(raw))
}

// Pop returns and clears every queued message for the session.
func (f *Flashes) Pop(ctx context.Context, accessID string) ([]Flash, error) {
	if strings.TrimSpace(accessID) == "" {
		return nil, fmt.Errorf("access id is required")
	}
	raw, err := f.store.Drain(ctx, f.store.FlashKey(accessID))
	if err != nil {
		return nil, err
	}
	out := make([]Flash, 0, len(raw))
	for _, entry := range raw {
		var flash Flash
		if err := json.Unmarshal([]byte(entry), &flash); err != nil {
			continue
		}
		out = append(out, flash)
	}
	return out, nil
}
