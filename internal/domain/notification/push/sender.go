// Package push abstracts push-notification providers behind one Sender
// interface so the dispatcher and its tests never talk HTTP directly.
package push

import "context"

// Payload is the provider-agnostic notification content.
type Payload struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Sound string            `json:"sound,omitempty"`
	Badge int               `json:"badge,omitempty"`
	Data  map[string]string `json:"data,omitempty"`
}

// Result is the provider's per-token outcome.
type Result struct {
	OK         bool
	StatusCode int
	Body       string
}

// Sender delivers one payload to one device token. Implementations must be
// safe for concurrent use; the dispatcher fans out across tokens.
type Sender interface {
	Send(ctx context.Context, deviceToken string, p *Payload) (*Result, error)
}
