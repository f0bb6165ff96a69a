package notification

import "errors"

var (
	// ErrMissingCredentials means no push provider is configured; dispatch
	// aborts before any send.
	ErrMissingCredentials = errors.New("push provider credentials are not configured")

	// ErrInvalidJob rejects a webhook payload without a job id.
	ErrInvalidJob = errors.New("job payload is missing or has no id")

	// ErrInvalidMessage rejects a chat event without a message or room id.
	ErrInvalidMessage = errors.New("chat message payload is missing required fields")

	ErrRoomNotFound = errors.New("chat room not found for message")
)
