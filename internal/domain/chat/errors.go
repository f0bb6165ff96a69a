package chat

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrNotParticipant     = errors.New("you are not a participant of this room")
	ErrInvalidParticipant = errors.New("contractor and client ids are required")
	ErrEmptyMessage       = errors.New("message content is empty")
)
