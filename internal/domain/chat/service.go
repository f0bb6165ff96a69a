package chat

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"jobmarket/internal/domain/contractor"
	"jobmarket/internal/domain/job"
)

// welcomeMessage is the deterministic first message of a reconciled room.
const welcomeMessage = "Great news! I've been selected for this job. Let's discuss the details and get started!"

// JobSource is the slice of the job repository the reconciliation sweep
// needs.
type JobSource interface {
	ListAssigned(ctx context.Context) ([]job.Posting, error)
}

// ContractorDirectory resolves contractor profiles for welcome-message
// attribution.
type ContractorDirectory interface {
	GetByID(ctx context.Context, id string) (*contractor.Profile, error)
}

// MessageNotifier is told about every stored message so pushes can go out.
// Implementations must not block message delivery.
type MessageNotifier interface {
	NotifyNewMessage(ctx context.Context, msg *Message, room *Room)
}

// ReconcileError records one job the sweep could not repair.
type ReconcileError struct {
	JobID string `json:"job_id"`
	Error string `json:"error"`
}

// ReconcileResult aggregates one reconciliation sweep.
type ReconcileResult struct {
	Created  int              `json:"created"`
	Existing int              `json:"existing"`
	Errors   []ReconcileError `json:"errors"`
}

// Service handles chat business logic
type Service struct {
	repo        Repository
	jobs        JobSource
	contractors ContractorDirectory
	hub         *Hub
	notifier    MessageNotifier
}

func NewService(repo Repository, jobs JobSource, contractors ContractorDirectory, hub *Hub, notifier MessageNotifier) *Service {
	return &Service{
		repo:        repo,
		jobs:        jobs,
		contractors: contractors,
		hub:         hub,
		notifier:    notifier,
	}
}

// GetOrCreateGeneralRoom returns the pair's single general room, creating it
// when absent. Safe under concurrent callers: the insert is idempotent on
// the pair key, and the loser of a race re-reads the winner's row.
func (s *Service) GetOrCreateGeneralRoom(ctx context.Context, contractorID, clientID string) (*Room, bool, error) {
	if contractorID == "" || clientID == "" {
		return nil, false, ErrInvalidParticipant
	}

	existing, err := s.repo.GetGeneralRoom(ctx, contractorID, clientID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	room := &Room{
		ID:           uuid.New().String(),
		ContractorID: contractorID,
		ClientID:     clientID,
		PairKey:      nullString(GeneralPairKey(contractorID, clientID)),
	}
	created, err := s.repo.CreateRoomIdempotent(ctx, room)
	if err != nil {
		return nil, false, err
	}
	if !created {
		// Lost a creation race; the row exists now.
		winner, err := s.repo.GetGeneralRoom(ctx, contractorID, clientID)
		if err != nil {
			return nil, false, err
		}
		if winner == nil {
			return nil, false, fmt.Errorf("room insert skipped but no existing room for pair %s", GeneralPairKey(contractorID, clientID))
		}
		return winner, false, nil
	}
	return room, true, nil
}

// SendMessage stores a message, broadcasts it to connected clients and
// hands it to the notifier for push delivery.
func (s *Service) SendMessage(ctx context.Context, roomID, senderUserID, senderName, content string) (*Message, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}

	room, err := s.repo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if senderUserID != room.ContractorID && senderUserID != room.ClientID {
		return nil, ErrNotParticipant
	}

	msg := &Message{
		ID:           uuid.New().String(),
		RoomID:       roomID,
		SenderUserID: senderUserID,
		SenderName:   senderName,
		Content:      content,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToUsers([]string{room.ContractorID, room.ClientID}, &WSEvent{
			Type:    EventNewMessage,
			RoomID:  roomID,
			Payload: msg,
		})
	}
	if s.notifier != nil {
		s.notifier.NotifyNewMessage(ctx, msg, room)
	}
	return msg, nil
}

// ListMessages returns a page of room history to a participant.
func (s *Service) ListMessages(ctx context.Context, roomID, userID string, limit, offset int) ([]Message, error) {
	room, err := s.repo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if userID != room.ContractorID && userID != room.ClientID {
		return nil, ErrNotParticipant
	}
	return s.repo.ListMessages(ctx, roomID, limit, offset)
}

// ListRooms returns all rooms the user participates in.
func (s *Service) ListRooms(ctx context.Context, userID string) ([]Room, error) {
	return s.repo.ListRoomsByUser(ctx, userID)
}

// ReconcileAssignedJobs ensures every assigned job has a general room for
// its (contractor, client) pair. Individual failures are collected; the
// sweep never stops early.
func (s *Service) ReconcileAssignedJobs(ctx context.Context) (*ReconcileResult, error) {
	jobs, err := s.jobs.ListAssigned(ctx)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{}
	for i := range jobs {
		j := &jobs[i]
		if !j.SelectedContractorID.Valid || j.SelectedContractorID.String == "" {
			result.Errors = append(result.Errors, ReconcileError{
				JobID: j.ID,
				Error: "job has no selected contractor",
			})
			continue
		}

		contractorID := j.SelectedContractorID.String
		room, created, err := s.GetOrCreateGeneralRoom(ctx, contractorID, j.PostedByUserID)
		if err != nil {
			result.Errors = append(result.Errors, ReconcileError{JobID: j.ID, Error: err.Error()})
			continue
		}
		if !created {
			result.Existing++
			continue
		}

		result.Created++
		s.writeWelcomeMessage(ctx, room, j)
	}

	log.Printf("chat_reconcile_done created=%d existing=%d errors=%d", result.Created, result.Existing, len(result.Errors))
	return result, nil
}

// writeWelcomeMessage seeds a fresh room. Failure is logged, never fatal:
// the room itself must survive.
func (s *Service) writeWelcomeMessage(ctx context.Context, room *Room, j *job.Posting) {
	senderName := "Contractor"
	if s.contractors != nil {
		if profile, err := s.contractors.GetByID(ctx, room.ContractorID); err == nil {
			senderName = profile.FullName
		}
	}

	msg := &Message{
		ID:             uuid.New().String(),
		RoomID:         room.ID,
		SenderUserID:   room.ContractorID,
		SenderName:     senderName,
		Content:        welcomeMessage,
		JobReferenceID: nullString(j.ID),
		JobContext:     fmt.Sprintf("%s - %s", j.CategoryName, j.Description),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		log.Printf("chat_welcome_message_failed room_id=%s job_id=%s err=%v", room.ID, j.ID, err)
	}
}
