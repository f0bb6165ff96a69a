package chat

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles all DB operations for the chat domain
type Repository interface {
	// CreateRoomIdempotent inserts the room unless its pair_key already
	// exists. Returns true when a new row was written. The insert relies
	// on the unique index, not a prior read, so concurrent callers for
	// the same pair cannot both create.
	CreateRoomIdempotent(ctx context.Context, room *Room) (bool, error)
	GetGeneralRoom(ctx context.Context, contractorID, clientID string) (*Room, error)
	GetRoomByID(ctx context.Context, id string) (*Room, error)
	Participants(ctx context.Context, roomID string) (contractorID, clientID string, err error)
	ListRoomsByUser(ctx context.Context, userID string) ([]Room, error)

	CreateMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, roomID string, limit, offset int) ([]Message, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRoomIdempotent(ctx context.Context, room *Room) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pair_key"}},
		DoNothing: true,
	}).Create(room)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) GetGeneralRoom(ctx context.Context, contractorID, clientID string) (*Room, error) {
	var room Room
	err := r.db.WithContext(ctx).
		Where("contractor_id = ? AND client_id = ? AND job_id IS NULL", contractorID, clientID).
		First(&room).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *repository) GetRoomByID(ctx context.Context, id string) (*Room, error) {
	var room Room
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *repository) Participants(ctx context.Context, roomID string) (string, string, error) {
	room, err := r.GetRoomByID(ctx, roomID)
	if err != nil {
		return "", "", err
	}
	return room.ContractorID, room.ClientID, nil
}

func (r *repository) ListRoomsByUser(ctx context.Context, userID string) ([]Room, error) {
	var rooms []Room
	err := r.db.WithContext(ctx).
		Where("contractor_id = ? OR client_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&rooms).Error
	return rooms, err
}

func (r *repository) CreateMessage(ctx context.Context, msg *Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *repository) ListMessages(ctx context.Context, roomID string, limit, offset int) ([]Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var messages []Message
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, err
}
