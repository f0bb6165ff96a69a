package job

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("job posting not found")

// Repository handles all DB operations for job postings
type Repository interface {
	Create(ctx context.Context, p *Posting) error
	GetByID(ctx context.Context, id string) (*Posting, error)
	// ListAssigned returns jobs with status "assigned" and a non-null
	// selected contractor, the input of the chat-room reconciliation sweep.
	ListAssigned(ctx context.Context) ([]Posting, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Assign(ctx context.Context, id, contractorID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Posting) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Posting, error) {
	var p Posting
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListAssigned(ctx context.Context) ([]Posting, error) {
	var jobs []Posting
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusAssigned).
		Where("selected_contractor_id IS NOT NULL").
		Find(&jobs).Error
	return jobs, err
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).Model(&Posting{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Assign(ctx context.Context, id, contractorID string) error {
	res := r.db.WithContext(ctx).Model(&Posting{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":                 StatusAssigned,
			"selected_contractor_id": contractorID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
