package contractor

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository handles all DB operations for contractor profiles
type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	// ListAll loads every profile. Dispatch works on a full snapshot;
	// at larger scale this is the place to add pagination.
	ListAll(ctx context.Context) ([]Profile, error)
	List(ctx context.Context, q ListQuery) ([]Profile, int64, error)
	UpdateAvailability(ctx context.Context, id, status, message string, busyUntil *time.Time) error
}

// ListQuery captures the DB-level part of listing filters. Array-overlap
// filters on services/locations are applied in the service layer because
// those columns are JSON-serialized on both postgres and sqlite.
type ListQuery struct {
	Search    string
	MinRating float64
	SortBy    string // rating | experience | name
	SortDesc  bool
	Limit     int
	Offset    int
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	err := r.db.WithContext(ctx).Find(&profiles).Error
	return profiles, err
}

func (r *repository) List(ctx context.Context, q ListQuery) ([]Profile, int64, error) {
	base := r.db.WithContext(ctx).Model(&Profile{})

	if q.Search != "" {
		like := "%" + q.Search + "%"
		base = base.Where("full_name LIKE ? OR bio LIKE ?", like, like)
	}
	if q.MinRating > 0 {
		base = base.Where("average_rating >= ?", q.MinRating)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := sortColumn(q.SortBy)
	if q.SortDesc {
		order += " DESC"
	}

	query := base.Order(order)
	if q.Limit > 0 {
		query = query.Limit(q.Limit).Offset(q.Offset)
	}

	var profiles []Profile
	if err := query.Find(&profiles).Error; err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (r *repository) UpdateAvailability(ctx context.Context, id, status, message string, busyUntil *time.Time) error {
	updates := map[string]any{
		"availability_status":  status,
		"availability_message": message,
		"busy_until":           busyUntil,
	}
	res := r.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case "experience":
		return "years_experience"
	case "name":
		return "full_name"
	default:
		return "average_rating"
	}
}
