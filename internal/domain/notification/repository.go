package notification

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles all DB operations for preferences and device tokens
type Repository interface {
	GetPreference(ctx context.Context, userID string) (*Preference, error)
	GetPreferences(ctx context.Context, userIDs []string) ([]Preference, error)
	UpsertPreference(ctx context.Context, p *Preference) error

	RegisterToken(ctx context.Context, userID, token, platform string) (*DeviceToken, error)
	ListTokensByUser(ctx context.Context, userID string) ([]DeviceToken, error)
	ListTokensByUsers(ctx context.Context, userIDs []string) ([]DeviceToken, error)
	DeleteToken(ctx context.Context, userID, token string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetPreference returns nil (not an error) when the user has no stored row;
// callers decide the default per notification kind.
func (r *repository) GetPreference(ctx context.Context, userID string) (*Preference, error) {
	var p Preference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetPreferences(ctx context.Context, userIDs []string) ([]Preference, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var prefs []Preference
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&prefs).Error
	return prefs, err
}

func (r *repository) UpsertPreference(ctx context.Context, p *Preference) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(p).Error
}

// RegisterToken is idempotent per token: re-registering moves the token to
// the given user (a device can be handed to another account on re-login).
func (r *repository) RegisterToken(ctx context.Context, userID, token, platform string) (*DeviceToken, error) {
	dt := &DeviceToken{
		ID:       uuid.New().String(),
		UserID:   userID,
		Token:    token,
		Platform: platform,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform"}),
	}).Create(dt).Error
	if err != nil {
		return nil, err
	}
	return dt, nil
}

func (r *repository) ListTokensByUser(ctx context.Context, userID string) ([]DeviceToken, error) {
	var tokens []DeviceToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tokens).Error
	return tokens, err
}

func (r *repository) ListTokensByUsers(ctx context.Context, userIDs []string) ([]DeviceToken, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var tokens []DeviceToken
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&tokens).Error
	return tokens, err
}

func (r *repository) DeleteToken(ctx context.Context, userID, token string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND device_token = ?", userID, token).
		Delete(&DeviceToken{}).Error
}
