package notification

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) CreateBatch(items []InAppNotification) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB.Create(&items).Error
}

func (r *Repository) GetForUser(userID uint, unreadOnly bool, limit, offset int) ([]InAppNotification, int64, error) {
	q := r.DB.Model(&InAppNotification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = false")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []InAppNotification
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *Repository) MarkRead(userID, notificationID uint) error {
	now := time.Now()
	return r.DB.Model(&InAppNotification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

func (r *Repository) MarkAllRead(userID uint) error {
	now := time.Now()
	return r.DB.Model(&InAppNotification{}).
		Where("user_id = ? AND is_read = false", userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

// UpsertDeviceToken re-binds the token to its latest user on conflict, so a
// shared device follows whoever logged in last.
func (r *Repository) UpsertDeviceToken(t *FCMDeviceToken) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "updated_at"}),
	}).Create(t).Error
}

func (r *Repository) GetTokensForUsers(userIDs []uint) ([]FCMDeviceToken, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var tokens []FCMDeviceToken
	err := r.DB.Where("user_id IN ?", userIDs).Find(&tokens).Error
	return tokens, err
}

func (r *Repository) DeleteTokens(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.DB.Where("token IN ?", tokens).Delete(&FCMDeviceToken{}).Error
}
