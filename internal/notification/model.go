package notification

import "time"

// InAppNotification is one bell-icon entry for one user.
type InAppNotification struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	Title        string     `gorm:"not null" json:"title"`
	Body         string     `json:"body"`
	SubmissionID *uint      `gorm:"index" json:"submission_id,omitempty"`
	Action       string     `gorm:"size:30" json:"action,omitempty"`
	IsRead       bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt       *time.Time `json:"read_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (InAppNotification) TableName() string {
	return "in_app_notifications"
}

// FCMDeviceToken maps a user to a push-capable device. Dead tokens are
// pruned when FCM reports them unregistered.
type FCMDeviceToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"not null;unique" json:"token"`
	Platform  string    `gorm:"size:20" json:"platform"` // android | ios | web
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FCMDeviceToken) TableName() string {
	return "fcm_device_tokens"
}
