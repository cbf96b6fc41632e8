package department

import "time"

type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:20;unique;not null" json:"code"`
	Name      string    `gorm:"not null" json:"name"`
	HeadID    *uint     `gorm:"index" json:"head_id"` // head-of-department user
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Department) TableName() string {
	return "departments"
}
