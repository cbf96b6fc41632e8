package board

import "time"

// Board is an accreditation framework (NAAC, NBA, NIRF, ...).
type Board struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:20;unique;not null" json:"code"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Board) TableName() string {
	return "boards"
}

// Criteria is a numbered category owned by exactly one board.
type Criteria struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BoardID      uint      `gorm:"not null;index;uniqueIndex:idx_board_number" json:"board_id"`
	Board        Board     `gorm:"foreignKey:BoardID" json:"board,omitempty"`
	Number       int       `gorm:"not null;uniqueIndex:idx_board_number" json:"number"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `json:"description"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Criteria) TableName() string {
	return "criteria"
}
