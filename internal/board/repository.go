package board

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) CreateBoard(b *Board) error {
	return r.DB.Create(b).Error
}

func (r *Repository) GetBoards() ([]Board, error) {
	var boards []Board
	err := r.DB.Order("code ASC").Find(&boards).Error
	return boards, err
}

func (r *Repository) GetBoardByID(id uint) (Board, error) {
	var b Board
	err := r.DB.First(&b, id).Error
	return b, err
}

func (r *Repository) GetBoardByCode(code string) (Board, error) {
	var b Board
	err := r.DB.Where("code = ?", code).First(&b).Error
	return b, err
}

// CountCriteriaForBoard is used to block board edits once criteria exist.
func (r *Repository) CountCriteriaForBoard(boardID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&Criteria{}).Where("board_id = ?", boardID).Count(&count).Error
	return count, err
}

func (r *Repository) UpdateBoard(b *Board) error {
	return r.DB.Save(b).Error
}

func (r *Repository) CreateCriteria(cr *Criteria) error {
	return r.DB.Create(cr).Error
}

func (r *Repository) GetCriteriaByBoard(boardID uint) ([]Criteria, error) {
	var items []Criteria
	err := r.DB.Where("board_id = ?", boardID).
		Order("display_order ASC, number ASC").
		Find(&items).Error
	return items, err
}

func (r *Repository) GetCriteriaByID(id uint) (Criteria, error) {
	var cr Criteria
	err := r.DB.Preload("Board").First(&cr, id).Error
	return cr, err
}

func (r *Repository) UpdateCriteria(cr *Criteria) error {
	return r.DB.Save(cr).Error
}

func (r *Repository) DeleteCriteria(id uint) error {
	return r.DB.Delete(&Criteria{}, id).Error
}

// CountTemplatesForCriteria guards the protected delete.
func (r *Repository) CountTemplatesForCriteria(criteriaID uint) (int64, error) {
	var count int64
	err := r.DB.Table("templates").Where("criteria_id = ?", criteriaID).Count(&count).Error
	return count, err
}
