package template

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Create inserts the template and its first version snapshot in one
// transaction.
func (r *Repository) Create(t *Template) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		v := TemplateVersion{
			TemplateID: t.ID,
			Version:    1,
			Metadata:   t.Metadata,
			CreatedBy:  t.CreatedBy,
		}
		return tx.Create(&v).Error
	})
}

func (r *Repository) GetByID(id uint) (Template, error) {
	var t Template
	err := r.DB.Preload("Criteria").Preload("Criteria.Board").First(&t, id).Error
	return t, err
}

func (r *Repository) GetByCriteriaAndCode(criteriaID uint, code string) (Template, error) {
	var t Template
	err := r.DB.Where("criteria_id = ? AND code = ?", criteriaID, code).First(&t).Error
	return t, err
}

func (r *Repository) GetByCriteria(criteriaID uint) ([]Template, error) {
	var items []Template
	err := r.DB.Where("criteria_id = ?", criteriaID).Order("code ASC").Find(&items).Error
	return items, err
}

func (r *Repository) GetByBoard(boardID uint) ([]Template, error) {
	var items []Template
	err := r.DB.
		Joins("JOIN criteria ON criteria.id = templates.criteria_id").
		Where("criteria.board_id = ?", boardID).
		Preload("Criteria").
		Order("criteria.number ASC, templates.code ASC").
		Find(&items).Error
	return items, err
}

func (r *Repository) GetAll() ([]Template, error) {
	var items []Template
	err := r.DB.Preload("Criteria").Preload("Criteria.Board").
		Order("criteria_id ASC, code ASC").Find(&items).Error
	return items, err
}

// UpdateWithVersion saves the template and appends the next version snapshot
// atomically.
func (r *Repository) UpdateWithVersion(t *Template, updatedBy uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(t).Error; err != nil {
			return err
		}

		var latest int
		err := tx.Model(&TemplateVersion{}).
			Where("template_id = ?", t.ID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&latest).Error
		if err != nil {
			return err
		}

		v := TemplateVersion{
			TemplateID: t.ID,
			Version:    latest + 1,
			Metadata:   t.Metadata,
			CreatedBy:  updatedBy,
		}
		return tx.Create(&v).Error
	})
}

func (r *Repository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&TemplateVersion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Template{}, id).Error
	})
}

func (r *Repository) GetVersions(templateID uint) ([]TemplateVersion, error) {
	var versions []TemplateVersion
	err := r.DB.Where("template_id = ?", templateID).Order("version DESC").Find(&versions).Error
	return versions, err
}

// CountSubmissionsForTemplate guards metadata updates and deletes.
func (r *Repository) CountSubmissionsForTemplate(templateID uint) (int64, error) {
	var count int64
	err := r.DB.Table("data_submissions").Where("template_id = ?", templateID).Count(&count).Error
	return count, err
}
