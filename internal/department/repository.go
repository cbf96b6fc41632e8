package department

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(d *Department) error {
	return r.DB.Create(d).Error
}

func (r *Repository) GetAll() ([]Department, error) {
	var items []Department
	err := r.DB.Order("code ASC").Find(&items).Error
	return items, err
}

func (r *Repository) GetByID(id uint) (Department, error) {
	var d Department
	err := r.DB.First(&d, id).Error
	return d, err
}

func (r *Repository) GetByCode(code string) (Department, error) {
	var d Department
	err := r.DB.Where("code = ?", code).First(&d).Error
	return d, err
}

func (r *Repository) Update(d *Department) error {
	return r.DB.Save(d).Error
}

// CountSubmissions guards department deletion.
func (r *Repository) CountSubmissions(departmentID uint) (int64, error) {
	var count int64
	err := r.DB.Table("data_submissions").Where("department_id = ?", departmentID).Count(&count).Error
	return count, err
}

func (r *Repository) Delete(id uint) error {
	return r.DB.Delete(&Department{}, id).Error
}
