package auth

import (
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	Create(user *User) error
	FindByEmail(email string) (*User, error)
	FindByID(userID uint) (User, error)
	FindRoleByName(name string) (*UserRole, error)
	Update(user *User) error
	GetUserIDsByRole(roleName string) ([]uint, error)
	GetDepartmentUserIDs(departmentID uint) ([]uint, error)
	GetUserEmailsByIDs(userIDs []uint) ([]string, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(user *User) error {
	return r.db.Create(user).Error
}

// Find user by email (used in login)
func (r *repository) FindByEmail(email string) (*User, error) {
	var u User
	err := r.db.Preload("Role").Where("email = ?", strings.ToLower(email)).First(&u).Error
	return &u, err
}

// Find user by ID (with role preload)
func (r *repository) FindByID(userID uint) (User, error) {
	var user User
	err := r.db.Preload("Role").First(&user, userID).Error
	return user, err
}

func (r *repository) FindRoleByName(name string) (*UserRole, error) {
	var role UserRole
	err := r.db.Where("role_name = ?", strings.ToLower(name)).First(&role).Error
	return &role, err
}

func (r *repository) Update(user *User) error {
	return r.db.Save(user).Error
}

func (r *repository) GetUserIDsByRole(roleName string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&User{}).
		Joins("JOIN user_roles ON user_roles.id = users.role_id").
		Where("user_roles.role_name = ? AND users.is_active = ?", roleName, true).
		Pluck("users.id", &ids).Error
	return ids, err
}

func (r *repository) GetDepartmentUserIDs(departmentID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&User{}).
		Where("department_id = ? AND is_active = ?", departmentID, true).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) GetUserEmailsByIDs(userIDs []uint) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var emails []string
	err := r.db.Model(&User{}).Where("id IN ?", userIDs).Pluck("email", &emails).Error
	return emails, err
}
