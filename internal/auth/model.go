package auth

import "time"

// Role names (closed set - seeded at startup)
const (
	RoleAdmin          = "admin"
	RoleIQACDirector   = "iqacdirector"
	RoleDepartmentHead = "departmenthead"
	RoleFaculty        = "faculty"
)

type UserRole struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RoleName    string    `gorm:"size:50;unique;not null" json:"role_name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Phone        string    `json:"phone"`
	RoleID       uint      `gorm:"not null;index" json:"role_id"`
	Role         UserRole  `gorm:"foreignKey:RoleID" json:"role"`
	DepartmentID *uint     `gorm:"index" json:"department_id"` // nil for admin/IQAC users
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsReviewer reports whether the user may approve or reject submissions.
func (u User) IsReviewer() bool {
	return u.Role.RoleName == RoleIQACDirector
}

// OwnsDepartment reports whether the user belongs to the given department.
func (u User) OwnsDepartment(departmentID uint) bool {
	return u.DepartmentID != nil && *u.DepartmentID == departmentID
}
