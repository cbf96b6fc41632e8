package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

type RegisterRequest struct {
	FullName     string `json:"fullName" binding:"required" example:"Anita Rao"`
	Email        string `json:"email" binding:"required,email" example:"anita@college.edu"`
	Password     string `json:"password" binding:"required,min=6" example:"secret123"`
	Phone        string `json:"phone" example:"+919876543210"`
	Role         string `json:"role" binding:"required" example:"departmenthead"`
	DepartmentID *uint  `json:"departmentId" example:"3"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "registration payload"
// @Success 201 {object} map[string]string
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// department-scoped roles must name their department
	if (req.Role == RoleDepartmentHead || req.Role == RoleFaculty) && req.DepartmentID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "departmentId is required for department roles"})
		return
	}

	err := h.service.Register(RegisterInput{
		FullName:     req.FullName,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        req.Phone,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrUnknownRole) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "registration successful"})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary Login and receive a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, user, err := h.service.Login(LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
		"user": gin.H{
			"id":            user.ID,
			"full_name":     user.FullName,
			"email":         user.Email,
			"role":          user.Role.RoleName,
			"department_id": user.DepartmentID,
		},
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	access, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": access})
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	userVal, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	user := userVal.(User)
	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"full_name":     user.FullName,
		"email":         user.Email,
		"role":          user.Role.RoleName,
		"department_id": user.DepartmentID,
	})
}
