package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sharath018/accreditation-data-backend/config"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user account is deactivated")
	ErrUnknownRole        = errors.New("unknown role")
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RegisterInput struct {
	FullName     string
	Email        string
	Password     string
	Phone        string
	Role         string
	DepartmentID *uint
}

type LoginInput struct {
	Email    string
	Password string
}

type Service interface {
	Register(input RegisterInput) error
	Login(input LoginInput) (*TokenPair, *User, error)
	Refresh(refreshToken string) (string, error)
	GetUserByID(userID uint) (User, error)
}

type service struct {
	repo Repository
	cfg  *config.Config
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{repo: repo, cfg: cfg}
}

func (s *service) Register(input RegisterInput) error {
	role, err := s.repo.FindRoleByName(input.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownRole
		}
		return err
	}

	// admin accounts are seeded, never registered
	if role.RoleName == RoleAdmin {
		return errors.New("admin registration is not allowed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &User{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(input.Phone),
		RoleID:       role.ID,
		DepartmentID: input.DepartmentID,
		IsActive:     true,
	}
	return s.repo.Create(user)
}

func (s *service) Login(input LoginInput) (*TokenPair, *User, error) {
	user, err := s.repo.FindByEmail(input.Email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrInactiveUser
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	access, err := s.generateToken(user, s.cfg.JWTAccessSecret, s.cfg.JWTAccessTTLHours)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.generateToken(user, s.cfg.JWTRefreshSecret, s.cfg.JWTRefreshTTLHours)
	if err != nil {
		return nil, nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, user, nil
}

func (s *service) Refresh(refreshToken string) (string, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTRefreshSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid refresh token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid refresh claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return "", errors.New("user_id missing in token")
	}

	user, err := s.repo.FindByID(uint(userIDFloat))
	if err != nil {
		return "", err
	}
	return s.generateToken(&user, s.cfg.JWTAccessSecret, s.cfg.JWTAccessTTLHours)
}

func (s *service) GetUserByID(userID uint) (User, error) {
	return s.repo.FindByID(userID)
}

func (s *service) generateToken(user *User, secret string, ttlHours int) (string, error) {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role.RoleName,
		"exp":     time.Now().Add(time.Duration(ttlHours) * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	if user.DepartmentID != nil {
		claims["department_id"] = *user.DepartmentID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
