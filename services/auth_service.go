package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/FlowDomain/NutriLog/models"
	"github.com/FlowDomain/NutriLog/utils"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (in RegisterInput) Validate() error {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return invalidf("email is not valid")
	}
	if n := len(in.Password); n < minPasswordLength || n > maxPasswordLength {
		return invalidf("password must be between %d and %d characters", minPasswordLength, maxPasswordLength)
	}
	if strings.TrimSpace(in.Name) == "" {
		return invalidf("name is required")
	}
	return nil
}

type AuthService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
}

func NewAuthService(db *gorm.DB, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{db: db, secret: secret, ttl: ttl}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:    email,
		Password: hashed,
		Name:     strings.TrimSpace(in.Name),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Authenticate checks the credentials and issues a bearer token.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, *models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(s.secret, s.ttl, user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}
