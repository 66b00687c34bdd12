package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"kasir/internal/apperrors"
	"kasir/internal/models"
	"kasir/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for unknown users and wrong passwords alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims are carried by every token the service issues.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.StandardClaims
}

// AuthService registers operators and issues and checks their tokens.
type AuthService struct {
	users     repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	validate  *validator.Validate
	now       func() time.Time
}

func NewAuthService(users repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  24 * time.Hour,
		validate:  newValidator(),
		now:       time.Now,
	}
}

// Register validates the user, hashes the password in place and stores the user.
func (s *AuthService) Register(ctx context.Context, user *models.User) error {
	if err := validateStruct(s.validate, user); err != nil {
		return err
	}
	if err := s.ensureFree(ctx, user); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// ensureFree fails with ErrConflict when the username or email is taken.
func (s *AuthService) ensureFree(ctx context.Context, user *models.User) error {
	lookups := []struct {
		what  string
		value string
		get   func(context.Context, string) (*models.User, error)
	}{
		{"username", user.Username, s.users.GetByUsername},
		{"email", user.Email, s.users.GetByEmail},
	}
	for _, l := range lookups {
		_, err := l.get(ctx, l.value)
		switch {
		case err == nil:
			return fmt.Errorf("%s '%s' already registered: %w", l.what, l.value, apperrors.ErrConflict)
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}
	}
	return nil
}

// Login checks the credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (string, error) {
	if err := validateStruct(s.validate, creds); err != nil {
		return "", err
	}

	user, err := s.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   user.ID,
		Username: user.Username,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses an HS256 token signed by this service.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// CurrentUser loads the operator a token was issued to.
func (s *AuthService) CurrentUser(ctx context.Context, claims *Claims) (*models.User, error) {
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}
