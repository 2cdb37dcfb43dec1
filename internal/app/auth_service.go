package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inchat/internal/model"
	"inchat/internal/pkg/jwtutil"
)

var (
	ErrInvalidInput      = errors.New("all fields are required")
	ErrEmailExists       = errors.New("email is already registered")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrUnauthorized      = errors.New("unauthorized")
)

type UserStore interface {
	Create(user *model.User) error
	GetByEmail(email string) (*model.User, error)
}

// AuthSessionTracker is the server-side record of live logins. Logout deletes
// the record, which invalidates the cookie token immediately.
type AuthSessionTracker interface {
	Put(ctx context.Context, tokenID string, userID uint) error
	Get(ctx context.Context, tokenID string) (uint, bool, error)
	Delete(ctx context.Context, tokenID string) error
}

type AuthService struct {
	userRepo   UserStore
	sessions   AuthSessionTracker
	secret     string
	sessionTTL time.Duration
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	Token   string
	TokenID string
	User    *model.User
}

func NewAuthService(userRepo UserStore, sessions AuthSessionTracker, secret string, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 2 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		sessions:   sessions,
		secret:     secret,
		sessionTTL: sessionTTL,
	}
}

func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password

	if fullName == "" || email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and opens an auth session: a signed token
// for the cookie plus a server-side record keyed by the token ID.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	tokenID := uuid.NewString()
	token, err := jwtutil.GenerateToken(s.secret, s.sessionTTL, tokenID, user.ID, user.FullName)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Put(ctx, tokenID, user.ID); err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, TokenID: tokenID, User: user}, nil
}

// Authenticate resolves a raw cookie token to a user ID. The token must both
// verify and still have a live server-side session record.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (uint, error) {
	claims, err := jwtutil.ParseToken(s.secret, rawToken)
	if err != nil {
		return 0, ErrUnauthorized
	}

	userID, live, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return 0, err
	}
	if !live || userID != claims.UserID {
		return 0, ErrUnauthorized
	}
	return userID, nil
}

func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	claims, err := jwtutil.ParseToken(s.secret, rawToken)
	if err != nil {
		return ErrUnauthorized
	}
	return s.sessions.Delete(ctx, claims.ID)
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}
