package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"vendormarket/internal/domain"
	userrepo "vendormarket/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles signup/login and resolves bearer tokens to identities.
// The rest of the core trusts the resolved identity and role.
type Service struct {
	repo        userrepo.Repository
	tokenTTL    time.Duration
	passwordMin int
}

func New(repo userrepo.Repository, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 48 * time.Hour
	}
	return &Service{
		repo:        repo,
		tokenTTL:    tokenTTL,
		passwordMin: 8,
	}
}

type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Signup registers a customer or vendor. Admins are seeded, never signed up.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, &domain.ValidationError{Reason: "email required"}
	}
	password := strings.TrimSpace(in.Password)
	if len(password) < s.passwordMin {
		return nil, &domain.ValidationError{Reason: "password too short"}
	}
	role := strings.TrimSpace(strings.ToLower(in.Role))
	if role == "" {
		role = domain.RoleCustomer
	}
	if role != domain.RoleCustomer && role != domain.RoleVendor {
		return nil, &domain.ValidationError{Reason: "role must be customer or vendor"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, userrepo.CreateUserInput{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
	})
}

// Login verifies credentials and issues an opaque bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", nil, err
		}
		err = s.repo.CreateToken(ctx, domain.Token{
			Token:     token,
			UserID:    u.ID,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, u, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", nil, err
	}
	return "", nil, errors.New("token collision")
}

// Identity is the resolved caller: user id plus role.
type Identity struct {
	UserID string
	Role   string
}

// Resolve validates a bearer token and returns the caller's identity.
func (s *Service) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	t, err := s.repo.GetToken(ctx, token)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	if time.Now().After(t.ExpiresAt) {
		_ = s.repo.DeleteToken(ctx, token)
		return Identity{}, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, t.UserID)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: u.ID, Role: u.Role}, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
