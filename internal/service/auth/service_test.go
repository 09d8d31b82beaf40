package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"vendormarket/internal/domain"
	userrepo "vendormarket/internal/repository/user"
)

type memUsers struct {
	seq     int
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	tokens  map[string]domain.Token
}

func newMemUsers() *memUsers {
	return &memUsers{
		byID:    map[string]*domain.User{},
		byEmail: map[string]*domain.User{},
		tokens:  map[string]domain.Token{},
	}
}

func (m *memUsers) Create(_ context.Context, in userrepo.CreateUserInput) (*domain.User, error) {
	if _, ok := m.byEmail[in.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	m.seq++
	u := &domain.User{
		ID:           fmt.Sprintf("user-%d", m.seq),
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Name:         in.Name,
		Role:         in.Role,
	}
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) CreateToken(_ context.Context, t domain.Token) error {
	if _, ok := m.tokens[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	m.tokens[t.Token] = t
	return nil
}

func (m *memUsers) GetToken(_ context.Context, token string) (*domain.Token, error) {
	t, ok := m.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (m *memUsers) DeleteToken(_ context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

func TestSignupValidation(t *testing.T) {
	svc := New(newMemUsers(), time.Hour)
	ctx := context.Background()

	cases := []struct {
		name string
		in   SignupInput
	}{
		{"missing email", SignupInput{Password: "password123"}},
		{"short password", SignupInput{Email: "a@b.test", Password: "short"}},
		{"admin role", SignupInput{Email: "a@b.test", Password: "password123", Role: "admin"}},
		{"unknown role", SignupInput{Email: "a@b.test", Password: "password123", Role: "ghost"}},
	}
	for _, tc := range cases {
		var vErr *domain.ValidationError
		if _, err := svc.Signup(ctx, tc.in); !errors.As(err, &vErr) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestSignupNormalizesAndDefaults(t *testing.T) {
	svc := New(newMemUsers(), time.Hour)

	u, err := svc.Signup(context.Background(), SignupInput{
		Email:    "  Shopper@Example.Test ",
		Password: "password123",
		Name:     " Demo ",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.Email != "shopper@example.test" {
		t.Fatalf("email must be lowercased and trimmed, got %q", u.Email)
	}
	if u.Role != domain.RoleCustomer {
		t.Fatalf("default role must be customer, got %q", u.Role)
	}
	if u.PasswordHash == "password123" {
		t.Fatal("password must not be stored in clear")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := New(newMemUsers(), time.Hour)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "dup@example.test", Password: "password123"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(ctx, SignupInput{Email: "dup@example.test", Password: "password123"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestLoginAndResolve(t *testing.T) {
	repo := newMemUsers()
	svc := New(repo, time.Hour)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "v@example.test", Password: "password123", Role: "vendor"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, _, err := svc.Login(ctx, "v@example.test", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.test", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email must look like bad credentials, got %v", err)
	}

	token, u, err := svc.Login(ctx, "V@Example.Test", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || u.Role != domain.RoleVendor {
		t.Fatalf("unexpected login result token=%q role=%q", token, u.Role)
	}

	id, err := svc.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id.UserID != u.ID || id.Role != domain.RoleVendor {
		t.Fatalf("unexpected identity %+v", id)
	}

	if _, err := svc.Resolve(ctx, "no-such-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
	if _, err := svc.Resolve(ctx, ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("empty token must be rejected, got %v", err)
	}
}

func TestResolveExpiredTokenIsDeleted(t *testing.T) {
	repo := newMemUsers()
	svc := New(repo, time.Hour)
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Email: "c@example.test", Password: "password123"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	repo.tokens["stale"] = domain.Token{
		Token:     "stale",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	if _, err := svc.Resolve(ctx, "stale"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for expired token, got %v", err)
	}
	if _, ok := repo.tokens["stale"]; ok {
		t.Fatal("expired token must be deleted on resolve")
	}
}
