package user

import (
	"context"

	"vendormarket/internal/domain"
)

type CreateUserInput struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
}

type Repository interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)

	CreateToken(ctx context.Context, t domain.Token) error
	GetToken(ctx context.Context, token string) (*domain.Token, error)
	DeleteToken(ctx context.Context, token string) error
}
