package service

import (
	"context"

	"github.com/sandeepkv93/storefront-crud-api/internal/domain"
)

//go:generate mockgen -destination=gomock/mock_services.go -package=gomock . ProductService,UserService

type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id uint) (*domain.Product, error)
	Update(ctx context.Context, id uint, input UpdateProductInput) (*domain.Product, error)
	ToggleAvailability(ctx context.Context, id uint) (*domain.Product, error)
	DeleteByID(ctx context.Context, id uint) error
}

type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	Update(ctx context.Context, id uint, input UpdateUserInput) (*domain.User, error)
	ToggleActive(ctx context.Context, id uint) (*domain.User, error)
	DeleteByID(ctx context.Context, id uint) (*domain.User, error)
}
