package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandeepkv93/storefront-crud-api/internal/domain"
	"github.com/sandeepkv93/storefront-crud-api/internal/observability"
	"github.com/sandeepkv93/storefront-crud-api/internal/repository"
	"github.com/sandeepkv93/storefront-crud-api/internal/security"
)

type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     *string
}

// UpdateUserInput carries only the fields the caller supplied.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *string
}

type UserServiceImpl struct {
	repo         repository.UserRepository
	hashPassword func(string) (string, error)
}

func NewUserService(repo repository.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{repo: repo, hashPassword: security.HashPassword}
}

func (s *UserServiceImpl) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	ctx, op := observability.StartOperation(ctx, "user", "create")
	outcome := "success"
	defer func() { op.End(outcome) }()

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hash,
		Role:     domain.RoleUser,
		IsActive: true,
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if err := s.repo.Create(ctx, user); err != nil {
		outcome = userOutcome(err)
		return nil, err
	}
	return user, nil
}

func (s *UserServiceImpl) List(ctx context.Context) ([]domain.User, error) {
	ctx, op := observability.StartOperation(ctx, "user", "list")
	outcome := "success"
	defer func() { op.End(outcome) }()

	users, err := s.repo.List(ctx)
	if err != nil {
		outcome = "error"
		return nil, err
	}
	return users, nil
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	ctx, op := observability.StartOperation(ctx, "user", "get")
	outcome := "success"
	defer func() { op.End(outcome) }()

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		outcome = userOutcome(err)
		return nil, err
	}
	return user, nil
}

func (s *UserServiceImpl) Update(ctx context.Context, id uint, input UpdateUserInput) (*domain.User, error) {
	ctx, op := observability.StartOperation(ctx, "user", "update")
	outcome := "success"
	defer func() { op.End(outcome) }()

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		outcome = userOutcome(err)
		return nil, err
	}

	fields := map[string]any{}
	if input.Username != nil {
		fields["username"] = *input.Username
	}
	if input.Email != nil {
		fields["email"] = *input.Email
	}
	// Resubmitting the current password keeps the stored hash.
	if input.Password != nil {
		if same, _ := security.VerifyPassword(user.Password, *input.Password); !same {
			hash, err := s.hashPassword(*input.Password)
			if err != nil {
				outcome = "error"
				return nil, fmt.Errorf("hash password: %w", err)
			}
			fields["password"] = hash
		}
	}
	if input.Role != nil {
		fields["role"] = *input.Role
	}
	if len(fields) == 0 {
		outcome = "noop"
		return user, nil
	}

	if err := s.repo.Update(ctx, user, fields); err != nil {
		outcome = userOutcome(err)
		return nil, err
	}
	return user, nil
}

// ToggleActive negates isActive with a read then a save; the last write wins.
func (s *UserServiceImpl) ToggleActive(ctx context.Context, id uint) (*domain.User, error) {
	ctx, op := observability.StartOperation(ctx, "user", "toggle")
	outcome := "success"
	defer func() { op.End(outcome) }()

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		outcome = userOutcome(err)
		return nil, err
	}
	user.ToggleActive()
	if err := s.repo.Save(ctx, user); err != nil {
		outcome = userOutcome(err)
		return nil, err
	}
	observability.RecordToggleTransition(ctx, "user", user.IsActive)
	return user, nil
}

// DeleteByID removes the user and returns the row as it was before removal.
func (s *UserServiceImpl) DeleteByID(ctx context.Context, id uint) (*domain.User, error) {
	ctx, op := observability.StartOperation(ctx, "user", "delete")
	outcome := "success"
	defer func() { op.End(outcome) }()

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		outcome = userOutcome(err)
		return nil, err
	}
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		outcome = "error"
		return nil, err
	}
	if deleted == 0 {
		outcome = "not_found"
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func userOutcome(err error) string {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrUserConflict):
		return "conflict"
	default:
		return "error"
	}
}
