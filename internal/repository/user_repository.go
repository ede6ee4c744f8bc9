package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sandeepkv93/storefront-crud-api/internal/domain"
	"github.com/sandeepkv93/storefront-crud-api/internal/observability"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User, fields map[string]any) error
	Save(ctx context.Context, user *domain.User) error
	DeleteByID(ctx context.Context, id uint) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isConflictError(err) {
			observability.RecordRepositoryOperation(ctx, "user", "create", "conflict")
			return ErrUserConflict
		}
		observability.RecordRepositoryOperation(ctx, "user", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "user", "create", "success")
	return nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if id == 0 {
		observability.RecordRepositoryOperation(ctx, "user", "find_by_id", "not_found")
		return nil, ErrUserNotFound
	}
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "user", "find_by_id", "not_found")
			return nil, ErrUserNotFound
		}
		observability.RecordRepositoryOperation(ctx, "user", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "user", "find_by_id", "success")
	return &u, nil
}

func (r *GormUserRepository) List(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0)
	if err := r.db.WithContext(ctx).Order("username asc").Find(&users).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "user", "list", "error")
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	observability.RecordRepositoryOperation(ctx, "user", "list", "success")
	return users, nil
}

// Update writes only the supplied columns and reloads user from the store.
func (r *GormUserRepository) Update(ctx context.Context, user *domain.User, fields map[string]any) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&domain.User{}).Where("id = ?", user.ID).Updates(fields)
	if res.Error != nil {
		if isConflictError(res.Error) {
			observability.RecordRepositoryOperation(ctx, "user", "update", "conflict")
			return ErrUserConflict
		}
		observability.RecordRepositoryOperation(ctx, "user", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "user", "update", "not_found")
		return ErrUserNotFound
	}
	if err := db.First(user, user.ID).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "user", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "user", "update", "success")
	return nil
}

func (r *GormUserRepository) Save(ctx context.Context, user *domain.User) error {
	res := r.db.WithContext(ctx).Model(user).Select("*").Omit("CreatedAt").Updates(user)
	if res.Error != nil {
		if isConflictError(res.Error) {
			observability.RecordRepositoryOperation(ctx, "user", "save", "conflict")
			return ErrUserConflict
		}
		observability.RecordRepositoryOperation(ctx, "user", "save", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "user", "save", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(ctx, "user", "save", "success")
	return nil
}

func (r *GormUserRepository) DeleteByID(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.User{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "user", "delete_by_id", "error")
		return 0, res.Error
	}
	outcome := "success"
	if res.RowsAffected == 0 {
		outcome = "not_found"
	}
	observability.RecordRepositoryOperation(ctx, "user", "delete_by_id", outcome)
	return res.RowsAffected, nil
}

func (r *GormUserRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.User{})
	observability.RecordRepositoryOperation(ctx, "user", "delete_all", outcomeOf(res.Error))
	return res.RowsAffected, res.Error
}
