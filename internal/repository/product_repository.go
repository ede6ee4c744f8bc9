package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sandeepkv93/storefront-crud-api/internal/domain"
	"github.com/sandeepkv93/storefront-crud-api/internal/observability"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product, fields map[string]any) error
	Save(ctx context.Context, product *domain.Product) error
	DeleteByID(ctx context.Context, id uint) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type GormProductRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	err := r.db.WithContext(ctx).Create(product).Error
	observability.RecordRepositoryOperation(ctx, "product", "create", outcomeOf(err))
	return err
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	if id == 0 {
		observability.RecordRepositoryOperation(ctx, "product", "find_by_id", "not_found")
		return nil, ErrProductNotFound
	}
	var product domain.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "product", "find_by_id", "not_found")
			return nil, ErrProductNotFound
		}
		observability.RecordRepositoryOperation(ctx, "product", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, "product", "find_by_id", "success")
	return &product, nil
}

// List returns every product, most expensive first. Equal prices keep insertion order.
func (r *GormProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	if err := r.db.WithContext(ctx).Order("price desc").Order("id asc").Find(&products).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "product", "list", "error")
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	observability.RecordRepositoryOperation(ctx, "product", "list", "success")
	return products, nil
}

// Update writes fields (column name to value) and reloads product from the store.
func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product, fields map[string]any) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&domain.Product{}).Where("id = ?", product.ID).Updates(fields)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "product", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "product", "update", "not_found")
		return ErrProductNotFound
	}
	if err := db.First(product, product.ID).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "product", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "product", "update", "success")
	return nil
}

// Save persists every mutable column of an already stored product.
func (r *GormProductRepository) Save(ctx context.Context, product *domain.Product) error {
	res := r.db.WithContext(ctx).Model(product).Select("*").Omit("CreatedAt").Updates(product)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "product", "save", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "product", "save", "not_found")
		return ErrProductNotFound
	}
	observability.RecordRepositoryOperation(ctx, "product", "save", "success")
	return nil
}

func (r *GormProductRepository) DeleteByID(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(ctx, "product", "delete_by_id", "error")
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(ctx, "product", "delete_by_id", "not_found")
		return 0, nil
	}
	observability.RecordRepositoryOperation(ctx, "product", "delete_by_id", "success")
	return res.RowsAffected, nil
}

func (r *GormProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Product{})
	observability.RecordRepositoryOperation(ctx, "product", "delete_all", outcomeOf(res.Error))
	return res.RowsAffected, res.Error
}
