package service

import (
	"context"
	"errors"

	"github.com/sandeepkv93/storefront-crud-api/internal/domain"
	"github.com/sandeepkv93/storefront-crud-api/internal/observability"
	"github.com/sandeepkv93/storefront-crud-api/internal/repository"
)

type CreateProductInput struct {
	Name         string
	Price        float64
	Availability *bool
}

// UpdateProductInput replaces name and price. Availability is kept unless supplied.
type UpdateProductInput struct {
	Name         string
	Price        float64
	Availability *bool
}

type ProductServiceImpl struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) *ProductServiceImpl {
	return &ProductServiceImpl{repo: repo}
}

func (s *ProductServiceImpl) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	ctx, op := observability.StartOperation(ctx, "product", "create")
	outcome := "success"
	defer func() { op.End(outcome) }()

	product := &domain.Product{Name: input.Name, Price: input.Price, Availability: true}
	if input.Availability != nil {
		product.Availability = *input.Availability
	}
	if err := s.repo.Create(ctx, product); err != nil {
		outcome = "error"
		return nil, err
	}
	return product, nil
}

func (s *ProductServiceImpl) List(ctx context.Context) ([]domain.Product, error) {
	ctx, op := observability.StartOperation(ctx, "product", "list")
	outcome := "success"
	defer func() { op.End(outcome) }()

	products, err := s.repo.List(ctx)
	if err != nil {
		outcome = "error"
		return nil, err
	}
	return products, nil
}

func (s *ProductServiceImpl) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, op := observability.StartOperation(ctx, "product", "get")
	outcome := "success"
	defer func() { op.End(outcome) }()

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		outcome = productOutcome(err)
		return nil, err
	}
	return product, nil
}

func (s *ProductServiceImpl) Update(ctx context.Context, id uint, input UpdateProductInput) (*domain.Product, error) {
	ctx, op := observability.StartOperation(ctx, "product", "update")
	outcome := "success"
	defer func() { op.End(outcome) }()

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		outcome = productOutcome(err)
		return nil, err
	}
	fields := map[string]any{
		"name":  input.Name,
		"price": input.Price,
	}
	if input.Availability != nil {
		fields["availability"] = *input.Availability
	}
	if err := s.repo.Update(ctx, product, fields); err != nil {
		outcome = productOutcome(err)
		return nil, err
	}
	return product, nil
}

// ToggleAvailability negates availability with a read then a save. Concurrent
// toggles of one row are not serialized; the last write wins.
func (s *ProductServiceImpl) ToggleAvailability(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, op := observability.StartOperation(ctx, "product", "toggle")
	outcome := "success"
	defer func() { op.End(outcome) }()

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		outcome = productOutcome(err)
		return nil, err
	}
	product.ToggleAvailability()
	if err := s.repo.Save(ctx, product); err != nil {
		outcome = productOutcome(err)
		return nil, err
	}
	observability.RecordToggleTransition(ctx, "product", product.Availability)
	return product, nil
}

func (s *ProductServiceImpl) DeleteByID(ctx context.Context, id uint) error {
	ctx, op := observability.StartOperation(ctx, "product", "delete")
	outcome := "success"
	defer func() { op.End(outcome) }()

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		outcome = "error"
		return err
	}
	if deleted == 0 {
		outcome = "not_found"
		return repository.ErrProductNotFound
	}
	return nil
}

func productOutcome(err error) string {
	if errors.Is(err, repository.ErrProductNotFound) {
		return "not_found"
	}
	return "error"
}
