package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/sandeepkv93/storefront-crud-api/internal/domain"
	"github.com/sandeepkv93/storefront-crud-api/internal/repository"
)

type stubProductRepo struct {
	items   map[uint]domain.Product
	nextID  uint
	saveErr error
}

func (s *stubProductRepo) Create(_ context.Context, product *domain.Product) error {
	if s.items == nil {
		s.items = map[uint]domain.Product{}
	}
	s.nextID++
	product.ID = s.nextID
	s.items[product.ID] = *product
	return nil
}

func (s *stubProductRepo) FindByID(_ context.Context, id uint) (*domain.Product, error) {
	product, ok := s.items[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	cp := product
	return &cp, nil
}

func (s *stubProductRepo) List(context.Context) ([]domain.Product, error) {
	items := make([]domain.Product, 0, len(s.items))
	for _, p := range s.items {
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Price > items[j].Price })
	return items, nil
}

func (s *stubProductRepo) Update(_ context.Context, product *domain.Product, fields map[string]any) error {
	stored, ok := s.items[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	if v, ok := fields["name"].(string); ok {
		stored.Name = v
	}
	if v, ok := fields["price"].(float64); ok {
		stored.Price = v
	}
	if v, ok := fields["availability"].(bool); ok {
		stored.Availability = v
	}
	s.items[product.ID] = stored
	*product = stored
	return nil
}

func (s *stubProductRepo) Save(_ context.Context, product *domain.Product) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.items[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	s.items[product.ID] = *product
	return nil
}

func (s *stubProductRepo) DeleteByID(_ context.Context, id uint) (int64, error) {
	if _, ok := s.items[id]; !ok {
		return 0, nil
	}
	delete(s.items, id)
	return 1, nil
}

func (s *stubProductRepo) DeleteAll(context.Context) (int64, error) {
	n := int64(len(s.items))
	s.items = map[uint]domain.Product{}
	return n, nil
}

func boolPtr(v bool) *bool { return &v }

func TestProductServiceCreateDefaultsAvailability(t *testing.T) {
	svc := NewProductService(&stubProductRepo{})
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductInput{Name: "Camiseta", Price: 50})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 || p.Name != "Camiseta" || p.Price != 50 || !p.Availability {
		t.Fatalf("unexpected product: %+v", p)
	}

	hidden, err := svc.Create(ctx, CreateProductInput{Name: "Gorra", Price: 20, Availability: boolPtr(false)})
	if err != nil {
		t.Fatalf("create unavailable: %v", err)
	}
	if hidden.Availability {
		t.Fatal("expected explicit availability=false to be kept")
	}
}

func TestProductServiceUpdateReplacesFields(t *testing.T) {
	repo := &stubProductRepo{}
	svc := NewProductService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductInput{Name: "Monitor", Price: 300, Availability: boolPtr(false)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, p.ID, UpdateProductInput{Name: "Monitor curvo", Price: 450})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Monitor curvo" || updated.Price != 450 || updated.Availability {
		t.Fatalf("unexpected updated product: %+v", updated)
	}

	if _, err := svc.Update(ctx, 999, UpdateProductInput{Name: "x", Price: 1}); !errors.Is(err, repository.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductServiceToggleIsSelfInverse(t *testing.T) {
	svc := NewProductService(&stubProductRepo{})
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductInput{Name: "Mouse", Price: 15})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	first, err := svc.ToggleAvailability(ctx, p.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	second, err := svc.ToggleAvailability(ctx, p.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if first.Availability == second.Availability {
		t.Fatal("expected consecutive toggles to differ")
	}
	if second.Availability != p.Availability {
		t.Fatal("expected two toggles to restore the original value")
	}

	if _, err := svc.ToggleAvailability(ctx, 404); !errors.Is(err, repository.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductServiceToggleSurfacesSaveFailure(t *testing.T) {
	repo := &stubProductRepo{}
	svc := NewProductService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProductInput{Name: "Mouse", Price: 15})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.saveErr = errors.New("db down")
	if _, err := svc.ToggleAvailability(ctx, p.ID); err == nil || errors.Is(err, repository.ErrProductNotFound) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestProductServiceListAndDelete(t *testing.T) {
	svc := NewProductService(&stubProductRepo{})
	ctx := context.Background()

	empty, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", empty)
	}

	cheap, _ := svc.Create(ctx, CreateProductInput{Name: "Cable", Price: 5})
	_, _ = svc.Create(ctx, CreateProductInput{Name: "Laptop", Price: 900})

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Laptop" {
		t.Fatalf("expected price descending list, got %+v", list)
	}

	if err := svc.DeleteByID(ctx, cheap.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteByID(ctx, cheap.ID); !errors.Is(err, repository.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
	if _, err := svc.GetByID(ctx, cheap.ID); !errors.Is(err, repository.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
	}
}
