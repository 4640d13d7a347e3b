// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/guttosm/basket-service/internal/repository"
	"github.com/guttosm/basket-service/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func NewMockCatalogService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCatalogService {
	m := &MockCatalogService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) CategoryAverages(ctx context.Context) (map[model.Category]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.Category]int64), args.Error(1)
}

func (m *MockCatalogService) SubstitutePool(ctx context.Context, p model.Product) ([]model.Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) CreateStore(ctx context.Context, s *model.Store) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockCatalogService) GetStores(ctx context.Context, ids []string) ([]model.Store, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Store), args.Error(1)
}

func (m *MockCatalogService) ListStores(ctx context.Context, limit int64) ([]model.Store, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Store), args.Error(1)
}

func (m *MockCatalogService) NearbyStores(ctx context.Context, at model.Location, radiusKm float64, limit int64) ([]model.Store, error) {
	args := m.Called(ctx, at, radiusKm, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Store), args.Error(1)
}

func (m *MockCatalogService) CreateShoppingList(ctx context.Context, l *model.ShoppingList) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockCatalogService) GetShoppingList(ctx context.Context, id string) (*model.ShoppingList, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShoppingList), args.Error(1)
}

func (m *MockCatalogService) ListShoppingLists(ctx context.Context, limit int64) ([]model.ShoppingList, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShoppingList), args.Error(1)
}

func (m *MockCatalogService) OptimizeShoppingList(ctx context.Context, id string, opts service.ShoppingListOptions) (*model.ShoppingListOptimization, error) {
	args := m.Called(ctx, id, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShoppingListOptimization), args.Error(1)
}
