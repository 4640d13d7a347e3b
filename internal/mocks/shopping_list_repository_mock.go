// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"time"

	"github.com/guttosm/basket-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockShoppingListRepository struct {
	mock.Mock
}

func NewMockShoppingListRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockShoppingListRepository {
	m := &MockShoppingListRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockShoppingListRepository) Create(ctx context.Context, l *model.ShoppingList) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockShoppingListRepository) GetByID(ctx context.Context, id string) (*model.ShoppingList, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShoppingList), args.Error(1)
}

func (m *MockShoppingListRepository) List(ctx context.Context, limit int64) ([]model.ShoppingList, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShoppingList), args.Error(1)
}

func (m *MockShoppingListRepository) SaveOptimization(ctx context.Context, id string, sel model.Selection, at time.Time) (*model.ShoppingList, error) {
	args := m.Called(ctx, id, sel, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShoppingList), args.Error(1)
}
