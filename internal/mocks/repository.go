package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/boostclient/boostclient-service/internal/ports"
)

// MockRepository is a mock of ports.Repository for entity type E.
type MockRepository[E any] struct {
	mock.Mock
}

// MockRepository_Expecter records expectations on MockRepository.
type MockRepository_Expecter[E any] struct {
	mock *mock.Mock
}

// NewMockRepository creates a mock whose expectations are asserted when the test ends.
func NewMockRepository[E any](t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepository[E] {
	m := &MockRepository[E]{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// EXPECT returns the expecter.
func (m *MockRepository[E]) EXPECT() *MockRepository_Expecter[E] {
	return &MockRepository_Expecter[E]{mock: &m.Mock}
}

func entityAt[E any](ret mock.Arguments, i int) E {
	var zero E

	if v, ok := ret.Get(i).(E); ok {
		return v
	}

	return zero
}

// Save implements ports.Repository.
func (m *MockRepository[E]) Save(ctx context.Context, entity E) (E, error) {
	ret := m.Called(ctx, entity)

	if fn, ok := ret.Get(0).(func(context.Context, E) (E, error)); ok {
		return fn(ctx, entity)
	}

	return entityAt[E](ret, 0), ret.Error(1)
}

// Save expects a call to Save.
func (e *MockRepository_Expecter[E]) Save(ctx, entity any) *mock.Call {
	return e.mock.On("Save", ctx, entity)
}

// FindByID implements ports.Repository.
func (m *MockRepository[E]) FindByID(ctx context.Context, id int64) (E, error) {
	ret := m.Called(ctx, id)

	return entityAt[E](ret, 0), ret.Error(1)
}

// FindByID expects a call to FindByID.
func (e *MockRepository_Expecter[E]) FindByID(ctx, id any) *mock.Call {
	return e.mock.On("FindByID", ctx, id)
}

// FindAll implements ports.Repository.
func (m *MockRepository[E]) FindAll(ctx context.Context, sort ...ports.SortOrder) ([]E, error) {
	ret := m.Called(ctx, sort)

	entities, _ := ret.Get(0).([]E)

	return entities, ret.Error(1)
}

// FindAll expects a call to FindAll. The sort orders are matched as one slice.
func (e *MockRepository_Expecter[E]) FindAll(ctx, sort any) *mock.Call {
	return e.mock.On("FindAll", ctx, sort)
}

// ExistsByID implements ports.Repository.
func (m *MockRepository[E]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	ret := m.Called(ctx, id)

	return ret.Bool(0), ret.Error(1)
}

// ExistsByID expects a call to ExistsByID.
func (e *MockRepository_Expecter[E]) ExistsByID(ctx, id any) *mock.Call {
	return e.mock.On("ExistsByID", ctx, id)
}

// DeleteByID implements ports.Repository.
func (m *MockRepository[E]) DeleteByID(ctx context.Context, id int64) error {
	ret := m.Called(ctx, id)

	return ret.Error(0)
}

// DeleteByID expects a call to DeleteByID.
func (e *MockRepository_Expecter[E]) DeleteByID(ctx, id any) *mock.Call {
	return e.mock.On("DeleteByID", ctx, id)
}

// Count implements ports.Repository.
func (m *MockRepository[E]) Count(ctx context.Context) (int64, error) {
	ret := m.Called(ctx)

	count, _ := ret.Get(0).(int64)

	return count, ret.Error(1)
}

// Count expects a call to Count.
func (e *MockRepository_Expecter[E]) Count(ctx any) *mock.Call {
	return e.mock.On("Count", ctx)
}
