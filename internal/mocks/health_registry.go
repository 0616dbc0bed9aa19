package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/boostclient/boostclient-service/internal/ports"
)

// MockHealthRegistry is a mock of ports.HealthRegistry.
type MockHealthRegistry struct {
	mock.Mock
}

// MockHealthRegistry_Expecter records expectations on MockHealthRegistry.
type MockHealthRegistry_Expecter struct {
	mock *mock.Mock
}

// NewMockHealthRegistry creates a mock whose expectations are asserted when the test ends.
func NewMockHealthRegistry(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHealthRegistry {
	m := &MockHealthRegistry{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// EXPECT returns the expecter.
func (m *MockHealthRegistry) EXPECT() *MockHealthRegistry_Expecter {
	return &MockHealthRegistry_Expecter{mock: &m.Mock}
}

// Register implements ports.HealthRegistry.
func (m *MockHealthRegistry) Register(checker ports.HealthChecker) error {
	ret := m.Called(checker)

	if fn, ok := ret.Get(0).(func(ports.HealthChecker) error); ok {
		return fn(checker)
	}

	return ret.Error(0)
}

// Register expects a call to Register.
func (e *MockHealthRegistry_Expecter) Register(checker any) *mock.Call {
	return e.mock.On("Register", checker)
}

// CheckAll implements ports.HealthRegistry.
func (m *MockHealthRegistry) CheckAll(ctx context.Context) *ports.HealthResult {
	ret := m.Called(ctx)

	if fn, ok := ret.Get(0).(func(context.Context) *ports.HealthResult); ok {
		return fn(ctx)
	}

	result, _ := ret.Get(0).(*ports.HealthResult)

	return result
}

// CheckAll expects a call to CheckAll.
func (e *MockHealthRegistry_Expecter) CheckAll(ctx any) *mock.Call {
	return e.mock.On("CheckAll", ctx)
}

var _ ports.HealthRegistry = (*MockHealthRegistry)(nil)
