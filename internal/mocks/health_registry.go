package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/horoscope-service/internal/ports"
)

// MockHealthRegistry is a mock implementation of ports.HealthRegistry.
type MockHealthRegistry struct {
	mock.Mock
}

// MockHealthRegistry_Expecter records expectations for MockHealthRegistry.
type MockHealthRegistry_Expecter struct {
	mock *mock.Mock
}

// NewMockHealthRegistry creates a mock and registers its assertions with t.
func NewMockHealthRegistry(t testingT) *MockHealthRegistry {
	m := &MockHealthRegistry{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockHealthRegistry) EXPECT() *MockHealthRegistry_Expecter {
	return &MockHealthRegistry_Expecter{mock: &_m.Mock}
}

// Register provides a mock function.
func (_m *MockHealthRegistry) Register(checker ports.HealthChecker) error {
	return _m.Called(checker).Error(0)
}

// MockHealthRegistry_Register_Call wraps a Register expectation.
type MockHealthRegistry_Register_Call struct {
	*mock.Call
}

func (_e *MockHealthRegistry_Expecter) Register(checker any) *MockHealthRegistry_Register_Call {
	return &MockHealthRegistry_Register_Call{Call: _e.mock.On("Register", checker)}
}

func (_c *MockHealthRegistry_Register_Call) Return(err error) *MockHealthRegistry_Register_Call {
	_c.Call.Return(err)
	return _c
}

// RegisterOptional provides a mock function.
func (_m *MockHealthRegistry) RegisterOptional(checker ports.HealthChecker) error {
	return _m.Called(checker).Error(0)
}

// MockHealthRegistry_RegisterOptional_Call wraps a RegisterOptional expectation.
type MockHealthRegistry_RegisterOptional_Call struct {
	*mock.Call
}

func (_e *MockHealthRegistry_Expecter) RegisterOptional(checker any) *MockHealthRegistry_RegisterOptional_Call {
	return &MockHealthRegistry_RegisterOptional_Call{Call: _e.mock.On("RegisterOptional", checker)}
}

func (_c *MockHealthRegistry_RegisterOptional_Call) Return(err error) *MockHealthRegistry_RegisterOptional_Call {
	_c.Call.Return(err)
	return _c
}

// CheckAll provides a mock function.
func (_m *MockHealthRegistry) CheckAll(ctx context.Context) *ports.HealthResult {
	ret := _m.Called(ctx)

	if rf, ok := ret.Get(0).(func(context.Context) *ports.HealthResult); ok {
		return rf(ctx)
	}

	var r0 *ports.HealthResult
	if v := ret.Get(0); v != nil {
		r0 = v.(*ports.HealthResult)
	}

	return r0
}

// MockHealthRegistry_CheckAll_Call wraps a CheckAll expectation.
type MockHealthRegistry_CheckAll_Call struct {
	*mock.Call
}

func (_e *MockHealthRegistry_Expecter) CheckAll(ctx any) *MockHealthRegistry_CheckAll_Call {
	return &MockHealthRegistry_CheckAll_Call{Call: _e.mock.On("CheckAll", ctx)}
}

func (_c *MockHealthRegistry_CheckAll_Call) Return(result *ports.HealthResult) *MockHealthRegistry_CheckAll_Call {
	_c.Call.Return(result)
	return _c
}

func (_c *MockHealthRegistry_CheckAll_Call) RunAndReturn(run func(context.Context) *ports.HealthResult) *MockHealthRegistry_CheckAll_Call {
	_c.Call.Return(run)
	return _c
}
