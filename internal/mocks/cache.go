package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCache is a mock implementation of ports.Cache.
type MockCache struct {
	mock.Mock
}

// MockCache_Expecter records expectations for MockCache.
type MockCache_Expecter struct {
	mock *mock.Mock
}

// NewMockCache creates a mock and registers its assertions with t.
func NewMockCache(t testingT) *MockCache {
	m := &MockCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockCache) EXPECT() *MockCache_Expecter {
	return &MockCache_Expecter{mock: &_m.Mock}
}

// Get provides a mock function.
func (_m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	ret := _m.Called(ctx, key)

	if rf, ok := ret.Get(0).(func(context.Context, string) ([]byte, error)); ok {
		return rf(ctx, key)
	}

	var r0 []byte
	if v := ret.Get(0); v != nil {
		r0 = v.([]byte)
	}

	return r0, ret.Error(1)
}

// MockCache_Get_Call wraps a Get expectation.
type MockCache_Get_Call struct {
	*mock.Call
}

func (_e *MockCache_Expecter) Get(ctx, key any) *MockCache_Get_Call {
	return &MockCache_Get_Call{Call: _e.mock.On("Get", ctx, key)}
}

func (_c *MockCache_Get_Call) Return(value []byte, err error) *MockCache_Get_Call {
	_c.Call.Return(value, err)
	return _c
}

func (_c *MockCache_Get_Call) RunAndReturn(run func(context.Context, string) ([]byte, error)) *MockCache_Get_Call {
	_c.Call.Return(run, nil)
	return _c
}

// Set provides a mock function.
func (_m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ret := _m.Called(ctx, key, value, ttl)

	if rf, ok := ret.Get(0).(func(context.Context, string, []byte, time.Duration) error); ok {
		return rf(ctx, key, value, ttl)
	}

	return ret.Error(0)
}

// MockCache_Set_Call wraps a Set expectation.
type MockCache_Set_Call struct {
	*mock.Call
}

func (_e *MockCache_Expecter) Set(ctx, key, value, ttl any) *MockCache_Set_Call {
	return &MockCache_Set_Call{Call: _e.mock.On("Set", ctx, key, value, ttl)}
}

func (_c *MockCache_Set_Call) Return(err error) *MockCache_Set_Call {
	_c.Call.Return(err)
	return _c
}

func (_c *MockCache_Set_Call) RunAndReturn(run func(context.Context, string, []byte, time.Duration) error) *MockCache_Set_Call {
	_c.Call.Return(run)
	return _c
}

// Delete provides a mock function.
func (_m *MockCache) Delete(ctx context.Context, key string) error {
	ret := _m.Called(ctx, key)

	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		return rf(ctx, key)
	}

	return ret.Error(0)
}

// MockCache_Delete_Call wraps a Delete expectation.
type MockCache_Delete_Call struct {
	*mock.Call
}

func (_e *MockCache_Expecter) Delete(ctx, key any) *MockCache_Delete_Call {
	return &MockCache_Delete_Call{Call: _e.mock.On("Delete", ctx, key)}
}

func (_c *MockCache_Delete_Call) Return(err error) *MockCache_Delete_Call {
	_c.Call.Return(err)
	return _c
}

func (_c *MockCache_Delete_Call) RunAndReturn(run func(context.Context, string) error) *MockCache_Delete_Call {
	_c.Call.Return(run)
	return _c
}
