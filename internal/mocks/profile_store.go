package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProfileStore is a mock implementation of ports.ProfileStore.
type MockProfileStore struct {
	mock.Mock
}

// MockProfileStore_Expecter records expectations for MockProfileStore.
type MockProfileStore_Expecter struct {
	mock *mock.Mock
}

// NewMockProfileStore creates a mock and registers its assertions with t.
func NewMockProfileStore(t testingT) *MockProfileStore {
	m := &MockProfileStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockProfileStore) EXPECT() *MockProfileStore_Expecter {
	return &MockProfileStore_Expecter{mock: &_m.Mock}
}

// OverallUnlocked provides a mock function.
func (_m *MockProfileStore) OverallUnlocked(ctx context.Context, userID string) (bool, error) {
	ret := _m.Called(ctx, userID)

	if rf, ok := ret.Get(0).(func(context.Context, string) (bool, error)); ok {
		return rf(ctx, userID)
	}

	return ret.Bool(0), ret.Error(1)
}

// MockProfileStore_OverallUnlocked_Call wraps an OverallUnlocked expectation.
type MockProfileStore_OverallUnlocked_Call struct {
	*mock.Call
}

func (_e *MockProfileStore_Expecter) OverallUnlocked(ctx, userID any) *MockProfileStore_OverallUnlocked_Call {
	return &MockProfileStore_OverallUnlocked_Call{Call: _e.mock.On("OverallUnlocked", ctx, userID)}
}

func (_c *MockProfileStore_OverallUnlocked_Call) Return(unlocked bool, err error) *MockProfileStore_OverallUnlocked_Call {
	_c.Call.Return(unlocked, err)
	return _c
}

func (_c *MockProfileStore_OverallUnlocked_Call) RunAndReturn(
	run func(context.Context, string) (bool, error),
) *MockProfileStore_OverallUnlocked_Call {
	_c.Call.Return(run, nil)
	return _c
}
