package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPointsLedger is a mock implementation of ports.PointsLedger.
type MockPointsLedger struct {
	mock.Mock
}

// MockPointsLedger_Expecter records expectations for MockPointsLedger.
type MockPointsLedger_Expecter struct {
	mock *mock.Mock
}

// NewMockPointsLedger creates a mock and registers its assertions with t.
func NewMockPointsLedger(t testingT) *MockPointsLedger {
	m := &MockPointsLedger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockPointsLedger) EXPECT() *MockPointsLedger_Expecter {
	return &MockPointsLedger_Expecter{mock: &_m.Mock}
}

// Balance provides a mock function.
func (_m *MockPointsLedger) Balance(ctx context.Context, userID string) (int64, error) {
	ret := _m.Called(ctx, userID)

	if rf, ok := ret.Get(0).(func(context.Context, string) (int64, error)); ok {
		return rf(ctx, userID)
	}

	return ret.Get(0).(int64), ret.Error(1)
}

// MockPointsLedger_Balance_Call wraps a Balance expectation.
type MockPointsLedger_Balance_Call struct {
	*mock.Call
}

func (_e *MockPointsLedger_Expecter) Balance(ctx, userID any) *MockPointsLedger_Balance_Call {
	return &MockPointsLedger_Balance_Call{Call: _e.mock.On("Balance", ctx, userID)}
}

func (_c *MockPointsLedger_Balance_Call) Return(balance int64, err error) *MockPointsLedger_Balance_Call {
	_c.Call.Return(balance, err)
	return _c
}

func (_c *MockPointsLedger_Balance_Call) RunAndReturn(run func(context.Context, string) (int64, error)) *MockPointsLedger_Balance_Call {
	_c.Call.Return(run, nil)
	return _c
}

// Credit provides a mock function.
func (_m *MockPointsLedger) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	ret := _m.Called(ctx, userID, amount)

	if rf, ok := ret.Get(0).(func(context.Context, string, int64) (int64, error)); ok {
		return rf(ctx, userID, amount)
	}

	return ret.Get(0).(int64), ret.Error(1)
}

// MockPointsLedger_Credit_Call wraps a Credit expectation.
type MockPointsLedger_Credit_Call struct {
	*mock.Call
}

func (_e *MockPointsLedger_Expecter) Credit(ctx, userID, amount any) *MockPointsLedger_Credit_Call {
	return &MockPointsLedger_Credit_Call{Call: _e.mock.On("Credit", ctx, userID, amount)}
}

func (_c *MockPointsLedger_Credit_Call) Return(balance int64, err error) *MockPointsLedger_Credit_Call {
	_c.Call.Return(balance, err)
	return _c
}

func (_c *MockPointsLedger_Credit_Call) RunAndReturn(run func(context.Context, string, int64) (int64, error)) *MockPointsLedger_Credit_Call {
	_c.Call.Return(run, nil)
	return _c
}

// Debit provides a mock function.
func (_m *MockPointsLedger) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	ret := _m.Called(ctx, userID, amount)

	if rf, ok := ret.Get(0).(func(context.Context, string, int64) (int64, error)); ok {
		return rf(ctx, userID, amount)
	}

	return ret.Get(0).(int64), ret.Error(1)
}

// MockPointsLedger_Debit_Call wraps a Debit expectation.
type MockPointsLedger_Debit_Call struct {
	*mock.Call
}

func (_e *MockPointsLedger_Expecter) Debit(ctx, userID, amount any) *MockPointsLedger_Debit_Call {
	return &MockPointsLedger_Debit_Call{Call: _e.mock.On("Debit", ctx, userID, amount)}
}

func (_c *MockPointsLedger_Debit_Call) Return(balance int64, err error) *MockPointsLedger_Debit_Call {
	_c.Call.Return(balance, err)
	return _c
}

func (_c *MockPointsLedger_Debit_Call) RunAndReturn(run func(context.Context, string, int64) (int64, error)) *MockPointsLedger_Debit_Call {
	_c.Call.Return(run, nil)
	return _c
}

// IsUnlocked provides a mock function.
func (_m *MockPointsLedger) IsUnlocked(ctx context.Context, userID string, dateKey string, signKey string) (bool, error) {
	ret := _m.Called(ctx, userID, dateKey, signKey)

	if rf, ok := ret.Get(0).(func(context.Context, string, string, string) (bool, error)); ok {
		return rf(ctx, userID, dateKey, signKey)
	}

	return ret.Bool(0), ret.Error(1)
}

// MockPointsLedger_IsUnlocked_Call wraps a IsUnlocked expectation.
type MockPointsLedger_IsUnlocked_Call struct {
	*mock.Call
}

func (_e *MockPointsLedger_Expecter) IsUnlocked(ctx, userID, dateKey, signKey any) *MockPointsLedger_IsUnlocked_Call {
	return &MockPointsLedger_IsUnlocked_Call{Call: _e.mock.On("IsUnlocked", ctx, userID, dateKey, signKey)}
}

func (_c *MockPointsLedger_IsUnlocked_Call) Return(unlocked bool, err error) *MockPointsLedger_IsUnlocked_Call {
	_c.Call.Return(unlocked, err)
	return _c
}

func (_c *MockPointsLedger_IsUnlocked_Call) RunAndReturn(run func(context.Context, string, string, string) (bool, error)) *MockPointsLedger_IsUnlocked_Call {
	_c.Call.Return(run, nil)
	return _c
}

// MarkUnlocked provides a mock function.
func (_m *MockPointsLedger) MarkUnlocked(ctx context.Context, userID string, dateKey string, signKey string) (bool, error) {
	ret := _m.Called(ctx, userID, dateKey, signKey)

	if rf, ok := ret.Get(0).(func(context.Context, string, string, string) (bool, error)); ok {
		return rf(ctx, userID, dateKey, signKey)
	}

	return ret.Bool(0), ret.Error(1)
}

// MockPointsLedger_MarkUnlocked_Call wraps a MarkUnlocked expectation.
type MockPointsLedger_MarkUnlocked_Call struct {
	*mock.Call
}

func (_e *MockPointsLedger_Expecter) MarkUnlocked(ctx, userID, dateKey, signKey any) *MockPointsLedger_MarkUnlocked_Call {
	return &MockPointsLedger_MarkUnlocked_Call{Call: _e.mock.On("MarkUnlocked", ctx, userID, dateKey, signKey)}
}

func (_c *MockPointsLedger_MarkUnlocked_Call) Return(marked bool, err error) *MockPointsLedger_MarkUnlocked_Call {
	_c.Call.Return(marked, err)
	return _c
}

func (_c *MockPointsLedger_MarkUnlocked_Call) RunAndReturn(run func(context.Context, string, string, string) (bool, error)) *MockPointsLedger_MarkUnlocked_Call {
	_c.Call.Return(run, nil)
	return _c
}

// ClearUnlock provides a mock function.
func (_m *MockPointsLedger) ClearUnlock(ctx context.Context, userID string, dateKey string, signKey string) error {
	ret := _m.Called(ctx, userID, dateKey, signKey)

	if rf, ok := ret.Get(0).(func(context.Context, string, string, string) error); ok {
		return rf(ctx, userID, dateKey, signKey)
	}

	return ret.Error(0)
}

// MockPointsLedger_ClearUnlock_Call wraps a ClearUnlock expectation.
type MockPointsLedger_ClearUnlock_Call struct {
	*mock.Call
}

func (_e *MockPointsLedger_Expecter) ClearUnlock(ctx, userID, dateKey, signKey any) *MockPointsLedger_ClearUnlock_Call {
	return &MockPointsLedger_ClearUnlock_Call{Call: _e.mock.On("ClearUnlock", ctx, userID, dateKey, signKey)}
}

func (_c *MockPointsLedger_ClearUnlock_Call) Return(err error) *MockPointsLedger_ClearUnlock_Call {
	_c.Call.Return(err)
	return _c
}

func (_c *MockPointsLedger_ClearUnlock_Call) RunAndReturn(run func(context.Context, string, string, string) error) *MockPointsLedger_ClearUnlock_Call {
	_c.Call.Return(run)
	return _c
}
