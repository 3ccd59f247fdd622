package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/horoscope-service/internal/domain"
	"github.com/jsamuelsen/horoscope-service/internal/ports"
)

// MockFortuneWriter is a mock implementation of ports.FortuneWriter.
type MockFortuneWriter struct {
	mock.Mock
}

// MockFortuneWriter_Expecter records expectations for MockFortuneWriter.
type MockFortuneWriter_Expecter struct {
	mock *mock.Mock
}

// NewMockFortuneWriter creates a mock and registers its assertions with t.
func NewMockFortuneWriter(t testingT) *MockFortuneWriter {
	m := &MockFortuneWriter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (_m *MockFortuneWriter) EXPECT() *MockFortuneWriter_Expecter {
	return &MockFortuneWriter_Expecter{mock: &_m.Mock}
}

// WriteFortune provides a mock function.
func (_m *MockFortuneWriter) WriteFortune(ctx context.Context, req ports.FortuneRequest) (*domain.Fortune, error) {
	ret := _m.Called(ctx, req)

	if rf, ok := ret.Get(0).(func(context.Context, ports.FortuneRequest) (*domain.Fortune, error)); ok {
		return rf(ctx, req)
	}

	var r0 *domain.Fortune
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Fortune)
	}

	return r0, ret.Error(1)
}

// MockFortuneWriter_WriteFortune_Call wraps a WriteFortune expectation.
type MockFortuneWriter_WriteFortune_Call struct {
	*mock.Call
}

func (_e *MockFortuneWriter_Expecter) WriteFortune(ctx, req any) *MockFortuneWriter_WriteFortune_Call {
	return &MockFortuneWriter_WriteFortune_Call{Call: _e.mock.On("WriteFortune", ctx, req)}
}

func (_c *MockFortuneWriter_WriteFortune_Call) Return(f *domain.Fortune, err error) *MockFortuneWriter_WriteFortune_Call {
	_c.Call.Return(f, err)
	return _c
}

func (_c *MockFortuneWriter_WriteFortune_Call) RunAndReturn(
	run func(context.Context, ports.FortuneRequest) (*domain.Fortune, error),
) *MockFortuneWriter_WriteFortune_Call {
	_c.Call.Return(run, nil)
	return _c
}

// WriteReading provides a mock function.
func (_m *MockFortuneWriter) WriteReading(ctx context.Context, req ports.ReadingRequest) (*domain.Reading, error) {
	ret := _m.Called(ctx, req)

	if rf, ok := ret.Get(0).(func(context.Context, ports.ReadingRequest) (*domain.Reading, error)); ok {
		return rf(ctx, req)
	}

	var r0 *domain.Reading
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Reading)
	}

	return r0, ret.Error(1)
}

// MockFortuneWriter_WriteReading_Call wraps a WriteReading expectation.
type MockFortuneWriter_WriteReading_Call struct {
	*mock.Call
}

func (_e *MockFortuneWriter_Expecter) WriteReading(ctx, req any) *MockFortuneWriter_WriteReading_Call {
	return &MockFortuneWriter_WriteReading_Call{Call: _e.mock.On("WriteReading", ctx, req)}
}

func (_c *MockFortuneWriter_WriteReading_Call) Return(r *domain.Reading, err error) *MockFortuneWriter_WriteReading_Call {
	_c.Call.Return(r, err)
	return _c
}

func (_c *MockFortuneWriter_WriteReading_Call) RunAndReturn(
	run func(context.Context, ports.ReadingRequest) (*domain.Reading, error),
) *MockFortuneWriter_WriteReading_Call {
	_c.Call.Return(run, nil)
	return _c
}
