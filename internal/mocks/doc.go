// Package mocks provides testify mocks for the interfaces in internal/ports.
//
// The mocks follow mockery's expecter layout so tests read the same way as
// generated ones:
//
//	ledger := mocks.NewMockPointsLedger(t)
//	ledger.EXPECT().Balance(mock.Anything, "user-1").Return(3, nil)
//
// Expectations are asserted automatically when the test ends.
package mocks

import "github.com/stretchr/testify/mock"

// testingT is what the constructors need from *testing.T.
type testingT interface {
	mock.TestingT
	Cleanup(func())
}
