// Package service provides test doubles for the domain service interfaces.
package service

import (
	"github.com/stretchr/testify/mock"
)

// MockCredentialHasher is a testify mock for service.CredentialHasher.
type MockCredentialHasher struct {
	mock.Mock
}

// NewMockCredentialHasher creates a mock wired to the test lifecycle.
func NewMockCredentialHasher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCredentialHasher {
	m := &MockCredentialHasher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCredentialHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockCredentialHasher) Verify(password, digest string) bool {
	args := m.Called(password, digest)

	return args.Bool(0)
}
