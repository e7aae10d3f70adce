// Package repository provides test doubles for the domain repository interfaces.
package repository

import (
	"context"

	"roster/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a testify mock for repository.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

// NewMockAccountRepository creates a mock wired to the test lifecycle.
func NewMockAccountRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	args := m.Called(ctx, id)

	var account *entity.Account
	if v := args.Get(0); v != nil {
		account = v.(*entity.Account)
	}

	return account, args.Error(1)
}

func (m *MockAccountRepository) FindByLogin(ctx context.Context, login string) (*entity.Account, error) {
	args := m.Called(ctx, login)

	var account *entity.Account
	if v := args.Get(0); v != nil {
		account = v.(*entity.Account)
	}

	return account, args.Error(1)
}

func (m *MockAccountRepository) ListActive(ctx context.Context) ([]*entity.Account, error) {
	args := m.Called(ctx)

	var accounts []*entity.Account
	if v := args.Get(0); v != nil {
		accounts = v.([]*entity.Account)
	}

	return accounts, args.Error(1)
}

func (m *MockAccountRepository) ListByMinAge(ctx context.Context, minAge int) ([]*entity.Account, error) {
	args := m.Called(ctx, minAge)

	var accounts []*entity.Account
	if v := args.Get(0); v != nil {
		accounts = v.([]*entity.Account)
	}

	return accounts, args.Error(1)
}

func (m *MockAccountRepository) LoginExists(ctx context.Context, login string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, login, excludeID)

	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

func (m *MockAccountRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}
