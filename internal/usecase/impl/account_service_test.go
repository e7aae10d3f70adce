package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"roster/internal/domain/entity"
	domainerrors "roster/internal/domain/errors"
	"roster/internal/domain/repository"
	mockRepo "roster/internal/mocks/repository"
	mockService "roster/internal/mocks/service"
	"roster/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubTxManager runs the unit of work against the mocked repository without
// any transactional machinery.
type stubTxManager struct {
	repo repository.AccountRepository
}

func (s stubTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(s)
}

func (s stubTxManager) AccountRepo() repository.AccountRepository {
	return s.repo
}

// accountServiceFixtures holds all test dependencies for account service tests.
type accountServiceFixtures struct {
	service     usecase.AccountUsecase
	accountRepo *mockRepo.MockAccountRepository
	hasher      *mockService.MockCredentialHasher
}

func createTestAccountService(t *testing.T) accountServiceFixtures {
	accountRepo := mockRepo.NewMockAccountRepository(t)
	hasher := mockService.NewMockCredentialHasher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAccountService(AccountServiceParams{
		TxManager:   stubTxManager{repo: accountRepo},
		AccountRepo: accountRepo,
		Hasher:      hasher,
		Logger:      logger,
	})

	return accountServiceFixtures{
		service:     service,
		accountRepo: accountRepo,
		hasher:      hasher,
	}
}

func newStoredAccount(t *testing.T, login string, admin bool) *entity.Account {
	t.Helper()

	account, err := entity.NewAccount(login, login+"digest", "Alice", entity.GenderFemale, nil, admin, "admin")
	require.NoError(t, err)

	return account
}

var adminCreds = usecase.Credentials{Login: "admin", Password: "adminpass"}

func expectAdminCaller(fx accountServiceFixtures, ctx context.Context, admin *entity.Account) {
	fx.accountRepo.On("FindByLogin", ctx, admin.Login).Return(admin, nil).Once()
	fx.hasher.On("Verify", "adminpass", admin.CredentialDigest).Return(true).Once()
}

func TestAccountService_CreateAccount_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	expectAdminCaller(fx, ctx, admin)

	fx.hasher.On("Hash", "Secret123").Return("newdigest", nil).Once()
	fx.accountRepo.On("LoginExists", ctx, "alice", (*uuid.UUID)(nil)).Return(false, nil).Once()
	fx.accountRepo.On("Create", ctx, mock.AnythingOfType("*entity.Account")).Return(nil).Once()

	birthday := time.Date(1995, 3, 10, 0, 0, 0, 0, time.UTC)
	output, err := fx.service.CreateAccount(ctx, adminCreds, &usecase.CreateAccountInput{
		Login:       "alice",
		Password:    "Secret123",
		DisplayName: "Alice",
		Gender:      "female",
		Birthday:    &birthday,
	})
	require.NoError(t, err)
	require.NotNil(t, output)

	assert.Equal(t, "alice", output.Login)
	assert.Equal(t, entity.GenderFemale, output.Gender)
	assert.True(t, output.Active)
	assert.False(t, output.Admin)
	assert.Equal(t, "admin", output.CreatedBy)
}

func TestAccountService_CreateAccount_LoginTaken(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	expectAdminCaller(fx, ctx, admin)

	fx.hasher.On("Hash", "Secret123").Return("newdigest", nil).Once()
	fx.accountRepo.On("LoginExists", ctx, "alice", (*uuid.UUID)(nil)).Return(true, nil).Once()

	_, err := fx.service.CreateAccount(ctx, adminCreds, &usecase.CreateAccountInput{
		Login:       "alice",
		Password:    "Secret123",
		DisplayName: "Alice",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrLoginTaken))
}

func TestAccountService_CreateAccount_NotAdmin(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	caller := newStoredAccount(t, "bob", false)
	fx.accountRepo.On("FindByLogin", ctx, "bob").Return(caller, nil).Once()
	fx.hasher.On("Verify", "bobpass", caller.CredentialDigest).Return(true).Once()

	_, err := fx.service.CreateAccount(ctx, usecase.Credentials{Login: "bob", Password: "bobpass"}, &usecase.CreateAccountInput{
		Login:       "alice",
		Password:    "Secret123",
		DisplayName: "Alice",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAdminRequired))
}

func TestAccountService_CreateAccount_WrongAdminPassword(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	fx.accountRepo.On("FindByLogin", ctx, "admin").Return(admin, nil).Once()
	fx.hasher.On("Verify", "wrong", admin.CredentialDigest).Return(false).Once()

	_, err := fx.service.CreateAccount(ctx, usecase.Credentials{Login: "admin", Password: "wrong"}, &usecase.CreateAccountInput{
		Login:       "alice",
		Password:    "Secret123",
		DisplayName: "Alice",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAccountService_CreateAccount_InactiveCaller(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	admin.Deactivate("root")

	fx.accountRepo.On("FindByLogin", ctx, "admin").Return(admin, nil).Once()
	fx.hasher.On("Verify", "adminpass", admin.CredentialDigest).Return(true).Once()

	_, err := fx.service.CreateAccount(ctx, adminCreds, &usecase.CreateAccountInput{
		Login:       "alice",
		Password:    "Secret123",
		DisplayName: "Alice",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountInactive))
}

func TestAccountService_CreateAccount_InvalidPassword(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	expectAdminCaller(fx, ctx, admin)

	_, err := fx.service.CreateAccount(ctx, adminCreds, &usecase.CreateAccountInput{
		Login:       "alice",
		Password:    "bad password",
		DisplayName: "Alice",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestAccountService_UpdatePersonalInfo_SelfSuccess(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	caller := newStoredAccount(t, "alice", false)

	fx.accountRepo.On("FindByLogin", ctx, "alice").Return(caller, nil).Once()
	fx.hasher.On("Verify", "alicepass", caller.CredentialDigest).Return(true).Once()
	fx.accountRepo.On("FindByID", ctx, caller.ID).Return(caller, nil).Once()
	fx.accountRepo.On("Update", ctx, mock.AnythingOfType("*entity.Account")).Return(nil).Once()

	output, err := fx.service.UpdatePersonalInfo(ctx, usecase.Credentials{Login: "alice", Password: "alicepass"}, caller.ID, &usecase.UpdatePersonalInfoInput{
		DisplayName: "Алиса",
		Gender:      "unknown",
	})
	require.NoError(t, err)
	assert.Equal(t, "Алиса", output.DisplayName)
	assert.Equal(t, entity.GenderUnknown, output.Gender)
	assert.Equal(t, "alice", output.ModifiedBy)
}

func TestAccountService_UpdatePersonalInfo_OtherAccountForbidden(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	caller := newStoredAccount(t, "bob", false)

	fx.accountRepo.On("FindByLogin", ctx, "bob").Return(caller, nil).Once()
	fx.hasher.On("Verify", "bobpass", caller.CredentialDigest).Return(true).Once()

	_, err := fx.service.UpdatePersonalInfo(ctx, usecase.Credentials{Login: "bob", Password: "bobpass"}, uuid.New(), &usecase.UpdatePersonalInfoInput{
		DisplayName: "Alice",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func TestAccountService_UpdatePersonalInfo_OtherAccountForbiddenBeforeValidation(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	caller := newStoredAccount(t, "bob", false)

	fx.accountRepo.On("FindByLogin", ctx, "bob").Return(caller, nil).Once()
	fx.hasher.On("Verify", "bobpass", caller.CredentialDigest).Return(true).Once()

	// An invalid payload must not change the outcome: the ownership check
	// comes first, so the caller sees the authorization error, not the
	// validation error.
	_, err := fx.service.UpdatePersonalInfo(ctx, usecase.Credentials{Login: "bob", Password: "bobpass"}, uuid.New(), &usecase.UpdatePersonalInfoInput{
		DisplayName: "Alice",
		Gender:      "martian",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	assert.False(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestAccountService_UpdatePassword_OtherAccountForbiddenBeforeValidation(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	caller := newStoredAccount(t, "bob", false)

	fx.accountRepo.On("FindByLogin", ctx, "bob").Return(caller, nil).Once()
	fx.hasher.On("Verify", "bobpass", caller.CredentialDigest).Return(true).Once()

	_, err := fx.service.UpdatePassword(ctx, usecase.Credentials{Login: "bob", Password: "bobpass"}, uuid.New(), &usecase.UpdatePasswordInput{
		Password: "bad password!",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
	assert.False(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestAccountService_UpdatePersonalInfo_AdminOnOther(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	target := newStoredAccount(t, "alice", false)

	fx.accountRepo.On("FindByLogin", ctx, "admin").Return(admin, nil).Once()
	fx.hasher.On("Verify", "adminpass", admin.CredentialDigest).Return(true).Once()
	fx.accountRepo.On("FindByID", ctx, target.ID).Return(target, nil).Once()
	fx.accountRepo.On("Update", ctx, mock.AnythingOfType("*entity.Account")).Return(nil).Once()

	output, err := fx.service.UpdatePersonalInfo(ctx, adminCreds, target.ID, &usecase.UpdatePersonalInfoInput{
		DisplayName: "Alina",
		Gender:      "female",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alina", output.DisplayName)
	assert.Equal(t, "admin", output.ModifiedBy)
}

func TestAccountService_UpdatePersonalInfo_TargetNotFound(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	targetID := uuid.New()

	fx.accountRepo.On("FindByLogin", ctx, "admin").Return(admin, nil).Once()
	fx.hasher.On("Verify", "adminpass", admin.CredentialDigest).Return(true).Once()
	fx.accountRepo.On("FindByID", ctx, targetID).Return(nil, repository.ErrAccountNotFound).Once()

	_, err := fx.service.UpdatePersonalInfo(ctx, adminCreds, targetID, &usecase.UpdatePersonalInfoInput{
		DisplayName: "Alice",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountService_UpdatePassword_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	caller := newStoredAccount(t, "alice", false)

	fx.accountRepo.On("FindByLogin", ctx, "alice").Return(caller, nil).Once()
	fx.hasher.On("Verify", "alicepass", caller.CredentialDigest).Return(true).Once()
	fx.hasher.On("Hash", "NewSecret1").Return("freshdigest", nil).Once()
	fx.accountRepo.On("FindByID", ctx, caller.ID).Return(caller, nil).Once()
	fx.accountRepo.On("Update", ctx, mock.MatchedBy(func(a *entity.Account) bool {
		return a.CredentialDigest == "freshdigest"
	})).Return(nil).Once()

	_, err := fx.service.UpdatePassword(ctx, usecase.Credentials{Login: "alice", Password: "alicepass"}, caller.ID, &usecase.UpdatePasswordInput{
		Password: "NewSecret1",
	})
	require.NoError(t, err)
}

func TestAccountService_UpdateLogin_Taken(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	caller := newStoredAccount(t, "alice", false)

	fx.accountRepo.On("FindByLogin", ctx, "alice").Return(caller, nil).Once()
	fx.hasher.On("Verify", "alicepass", caller.CredentialDigest).Return(true).Once()
	fx.accountRepo.On("FindByID", ctx, caller.ID).Return(caller, nil).Once()
	fx.accountRepo.On("LoginExists", ctx, "bob", mock.Anything).Return(true, nil).Once()

	_, err := fx.service.UpdateLogin(ctx, usecase.Credentials{Login: "alice", Password: "alicepass"}, caller.ID, &usecase.UpdateLoginInput{
		Login: "bob",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrLoginTaken))
}

func TestAccountService_UpdateLogin_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	caller := newStoredAccount(t, "alice", false)

	fx.accountRepo.On("FindByLogin", ctx, "alice").Return(caller, nil).Once()
	fx.hasher.On("Verify", "alicepass", caller.CredentialDigest).Return(true).Once()
	fx.accountRepo.On("FindByID", ctx, caller.ID).Return(caller, nil).Once()
	fx.accountRepo.On("LoginExists", ctx, "alice2", mock.Anything).Return(false, nil).Once()
	fx.accountRepo.On("Update", ctx, mock.AnythingOfType("*entity.Account")).Return(nil).Once()

	output, err := fx.service.UpdateLogin(ctx, usecase.Credentials{Login: "alice", Password: "alicepass"}, caller.ID, &usecase.UpdateLoginInput{
		Login: "alice2",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice2", output.Login)
}

func TestAccountService_ListActiveAccounts(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	alice := newStoredAccount(t, "alice", false)
	expectAdminCaller(fx, ctx, admin)

	fx.accountRepo.On("ListActive", ctx).Return([]*entity.Account{admin, alice}, nil).Once()

	outputs, err := fx.service.ListActiveAccounts(ctx, adminCreds)
	require.NoError(t, err)
	require.Len(t, outputs, 2)
	assert.Equal(t, "admin", outputs[0].Login)
	assert.Equal(t, "alice", outputs[1].Login)
}

func TestAccountService_GetAccountByLogin_NotFound(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	expectAdminCaller(fx, ctx, admin)

	fx.accountRepo.On("FindByLogin", ctx, "ghost").Return(nil, repository.ErrAccountNotFound).Once()

	_, err := fx.service.GetAccountByLogin(ctx, adminCreds, "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountService_GetAccountByLogin_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	alice := newStoredAccount(t, "alice", false)
	expectAdminCaller(fx, ctx, admin)

	fx.accountRepo.On("FindByLogin", ctx, "alice").Return(alice, nil).Once()

	output, err := fx.service.GetAccountByLogin(ctx, adminCreds, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", output.DisplayName)
	assert.True(t, output.Active)
}

func TestAccountService_Authenticate_Success(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	alice := newStoredAccount(t, "alice", false)

	fx.accountRepo.On("FindByLogin", ctx, "alice").Return(alice, nil).Once()
	fx.hasher.On("Verify", "alicepass", alice.CredentialDigest).Return(true).Once()

	output, err := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Login: "alice", Password: "alicepass"})
	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, alice.ID, output.ID)
	assert.Equal(t, "alice", output.Login)
}

func TestAccountService_Authenticate_Failures(t *testing.T) {
	t.Run("unknown login", func(t *testing.T) {
		fx := createTestAccountService(t)
		ctx := context.Background()

		fx.accountRepo.On("FindByLogin", ctx, "ghost").Return(nil, repository.ErrAccountNotFound).Once()

		output, err := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Login: "ghost", Password: "whatever"})
		require.NoError(t, err)
		assert.Nil(t, output)
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := createTestAccountService(t)
		ctx := context.Background()

		alice := newStoredAccount(t, "alice", false)
		fx.accountRepo.On("FindByLogin", ctx, "alice").Return(alice, nil).Once()
		fx.hasher.On("Verify", "wrong", alice.CredentialDigest).Return(false).Once()

		output, err := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Login: "alice", Password: "wrong"})
		require.NoError(t, err)
		assert.Nil(t, output)
	})

	t.Run("deactivated account", func(t *testing.T) {
		fx := createTestAccountService(t)
		ctx := context.Background()

		alice := newStoredAccount(t, "alice", false)
		alice.Deactivate("admin")

		fx.accountRepo.On("FindByLogin", ctx, "alice").Return(alice, nil).Once()
		fx.hasher.On("Verify", "alicepass", alice.CredentialDigest).Return(true).Once()

		output, err := fx.service.Authenticate(ctx, &usecase.AuthenticateInput{Login: "alice", Password: "alicepass"})
		require.NoError(t, err)
		assert.Nil(t, output)
	})
}

func TestAccountService_ListAccountsByMinAge(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	alice := newStoredAccount(t, "alice", false)
	expectAdminCaller(fx, ctx, admin)

	fx.accountRepo.On("ListByMinAge", ctx, 18).Return([]*entity.Account{alice}, nil).Once()

	outputs, err := fx.service.ListAccountsByMinAge(ctx, adminCreds, 18)
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, "alice", outputs[0].Login)
}

func TestAccountService_DeleteAccount_Soft(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	alice := newStoredAccount(t, "alice", false)
	expectAdminCaller(fx, ctx, admin)

	fx.accountRepo.On("FindByLogin", ctx, "alice").Return(alice, nil).Once()
	fx.accountRepo.On("Update", ctx, mock.MatchedBy(func(a *entity.Account) bool {
		return !a.IsActive() && a.RevokedBy != nil && *a.RevokedBy == "admin"
	})).Return(nil).Once()

	err := fx.service.DeleteAccount(ctx, adminCreds, "alice", true)
	require.NoError(t, err)
}

func TestAccountService_DeleteAccount_Hard(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	alice := newStoredAccount(t, "alice", false)
	expectAdminCaller(fx, ctx, admin)

	fx.accountRepo.On("FindByLogin", ctx, "alice").Return(alice, nil).Once()
	fx.accountRepo.On("DeleteByID", ctx, alice.ID).Return(nil).Once()

	err := fx.service.DeleteAccount(ctx, adminCreds, "alice", false)
	require.NoError(t, err)
}

func TestAccountService_DeleteAccount_NotFound(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	expectAdminCaller(fx, ctx, admin)

	fx.accountRepo.On("FindByLogin", ctx, "ghost").Return(nil, repository.ErrAccountNotFound).Once()

	err := fx.service.DeleteAccount(ctx, adminCreds, "ghost", true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountNotFound))
}

func TestAccountService_RestoreAccount(t *testing.T) {
	fx := createTestAccountService(t)
	ctx := context.Background()

	admin := newStoredAccount(t, "admin", true)
	alice := newStoredAccount(t, "alice", false)
	alice.Deactivate("admin")
	expectAdminCaller(fx, ctx, admin)

	fx.accountRepo.On("FindByLogin", ctx, "alice").Return(alice, nil).Once()
	fx.accountRepo.On("Update", ctx, mock.MatchedBy(func(a *entity.Account) bool {
		return a.IsActive()
	})).Return(nil).Once()

	output, err := fx.service.RestoreAccount(ctx, adminCreds, "alice")
	require.NoError(t, err)
	assert.True(t, output.Active)
	assert.Nil(t, output.RevokedAt)
}
