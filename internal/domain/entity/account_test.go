package entity

import (
	"testing"
	"time"

	domainerrors "roster/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T) *Account {
	t.Helper()

	account, err := NewAccount("alice", "digest", "Alice", GenderFemale, nil, false, "admin")
	require.NoError(t, err)

	return account
}

func TestNewAccount_Valid(t *testing.T) {
	birthday := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)

	account, err := NewAccount("alice01", "digest", "Alice", GenderFemale, &birthday, true, "admin")
	require.NoError(t, err)

	assert.NotEqual(t, account.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, "alice01", account.Login)
	assert.Equal(t, "Alice", account.DisplayName)
	assert.Equal(t, GenderFemale, account.Gender)
	assert.True(t, account.Admin)
	assert.True(t, account.IsActive())
	assert.Equal(t, "admin", account.CreatedBy)
	assert.Equal(t, "admin", account.ModifiedBy)
	assert.False(t, account.CreatedAt.IsZero())
	assert.Nil(t, account.RevokedAt)
	assert.Nil(t, account.RevokedBy)
}

func TestNewAccount_InvalidLogin(t *testing.T) {
	tests := []struct {
		name  string
		login string
	}{
		{"empty", ""},
		{"underscore", "alice_1"},
		{"space", "alice one"},
		{"cyrillic", "алиса"},
		{"punctuation", "alice!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAccount(tt.login, "digest", "Alice", GenderFemale, nil, false, "admin")
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		})
	}
}

func TestNewAccount_InvalidDisplayName(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
	}{
		{"empty", ""},
		{"digits", "Alice2"},
		{"space", "Alice Smith"},
		{"punctuation", "O'Brien"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAccount("alice", "digest", tt.displayName, GenderFemale, nil, false, "admin")
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		})
	}
}

func TestNewAccount_CyrillicDisplayName(t *testing.T) {
	account, err := NewAccount("boris", "digest", "Борис", GenderMale, nil, false, "admin")
	require.NoError(t, err)
	assert.Equal(t, "Борис", account.DisplayName)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Secret123"))

	for _, password := range []string{"", "pass word", "pass_word", "пароль"} {
		err := ValidatePassword(password)
		require.Error(t, err, password)
		assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	}
}

func TestAccount_UpdatePersonalInfo(t *testing.T) {
	account := newTestAccount(t)
	birthday := time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC)

	err := account.UpdatePersonalInfo("Алиса", GenderUnknown, &birthday, "editor")
	require.NoError(t, err)

	assert.Equal(t, "Алиса", account.DisplayName)
	assert.Equal(t, GenderUnknown, account.Gender)
	require.NotNil(t, account.Birthday)
	assert.True(t, birthday.Equal(*account.Birthday))
	assert.Equal(t, "editor", account.ModifiedBy)
}

func TestAccount_UpdatePersonalInfo_Invalid(t *testing.T) {
	account := newTestAccount(t)

	err := account.UpdatePersonalInfo("Alice 2", GenderFemale, nil, "editor")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	// A rejected update leaves the account untouched.
	assert.Equal(t, "Alice", account.DisplayName)
}

func TestAccount_UpdateLogin(t *testing.T) {
	account := newTestAccount(t)

	require.NoError(t, account.UpdateLogin("alice2", "alice"))
	assert.Equal(t, "alice2", account.Login)
	assert.Equal(t, "alice", account.ModifiedBy)

	err := account.UpdateLogin("bad login", "alice")
	require.Error(t, err)
	assert.Equal(t, "alice2", account.Login)
}

func TestAccount_UpdateCredentialDigest(t *testing.T) {
	account := newTestAccount(t)

	require.NoError(t, account.UpdateCredentialDigest("newdigest", "alice"))
	assert.Equal(t, "newdigest", account.CredentialDigest)

	err := account.UpdateCredentialDigest("", "alice")
	require.Error(t, err)
	assert.Equal(t, "newdigest", account.CredentialDigest)
}

func TestAccount_DeactivateAndRestore(t *testing.T) {
	account := newTestAccount(t)

	account.Deactivate("admin")
	assert.False(t, account.IsActive())
	require.NotNil(t, account.RevokedAt)
	require.NotNil(t, account.RevokedBy)
	assert.Equal(t, "admin", *account.RevokedBy)

	firstStamp := *account.RevokedAt

	// Deactivating again overwrites the revocation stamp.
	account.Deactivate("other")
	assert.False(t, account.IsActive())
	assert.Equal(t, "other", *account.RevokedBy)
	assert.False(t, account.RevokedAt.Before(firstStamp))

	account.Restore("admin")
	assert.True(t, account.IsActive())
	assert.Nil(t, account.RevokedAt)
	assert.Nil(t, account.RevokedBy)

	// Restoring an active account is a no-op.
	account.Restore("admin")
	assert.True(t, account.IsActive())
}

func TestAccount_Age(t *testing.T) {
	account := newTestAccount(t)

	assert.Equal(t, 0, account.Age())

	now := time.Now().UTC()

	passed := now.AddDate(-30, 0, -1)
	account.Birthday = &passed
	assert.Equal(t, 30, account.Age())

	upcoming := now.AddDate(-30, 0, 1)
	account.Birthday = &upcoming
	assert.Equal(t, 29, account.Age())
}

func TestParseGender(t *testing.T) {
	tests := []struct {
		input string
		want  Gender
		ok    bool
	}{
		{"female", GenderFemale, true},
		{"Male", GenderMale, true},
		{"UNKNOWN", GenderUnknown, true},
		{"", GenderUnknown, true},
		{"other", GenderUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseGender(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
