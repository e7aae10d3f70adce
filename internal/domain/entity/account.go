// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"regexp"
	"time"

	domainerrors "roster/internal/domain/errors"

	"github.com/google/uuid"
)

var (
	loginPattern    = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	passwordPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	namePattern     = regexp.MustCompile(`^[A-Za-z\x{0400}-\x{04FF}]+$`)
)

// Account is the single aggregate of the system: the persisted user record
// and the unit of authorization. All state transitions go through its methods,
// which validate input and stamp the audit fields. New accounts must be built
// via NewAccount; the persistence layer hydrates stored rows directly without
// re-running business rules.
type Account struct {
	ID               uuid.UUID
	Login            string
	CredentialDigest string // One-way digest of the password, never the plaintext.
	DisplayName      string
	Gender           Gender
	Birthday         *time.Time
	Admin            bool
	CreatedAt        time.Time
	CreatedBy        string
	ModifiedAt       time.Time
	ModifiedBy       string
	RevokedAt        *time.Time
	RevokedBy        *string
}

// NewAccount is the validated factory for accounts. The credential digest must
// already be produced by the hasher; use ValidatePassword on the plaintext
// before hashing. Returns a validation error when login or display name
// violate the charset rules or the digest is empty.
func NewAccount(login, credentialDigest, displayName string, gender Gender, birthday *time.Time, admin bool, actorLogin string) (*Account, error) {
	account := &Account{
		ID:     uuid.New(),
		Gender: GenderUnknown,
		Admin:  admin,
	}

	if err := account.setLogin(login); err != nil {
		return nil, err
	}
	if err := account.setCredentialDigest(credentialDigest); err != nil {
		return nil, err
	}
	if err := account.setDisplayName(displayName); err != nil {
		return nil, err
	}
	if err := account.setGender(gender); err != nil {
		return nil, err
	}
	account.Birthday = birthday

	now := time.Now().UTC()
	account.CreatedAt = now
	account.CreatedBy = actorLogin
	account.ModifiedAt = now
	account.ModifiedBy = actorLogin

	return account, nil
}

// IsActive reports whether the account has not been revoked.
func (a *Account) IsActive() bool {
	return a.RevokedAt == nil
}

// UpdatePersonalInfo replaces the display name, gender and birthday.
func (a *Account) UpdatePersonalInfo(displayName string, gender Gender, birthday *time.Time, actorLogin string) error {
	if err := a.setDisplayName(displayName); err != nil {
		return err
	}
	if err := a.setGender(gender); err != nil {
		return err
	}
	a.Birthday = birthday
	a.touch(actorLogin)

	return nil
}

// UpdateCredentialDigest replaces the stored digest. The caller must have
// already hashed the plaintext password.
func (a *Account) UpdateCredentialDigest(credentialDigest, actorLogin string) error {
	if err := a.setCredentialDigest(credentialDigest); err != nil {
		return err
	}
	a.touch(actorLogin)

	return nil
}

// UpdateLogin replaces the login. Uniqueness against other accounts is the
// store's concern, not the entity's.
func (a *Account) UpdateLogin(login, actorLogin string) error {
	if err := a.setLogin(login); err != nil {
		return err
	}
	a.touch(actorLogin)

	return nil
}

// Deactivate marks the account as revoked (soft delete). Calling it on an
// already revoked account simply refreshes the revocation stamp.
func (a *Account) Deactivate(actorLogin string) {
	now := time.Now().UTC()
	actor := actorLogin
	a.RevokedAt = &now
	a.RevokedBy = &actor
	a.touch(actorLogin)
}

// Restore clears the revocation, reactivating the account. Idempotent.
func (a *Account) Restore(actorLogin string) {
	a.RevokedAt = nil
	a.RevokedBy = nil
	a.touch(actorLogin)
}

// Age returns the account holder's age in full years, or 0 when no birthday
// is recorded.
func (a *Account) Age() int {
	if a.Birthday == nil {
		return 0
	}

	today := time.Now().UTC()
	age := today.Year() - a.Birthday.Year()
	if a.Birthday.AddDate(age, 0, 0).After(today) {
		age--
	}

	return age
}

// ValidatePassword checks the plaintext password against the charset rules
// before it is handed to the hasher. The entity itself never stores plaintext.
func ValidatePassword(password string) error {
	if password == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("password cannot be empty")
	}
	if !passwordPattern.MatchString(password) {
		return domainerrors.ErrValidationFailed.WrapMessage("password can only contain latin letters and digits")
	}

	return nil
}

func (a *Account) touch(actorLogin string) {
	a.ModifiedAt = time.Now().UTC()
	a.ModifiedBy = actorLogin
}

func (a *Account) setLogin(login string) error {
	if login == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("login cannot be empty")
	}
	if !loginPattern.MatchString(login) {
		return domainerrors.ErrValidationFailed.WrapMessage("login can only contain latin letters and digits")
	}
	a.Login = login

	return nil
}

func (a *Account) setCredentialDigest(digest string) error {
	if digest == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("credential digest cannot be empty")
	}
	a.CredentialDigest = digest

	return nil
}

func (a *Account) setDisplayName(name string) error {
	if name == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("display name cannot be empty")
	}
	if !namePattern.MatchString(name) {
		return domainerrors.ErrValidationFailed.WrapMessage("display name can only contain latin and cyrillic letters")
	}
	a.DisplayName = name

	return nil
}

func (a *Account) setGender(gender Gender) error {
	if !gender.IsValid() {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown gender value")
	}
	a.Gender = gender

	return nil
}
