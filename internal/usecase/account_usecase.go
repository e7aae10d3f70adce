// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"roster/internal/domain/entity"

	"github.com/google/uuid"
)

// Credentials carries the caller's login and plaintext password. Every
// privileged operation authenticates these before touching the target
// account.
type Credentials struct {
	Login    string
	Password string
}

// --- Input DTOs ---

// CreateAccountInput defines the data required to create a new account.
type CreateAccountInput struct {
	Login       string     `json:"login" validate:"required"`
	Password    string     `json:"password" validate:"required"`
	DisplayName string     `json:"displayName" validate:"required"`
	Gender      string     `json:"gender"`
	Birthday    *time.Time `json:"birthday"`
	Admin       bool       `json:"admin"`
}

// UpdatePersonalInfoInput replaces the target's display name, gender and birthday.
type UpdatePersonalInfoInput struct {
	DisplayName string     `json:"displayName" validate:"required"`
	Gender      string     `json:"gender"`
	Birthday    *time.Time `json:"birthday"`
}

// UpdatePasswordInput carries the new plaintext password for the target account.
type UpdatePasswordInput struct {
	Password string `json:"password" validate:"required"`
}

// UpdateLoginInput carries the new login for the target account.
type UpdateLoginInput struct {
	Login string `json:"login" validate:"required"`
}

// AuthenticateInput is the public credential check payload.
type AuthenticateInput struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// AccountOutput is the full projection returned to administrators and to
// account owners for their own mutations: identity, state and audit stamps.
type AccountOutput struct {
	ID          uuid.UUID     `json:"id"`
	Login       string        `json:"login"`
	DisplayName string        `json:"displayName"`
	Gender      entity.Gender `json:"gender"`
	Birthday    *time.Time    `json:"birthday,omitempty"`
	Admin       bool          `json:"admin"`
	Active      bool          `json:"active"`
	CreatedAt   time.Time     `json:"createdAt"`
	CreatedBy   string        `json:"createdBy"`
	ModifiedAt  time.Time     `json:"modifiedAt"`
	ModifiedBy  string        `json:"modifiedBy"`
	RevokedAt   *time.Time    `json:"revokedAt,omitempty"`
	RevokedBy   *string       `json:"revokedBy,omitempty"`
}

// AccountSummaryOutput is the reduced projection for admin by-login lookups:
// no id, no audit stamps.
type AccountSummaryOutput struct {
	DisplayName string        `json:"displayName"`
	Gender      entity.Gender `json:"gender"`
	Birthday    *time.Time    `json:"birthday,omitempty"`
	Active      bool          `json:"active"`
}

// AuthenticatedAccountOutput is the minimal public projection returned by the
// anonymous authenticate operation.
type AuthenticatedAccountOutput struct {
	ID          uuid.UUID     `json:"id"`
	Login       string        `json:"login"`
	DisplayName string        `json:"displayName"`
	Gender      entity.Gender `json:"gender"`
	Birthday    *time.Time    `json:"birthday,omitempty"`
	Admin       bool          `json:"admin"`
}

// AccountUsecase defines the interface for account lifecycle operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	// CreateAccount creates a new account. Admin only.
	CreateAccount(ctx context.Context, caller Credentials, input *CreateAccountInput) (*AccountOutput, error)

	// UpdatePersonalInfo replaces name/gender/birthday on the target account.
	// Allowed for the account owner or an admin.
	UpdatePersonalInfo(ctx context.Context, caller Credentials, accountID uuid.UUID, input *UpdatePersonalInfoInput) (*AccountOutput, error)

	// UpdatePassword replaces the target account's credential digest.
	// Allowed for the account owner or an admin.
	UpdatePassword(ctx context.Context, caller Credentials, accountID uuid.UUID, input *UpdatePasswordInput) (*AccountOutput, error)

	// UpdateLogin replaces the target account's login.
	// Allowed for the account owner or an admin.
	UpdateLogin(ctx context.Context, caller Credentials, accountID uuid.UUID, input *UpdateLoginInput) (*AccountOutput, error)

	// ListActiveAccounts returns all active accounts ordered by creation time.
	// Admin only.
	ListActiveAccounts(ctx context.Context, caller Credentials) ([]*AccountOutput, error)

	// GetAccountByLogin returns the reduced projection of one account. Admin only.
	GetAccountByLogin(ctx context.Context, caller Credentials, login string) (*AccountSummaryOutput, error)

	// Authenticate checks credentials anonymously. It returns (nil, nil) for
	// any bad credential or inactive account instead of an error, so callers
	// never learn why authentication failed.
	Authenticate(ctx context.Context, input *AuthenticateInput) (*AuthenticatedAccountOutput, error)

	// ListAccountsByMinAge returns accounts at least minAge years old,
	// revoked ones included. Admin only.
	ListAccountsByMinAge(ctx context.Context, caller Credentials, minAge int) ([]*AccountOutput, error)

	// DeleteAccount deactivates (soft) or permanently removes (hard) the
	// account with the given login. Admin only.
	DeleteAccount(ctx context.Context, caller Credentials, login string, soft bool) error

	// RestoreAccount reactivates a soft-deleted account. Admin only.
	RestoreAccount(ctx context.Context, caller Credentials, login string) (*AccountOutput, error)
}
