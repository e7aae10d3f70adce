// Package model holds the GORM persistence models, kept separate from the
// domain entities so storage concerns never leak into business rules.
package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. IDs are assigned by the domain
// factory, not by the database. The unique index on login is the atomic
// uniqueness guarantee; LoginExists pre-checks only exist for friendlier
// error reporting.
type AccountModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Login            string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_accounts_login"`
	CredentialDigest string     `gorm:"type:varchar(200);not null"`
	DisplayName      string     `gorm:"type:varchar(100);not null"`
	Gender           string     `gorm:"type:varchar(16);not null"`
	Birthday         *time.Time `gorm:"type:date"`
	Admin            bool       `gorm:"not null;default:false"`
	CreatedAt        time.Time  `gorm:"not null"`
	CreatedBy        string     `gorm:"type:varchar(50);not null"`
	ModifiedAt       time.Time  `gorm:"not null"`
	ModifiedBy       string     `gorm:"type:varchar(50);not null"`
	RevokedAt        *time.Time `gorm:"index"`
	RevokedBy        *string    `gorm:"type:varchar(50)"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}
