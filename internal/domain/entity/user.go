package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleChange is one append-only entry of a user's role audit trail.
type RoleChange struct {
	Role      string    `bson:"role" json:"role"`
	ChangedAt time.Time `bson:"changedAt" json:"changedAt"`
	ChangedBy string    `bson:"changedBy" json:"changedBy"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

// EmailVerification tracks the verify-your-address flow for credential accounts.
type EmailVerification struct {
	Verified  bool      `bson:"verified" json:"verified"`
	Token     string    `bson:"token,omitempty" json:"-"`
	ExpiresAt time.Time `bson:"expiresAt,omitempty" json:"-"`
}

// PendingEmailChange holds a requested address change awaiting confirmation.
type PendingEmailChange struct {
	NewEmail  string    `bson:"newEmail" json:"newEmail"`
	Token     string    `bson:"token" json:"-"`
	ExpiresAt time.Time `bson:"expiresAt" json:"-"`
}

// User is a concrete account, created directly by an admin, via credential
// signup, or materialized from an invitation at first external sign-in.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"` // unique, lowercased
	Name      string             `bson:"name" json:"name"`
	Role      string             `bson:"role" json:"role"`
	HasAccess bool               `bson:"hasAccess" json:"hasAccess"`
	Company   string             `bson:"company,omitempty" json:"company,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Picture   string             `bson:"picture,omitempty" json:"picture,omitempty"`

	// Empty for OAuth-only accounts.
	PasswordHash string `bson:"passwordHash,omitempty" json:"-"`

	RoleHistory []RoleChange        `bson:"roleHistory,omitempty" json:"roleHistory,omitempty"`
	EmailVerify EmailVerification   `bson:"emailVerification" json:"emailVerification"`
	EmailChange *PendingEmailChange `bson:"pendingEmailChange,omitempty" json:"pendingEmailChange,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AppendRoleChange records a role assignment in the audit trail and applies it.
func (u *User) AppendRoleChange(role, changedBy, reason string, at time.Time) {
	u.Role = role
	u.RoleHistory = append(u.RoleHistory, RoleChange{
		Role:      role,
		ChangedAt: at,
		ChangedBy: changedBy,
		Reason:    reason,
	})
}
