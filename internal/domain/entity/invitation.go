package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invitation Status
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
)

// InvitationTTL is how long an invitation token stays valid after (re)issue.
const InvitationTTL = 7 * 24 * time.Hour

// Invitation is a time-boxed pre-authorization token that assigns a role and
// access flag to an email address before that person has ever signed in.
type Invitation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email"` // lowercased
	Name       string             `bson:"name" json:"name"`
	Company    string             `bson:"company,omitempty" json:"company,omitempty"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role       string             `bson:"role" json:"role"`
	HasAccess  bool               `bson:"hasAccess" json:"hasAccess"`
	InvitedBy  string             `bson:"invitedBy" json:"invitedBy"`
	Token      string             `bson:"token" json:"-"`
	Status     string             `bson:"status" json:"status"`
	InvitedAt  time.Time          `bson:"invitedAt" json:"invitedAt"`
	ExpiresAt  time.Time          `bson:"expiresAt" json:"expiresAt"`
	AcceptedAt *time.Time         `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
}

// IsExpired reports whether the invitation token has lapsed.
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IsPending reports whether the invitation can still be consumed.
func (i *Invitation) IsPending(now time.Time) bool {
	return i.Status == InviteStatusPending && !i.IsExpired(now)
}
