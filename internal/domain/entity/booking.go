package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking Status
const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingInProgress = "in-progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
)

// Booking Source
const (
	SourceCustomer = "customer"
	SourceZeitview = "zeitview"
	SourceManual   = "manual"
)

// Service Package
const (
	PackageBasic    = "basic"
	PackageStandard = "standard"
	PackagePremium  = "premium"
)

// Placeholder values applied to identity fields on non-customer bookings.
const (
	MissionPlaceholderName  = "Mission Operator"
	MissionPlaceholderEmail = "missions@sleepysquid.com"
	MissionPlaceholderPhone = "000-000-0000"
)

// ServiceTypes lists the seven bookable service categories.
var ServiceTypes = []string{
	"aerial-photography",
	"drone-videography",
	"mapping-surveying",
	"real-estate-marketing",
	"infrastructure-inspection",
	"event-coverage",
	"custom",
}

// BookingStatuses lists every valid booking status.
var BookingStatuses = []string{
	BookingPending,
	BookingConfirmed,
	BookingInProgress,
	BookingCompleted,
	BookingCancelled,
}

// BookingSources lists every valid booking source.
var BookingSources = []string{SourceCustomer, SourceZeitview, SourceManual}

// ServicePackages lists every valid package tier.
var ServicePackages = []string{PackageBasic, PackageStandard, PackagePremium}

// Coordinates is an optional lat/lng pair attached to a booking.
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Booking represents a service request, either customer-submitted or a
// system-sourced mission (source != customer).
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MissionID string             `bson:"missionId,omitempty" json:"missionId,omitempty"` // DBM<digits>, unique when present
	Source    string             `bson:"source" json:"source"`
	Service   string             `bson:"service" json:"service"`
	Package   string             `bson:"package,omitempty" json:"package,omitempty"`

	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`

	Date     time.Time `bson:"date" json:"date"`
	Location string    `bson:"location" json:"location"`
	Details  string    `bson:"details,omitempty" json:"details,omitempty"`

	// Customer pricing
	EstimatedPrice float64 `bson:"estimatedPrice,omitempty" json:"estimatedPrice,omitempty"`
	FinalPrice     float64 `bson:"finalPrice,omitempty" json:"finalPrice,omitempty"`

	// Mission economics
	Payout         float64 `bson:"payout,omitempty" json:"payout,omitempty"`
	TravelDistance float64 `bson:"travelDistance,omitempty" json:"travelDistance,omitempty"`
	TravelTime     float64 `bson:"travelTime,omitempty" json:"travelTime,omitempty"`

	Status      string       `bson:"status" json:"status"`
	AdminNotes  string       `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsMission reports whether the booking is system- or staff-originated.
func (b *Booking) IsMission() bool {
	return b.Source != SourceCustomer
}

// IsTerminal reports whether the booking status admits no further transitions.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingCompleted || b.Status == BookingCancelled
}

// allowedTransitions is the admin-driven status graph. Cancelled is reachable
// from any non-terminal state; completed and cancelled are terminal.
var allowedTransitions = map[string][]string{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingInProgress, BookingCancelled},
	BookingInProgress: {BookingCompleted, BookingCancelled},
	BookingCompleted:  {},
	BookingCancelled:  {},
}

// CanTransitionTo reports whether moving the booking to the given status is
// allowed. Setting the current status again is a no-op and always allowed.
func (b *Booking) CanTransitionTo(status string) bool {
	if status == b.Status {
		return true
	}
	for _, next := range allowedTransitions[b.Status] {
		if next == status {
			return true
		}
	}
	return false
}

// BookingFilter narrows admin listing queries. Nil fields are ignored.
type BookingFilter struct {
	Status   string
	Source   string
	Service  string
	Email    string
	DateFrom *time.Time
	DateTo   *time.Time
}

// BookingUpdate carries an admin partial update. Nil fields are left untouched.
type BookingUpdate struct {
	Status         *string  `json:"status,omitempty"`
	EstimatedPrice *float64 `json:"estimatedPrice,omitempty"`
	FinalPrice     *float64 `json:"finalPrice,omitempty"`
	Payout         *float64 `json:"payout,omitempty"`
	AdminNotes     *string  `json:"adminNotes,omitempty"`
}

// Empty reports whether no field was supplied.
func (u *BookingUpdate) Empty() bool {
	return u.Status == nil && u.EstimatedPrice == nil && u.FinalPrice == nil &&
		u.Payout == nil && u.AdminNotes == nil
}

// StatusCount is one bucket of the status aggregation.
type StatusCount struct {
	Status  string  `bson:"_id" json:"status"`
	Count   int64   `bson:"count" json:"count"`
	Revenue float64 `bson:"revenue" json:"revenue"`
}

// MonthlyCount is one bucket of the monthly aggregation.
type MonthlyCount struct {
	Month string `bson:"_id" json:"month"` // YYYY-MM
	Count int64  `bson:"count" json:"count"`
}

// BookingStats is the aggregate analytics document served to admin dashboards.
type BookingStats struct {
	Total         int64          `json:"total"`
	ByStatus      []StatusCount  `json:"byStatus"`
	ByMonth       []MonthlyCount `json:"byMonth"`
	MissionCount  int64          `json:"missionCount"`
	MissionPayout float64        `json:"missionPayout"`
}
