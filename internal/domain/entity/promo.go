package entity

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Promo is a time-boxed percentage discount. At most one promo may be
// currently active for any given moment.
type Promo struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	Description        string             `bson:"description,omitempty" json:"description,omitempty"`
	DiscountPercentage int                `bson:"discountPercentage" json:"discountPercentage"` // 1-100
	StartDate          time.Time          `bson:"startDate" json:"startDate"`
	EndDate            time.Time          `bson:"endDate" json:"endDate"`
	IsActive           bool               `bson:"isActive" json:"isActive"`
	CreatedBy          string             `bson:"createdBy" json:"createdBy"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsCurrentlyActive reports whether the promo applies at the given moment.
func (p *Promo) IsCurrentlyActive(now time.Time) bool {
	return p.IsActive && !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// Overlaps reports whether the promo's interval intersects [start, end],
// bounds inclusive.
func (p *Promo) Overlaps(start, end time.Time) bool {
	return !p.StartDate.After(end) && !p.EndDate.Before(start)
}

// DiscountedPrice applies the promo to a price, rounding half-up to the
// nearest whole unit. The same rule is used everywhere a discounted price is
// shown so display and charge never diverge.
func (p *Promo) DiscountedPrice(price float64) float64 {
	return math.Round(price - price*float64(p.DiscountPercentage)/100)
}
