package entity

import "time"

// ServiceRate is one row of the pricing catalog: the quoted price for a
// service/package combination. Kept as relational reference data, separate
// from the live booking documents.
type ServiceRate struct {
	ID        uint      `json:"id"`
	Service   string    `json:"service"`
	Package   string    `json:"package"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultPackagePrices backs price estimation when the catalog has no row for
// a combination.
var DefaultPackagePrices = map[string]float64{
	PackageBasic:    199,
	PackageStandard: 399,
	PackagePremium:  799,
}
