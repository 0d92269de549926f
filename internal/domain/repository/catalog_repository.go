package repository

import (
	"context"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
)

// CatalogRepository defines the interface for pricing-catalog lookups
type CatalogRepository interface {
	GetRate(ctx context.Context, service, pkg string) (*entity.ServiceRate, error)
	ListRates(ctx context.Context) ([]*entity.ServiceRate, error)
}
