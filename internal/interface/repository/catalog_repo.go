package repository

import (
	"context"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
	"github.com/lawmbass/sleepysquid-drones/internal/domain/repository"

	"gorm.io/gorm"
)

// GormCatalogRepository implements the CatalogRepository interface
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository
func NewGormCatalogRepository(db *gorm.DB) repository.CatalogRepository {
	return &GormCatalogRepository{
		db: db,
	}
}

// ServiceRates GORM model for database mapping
type ServiceRates struct {
	ID        uint   `gorm:"primaryKey"`
	Service   string `gorm:"column:service;index:idx_service_package,unique"`
	Package   string `gorm:"column:package;index:idx_service_package,unique"`
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (ServiceRates) TableName() string {
	return "m_service_rates"
}

// GetRate finds the quoted price for a service/package combination
func (r *GormCatalogRepository) GetRate(ctx context.Context, service, pkg string) (*entity.ServiceRate, error) {
	var rate ServiceRates
	result := r.db.WithContext(ctx).Where("service = ? AND package = ?", service, pkg).First(&rate)

	if result.Error != nil {
		return nil, result.Error
	}

	return &entity.ServiceRate{
		ID:        rate.ID,
		Service:   rate.Service,
		Package:   rate.Package,
		Price:     rate.Price,
		CreatedAt: rate.CreatedAt,
		UpdatedAt: rate.UpdatedAt,
	}, nil
}

// ListRates returns the whole catalog
func (r *GormCatalogRepository) ListRates(ctx context.Context) ([]*entity.ServiceRate, error) {
	var rates []ServiceRates
	result := r.db.WithContext(ctx).Order("service, package").Find(&rates)
	if result.Error != nil {
		return nil, result.Error
	}

	out := make([]*entity.ServiceRate, 0, len(rates))
	for _, rate := range rates {
		out = append(out, &entity.ServiceRate{
			ID:        rate.ID,
			Service:   rate.Service,
			Package:   rate.Package,
			Price:     rate.Price,
			CreatedAt: rate.CreatedAt,
			UpdatedAt: rate.UpdatedAt,
		})
	}
	return out, nil
}

// SeedDefaultRates migrates the table and inserts the default package prices
// for every service that has no row yet.
func SeedDefaultRates(db *gorm.DB) error {
	if err := db.AutoMigrate(&ServiceRates{}); err != nil {
		return err
	}

	for _, service := range entity.ServiceTypes {
		for pkg, price := range entity.DefaultPackagePrices {
			var count int64
			db.Model(&ServiceRates{}).Where("service = ? AND package = ?", service, pkg).Count(&count)
			if count == 0 {
				db.Create(&ServiceRates{Service: service, Package: pkg, Price: price})
			}
		}
	}
	return nil
}
