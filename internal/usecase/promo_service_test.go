package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPromoService(repo *fakePromoRepo) *PromoService {
	s := NewPromoService(repo, logger.NewNop())
	s.now = func() time.Time { return testNow }
	return s
}

func promoInput(start, end time.Time, active bool) CreatePromoInput {
	return CreatePromoInput{
		Name:               "Spring Special",
		DiscountPercentage: 10,
		StartDate:          start,
		EndDate:            end,
		IsActive:           active,
		CreatedBy:          "admin@sleepysquid.com",
	}
}

func TestCreatePromo(t *testing.T) {
	repo := &fakePromoRepo{}
	s := newPromoService(repo)

	promo, err := s.Create(context.Background(), promoInput(testNow, testNow.Add(72*time.Hour), true))
	require.NoError(t, err)
	assert.Equal(t, 10, promo.DiscountPercentage)
	assert.False(t, promo.ID.IsZero())
}

func TestCreatePromo_Validation(t *testing.T) {
	s := newPromoService(&fakePromoRepo{})
	ctx := context.Background()

	in := promoInput(testNow, testNow.Add(time.Hour), true)
	in.Name = " "
	_, err := s.Create(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)

	in = promoInput(testNow, testNow.Add(time.Hour), true)
	in.DiscountPercentage = 0
	_, err = s.Create(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)

	in.DiscountPercentage = 101
	_, err = s.Create(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)

	// Equal start and end is an empty interval.
	_, err = s.Create(ctx, promoInput(testNow, testNow, true))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreatePromo_OverlapRejected(t *testing.T) {
	repo := &fakePromoRepo{}
	s := newPromoService(repo)
	ctx := context.Background()

	_, err := s.Create(ctx, promoInput(testNow, testNow.Add(10*24*time.Hour), true))
	require.NoError(t, err)

	// Touching the existing end date still counts as overlap, bounds are
	// inclusive.
	_, err = s.Create(ctx, promoInput(testNow.Add(10*24*time.Hour), testNow.Add(20*24*time.Hour), true))
	assert.ErrorIs(t, err, ErrPromoOverlap)

	// A disjoint interval is fine.
	_, err = s.Create(ctx, promoInput(testNow.Add(11*24*time.Hour), testNow.Add(20*24*time.Hour), true))
	assert.NoError(t, err)

	// So is an overlapping but inactive one.
	_, err = s.Create(ctx, promoInput(testNow, testNow.Add(5*24*time.Hour), false))
	assert.NoError(t, err)
}

func TestUpdatePromo_RevalidatesInterval(t *testing.T) {
	repo := &fakePromoRepo{}
	s := newPromoService(repo)
	ctx := context.Background()

	first, err := s.Create(ctx, promoInput(testNow, testNow.Add(5*24*time.Hour), true))
	require.NoError(t, err)

	second, err := s.Create(ctx, promoInput(testNow.Add(6*24*time.Hour), testNow.Add(10*24*time.Hour), true))
	require.NoError(t, err)

	// Stretching the second promo back into the first must fail.
	newStart := testNow.Add(3 * 24 * time.Hour)
	_, err = s.Update(ctx, second.ID.Hex(), UpdatePromoInput{StartDate: &newStart})
	assert.ErrorIs(t, err, ErrPromoOverlap)

	// Updating a promo against only itself succeeds.
	pct := 25
	updated, err := s.Update(ctx, first.ID.Hex(), UpdatePromoInput{DiscountPercentage: &pct})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.DiscountPercentage)

	_, err = s.Update(ctx, first.ID.Hex(), UpdatePromoInput{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetActive(t *testing.T) {
	repo := &fakePromoRepo{}
	s := newPromoService(repo)
	ctx := context.Background()

	promo, err := s.GetActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, promo, "no promo configured")

	_, err = s.Create(ctx, promoInput(testNow.Add(-time.Hour), testNow.Add(time.Hour), true))
	require.NoError(t, err)

	promo, err = s.GetActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, promo)
	assert.Equal(t, "Spring Special", promo.Name)
}

func TestDiscountedPrice(t *testing.T) {
	promo := &entity.Promo{DiscountPercentage: 10}
	assert.Equal(t, float64(179), promo.DiscountedPrice(199))

	promo.DiscountPercentage = 100
	assert.Equal(t, float64(0), promo.DiscountedPrice(199))

	promo.DiscountPercentage = 1
	assert.Equal(t, float64(197), promo.DiscountedPrice(199))
}
