package eligibility_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
	"github.com/msgtv/Gifts-Buyer/internal/domain/service/eligibility"
)

func testRanges() []entity.AcquisitionRange {
	return []entity.AcquisitionRange{
		{
			MinPrice:    10,
			MaxPrice:    50,
			SupplyLimit: 100,
			Quantity:    2,
			Recipients:  []entity.Recipient{{Handle: "alice"}},
		},
		{
			MinPrice:    51,
			MaxPrice:    100,
			SupplyLimit: 50,
			Quantity:    1,
			Recipients:  []entity.Recipient{{UserID: 777}},
		},
	}
}

func TestMatchRange(t *testing.T) {
	testCases := []struct {
		name        string
		price       int64
		totalAmount int64
		wantMatch   bool
		wantQty     int
	}{
		{name: "inside first band", price: 30, totalAmount: 40, wantMatch: true, wantQty: 2},
		{name: "inside second band", price: 60, totalAmount: 40, wantMatch: true, wantQty: 1},
		{name: "price below all bands", price: 5, totalAmount: 40},
		{name: "price above all bands", price: 500, totalAmount: 40},
		{name: "supply over limit", price: 60, totalAmount: 60},
		{name: "band edges inclusive", price: 50, totalAmount: 100, wantMatch: true, wantQty: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			matched, qty, recipients := eligibility.MatchRange(tc.price, tc.totalAmount, testRanges())
			rq.Equal(tc.wantMatch, matched)
			rq.Equal(tc.wantQty, qty)

			if !tc.wantMatch {
				rq.Empty(recipients)
			}
		})
	}
}

func TestMatchRangeOverlapFirstWins(t *testing.T) {
	rq := require.New(t)

	// Оба диапазона покрывают (30, 40); выиграть обязан первый по
	// конфигурации.
	overlapping := []entity.AcquisitionRange{
		{MinPrice: 10, MaxPrice: 100, SupplyLimit: 1000, Quantity: 5, Recipients: []entity.Recipient{{Handle: "first"}}},
		{MinPrice: 20, MaxPrice: 50, SupplyLimit: 100, Quantity: 1, Recipients: []entity.Recipient{{Handle: "second"}}},
	}

	matched, qty, recipients := eligibility.MatchRange(30, 40, overlapping)
	rq.True(matched)
	rq.Equal(5, qty)
	rq.Equal("first", recipients[0].Handle)
}

func TestEvaluateExclusionOrder(t *testing.T) {
	upgradePrice := int64(25)

	testCases := []struct {
		name           string
		gift           entity.Gift
		onlyUpgradable bool
		wantReason     entity.ExclusionReason
	}{
		{
			name: "sold out wins regardless of price",
			gift: entity.Gift{ID: 1, Price: 30, IsLimited: true, IsSoldOut: true, TotalAmount: 40},
			wantReason: entity.ExclusionSoldOut,
		},
		{
			name: "sold out checked before non-limited",
			gift: entity.Gift{ID: 2, Price: 30, IsSoldOut: true},
			wantReason: entity.ExclusionSoldOut,
		},
		{
			name:       "non-limited blocked",
			gift:       entity.Gift{ID: 3, Price: 30},
			wantReason: entity.ExclusionNonLimited,
		},
		{
			name:           "non-upgradable blocked when flag set",
			gift:           entity.Gift{ID: 4, Price: 30, IsLimited: true, TotalAmount: 40},
			onlyUpgradable: true,
			wantReason:     entity.ExclusionNonUpgradable,
		},
		{
			name: "upgradable passes the flag",
			gift: entity.Gift{
				ID: 5, Price: 30, IsLimited: true, TotalAmount: 40,
				UpgradePrice: &upgradePrice,
			},
			onlyUpgradable: true,
		},
		{
			name:       "no matching range",
			gift:       entity.Gift{ID: 6, Price: 999, IsLimited: true, TotalAmount: 40},
			wantReason: entity.ExclusionRangeError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			evaluator := eligibility.NewEvaluator(testRanges(), tc.onlyUpgradable)
			verdict := evaluator.Evaluate(tc.gift)

			if tc.wantReason == "" {
				rq.True(verdict.Eligible)
				return
			}

			rq.False(verdict.Eligible)
			rq.Equal(tc.wantReason, verdict.Reason)
		})
	}
}

func TestEvaluateEligible(t *testing.T) {
	rq := require.New(t)

	evaluator := eligibility.NewEvaluator(testRanges(), false)

	verdict := evaluator.Evaluate(entity.Gift{
		ID:          10,
		Price:       30,
		IsLimited:   true,
		TotalAmount: 40,
	})

	rq.True(verdict.Eligible)
	rq.Equal(2, verdict.Quantity)
	rq.Equal([]entity.Recipient{{Handle: "alice"}}, verdict.Recipients)
}

func TestEvaluateRangeErrorCarriesDiagnostics(t *testing.T) {
	rq := require.New(t)

	evaluator := eligibility.NewEvaluator(testRanges(), false)

	verdict := evaluator.Evaluate(entity.Gift{ID: 11, Price: 7, IsLimited: true, TotalAmount: 9000})
	rq.False(verdict.Eligible)
	rq.Equal(entity.ExclusionRangeError, verdict.Reason)
	rq.Equal(int64(7), verdict.Price)
	rq.Equal(int64(9000), verdict.TotalAmount)
}

func TestCategorize(t *testing.T) {
	rq := require.New(t)

	evaluator := eligibility.NewEvaluator(testRanges(), true)

	batch := map[int64]entity.Gift{
		1: {ID: 1, IsSoldOut: true, IsLimited: true},
		2: {ID: 2},
		3: {ID: 3, IsLimited: true},
	}

	summary := evaluator.Categorize(batch)
	rq.Equal(3, summary.NewGifts)
	rq.Equal(1, summary.SoldOut)
	rq.Equal(1, summary.NonLimited)
	// Все три без upgrade price: счётчик независим от итогового вердикта.
	rq.Equal(3, summary.NonUpgradable)
	rq.True(summary.Any())
}
