package priority_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
	"github.com/msgtv/Gifts-Buyer/internal/domain/service/priority"
)

func ids(gifts []entity.Gift) []int64 {
	return lo.Map(gifts, func(gift entity.Gift, _ int) int64 {
		return gift.ID
	})
}

func TestPrioritizePositionOrder(t *testing.T) {
	rq := require.New(t)

	gifts := map[int64]entity.Gift{
		10: {ID: 10, IsLimited: true, TotalAmount: 500},
		20: {ID: 20, IsLimited: true, TotalAmount: 100},
		30: {ID: 30, IsLimited: true, TotalAmount: 300},
	}
	discoveryOrder := []int64{30, 10, 20}

	ordered := priority.NewPrioritizer(false).Prioritize(gifts, discoveryOrder)

	// Без режима низкого тиража порядок партии следует каталогу.
	rq.Equal(discoveryOrder, ids(ordered))
}

func TestPrioritizeLowSupplyFirst(t *testing.T) {
	rq := require.New(t)

	gifts := map[int64]entity.Gift{
		10: {ID: 10, IsLimited: true, TotalAmount: 100},
		20: {ID: 20, IsLimited: true, TotalAmount: 10},
		30: {ID: 30, IsLimited: true, TotalAmount: 100},
	}
	discoveryOrder := []int64{10, 20, 30}

	ordered := priority.NewPrioritizer(true).Prioritize(gifts, discoveryOrder)

	// Меньший тираж первым; равный тираж разруливается позицией каталога.
	rq.Equal([]int64{20, 10, 30}, ids(ordered))
}

func TestPrioritizeNonLimitedSortsLast(t *testing.T) {
	rq := require.New(t)

	gifts := map[int64]entity.Gift{
		1: {ID: 1},
		2: {ID: 2, IsLimited: true, TotalAmount: 5},
	}
	discoveryOrder := []int64{1, 2}

	ordered := priority.NewPrioritizer(true).Prioritize(gifts, discoveryOrder)

	rq.Equal([]int64{2, 1}, ids(ordered))
}

func TestPrioritizeEmptyBatch(t *testing.T) {
	rq := require.New(t)

	ordered := priority.NewPrioritizer(true).Prioritize(map[int64]entity.Gift{}, nil)
	rq.Empty(ordered)
}
