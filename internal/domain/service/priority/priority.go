package priority

import (
	"sort"

	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
)

// Prioritizer упорядочивает партию новых подарков перед покупкой.
// Базовый ключ — позиция в каталоге; в режиме низкого тиража первичным
// ключом становится тираж, а позиция остаётся tie-break'ом.
type Prioritizer struct {
	lowSupplyFirst bool
}

func NewPrioritizer(lowSupplyFirst bool) *Prioritizer {
	return &Prioritizer{lowSupplyFirst: lowSupplyFirst}
}

// Prioritize проставляет позиции по порядку обнаружения и сортирует партию.
// Позиционный проход выполняется в обоих режимах: при включённом
// lowSupplyFirst он остаётся вторичным ключом, а не затирается.
func (p *Prioritizer) Prioritize(gifts map[int64]entity.Gift, discoveryOrder []int64) []entity.Gift {
	index := make(map[int64]int, len(discoveryOrder))
	for i, id := range discoveryOrder {
		index[id] = i
	}

	result := make([]entity.Gift, 0, len(gifts))
	for id, gift := range gifts {
		gift.Position = len(discoveryOrder) - index[id]
		result = append(result, gift)
	}

	// Больше позиция — раньше обнаружен — выше приоритет.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Position > result[j].Position
	})

	if !p.lowSupplyFirst {
		return result
	}

	sort.SliceStable(result, func(i, j int) bool {
		si, sj := result[i].SupplyOrInf(), result[j].SupplyOrInf()
		if si != sj {
			return si < sj
		}
		return result[i].Position > result[j].Position
	})

	return result
}
