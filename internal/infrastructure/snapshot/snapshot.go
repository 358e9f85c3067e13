// Package snapshot хранит последний увиденный каталог подарков. Снапшот —
// единственное персистентное состояние движка; владеет им только цикл
// обнаружения, перезапись всегда целиком.
package snapshot

import (
	"context"

	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
)

// Store — доступ к снапшоту. Load отсутствующего состояния — не ошибка
// (первый запуск), возвращается пустая карта. Save заменяет снапшот целиком
// и обязан быть атомарным на границе хранилища.
type Store interface {
	Load(ctx context.Context) (map[int64]entity.Gift, error)
	Save(ctx context.Context, gifts []entity.Gift) error
}

func indexByID(gifts []entity.Gift) map[int64]entity.Gift {
	result := make(map[int64]entity.Gift, len(gifts))
	for _, gift := range gifts {
		result[gift.ID] = gift
	}
	return result
}
