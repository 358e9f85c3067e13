package snapshot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/msgtv/Gifts-Buyer/internal/domain"
	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
	"github.com/msgtv/Gifts-Buyer/pkg/errcodes"
)

// PostgresStore — снапшот в одной таблице: id плюс сырой JSON подарка.
// Wholesale-замена выражается транзакцией delete-then-insert, так что
// читатель никогда не видит полуобновлённый снапшот.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type snapshotRow struct {
	ID   int64  `db:"id"`
	Data []byte `db:"data"`
}

func (s *PostgresStore) Load(ctx context.Context) (map[int64]entity.Gift, error) {
	var rows []snapshotRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, data FROM gift_snapshot`); err != nil {
		return nil, domain.WrapError(err, errcodes.SnapshotIO, "select snapshot")
	}

	result := make(map[int64]entity.Gift, len(rows))
	for _, row := range rows {
		var gift entity.Gift
		if err := json.Unmarshal(row.Data, &gift); err != nil {
			return nil, domain.WrapError(err, errcodes.SnapshotCorrupted,
				fmt.Sprintf("decode snapshot row %d", row.ID))
		}
		result[gift.ID] = gift
	}

	return result, nil
}

func (s *PostgresStore) Save(ctx context.Context, gifts []entity.Gift) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM gift_snapshot`); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}

		for _, gift := range gifts {
			data, err := json.Marshal(gift)
			if err != nil {
				return fmt.Errorf("encode gift %d: %w", gift.ID, err)
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO gift_snapshot (id, data) VALUES ($1, $2)`,
				gift.ID, data,
			); err != nil {
				return fmt.Errorf("insert gift %d: %w", gift.ID, err)
			}
		}

		return nil
	})
}

func (s *PostgresStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return domain.WrapError(err, errcodes.SnapshotIO, "save snapshot")
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}
