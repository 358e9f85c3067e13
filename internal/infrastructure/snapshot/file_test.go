package snapshot_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msgtv/Gifts-Buyer/internal/domain"
	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
	"github.com/msgtv/Gifts-Buyer/internal/infrastructure/snapshot"
	"github.com/msgtv/Gifts-Buyer/pkg/errcodes"
)

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	rq := require.New(t)

	store := snapshot.NewFileStore(filepath.Join(t.TempDir(), "history.json"))

	known, err := store.Load(context.Background())
	rq.NoError(err)
	rq.Empty(known)
}

func TestFileStoreRoundTrip(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "data", "history.json")
	store := snapshot.NewFileStore(path)

	upgradePrice := int64(25)
	gifts := []entity.Gift{
		{ID: 1, Price: 100, IsLimited: true, TotalAmount: 500},
		{ID: 2, Price: 50, IsLimited: true, IsSoldOut: true, TotalAmount: 10, UpgradePrice: &upgradePrice},
		{ID: 3, Price: 5},
	}

	rq.NoError(store.Save(context.Background(), gifts))

	known, err := store.Load(context.Background())
	rq.NoError(err)
	rq.Len(known, 3)
	rq.Equal(gifts[0], known[1])
	rq.Equal(gifts[1], known[2])
	rq.True(known[2].IsSoldOut)
	rq.NotNil(known[2].UpgradePrice)
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "history.json")
	store := snapshot.NewFileStore(path)

	ctx := context.Background()
	rq.NoError(store.Save(ctx, []entity.Gift{{ID: 1}, {ID: 2}}))

	// Снапшот перезаписывается целиком: пропавшие из каталога id не
	// задерживаются.
	rq.NoError(store.Save(ctx, []entity.Gift{{ID: 2}}))

	known, err := store.Load(ctx)
	rq.NoError(err)
	rq.Len(known, 1)
	rq.Contains(known, int64(2))
}

func TestFileStoreCorruptedFile(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "history.json")
	rq.NoError(os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := snapshot.NewFileStore(path).Load(context.Background())
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.SnapshotCorrupted, code)
}
