package snapshot

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/msgtv/Gifts-Buyer/internal/domain"
	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
	"github.com/msgtv/Gifts-Buyer/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

// FileStore — снапшот как JSON-массив на диске. На диске лежит список,
// в памяти индексируется по id. Запись через temp-файл и rename, чтобы
// падение посреди записи не оставило полусмерженный файл.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (map[int64]entity.Gift, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Первый запуск.
			return map[int64]entity.Gift{}, nil
		}
		return nil, domain.WrapError(err, errcodes.SnapshotIO, "read snapshot file")
	}

	var gifts []entity.Gift
	if err := json.Unmarshal(data, &gifts); err != nil {
		return nil, domain.WrapError(err, errcodes.SnapshotCorrupted, "decode snapshot file")
	}

	return indexByID(gifts), nil
}

func (s *FileStore) Save(_ context.Context, gifts []entity.Gift) error {
	data, err := json.MarshalIndent(gifts, "", "    ")
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "encode snapshot")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.WrapError(err, errcodes.SnapshotIO, "create snapshot dir")
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return domain.WrapError(err, errcodes.SnapshotIO, "create temp snapshot")
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return domain.WrapError(err, errcodes.SnapshotIO, "write temp snapshot")
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return domain.WrapError(err, errcodes.SnapshotIO, "close temp snapshot")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return domain.WrapError(err, errcodes.SnapshotIO, "replace snapshot")
	}

	return nil
}
