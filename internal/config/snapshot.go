package config

// Snapshot выбирает бэкенд хранения последнего увиденного каталога.
type Snapshot struct {
	Backend string `env:"SNAPSHOT_BACKEND" envDefault:"file" validate:"oneof=file postgres redis"`
	Path    string `env:"SNAPSHOT_PATH" envDefault:"data/history.json"`
}

const (
	SnapshotBackendFile     = "file"
	SnapshotBackendPostgres = "postgres"
	SnapshotBackendRedis    = "redis"
)
