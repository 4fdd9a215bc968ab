package blob

import (
	"context"
	"fmt"
)

// Driver 标识具体的 blob 后端
type Driver string

const (
	DriverMemory     Driver = "memory"
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
)

// Reference 指向已存储对象的不透明键
type Reference string

// Store 媒体存储；所有操作都在实体事务之外尽力而为
// A failed blob call surfaces as a warning and never rolls back an already
// committed entity mutation.
type Store interface {
	Upload(ctx context.Context, data []byte, contentType string) (Reference, error)
	Replace(ctx context.Context, ref Reference, data []byte, contentType string) error
	Fetch(ctx context.Context, ref Reference) ([]byte, string, error)
	Delete(ctx context.Context, ref Reference) error
	Driver() Driver
}

// Config blob 后端配置，来自环境变量
type Config struct {
	Driver Driver

	// fs driver
	Dir string

	// s3 driver
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
}

// New 按配置挑选后端；默认落到内存实现
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverS3:
		return NewS3Store(ctx, cfg)
	case DriverFilesystem:
		return NewFilesystemStore(cfg.Dir)
	case DriverMemory, "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}
