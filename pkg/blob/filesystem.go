package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"corporate-backend-refactor/pkg/utils"
)

// FilesystemStore 把对象落在本地目录，内容类型存在 .meta 边车文件里
// Not safe for concurrent writers beyond per-file creation.
type FilesystemStore struct {
	root string
}

// NewFilesystemStore 创建文件系统 blob 存储，目录不存在则建出来
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if root == "" {
		root = "./blobdata"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FilesystemStore{root: root}, nil
}

func (s *FilesystemStore) Driver() Driver { return DriverFilesystem }

// 引用即相对文件名；拒绝任何可能逃出根目录的键
func (s *FilesystemStore) pathFor(ref Reference) (dataPath, metaPath string, err error) {
	key := string(ref)
	if strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("empty blob reference")
	}
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", "", fmt.Errorf("invalid blob reference %q", key)
	}
	dataPath = filepath.Join(s.root, filepath.Clean(key))
	metaPath = dataPath + ".meta"
	return dataPath, metaPath, nil
}

func (s *FilesystemStore) write(ref Reference, data []byte, contentType string) error {
	dataPath, metaPath, err := s.pathFor(ref)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dataPath, data, 0o644); err != nil {
		return err
	}
	return os.WriteFile(metaPath, []byte(contentType), 0o644)
}

func (s *FilesystemStore) Upload(_ context.Context, data []byte, contentType string) (Reference, error) {
	key, err := utils.GenerateObjectKey(24)
	if err != nil {
		return "", err
	}
	ref := Reference(key)
	if err := s.write(ref, data, contentType); err != nil {
		return "", err
	}
	return ref, nil
}

func (s *FilesystemStore) Replace(_ context.Context, ref Reference, data []byte, contentType string) error {
	dataPath, _, err := s.pathFor(ref)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dataPath); err != nil {
		return fmt.Errorf("blob %s not found", ref)
	}
	return s.write(ref, data, contentType)
}

func (s *FilesystemStore) Fetch(_ context.Context, ref Reference) ([]byte, string, error) {
	dataPath, metaPath, err := s.pathFor(ref)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, "", fmt.Errorf("blob %s not found", ref)
	}
	contentType := ""
	if meta, err := os.ReadFile(metaPath); err == nil {
		contentType = string(meta)
	}
	return data, contentType, nil
}

func (s *FilesystemStore) Delete(_ context.Context, ref Reference) error {
	dataPath, metaPath, err := s.pathFor(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(dataPath); err != nil {
		return fmt.Errorf("blob %s not found", ref)
	}
	_ = os.Remove(metaPath)
	return nil
}
