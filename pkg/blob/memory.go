package blob

import (
	"context"
	"fmt"
	"sync"

	"corporate-backend-refactor/pkg/utils"
)

type memoryEntry struct {
	data        []byte
	contentType string
}

// MemoryStore 进程内存里的 blob 存储，开发与测试用
type MemoryStore struct {
	mu   sync.RWMutex
	objs map[Reference]memoryEntry
}

// NewMemoryStore 创建内存 blob 存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objs: make(map[Reference]memoryEntry)}
}

func (s *MemoryStore) Driver() Driver { return DriverMemory }

func (s *MemoryStore) Upload(_ context.Context, data []byte, contentType string) (Reference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := utils.GenerateObjectKey(24)
	if err != nil {
		return "", err
	}
	ref := Reference(key)
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objs[ref] = memoryEntry{data: cp, contentType: contentType}
	return ref, nil
}

func (s *MemoryStore) Replace(_ context.Context, ref Reference, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objs[ref]; !ok {
		return fmt.Errorf("blob %s not found", ref)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objs[ref] = memoryEntry{data: cp, contentType: contentType}
	return nil
}

func (s *MemoryStore) Fetch(_ context.Context, ref Reference) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objs[ref]
	if !ok {
		return nil, "", fmt.Errorf("blob %s not found", ref)
	}
	cp := make([]byte, len(obj.data))
	copy(cp, obj.data)
	return cp, obj.contentType, nil
}

func (s *MemoryStore) Delete(_ context.Context, ref Reference) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objs[ref]; !ok {
		return fmt.Errorf("blob %s not found", ref)
	}
	delete(s.objs, ref)
	return nil
}
