package store

import (
	"sync"

	"github.com/blues/agrocoin/internal/contract"
)

// MemoryStore 内存状态存储，用于测试和memory模式
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Get 读取键值
func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Has 判断键是否存在
func (s *MemoryStore) Has(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.data[key]
	return ok, nil
}

// Apply 原子提交一批写入
func (s *MemoryStore) Apply(writes []contract.Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		v := make([]byte, len(w.Value))
		copy(v, w.Value)
		s.data[w.Key] = v
	}
	return nil
}

// Len 当前键数量
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// Snapshot 复制当前全部键值，测试中用于比对操作前后的状态
func (s *MemoryStore) Snapshot() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]byte, len(s.data))
	for k, v := range s.data {
		c := make([]byte, len(v))
		copy(c, v)
		out[k] = c
	}
	return out
}
