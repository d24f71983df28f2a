package contract

import (
	"encoding/json"
)

// Write 一条待提交的写入
type Write struct {
	Key   string
	Value []byte
}

// Store 合约状态存储，宿主环境保证Apply的全有或全无可见性
type Store interface {
	Get(key string) ([]byte, bool, error)
	Has(key string) (bool, error)
	Apply(writes []Write) error
}

// changeset 写入暂存区。所有校验通过前变更只停留在暂存区，
// commit一次性落盘，任何失败路径直接丢弃，保证操作无部分效果。
type changeset struct {
	store  Store
	staged map[string][]byte
	order  []string
}

func newChangeset(store Store) *changeset {
	return &changeset{
		store:  store,
		staged: make(map[string][]byte),
	}
}

func (c *changeset) get(key string) ([]byte, bool, error) {
	if v, ok := c.staged[key]; ok {
		return v, true, nil
	}
	return c.store.Get(key)
}

func (c *changeset) has(key string) (bool, error) {
	if _, ok := c.staged[key]; ok {
		return true, nil
	}
	return c.store.Has(key)
}

func (c *changeset) set(key string, value []byte) {
	if _, ok := c.staged[key]; !ok {
		c.order = append(c.order, key)
	}
	c.staged[key] = value
}

// getJSON 读取并解码，不存在时返回false
func (c *changeset) getJSON(key string, out interface{}) (bool, error) {
	raw, ok, err := c.get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *changeset) setJSON(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.set(key, raw)
	return nil
}

// commit 按写入顺序提交暂存区
func (c *changeset) commit() error {
	if len(c.order) == 0 {
		return nil
	}
	writes := make([]Write, 0, len(c.order))
	for _, key := range c.order {
		writes = append(writes, Write{Key: key, Value: c.staged[key]})
	}
	return c.store.Apply(writes)
}
