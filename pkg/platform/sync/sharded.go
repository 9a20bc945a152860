// Package sync provides keyed locking for work that must not interleave per
// key, such as roster commits for one tenant.
package sync

import (
	"hash/fnv"
	"sync"
)

// DefaultShards is the shard count used when NewShardedMutex gets n <= 0.
const DefaultShards = 32

// ShardedMutex serializes callers that share a key. Distinct keys usually
// land on different shards; a hash collision only costs extra waiting.
type ShardedMutex struct {
	shards []sync.Mutex
}

func NewShardedMutex(n int) *ShardedMutex {
	if n <= 0 {
		n = DefaultShards
	}
	return &ShardedMutex{shards: make([]sync.Mutex, n)}
}

func (m *ShardedMutex) Lock(key string) {
	m.shards[m.shardFor(key)].Lock()
}

func (m *ShardedMutex) Unlock(key string) {
	m.shards[m.shardFor(key)].Unlock()
}

// Do runs fn while holding the lock for key.
func (m *ShardedMutex) Do(key string, fn func() error) error {
	m.Lock(key)
	defer m.Unlock(key)
	return fn()
}

func (m *ShardedMutex) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(m.shards)))
}
