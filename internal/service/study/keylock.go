package study

import (
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
)

const lockShards = 128

// keyMutex is a striped mutex set keyed by (learner, item). Distinct keys
// may hash to the same shard; that only over-serializes, never
// under-serializes, so lost updates remain impossible.
type keyMutex struct {
	shards [lockShards]sync.Mutex
}

// Lock acquires the shard for the given key and returns its unlock func.
func (m *keyMutex) Lock(learnerID, itemID uuid.UUID) func() {
	h := fnv.New32a()
	h.Write(learnerID[:])
	h.Write(itemID[:])
	shard := &m.shards[h.Sum32()%lockShards]
	shard.Lock()
	return shard.Unlock
}
