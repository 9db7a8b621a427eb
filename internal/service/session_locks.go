package service

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// sessionLocks serialises work per session id over a fixed set of mutexes.
type sessionLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *sessionLocks) lock(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	m := &l.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
