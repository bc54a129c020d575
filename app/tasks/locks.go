package tasks

import (
	"sync"
)

// channelLocks hands out one mutex per channel. The sample-insert, trending
// decision and baseline recompute for a channel run inside its lock;
// different channels proceed in parallel.
type channelLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newChannelLocks() *channelLocks {
	return &channelLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *channelLocks) Get(channelID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[channelID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[channelID] = lock
	}
	return lock
}
