package service

import "sync"

// keyLock serializes work per string key. Concurrent trades on different
// (user, symbol) keys proceed in parallel; two trades on the same key take
// turns, which keeps the read-modify-write on a position free of lost
// updates. Mutexes are retained for the life of the process; the key space
// is bounded by users x held symbols.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*sync.Mutex)}
}

func (k *keyLock) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
