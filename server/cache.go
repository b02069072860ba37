package server

import (
	"bytes"
	"sync"
)

// responseCache memoizes rendered responses for the snapshot currently held.
// It is emptied whenever a request arrives for a newer snapshot.
type responseCache struct {
	mu      sync.Mutex
	seq     uint64
	entries map[string][]byte
}

func newResponseCache() *responseCache {
	return &responseCache{entries: map[string][]byte{}}
}

func memoKey(args ...string) string {
	var b bytes.Buffer
	for i, a := range args {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(a)
	}
	return b.String()
}

// get returns the cached body for key at seq, rendering and storing it on a miss
func (c *responseCache) get(seq uint64, key string, render func() ([]byte, error)) ([]byte, error) {
	c.mu.Lock()
	if seq != c.seq {
		c.seq = seq
		c.entries = map[string][]byte{}
	}
	if body, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return body, nil
	}
	c.mu.Unlock()

	body, err := render()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq == c.seq {
		c.entries[key] = body
	}
	return body, nil
}

func (c *responseCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
