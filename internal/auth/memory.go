package auth

import (
	"context"
	"sync"
)

// MemoryRepository keeps clients in memory. It backs the service when no
// database is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewMemoryRepository creates an empty in-memory client repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{clients: make(map[string]*Client)}
}

func (r *MemoryRepository) Create(ctx context.Context, client *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[client.ID]; ok {
		return ErrClientExists
	}
	c := *client
	r.clients[client.ID] = &c
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	out := *c
	return &out, nil
}
