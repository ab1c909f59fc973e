package cache

import (
	"context"
	"sync"
)

// Registry хранит версию каждого тега кэша. Сброс тега увеличивает его версию,
// поэтому представления, сохраненные со старой версией, пересобираются при
// следующем чтении. Повторный сброс безопасен.
type Registry struct {
	mu       sync.RWMutex
	versions map[string]uint64
}

func NewRegistry() *Registry {
	return &Registry{versions: make(map[string]uint64)}
}

func (r *Registry) Invalidate(_ context.Context, tag string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.versions[tag]++
}

// Version возвращает текущую версию тега.
func (r *Registry) Version(tag string) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.versions[tag]
}

// Fresh сообщает, что представление, собранное при версии seen, еще актуально.
func (r *Registry) Fresh(tag string, seen uint64) bool {
	return r.Version(tag) == seen
}
