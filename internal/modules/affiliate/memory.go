package affiliate

import "sync"

// memoryRepo keeps the catalog in process memory. Listing follows
// insertion order, not any ranking.
type memoryRepo struct {
	mu    sync.RWMutex
	byID  map[string]*RestaurantDetail
	order []string
}

// NewMemoryRepository builds an in-memory catalog store seeded with the
// given records.
func NewMemoryRepository(seed ...*RestaurantDetail) Repository {
	r := &memoryRepo{byID: make(map[string]*RestaurantDetail)}
	for _, d := range seed {
		r.Put(d)
	}
	return r
}

func (r *memoryRepo) Get(id string) (*RestaurantDetail, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	return d, ok
}

func (r *memoryRepo) List() []*RestaurantDetail {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*RestaurantDetail, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *memoryRepo) Put(d *RestaurantDetail) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[d.RestaurantID]; !exists {
		r.order = append(r.order, d.RestaurantID)
	}
	r.byID[d.RestaurantID] = d
}
