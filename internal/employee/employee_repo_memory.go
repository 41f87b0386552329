package employee

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// TimestampID returns the current Unix time in milliseconds as a string.
func TimestampID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// uniqueID bumps a numeric candidate until taken reports it free. Two creates
// in the same millisecond would otherwise share an id.
func uniqueID(candidate string, taken func(string) bool) string {
	if !taken(candidate) {
		return candidate
	}
	n, err := strconv.ParseInt(candidate, 10, 64)
	if err != nil {
		for i := 1; ; i++ {
			id := candidate + "-" + strconv.Itoa(i)
			if !taken(id) {
				return id
			}
		}
	}
	for {
		n++
		id := strconv.FormatInt(n, 10)
		if !taken(id) {
			return id
		}
	}
}

type memoryRepository struct {
	mu     sync.RWMutex
	empls  []Employee
	nextID func() string
}

// NewMemoryRepository keeps the roster in process memory; it is gone on
// restart. seed is copied.
func NewMemoryRepository(seed []Employee) Repository {
	empls := make([]Employee, len(seed))
	copy(empls, seed)
	return &memoryRepository{empls: empls, nextID: TimestampID}
}

func (r *memoryRepository) indexOf(id string) int {
	for i := range r.empls {
		if r.empls[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *memoryRepository) FindAll(ctx context.Context) ([]Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Employee, len(r.empls))
	copy(out, r.empls)
	return out, nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id string) (*Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrRecordNotFound
	}
	empl := r.empls[i]
	return &empl, nil
}

func (r *memoryRepository) Create(ctx context.Context, empl *Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if empl.ID == "" {
		empl.ID = uniqueID(r.nextID(), func(id string) bool { return r.indexOf(id) >= 0 })
	}
	r.empls = append(r.empls, *empl)
	return nil
}

func (r *memoryRepository) Update(ctx context.Context, id string, patch Patch) (*Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrRecordNotFound
	}
	patch.apply(&r.empls[i])
	empl := r.empls[i]
	return &empl, nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) (*Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrRecordNotFound
	}
	removed := r.empls[i]
	r.empls = append(r.empls[:i], r.empls[i+1:]...)
	return &removed, nil
}
