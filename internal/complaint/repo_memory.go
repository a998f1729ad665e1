package complaint

import (
	"context"
	"sort"
	"sync"

	"waste-platform/internal/audit"
)

// MemoryStore is an in-memory Store for tests and local development.
//
// Per-complaint serialization uses a keyed mutex held for the whole
// read -> mutate -> write -> append sequence; updates to different
// complaints do not block each other.

type MemoryStore struct {
	mu         sync.RWMutex
	complaints map[string]Complaint

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	audit *audit.MemoryRepo
}

func NewMemoryStore(auditRepo *audit.MemoryRepo) *MemoryStore {
	if auditRepo == nil {
		auditRepo = audit.NewMemoryRepo()
	}
	return &MemoryStore{
		complaints: make(map[string]Complaint),
		locks:      make(map[string]*sync.Mutex),
		audit:      auditRepo,
	}
}

// AuditRepo exposes the backing audit repository so callers can wire the
// same log into an audit.Service.
func (s *MemoryStore) AuditRepo() *audit.MemoryRepo { return s.audit }

func (s *MemoryStore) entityLock(id string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *MemoryStore) Create(ctx context.Context, c Complaint, log audit.Entry) error {
	s.mu.Lock()
	s.complaints[c.ID] = c
	s.mu.Unlock()
	return s.audit.Append(ctx, log)
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.complaints[id]
	if !ok {
		return Complaint{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) List(ctx context.Context, f Filter) ([]Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Complaint, 0)
	for _, c := range s.complaints {
		switch f.Kind {
		case FilterByReporter:
			if c.ReporterID != f.SubjectID {
				continue
			}
		case FilterByWorker:
			if c.AssignedWorkerID != f.SubjectID {
				continue
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, mutate func(*Complaint) error, log func(Complaint) audit.Entry) (Complaint, error) {
	l := s.entityLock(id)
	l.Lock()
	defer l.Unlock()

	s.mu.RLock()
	c, ok := s.complaints[id]
	s.mu.RUnlock()
	if !ok {
		return Complaint{}, ErrNotFound
	}

	if err := mutate(&c); err != nil {
		return Complaint{}, err
	}

	s.mu.Lock()
	s.complaints[id] = c
	s.mu.Unlock()

	if err := s.audit.Append(ctx, log(c)); err != nil {
		return Complaint{}, err
	}
	return c, nil
}
