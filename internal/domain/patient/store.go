package patient

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Routing keys of the change events.
const (
	EventCreated = "patient.created"
	EventUpdated = "patient.updated"
	EventDeleted = "patient.deleted"
)

// Event is the payload published after a mutation has been persisted.
type Event struct {
	Type       string    `json:"type"`
	PatientID  string    `json:"patient_id"`
	Patient    *Patient  `json:"patient,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Store owns the in-memory collection and keeps it in step with the
// repository. Every mutation saves the complete next collection before it
// becomes visible, so a failed save leaves memory untouched.
type Store struct {
	mu       sync.RWMutex
	repo     Repository
	patients []Patient
	events   EventPublisher
	logger   zerolog.Logger
	now      func() time.Time
}

type StoreOption func(*Store)

func WithEventPublisher(p EventPublisher) StoreOption {
	return func(s *Store) { s.events = p }
}

func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// NewStore loads the collection once. Derived fields are recomputed on load,
// and a collection that breaks the id or value invariants is rejected.
func NewStore(ctx context.Context, repo Repository, opts ...StoreOption) (*Store, error) {
	s := &Store{
		repo:   repo,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	seen := make(map[string]struct{}, len(loaded))
	for i := range loaded {
		p := &loaded[i]
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("load patients: record %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("load patients: duplicate id %q: %w", p.ID, ErrConflict)
		}
		seen[p.ID] = struct{}{}
		if err := p.Derive(); err != nil {
			return nil, fmt.Errorf("load patients: record %q: %w", p.ID, err)
		}
	}
	s.patients = loaded
	if s.patients == nil {
		s.patients = []Patient{}
	}
	return s, nil
}

// GetAll returns a copy of the collection in insertion order.
func (s *Store) GetAll(_ context.Context) []Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Patient, len(s.patients))
	copy(out, s.patients)
	return out
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patients)
}

func (s *Store) Get(_ context.Context, id string) (Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return Patient{}, ErrNotFound
	}
	return s.patients[i], nil
}

// Insert adds p, generating an id when none is set, and returns the stored
// record with its derived fields.
func (s *Store) Insert(ctx context.Context, p Patient) (Patient, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := p.Validate(); err != nil {
		return Patient{}, err
	}
	if err := p.Derive(); err != nil {
		return Patient{}, err
	}

	err := s.mutate(ctx, func(current []Patient) ([]Patient, error) {
		if s.indexOf(p.ID) >= 0 {
			return nil, ErrConflict
		}
		next := make([]Patient, len(current), len(current)+1)
		copy(next, current)
		return append(next, p), nil
	})
	if err != nil {
		return Patient{}, err
	}

	s.publish(ctx, EventCreated, p.ID, &p)
	return p, nil
}

// Update applies the present fields of u to the record with the given id.
func (s *Store) Update(ctx context.Context, id string, u Update) (Patient, error) {
	if err := u.Validate(); err != nil {
		return Patient{}, err
	}

	var updated Patient
	err := s.mutate(ctx, func(current []Patient) ([]Patient, error) {
		i := s.indexOf(id)
		if i < 0 {
			return nil, ErrNotFound
		}
		p := current[i]
		if err := u.Apply(&p); err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if err := p.Derive(); err != nil {
			return nil, err
		}
		next := slices.Clone(current)
		next[i] = p
		updated = p
		return next, nil
	})
	if err != nil {
		return Patient{}, err
	}

	s.publish(ctx, EventUpdated, updated.ID, &updated)
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.mutate(ctx, func(current []Patient) ([]Patient, error) {
		i := s.indexOf(id)
		if i < 0 {
			return nil, ErrNotFound
		}
		next := make([]Patient, 0, len(current)-1)
		next = append(next, current[:i]...)
		return append(next, current[i+1:]...), nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, EventDeleted, id, nil)
	return nil
}

// mutate builds the next collection under the write lock and saves it before
// swapping it in. Callers publish events only after mutate has returned, so
// no broker call ever runs with the lock held.
func (s *Store) mutate(ctx context.Context, build func(current []Patient) ([]Patient, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := build(s.patients)
	if err != nil {
		return err
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("save patients: %w", err)
	}
	s.patients = next
	return nil
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.patients, func(p Patient) bool { return p.ID == id })
}

func (s *Store) publish(ctx context.Context, routingKey, id string, p *Patient) {
	if s.events == nil {
		return
	}
	evt := Event{Type: routingKey, PatientID: id, Patient: p, OccurredAt: s.now().UTC()}
	if err := s.events.Publish(ctx, routingKey, evt); err != nil {
		s.logger.Warn().Err(err).Str("event", routingKey).Str("patient_id", id).Msg("publish patient event")
	}
}
