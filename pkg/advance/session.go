package advance

import (
	"context"
	"sync"
	"time"
)

// Session owns the one live Advance for a process and saves it after
// every change.
type Session struct {
	store *Store
	now   func() time.Time

	mu  sync.RWMutex
	cur Advance
}

// NewSession loads the stored record, falling back to today's defaults.
// A nil now uses time.Now.
func NewSession(ctx context.Context, store *Store, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	if store == nil {
		store = NewStore(nil)
	}
	s := &Session{store: store, now: now}
	s.cur = store.Load(ctx, s.defaults())
	return s
}

func (s *Session) defaults() Advance {
	return Default(Today(s.now()))
}

// Current returns a copy of the live record.
func (s *Session) Current() Advance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Clone()
}

// Replace swaps in a whole new record and saves it. Edits are stored as
// given; sanitizing happens on the next load.
func (s *Session) Replace(ctx context.Context, a Advance) Advance {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = a.Clone()
	s.store.Save(ctx, s.cur)
	return s.cur.Clone()
}

// Update applies fn to a copy of the live record and replaces it.
func (s *Session) Update(ctx context.Context, fn func(*Advance)) Advance {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cur.Clone()
	fn(&next)
	s.cur = next
	s.store.Save(ctx, s.cur)
	return s.cur.Clone()
}

// Reset drops the stored record and starts over from defaults.
func (s *Session) Reset(ctx context.Context) Advance {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Clear(ctx)
	s.cur = s.defaults()
	return s.cur.Clone()
}

// ApplyTemplate replaces the record with the named preset.
func (s *Session) ApplyTemplate(ctx context.Context, key string) (Advance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := ApplyTemplate(key, s.cur, Today(s.now()))
	if err != nil {
		return Advance{}, err
	}
	s.cur = next
	s.store.Save(ctx, s.cur)
	return s.cur.Clone(), nil
}
