package advance

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/NewCodeOnDaBlock/the-pocket-advance-generator/internal/utils"
)

// StorageKey is the single key the record lives under.
const StorageKey = "pocket_advance_v1"

// KV is the slice of a key-value backend the store needs.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store persists one Advance under StorageKey. Backend failures are logged
// and swallowed; the last saved blob is kept in memory so a session without
// working storage still round-trips.
type Store struct {
	kv KV

	mu     sync.Mutex
	shadow []byte
}

// NewStore wraps kv. A nil kv gives a memory-only store.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Load returns the stored record merged over def, or def when nothing
// usable is stored.
func (s *Store) Load(ctx context.Context, def Advance) Advance {
	s.mu.Lock()
	shadow := s.shadow
	s.mu.Unlock()

	if s.kv == nil {
		return Restore(shadow, def)
	}
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		utils.Log.WithError(err).Debug("advance: storage read failed, using memory copy")
		return Restore(shadow, def)
	}
	if !ok {
		return def.Clone()
	}
	return Restore([]byte(raw), def)
}

// Save serializes a and writes it under StorageKey.
func (s *Store) Save(ctx context.Context, a Advance) {
	blob, err := json.Marshal(a)
	if err != nil {
		utils.Log.WithError(err).Debug("advance: encoding record failed")
		return
	}
	s.mu.Lock()
	s.shadow = blob
	s.mu.Unlock()

	if s.kv == nil {
		return
	}
	if err := s.kv.Set(ctx, StorageKey, string(blob)); err != nil {
		utils.Log.WithError(err).Debug("advance: storage write failed")
	}
}

// Clear removes the stored record.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.shadow = nil
	s.mu.Unlock()

	if s.kv == nil {
		return
	}
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		utils.Log.WithError(err).Debug("advance: storage delete failed")
	}
}
