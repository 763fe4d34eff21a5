// Package mib holds the agent's named, typed, permissioned values and the
// ordered traversal used by bulk reads.
package mib

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/danmuck/snmplite/internal/oid"
	"github.com/danmuck/snmplite/internal/pdu"
	"github.com/danmuck/snmplite/internal/value"
)

var (
	ErrNoSuchOID = errors.New("mib: no such oid")
	ErrReadOnly  = errors.New("mib: oid is read-only")
	ErrBadValue  = errors.New("mib: value type mismatch")
)

// Access is the write permission of one entry.
type Access uint8

const (
	AccessReadOnly Access = iota
	AccessReadWrite
)

func (a Access) String() string {
	if a == AccessReadWrite {
		return "read-write"
	}
	return "read-only"
}

// ParseAccess maps the config spelling to an Access.
func ParseAccess(s string) (Access, error) {
	switch s {
	case "read-only":
		return AccessReadOnly, nil
	case "read-write":
		return AccessReadWrite, nil
	default:
		return 0, fmt.Errorf("mib: invalid access %q", s)
	}
}

// UptimeOID is the one dynamically derived entry: its value is recomputed
// from elapsed wall-clock time in hundredths of a second on every read.
const UptimeOID = "1.3.6.1.2.1.1.3.0"

const ticksPerSecond = 100

// Entry is one stored value with its write permission. The value's wire tag
// doubles as the entry's declared type.
type Entry struct {
	Value  value.Value
	Access Access
}

// Store is the shared value store. All access goes through one RWMutex so a
// multi-binding write is never observable half-applied by a concurrent
// reader. Entries are created at construction and never added or removed at
// runtime, which lets the sorted key list be computed once.
type Store struct {
	mu        sync.RWMutex
	entries   map[string]Entry
	sorted    []oid.OID
	startedAt time.Time
}

// NewStore builds a store from oid-string keyed entries. Keys must parse as
// identifiers.
func NewStore(entries map[string]Entry) (*Store, error) {
	s := &Store{
		entries:   make(map[string]Entry, len(entries)),
		sorted:    make([]oid.OID, 0, len(entries)),
		startedAt: time.Now(),
	}
	for key, entry := range entries {
		o, err := oid.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("mib: entry %q: %w", key, err)
		}
		s.entries[key] = entry
		s.sorted = append(s.sorted, o)
	}
	sort.Slice(s.sorted, func(i, j int) bool {
		return oid.Compare(s.sorted[i], s.sorted[j]) < 0
	})
	return s, nil
}

// Len reports the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Read resolves every identifier in order under one read lock. The first
// unknown identifier fails the whole read; no partial binding list is ever
// returned.
func (s *Store) Read(oids []oid.OID) ([]pdu.Binding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bindings := make([]pdu.Binding, 0, len(oids))
	for _, o := range oids {
		v, err := s.valueLocked(o.String())
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchOID, o)
		}
		bindings = append(bindings, pdu.Binding{OID: o.Clone(), Value: v})
	}
	return bindings, nil
}

// Set validates every binding, then applies all of them, under one write
// lock. A single failing binding aborts the whole write with no effect:
// identifiers must exist, be read-write, and carry the entry's declared type,
// checked in that order with first-failure semantics.
func (s *Store) Set(bindings []pdu.Binding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range bindings {
		key := b.OID.String()
		entry, ok := s.entries[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNoSuchOID, key)
		}
		if entry.Access != AccessReadWrite {
			return fmt.Errorf("%w: %s", ErrReadOnly, key)
		}
		if b.Value.Type() != entry.Value.Type() {
			return fmt.Errorf("%w: %s got 0x%02x want 0x%02x",
				ErrBadValue, key, uint8(b.Value.Type()), uint8(entry.Value.Type()))
		}
	}
	for _, b := range bindings {
		key := b.OID.String()
		entry := s.entries[key]
		entry.Value = b.Value
		s.entries[key] = entry
	}
	return nil
}

// NextAfter returns up to max identifiers strictly greater than start, in
// ascending numeric component order.
func (s *Store) NextAfter(start oid.OID, max int) []oid.OID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextAfterLocked(start, max)
}

// Walk resolves NextAfter(start, max) to bindings in one lock acquisition,
// so the result is a consistent snapshot. An empty result is valid.
func (s *Store) Walk(start oid.OID, max int) []pdu.Binding {
	s.mu.RLock()
	defer s.mu.RUnlock()

	oids := s.nextAfterLocked(start, max)
	bindings := make([]pdu.Binding, 0, len(oids))
	for _, o := range oids {
		v, err := s.valueLocked(o.String())
		if err != nil {
			continue // unreachable: oids come from the key list
		}
		bindings = append(bindings, pdu.Binding{OID: o, Value: v})
	}
	return bindings
}

// Uptime reports elapsed time since the store was built, in timeticks.
func (s *Store) Uptime() uint32 {
	return uint32(time.Since(s.startedAt) * ticksPerSecond / time.Second)
}

func (s *Store) nextAfterLocked(start oid.OID, max int) []oid.OID {
	if max <= 0 {
		return nil
	}
	// sorted is immutable after construction; binary search for the first
	// identifier strictly greater than start.
	first := sort.Search(len(s.sorted), func(i int) bool {
		return oid.Compare(s.sorted[i], start) > 0
	})
	end := first + max
	if end > len(s.sorted) {
		end = len(s.sorted)
	}
	out := make([]oid.OID, end-first)
	for i := range out {
		out[i] = s.sorted[first+i].Clone()
	}
	return out
}

func (s *Store) valueLocked(key string) (value.Value, error) {
	entry, ok := s.entries[key]
	if !ok {
		return value.Value{}, ErrNoSuchOID
	}
	if key == UptimeOID && entry.Value.Type() == value.TypeTimeTicks {
		return value.TimeTicks(s.Uptime()), nil
	}
	return entry.Value, nil
}
