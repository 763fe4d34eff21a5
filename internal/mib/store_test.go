package mib

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danmuck/snmplite/internal/oid"
	"github.com/danmuck/snmplite/internal/pdu"
	"github.com/danmuck/snmplite/internal/value"
)

func newTestStore(t *testing.T, entries map[string]Entry) *Store {
	t.Helper()
	s, err := NewStore(entries)
	require.NoError(t, err)
	return s
}

func TestReadExistingAndMissing(t *testing.T) {
	s := newTestStore(t, map[string]Entry{
		"1.3.6.1.2.1.1.5.0": {Value: value.String("router-main"), Access: AccessReadWrite},
		"1.3.6.1.2.1.1.7.0": {Value: value.Integer(72)},
	})

	bindings, err := s.Read([]oid.OID{oid.MustParse("1.3.6.1.2.1.1.5.0")})
	require.NoError(t, err)
	require.Len(t, bindings, 1)
	require.Equal(t, "router-main", bindings[0].Value.Str())

	_, err = s.Read([]oid.OID{oid.MustParse("1.3.6.1.2.1.99.0")})
	require.ErrorIs(t, err, ErrNoSuchOID)
}

func TestReadIsAllOrNothing(t *testing.T) {
	s := newTestStore(t, map[string]Entry{
		"1.3.6.1.2.1.1.5.0": {Value: value.String("router-main")},
		"1.3.6.1.2.1.1.7.0": {Value: value.Integer(72)},
	})
	// existing, missing, existing: the whole read fails with no bindings.
	bindings, err := s.Read([]oid.OID{
		oid.MustParse("1.3.6.1.2.1.1.5.0"),
		oid.MustParse("1.3.6.1.2.1.1.6.0"),
		oid.MustParse("1.3.6.1.2.1.1.7.0"),
	})
	require.ErrorIs(t, err, ErrNoSuchOID)
	require.Nil(t, bindings)
}

func TestReadEmptyListSucceeds(t *testing.T) {
	s := newTestStore(t, map[string]Entry{})
	bindings, err := s.Read(nil)
	require.NoError(t, err)
	require.Empty(t, bindings)
}

func TestUptimeIsDerivedOnRead(t *testing.T) {
	s := newTestStore(t, map[string]Entry{
		UptimeOID: {Value: value.TimeTicks(0)},
	})
	first, err := s.Read([]oid.OID{oid.MustParse(UptimeOID)})
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)
	second, err := s.Read([]oid.OID{oid.MustParse(UptimeOID)})
	require.NoError(t, err)
	require.Greater(t, second[0].Value.Uint(), first[0].Value.Uint(),
		"uptime must advance between reads")
}

func TestSetValidBindingApplies(t *testing.T) {
	s := newTestStore(t, map[string]Entry{
		"1.3.6.1.2.1.1.5.0": {Value: value.String("router-main"), Access: AccessReadWrite},
	})
	err := s.Set([]pdu.Binding{
		{OID: oid.MustParse("1.3.6.1.2.1.1.5.0"), Value: value.String("core-sw-1")},
	})
	require.NoError(t, err)

	bindings, err := s.Read([]oid.OID{oid.MustParse("1.3.6.1.2.1.1.5.0")})
	require.NoError(t, err)
	require.Equal(t, "core-sw-1", bindings[0].Value.Str())
}

func TestSetAtomicityOnReadOnlyViolation(t *testing.T) {
	s := newTestStore(t, map[string]Entry{
		"1.3.6.1.2.1.1.4.0": {Value: value.String("admin@example.com"), Access: AccessReadWrite},
		"1.3.6.1.2.1.1.5.0": {Value: value.String("router-main"), Access: AccessReadWrite},
		"1.3.6.1.2.1.1.7.0": {Value: value.Integer(72)},
	})
	err := s.Set([]pdu.Binding{
		{OID: oid.MustParse("1.3.6.1.2.1.1.4.0"), Value: value.String("noc@example.com")},
		{OID: oid.MustParse("1.3.6.1.2.1.1.5.0"), Value: value.String("core-sw-1")},
		{OID: oid.MustParse("1.3.6.1.2.1.1.7.0"), Value: value.Integer(1)},
	})
	require.ErrorIs(t, err, ErrReadOnly)

	// The two valid bindings must be untouched.
	bindings, err := s.Read([]oid.OID{
		oid.MustParse("1.3.6.1.2.1.1.4.0"),
		oid.MustParse("1.3.6.1.2.1.1.5.0"),
	})
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", bindings[0].Value.Str())
	require.Equal(t, "router-main", bindings[1].Value.Str())
}

func TestSetFirstFailureWins(t *testing.T) {
	s := newTestStore(t, map[string]Entry{
		"1.3.6.1.2.1.1.5.0": {Value: value.String("router-main"), Access: AccessReadWrite},
		"1.3.6.1.2.1.1.7.0": {Value: value.Integer(72)},
	})
	// Unknown oid comes before the read-only violation: NoSuchOID wins.
	err := s.Set([]pdu.Binding{
		{OID: oid.MustParse("9.9.9"), Value: value.Integer(1)},
		{OID: oid.MustParse("1.3.6.1.2.1.1.7.0"), Value: value.Integer(1)},
	})
	require.ErrorIs(t, err, ErrNoSuchOID)
}

func TestSetTypeMismatch(t *testing.T) {
	s := newTestStore(t, map[string]Entry{
		"1.3.6.1.2.1.1.5.0": {Value: value.String("router-main"), Access: AccessReadWrite},
	})
	err := s.Set([]pdu.Binding{
		{OID: oid.MustParse("1.3.6.1.2.1.1.5.0"), Value: value.Integer(1)},
	})
	require.ErrorIs(t, err, ErrBadValue)
}

func TestSetEmptyListSucceeds(t *testing.T) {
	s := newTestStore(t, map[string]Entry{})
	require.NoError(t, s.Set(nil))
}

func TestNextAfterNumericOrdering(t *testing.T) {
	s := newTestStore(t, map[string]Entry{
		"1.2.3":  {Value: value.Integer(1)},
		"1.2.4":  {Value: value.Integer(2)},
		"1.2.10": {Value: value.Integer(3)},
		"1.3":    {Value: value.Integer(4)},
	})
	got := s.NextAfter(oid.MustParse("1.2.3"), 5)
	want := []string{"1.2.4", "1.2.10", "1.3"}
	require.Len(t, got, len(want))
	for i, w := range want {
		require.Equal(t, w, got[i].String())
	}
}

func TestNextAfterRespectsMaxAndEnd(t *testing.T) {
	s := newTestStore(t, map[string]Entry{
		"1.1": {Value: value.Integer(1)},
		"1.2": {Value: value.Integer(2)},
		"1.3": {Value: value.Integer(3)},
	})
	require.Len(t, s.NextAfter(oid.OID{}, 2), 2)
	require.Empty(t, s.NextAfter(oid.MustParse("1.3"), 10))
	require.Empty(t, s.NextAfter(oid.MustParse("1.1"), 0))
}

func TestWalkReturnsBindingsInOrder(t *testing.T) {
	s := newTestStore(t, map[string]Entry{
		"1.2.3": {Value: value.Integer(1)},
		"1.2.4": {Value: value.String("x")},
	})
	bindings := s.Walk(oid.OID{}, 10)
	require.Len(t, bindings, 2)
	require.Equal(t, "1.2.3", bindings[0].OID.String())
	require.Equal(t, "1.2.4", bindings[1].OID.String())
	require.Equal(t, int32(1), bindings[0].Value.Int())
	require.Equal(t, "x", bindings[1].Value.Str())
}

func TestDefaultStoreSeed(t *testing.T) {
	s, err := DefaultStore()
	require.NoError(t, err)
	require.Greater(t, s.Len(), 100)

	// Spot-check permissions from the seed set.
	require.NoError(t, s.Set([]pdu.Binding{
		{OID: oid.MustParse("1.3.6.1.2.1.1.5.0"), Value: value.String("renamed")},
	}))
	require.ErrorIs(t, s.Set([]pdu.Binding{
		{OID: oid.MustParse("1.3.6.1.2.1.1.1.0"), Value: value.String("nope")},
	}), ErrReadOnly)
}

func TestNewStoreRejectsBadKey(t *testing.T) {
	_, err := NewStore(map[string]Entry{"1.999.2": {Value: value.Integer(0)}})
	require.ErrorIs(t, err, oid.ErrComponentOutOfRange)
}
