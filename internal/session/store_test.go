package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starlanes/internal/market"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBeginVisit_SerialsIncrement(t *testing.T) {
	s := newTestStore(t)

	v, err := s.CurrentVisit("station_1_2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v, "unvisited station starts at 0")

	for want := int64(1); want <= 3; want++ {
		v, err := s.BeginVisit("station_1_2")
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}

	// Serials are per station.
	v, err = s.BeginVisit("station_9_9")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = s.CurrentVisit("station_1_2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}

func TestRecordTrade_AccumulatesDeltas(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.RecordTrade("station_0_0", "food", -5))
	require.NoError(t, s.RecordTrade("station_0_0", "food", -3))
	require.NoError(t, s.RecordTrade("station_0_0", "alloys", 10))
	require.NoError(t, s.RecordTrade("station_7_7", "food", -1))

	deltas, err := s.Deltas("station_0_0")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"food": -8, "alloys": 10}, deltas)

	deltas, err = s.Deltas("station_7_7")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"food": -1}, deltas)
}

func TestOverlay_MergesWithoutMutatingBaseline(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.RecordTrade("station_0_0", "food", -30))
	require.NoError(t, s.RecordTrade("station_0_0", "minerals", -100)) // over-sell, floors at 0
	require.NoError(t, s.RecordTrade("station_0_0", "ghosts", 5))      // not in baseline

	baseline := market.Snapshot{
		StationID: "station_0_0",
		Visit:     2,
		Table: map[string]market.CommodityState{
			"food":     {Price: 12, Quantity: 40},
			"minerals": {Price: 17, Quantity: 20},
			"alloys":   {Price: 35, Quantity: 8},
		},
	}

	merged, err := s.Overlay(baseline)
	require.NoError(t, err)

	assert.Equal(t, market.CommodityState{Price: 12, Quantity: 10}, merged.Table["food"])
	assert.Equal(t, market.CommodityState{Price: 17, Quantity: 0}, merged.Table["minerals"])
	assert.Equal(t, market.CommodityState{Price: 35, Quantity: 8}, merged.Table["alloys"])
	_, ghost := merged.Table["ghosts"]
	assert.False(t, ghost, "deltas without a baseline entry are dropped")

	// Baseline untouched.
	assert.Equal(t, 40, baseline.Table["food"].Quantity)
	assert.Equal(t, 20, baseline.Table["minerals"].Quantity)
	assert.Equal(t, int64(2), merged.Visit)
}

func TestOverlay_NoDeltasIsIdentity(t *testing.T) {
	s := newTestStore(t)

	baseline := market.Snapshot{
		StationID: "station_3_3",
		Visit:     1,
		Table:     map[string]market.CommodityState{"food": {Price: 9, Quantity: 55}},
	}
	merged, err := s.Overlay(baseline)
	require.NoError(t, err)
	assert.Equal(t, baseline.Table, merged.Table)
}
