package alertstate

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/model"
)

var t0 = time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)

func newManager(t *testing.T) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "alerts.json")
	m, err := NewManager(path, time.Hour)
	require.NoError(t, err)
	return m, path
}

func TestPending_Cooldown(t *testing.T) {
	m, _ := newManager(t)
	evt := model.AlertEvent{Kind: model.AlertRSIHigh, Symbol: "AAPL", Observed: 75, Threshold: 70}
	evts := []model.AlertEvent{evt}

	require.Len(t, m.Pending(evts, t0), 1)
	m.MarkSent(evts, t0)
	assert.Empty(t, m.Pending(evts, t0.Add(30*time.Minute)))
	assert.Len(t, m.Pending(evts, t0.Add(time.Hour)), 1)

	other := model.AlertEvent{Kind: model.AlertPriceHigh, Symbol: "AAPL"}
	assert.Len(t, m.Pending([]model.AlertEvent{other}, t0), 1)

	st := m.GetState()
	assert.Equal(t, 1, st.Notified)
	assert.Equal(t, 1, st.Suppressed)
}

func TestPending_UnsentStaysPending(t *testing.T) {
	m, _ := newManager(t)
	evts := []model.AlertEvent{
		{Kind: model.AlertRSILow, Symbol: "A"},
		{Kind: model.AlertRSILow, Symbol: "B"},
	}
	assert.Len(t, m.Pending(evts, t0), 2)
	// Delivery failed, nothing marked: the same alerts are still due.
	assert.Len(t, m.Pending(evts, t0.Add(time.Minute)), 2)
	assert.Empty(t, m.GetState().LastNotified)

	m.MarkSent(evts, t0.Add(time.Minute))
	assert.Empty(t, m.Pending(evts, t0.Add(2*time.Minute)))
}

func TestStatePersists(t *testing.T) {
	m, path := newManager(t)
	evts := []model.AlertEvent{{Kind: model.AlertRSILow, Symbol: "TSLA"}}
	m.MarkSent(evts, t0)

	reloaded, err := NewManager(path, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Pending(evts, t0.Add(time.Minute)))
}

func TestPrune(t *testing.T) {
	m, _ := newManager(t)
	m.MarkSent([]model.AlertEvent{{Kind: model.AlertRSILow, Symbol: "OLD"}}, t0)
	m.MarkSent([]model.AlertEvent{{Kind: model.AlertRSILow, Symbol: "NEW"}}, t0.Add(90*time.Minute))

	assert.Equal(t, 1, m.Prune(t0.Add(2*time.Hour)))
	st := m.GetState()
	assert.Len(t, st.LastNotified, 1)
	assert.Contains(t, st.LastNotified, "NEW|RSI_LOW")
}

func TestLoadState_Missing(t *testing.T) {
	st, err := LoadState(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.NotNil(t, st.LastNotified)
}
