// Package alertstate remembers which alerts were already sent so a watch
// loop does not repeat the same alert every run.
package alertstate

import (
	"log"
	"sync"
	"time"

	"StockSentinel/internal/model"
)

// Manager de-duplicates alert notifications with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	state    *model.AlertState
	filePath string
	cooldown time.Duration
}

// NewManager creates a Manager, loading or initializing state from disk.
func NewManager(filePath string, cooldown time.Duration) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}

	m := &Manager{state: state, filePath: filePath, cooldown: cooldown}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// GetState returns a copy of the current alert state.
func (m *Manager) GetState() model.AlertState {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *m.state
	cp.LastNotified = make(map[string]time.Time, len(m.state.LastNotified))
	for k, v := range m.state.LastNotified {
		cp.LastNotified[k] = v
	}
	return cp
}

// Pending returns the events of evts that are outside their cooldown at now.
// Nothing is recorded; call MarkSent once the events were delivered.
func (m *Manager) Pending(evts []model.AlertEvent, now time.Time) []model.AlertEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.AlertEvent
	for _, evt := range evts {
		if last, ok := m.state.LastNotified[model.AlertKey(evt)]; ok && now.Sub(last) < m.cooldown {
			m.state.Suppressed++
			continue
		}
		out = append(out, evt)
	}
	return out
}

// MarkSent starts the cooldown of every event in evts at now.
func (m *Manager) MarkSent(evts []model.AlertEvent, now time.Time) {
	if len(evts) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, evt := range evts {
		m.state.LastNotified[model.AlertKey(evt)] = now
		m.state.Notified++
	}

	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save alert state: %v", err)
	}
}

// Prune drops entries whose cooldown has expired and returns how many were removed.
func (m *Manager) Prune(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, last := range m.state.LastNotified {
		if now.Sub(last) >= m.cooldown {
			delete(m.state.LastNotified, key)
			removed++
		}
	}

	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save alert state after prune: %v", err)
	}
	return removed
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
