// Package state owns the live game state and fans updates out to
// subscribers (the WebSocket hub, metrics writers). One Manager instance is
// constructed per process and injected where needed.
package state

import (
	"context"
	"sync"

	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/pkg/log"
)

// Subscriber receives a snapshot of the state after every mutation.
// Callbacks run synchronously under the manager's lock; keep them cheap and
// hand off to channels for slow consumers.
type Subscriber func(core.GameState)

type Manager struct {
	mu          sync.Mutex
	state       core.GameState
	subscribers []Subscriber

	homeTeam string
	awayTeam string
}

func NewManager(homeTeam, awayTeam string) *Manager {
	return &Manager{
		state:    core.NewGameState(homeTeam, awayTeam),
		homeTeam: homeTeam,
		awayTeam: awayTeam,
	}
}

// State returns a snapshot of the current game state.
func (m *Manager) State() core.GameState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers a callback for state changes.
func (m *Manager) Subscribe(ctx context.Context, sub Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, sub)
	log.FromCtx(ctx).Debug().Int("total", len(m.subscribers)).Msg("state subscriber added")
}

func (m *Manager) notifyLocked() {
	for _, sub := range m.subscribers {
		sub(m.state)
	}
}

// UpdateScore sets either side of the scoreboard. Negative values leave the
// side unchanged.
func (m *Manager) UpdateScore(home, away int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if home >= 0 {
		m.state.Score.Home = home
	}
	if away >= 0 {
		m.state.Score.Away = away
	}
	m.notifyLocked()
}

// UpdateClock sets the game clock; quarter 0 leaves the quarter unchanged.
func (m *Manager) UpdateClock(clock string, quarter int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Clock = clock
	if quarter > 0 {
		m.state.Quarter = quarter
	}
	m.notifyLocked()
}

// UpdatePossession sets the possessing team; zero down/distance values are
// left unchanged.
func (m *Manager) UpdatePossession(possession string, down, distance int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Possession = possession
	if down > 0 {
		m.state.Down = down
	}
	if distance > 0 {
		m.state.Distance = distance
	}
	m.notifyLocked()
}

// UpdatePlay records the last play description and optional analytics
// figures. NaN-free inputs only; negative winProb leaves it unchanged.
func (m *Manager) UpdatePlay(lastPlay string, winProb, epa float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LastPlay = lastPlay
	if winProb >= 0 {
		m.state.WinProb = winProb
	}
	m.state.OffensiveEPA = epa
	m.notifyLocked()
}

// SetState replaces the whole state, typically from a scoreboard read.
func (m *Manager) SetState(state core.GameState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.notifyLocked()
}

// Reset returns the state to kickoff for a new match. Subscribers are
// retained and notified.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = core.NewGameState(m.homeTeam, m.awayTeam)
	m.notifyLocked()
}
