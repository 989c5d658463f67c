package account

import (
	"fmt"
	"sync"
	"time"

	"RiskSentinel/internal/model"

	"github.com/rs/zerolog/log"
)

// Holder owns the current account state. Readers get independent copies, so
// an evaluation never observes a half-applied update.
type Holder struct {
	mu        sync.RWMutex
	state     model.AccountState
	version   uint64
	updatedAt time.Time
	filePath  string
}

// NewHolder creates a Holder seeded with state. It is not backed by a file.
func NewHolder(state model.AccountState) *Holder {
	return &Holder{state: clone(state), version: 1, updatedAt: time.Now()}
}

// OpenHolder creates a Holder from a portfolio file. Reload re-reads it.
func OpenHolder(filePath string) (*Holder, error) {
	state, err := LoadPortfolio(filePath)
	if err != nil {
		return nil, err
	}
	h := NewHolder(state)
	h.filePath = filePath
	return h, nil
}

// Snapshot returns a deep copy of the current state and its version.
func (h *Holder) Snapshot() (model.AccountState, uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return clone(h.state), h.version
}

// Version increases by one on every Update.
func (h *Holder) Version() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.version
}

// UpdatedAt is the time of the last Update.
func (h *Holder) UpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.updatedAt
}

// Update replaces the state. The caller's value is copied.
func (h *Holder) Update(state model.AccountState) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = clone(state)
	h.version++
	h.updatedAt = time.Now()
	return h.version
}

// Reload re-reads the backing portfolio file and applies it.
func (h *Holder) Reload() error {
	if h.filePath == "" {
		return fmt.Errorf("reload portfolio: holder has no file")
	}
	state, err := LoadPortfolio(h.filePath)
	if err != nil {
		return err
	}
	v := h.Update(state)
	log.Info().Str("file", h.filePath).Uint64("version", v).Int("positions", len(state.Positions)).
		Msg("portfolio reloaded")
	return nil
}

func clone(s model.AccountState) model.AccountState {
	out := s
	out.Positions = make([]model.TradePosition, len(s.Positions))
	for i, p := range s.Positions {
		if p.StopLoss != nil {
			p.StopLoss = model.Price(*p.StopLoss)
		}
		if p.TakeProfit != nil {
			p.TakeProfit = model.Price(*p.TakeProfit)
		}
		out.Positions[i] = p
	}
	return out
}
