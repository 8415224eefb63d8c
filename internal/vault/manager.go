package vault

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"CoinVault/internal/model"
)

// ErrStatePersist marks a trade that applied in memory but whose state file
// write failed. The vault and the disk disagree until the next save succeeds.
var ErrStatePersist = errors.New("vault state not persisted")

// Manager wraps a Vault for the live loop: it serializes access, stamps
// operations with the wall clock, and persists state to disk after every
// mutation so a restart picks up where the last cycle left off.
type Manager struct {
	mu       sync.Mutex
	vault    *Vault
	filePath string
}

// NewManager loads the vault from the state file, or creates a fresh one
// with the given starting balances if no state exists yet.
func NewManager(filePath string, initialReserve, initialVolatile float64) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}

	var v *Vault
	if state != nil {
		v = FromState(*state)
	} else {
		v = New(initialReserve, initialVolatile)
	}

	m := &Manager{vault: v, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// SetResetTargets configures the RESET snap balances.
func (m *Manager) SetResetTargets(reserve, volatile float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vault.SetResetTargets(reserve, volatile)
}

// State returns a copy of the current persisted shape.
func (m *Manager) State() model.VaultState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vault.ToState()
}

// Balances returns the current reserve and volatile balances.
func (m *Manager) Balances() (reserve, volatile float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vault.ReserveBalance(), m.vault.VolatileBalance()
}

// ExecuteTrade applies one decision at the current wall-clock time and
// persists the state. A refused trade leaves both the vault and the state
// file unchanged. A trade that applies but fails to persist returns an
// error wrapping ErrStatePersist so the caller can tell the two apart.
func (m *Manager) ExecuteTrade(action model.Action, amount, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.vault.ApplyTrade(time.Now().UTC(), action, amount, price); err != nil {
		return err
	}
	if err := m.save(); err != nil {
		return fmt.Errorf("%w after %s: %v", ErrStatePersist, action, err)
	}
	return nil
}

// MarkToMarket records a valuation at the given price and persists it.
func (m *Manager) MarkToMarket(price float64) model.ValuationRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.vault.RecordValuation(time.Now().UTC(), price)
	if err := m.save(); err != nil {
		log.Printf("[ERROR] failed to save vault state after valuation: %v", err)
	}
	return rec
}

// TotalValue returns the portfolio value at the given price.
func (m *Manager) TotalValue(price float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vault.TotalValue(price)
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.vault.ToState())
}
