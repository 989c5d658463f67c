package account

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"RiskSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const portfolioYAML = `
balance: 10000
total_equity: 10250
positions:
  - size: 1000
    entry_price: 100
    stop_loss: 98
    leverage: 2
  - size: 500
    entry_price: 50
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPortfolio_YAML(t *testing.T) {
	state, err := LoadPortfolio(writeFile(t, "portfolio.yaml", portfolioYAML))
	require.NoError(t, err)

	assert.Equal(t, 10000.0, state.Balance)
	assert.Equal(t, 10250.0, state.TotalEquity)
	require.Len(t, state.Positions, 2)
	assert.True(t, state.Positions[0].HasStopLoss())
	assert.Equal(t, 98.0, *state.Positions[0].StopLoss)
	assert.Equal(t, 2.0, state.Positions[0].Leverage)
	assert.False(t, state.Positions[1].HasStopLoss())
	assert.Equal(t, 1.0, state.Positions[1].Leverage, "missing leverage defaults to 1")
}

func TestLoadPortfolio_JSON(t *testing.T) {
	doc := `{"balance": 5000, "positions": [{"size": 100, "entry_price": 10, "take_profit": 12, "leverage": 1}]}`
	state, err := LoadPortfolio(writeFile(t, "portfolio.json", doc))
	require.NoError(t, err)
	assert.Equal(t, 5000.0, state.Balance)
	require.Len(t, state.Positions, 1)
	require.NotNil(t, state.Positions[0].TakeProfit)
	assert.Equal(t, 12.0, *state.Positions[0].TakeProfit)
}

func TestParsePortfolio_Empty(t *testing.T) {
	state, err := ParsePortfolio([]byte("balance: 100\n"))
	require.NoError(t, err)
	assert.NotNil(t, state.Positions)
	assert.Empty(t, state.Positions)
}

func TestParsePortfolio_Rejects(t *testing.T) {
	cases := map[string]string{
		"zero entry":     "positions: [{size: 1, entry_price: 0}]",
		"negative size":  "positions: [{size: -1, entry_price: 10}]",
		"low leverage":   "positions: [{size: 1, entry_price: 10, leverage: 0.5}]",
		"not a document": "balance: [1, 2",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePortfolio([]byte(doc))
			assert.Error(t, err)
		})
	}
	_, err := ParsePortfolio([]byte("positions: [{size: 1, entry_price: 0}]"))
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestLoadPortfolio_Missing(t *testing.T) {
	_, err := LoadPortfolio(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHolder_SnapshotIsIndependent(t *testing.T) {
	h := NewHolder(model.AccountState{
		Balance:   1000,
		Positions: []model.TradePosition{{Size: 10, EntryPrice: 5, StopLoss: model.Price(4), Leverage: 1}},
	})

	snap, v := h.Snapshot()
	assert.Equal(t, uint64(1), v)
	snap.Positions[0].Size = 999
	*snap.Positions[0].StopLoss = 1

	again, _ := h.Snapshot()
	assert.Equal(t, 10.0, again.Positions[0].Size)
	assert.Equal(t, 4.0, *again.Positions[0].StopLoss)
}

func TestHolder_UpdateBumpsVersion(t *testing.T) {
	h := NewHolder(model.AccountState{Balance: 1})
	before := h.UpdatedAt()

	v := h.Update(model.AccountState{Balance: 2})
	assert.Equal(t, uint64(2), v)
	assert.Equal(t, v, h.Version())
	assert.False(t, h.UpdatedAt().Before(before))

	state, _ := h.Snapshot()
	assert.Equal(t, 2.0, state.Balance)
}

func TestHolder_Reload(t *testing.T) {
	path := writeFile(t, "portfolio.yaml", portfolioYAML)
	h, err := OpenHolder(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("balance: 42\n"), 0644))
	require.NoError(t, h.Reload())
	state, v := h.Snapshot()
	assert.Equal(t, 42.0, state.Balance)
	assert.Empty(t, state.Positions)
	assert.Equal(t, uint64(2), v)

	require.NoError(t, os.WriteFile(path, []byte("balance: [broken"), 0644))
	assert.Error(t, h.Reload())
	assert.Equal(t, uint64(2), h.Version(), "failed reload keeps the current state")
}

func TestHolder_WithoutFile(t *testing.T) {
	h := NewHolder(model.AccountState{})
	assert.Error(t, h.Reload())
}

func TestHolder_ConcurrentAccess(t *testing.T) {
	h := NewHolder(model.AccountState{Balance: 1})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			h.Update(model.AccountState{Balance: float64(i)})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = h.Snapshot()
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(9), h.Version())
}
