package scanner

import (
	"github.com/quantbeam/live-scanner/src/eventmodels"
)

// PairKey identifies one (symbol, timeframe) stream.
type PairKey struct {
	Symbol    eventmodels.Symbol
	Timeframe eventmodels.Timeframe
}

// Registry assigns each (symbol, timeframe) pair a stable integer index at
// startup. Per-pair state lives in flat slices indexed by that id, keeping
// map lookups off the per-completed-bar hot path.
type Registry struct {
	index map[PairKey]int
	pairs []PairKey
}

func NewRegistry() *Registry {
	return &Registry{
		index: make(map[PairKey]int),
	}
}

// Register returns the index for the pair, assigning the next free id the
// first time the pair is seen.
func (r *Registry) Register(symbol eventmodels.Symbol, timeframe eventmodels.Timeframe) int {
	key := PairKey{Symbol: symbol, Timeframe: timeframe}
	if id, found := r.index[key]; found {
		return id
	}

	id := len(r.pairs)
	r.index[key] = id
	r.pairs = append(r.pairs, key)
	return id
}

func (r *Registry) Lookup(symbol eventmodels.Symbol, timeframe eventmodels.Timeframe) (int, bool) {
	id, found := r.index[PairKey{Symbol: symbol, Timeframe: timeframe}]
	return id, found
}

func (r *Registry) Len() int {
	return len(r.pairs)
}

// Pair returns the key registered under the given id.
func (r *Registry) Pair(id int) PairKey {
	return r.pairs[id]
}
