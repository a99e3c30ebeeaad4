package consensus

import (
	"math/big"
	"sort"

	"github.com/olympus-protocol/olympus/common"
)

// WitnessRecord tracks one candidate witness's stake and observed
// performance.
type WitnessRecord struct {
	Address     common.Address
	Stake       *common.UInt256
	BlocksMade  uint64
	MissedSlots uint64
}

// score combines stake with a performance ratio, rewarding witnesses
// that produce blocks reliably over ones that merely hold stake.
func (w *WitnessRecord) score() float64 {
	stake := 1.0
	if w.Stake != nil && !w.Stake.IsZero() {
		stake, _ = new(big.Float).SetInt(w.Stake.ToBig()).Float64()
	}
	total := w.BlocksMade + w.MissedSlots
	performance := 1.0
	if total > 0 {
		performance = float64(w.BlocksMade) / float64(total)
	}
	return stake * performance
}

// WitnessManager tracks the active witness set and the pool of
// candidates eligible for the next election.
type WitnessManager struct {
	MinWitnesses int
	MaxWitnesses int

	active     map[common.Address]*WitnessRecord
	candidates map[common.Address]*WitnessRecord
}

func NewWitnessManager(minWitnesses, maxWitnesses int) *WitnessManager {
	return &WitnessManager{
		MinWitnesses: minWitnesses,
		MaxWitnesses: maxWitnesses,
		active:       make(map[common.Address]*WitnessRecord),
		candidates:   make(map[common.Address]*WitnessRecord),
	}
}

// RegisterCandidate adds or updates a witness candidate's staked
// amount. Registration does not by itself grant witness status.
func (w *WitnessManager) RegisterCandidate(addr common.Address, stake *common.UInt256) {
	rec, ok := w.candidates[addr]
	if !ok {
		rec = &WitnessRecord{Address: addr}
		w.candidates[addr] = rec
	}
	rec.Stake = stake
}

// RecordBlock credits addr with having produced a block, used as
// positive performance signal for future elections.
func (w *WitnessManager) RecordBlock(addr common.Address) {
	if rec, ok := w.candidates[addr]; ok {
		rec.BlocksMade++
	}
	if rec, ok := w.active[addr]; ok {
		rec.BlocksMade++
	}
}

// RecordMiss credits addr with a missed slot, penalizing its standing
// in the next election.
func (w *WitnessManager) RecordMiss(addr common.Address) {
	if rec, ok := w.candidates[addr]; ok {
		rec.MissedSlots++
	}
	if rec, ok := w.active[addr]; ok {
		rec.MissedSlots++
	}
}

// IsActive reports whether addr is in the current witness set.
func (w *WitnessManager) IsActive(addr common.Address) bool {
	_, ok := w.active[addr]
	return ok
}

// Active returns the current witness set, sorted by address for a
// stable read.
func (w *WitnessManager) Active() []common.Address {
	out := make([]common.Address, 0, len(w.active))
	for addr := range w.active {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return lessAddress(out[i], out[j]) })
	return out
}

// SelectNextWitnesses ranks every candidate by score (stake weighted by
// performance), takes the top MaxWitnesses, pads to MinWitnesses with
// the zero address when there are not enough candidates, and installs
// the result as the new active set.
func (w *WitnessManager) SelectNextWitnesses() []common.Address {
	type scored struct {
		addr  common.Address
		score float64
	}
	ranked := make([]scored, 0, len(w.candidates))
	for addr, rec := range w.candidates {
		ranked = append(ranked, scored{addr, rec.score()})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return lessAddress(ranked[i].addr, ranked[j].addr)
	})

	selected := make([]common.Address, 0, w.MaxWitnesses)
	for i := 0; i < len(ranked) && i < w.MaxWitnesses; i++ {
		selected = append(selected, ranked[i].addr)
	}
	for len(selected) < w.MinWitnesses {
		selected = append(selected, common.ZeroAddress)
	}

	w.active = make(map[common.Address]*WitnessRecord, len(selected))
	for _, addr := range selected {
		if rec, ok := w.candidates[addr]; ok {
			w.active[addr] = rec
		} else {
			w.active[addr] = &WitnessRecord{Address: addr}
		}
	}
	return selected
}

func lessAddress(a, b common.Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
