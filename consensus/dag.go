// Package consensus implements the DAG block store, confirmation and
// stability promotion, and witness election.
package consensus

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/log"

	"github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/core"
	"github.com/olympus-protocol/olympus/errs"
	"github.com/olympus-protocol/olympus/metrics"
)

// BlockDag owns every received block and the secondary indexes needed
// for reverse traversal and promotion.
type BlockDag struct {
	blocks     map[common.Hash]*core.Block
	references map[common.Hash][]common.Hash
	approvals  map[common.Hash][]common.Hash

	confirmed mapset.Set[common.Hash]
	stable    mapset.Set[common.Hash]

	insertOrder []common.Hash
	maxBlocks   int
}

func NewBlockDag(maxBlocks int) *BlockDag {
	return &BlockDag{
		blocks:     make(map[common.Hash]*core.Block),
		references: make(map[common.Hash][]common.Hash),
		approvals:  make(map[common.Hash][]common.Hash),
		confirmed:  mapset.NewSet[common.Hash](),
		stable:     mapset.NewSet[common.Hash](),
		maxBlocks:  maxBlocks,
	}
}

func (d *BlockDag) Has(h common.Hash) bool {
	_, ok := d.blocks[h]
	return ok
}

func (d *BlockDag) Get(h common.Hash) (*core.Block, bool) {
	b, ok := d.blocks[h]
	return b, ok
}

func (d *BlockDag) IsConfirmed(h common.Hash) bool { return d.confirmed.Contains(h) }
func (d *BlockDag) IsStable(h common.Hash) bool    { return d.stable.Contains(h) }

func (d *BlockDag) StableBlocks() []common.Hash {
	return sortedHashes(d.stable.ToSlice())
}

func (d *BlockDag) ConfirmedBlocks() []common.Hash {
	return sortedHashes(d.confirmed.ToSlice())
}

// insert stores block and its reference/approval indexes. The caller
// must have already checked for duplicates.
func (d *BlockDag) insert(hash common.Hash, block *core.Block) {
	d.blocks[hash] = block
	d.insertOrder = append(d.insertOrder, hash)
	for _, p := range block.Parents {
		d.references[hash] = append(d.references[hash], p)
	}
	for _, a := range block.Approves {
		d.approvals[hash] = append(d.approvals[hash], a)
	}
}

// gc evicts the oldest entries, in insertion order, while
// len(blocks) > maxBlocks.
func (d *BlockDag) gc() {
	if d.maxBlocks <= 0 {
		return
	}
	for len(d.blocks) > d.maxBlocks && len(d.insertOrder) > 0 {
		victim := d.insertOrder[0]
		d.insertOrder = d.insertOrder[1:]
		if _, ok := d.blocks[victim]; !ok {
			continue
		}
		delete(d.blocks, victim)
		delete(d.references, victim)
		delete(d.approvals, victim)
		d.confirmed.Remove(victim)
		d.stable.Remove(victim)
		log.Debug("evicted block from dag", "hash", victim.Hex())
	}
}

func sortedHashes(hs []common.Hash) []common.Hash {
	sort.Slice(hs, func(i, j int) bool { return lessHash(hs[i], hs[j]) })
	return hs
}

func lessHash(a, b common.Hash) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// ConsensusResult is returned by ProcessBlock.
type ConsensusResult struct {
	ConsensusReached bool
	ConfirmedBlocks  []common.Hash
	StableBlocks     []common.Hash
	NextWitnesses    []common.Address
}

// DagConsensus is the DAG consensus engine.
type DagConsensus struct {
	Dag            *BlockDag
	WitnessManager *WitnessManager

	CurrentEpoch          uint64
	ConfirmationThreshold int
	EpochDuration         int
	MinWitnesses          int
	MaxWitnesses          int

	Metrics *metrics.Collectors
}

func NewDagConsensus(minWitnesses, maxWitnesses, confirmationThreshold, epochDuration, maxBlocks int) *DagConsensus {
	return &DagConsensus{
		Dag:                   NewBlockDag(maxBlocks),
		WitnessManager:        NewWitnessManager(minWitnesses, maxWitnesses),
		ConfirmationThreshold: confirmationThreshold,
		EpochDuration:         epochDuration,
		MinWitnesses:          minWitnesses,
		MaxWitnesses:          maxWitnesses,
	}
}

// WithMetrics attaches a metrics.Collectors that ProcessBlock and
// rotateEpoch report into; nil (the default) disables reporting.
func (c *DagConsensus) WithMetrics(m *metrics.Collectors) *DagConsensus {
	c.Metrics = m
	return c
}

// ProcessBlock inserts block into the dag, runs confirmation and
// stability promotion, rotates the epoch once enough blocks have gone
// stable, and returns the round's result. Duplicate blocks are
// rejected.
func (c *DagConsensus) ProcessBlock(block *core.Block) (*ConsensusResult, error) {
	hash := block.Hash()
	if c.Dag.Has(hash) {
		return nil, errs.ErrDuplicateBlock
	}

	c.Dag.insert(hash, block)

	result := c.checkConsensus()
	if c.Metrics != nil {
		c.Metrics.BlocksConfirmed.Add(float64(len(result.ConfirmedBlocks)))
		c.Metrics.BlocksStabilized.Add(float64(len(result.StableBlocks)))
	}

	if len(c.Dag.stable.ToSlice()) >= c.EpochDuration {
		c.rotateEpoch()
	}

	log.Debug("processed block", "hash", hash.Hex(), "confirmed", len(result.ConfirmedBlocks), "stable", len(result.StableBlocks))
	return result, nil
}

// checkConsensus scans every not-yet-confirmed block in deterministic
// hash order, promotes it to confirmed once it has enough approvals,
// and promotes every confirmed, not-yet-stable block (newly confirmed or
// confirmed in an earlier call) to stable once every reference is itself
// stable. Iterating in hash order, rather than map order, means
// two nodes that have seen the same set of blocks converge on identical
// promotions regardless of arrival order.
func (c *DagConsensus) checkConsensus() *ConsensusResult {
	var confirmedBlocks, stableBlocks []common.Hash

	candidates := make([]common.Hash, 0, len(c.Dag.blocks))
	for h := range c.Dag.blocks {
		if !c.Dag.confirmed.Contains(h) {
			candidates = append(candidates, h)
		}
	}
	sortedHashes(candidates)

	for _, h := range candidates {
		if len(c.Dag.approvals[h]) >= c.ConfirmationThreshold {
			c.Dag.confirmed.Add(h)
			confirmedBlocks = append(confirmedBlocks, h)
		}
	}

	// Confirmed blocks become stable once every one of their references
	// is already stable. Scanning repeatedly in sorted order
	// lets a reference chain settle within a single ProcessBlock call.
	changed := true
	for changed {
		changed = false
		for _, h := range sortedHashes(c.Dag.confirmed.ToSlice()) {
			if c.Dag.stable.Contains(h) {
				continue
			}
			if c.allReferencesStable(h) {
				c.Dag.stable.Add(h)
				stableBlocks = append(stableBlocks, h)
				changed = true
			}
		}
	}

	return &ConsensusResult{
		ConsensusReached: len(confirmedBlocks) > 0,
		ConfirmedBlocks:  confirmedBlocks,
		StableBlocks:     stableBlocks,
		NextWitnesses:    c.electWitnesses(stableBlocks),
	}
}

func (c *DagConsensus) allReferencesStable(h common.Hash) bool {
	for _, ref := range c.Dag.references[h] {
		if !c.Dag.stable.Contains(ref) {
			return false
		}
	}
	return true
}

// electWitnesses tallies each newly-stable block's creator, sorts by
// descending count with address as tiebreak, takes the top
// MaxWitnesses, and pads with the zero address to MinWitnesses.
func (c *DagConsensus) electWitnesses(stableBlocks []common.Hash) []common.Address {
	tally := make(map[common.Address]int)
	for _, h := range stableBlocks {
		if b, ok := c.Dag.blocks[h]; ok {
			tally[b.From]++
		}
	}

	type candidate struct {
		addr  common.Address
		count int
	}
	candidates := make([]candidate, 0, len(tally))
	for addr, count := range tally {
		candidates = append(candidates, candidate{addr, count})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return lessAddress(candidates[i].addr, candidates[j].addr)
	})

	witnesses := make([]common.Address, 0, c.MaxWitnesses)
	for i := 0; i < len(candidates) && i < c.MaxWitnesses; i++ {
		witnesses = append(witnesses, candidates[i].addr)
	}
	for len(witnesses) < c.MinWitnesses {
		witnesses = append(witnesses, common.ZeroAddress)
	}
	return witnesses
}

// rotateEpoch increments the epoch counter and garbage-collects the
// dag.
func (c *DagConsensus) rotateEpoch() {
	c.CurrentEpoch++
	c.Dag.gc()
	if c.Metrics != nil {
		c.Metrics.EpochsRotated.Inc()
	}
	log.Info("epoch rotated", "epoch", c.CurrentEpoch)
}
