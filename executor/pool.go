package executor

import (
	"sync"

	bloomfilter "github.com/holiman/bloomfilter/v2"

	"github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/core"
	"github.com/olympus-protocol/olympus/errs"
	"github.com/olympus-protocol/olympus/metrics"
	"github.com/olympus-protocol/olympus/params"
)

// TxPool is the auxiliary pending/queued transaction pool. A bloom
// filter over seen transaction hashes gives O(1) admission rejection of
// already-known transactions before the more expensive map lookup,
// mirroring the dedup-filter pattern used throughout the pack for
// gossip/mempool admission.
type TxPool struct {
	mu sync.Mutex

	pending map[common.Hash]*core.Transaction
	queued  map[common.Hash]*core.Transaction
	seen    *bloomfilter.Filter

	maxSize        int
	priceThreshold uint64

	metrics *metrics.Collectors
}

func NewTxPool(maxSize int) *TxPool {
	seen, _ := bloomfilter.New(uint64(maxSize)*8, 5)
	return &TxPool{
		pending:        make(map[common.Hash]*core.Transaction),
		queued:         make(map[common.Hash]*core.Transaction),
		seen:           seen,
		maxSize:        maxSize,
		priceThreshold: params.TxPoolDefaultPriceThreshold,
	}
}

// SetPriceThreshold overrides the pending/queued routing threshold.
func (p *TxPool) SetPriceThreshold(threshold uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.priceThreshold = threshold
}

// WithMetrics attaches a metrics.Collectors that Add reports pool size
// into; nil (the default) disables reporting.
func (p *TxPool) WithMetrics(m *metrics.Collectors) *TxPool {
	p.metrics = m
	return p
}

func (p *TxPool) reportSizeLocked() {
	if p.metrics == nil {
		return
	}
	p.metrics.TxPoolSize.WithLabelValues("pending").Set(float64(len(p.pending)))
	p.metrics.TxPoolSize.WithLabelValues("queued").Set(float64(len(p.queued)))
}

func bloomKey(h common.Hash) bloomfilter.Key {
	var k uint64
	for i := 0; i < 8; i++ {
		k = k<<8 | uint64(h[i])
	}
	return bloomfilter.Key(k)
}

// Add inserts tx into pending when its gas price is above the pool's
// threshold, otherwise into queued. Fails once the combined pool size
// reaches maxSize.
func (p *TxPool) Add(tx *core.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	hash := tx.Hash()
	if p.seen != nil && p.seen.Contains(bloomKey(hash)) {
		if _, ok := p.pending[hash]; ok {
			return errs.New(errs.Consensus, "transaction already pooled")
		}
		if _, ok := p.queued[hash]; ok {
			return errs.New(errs.Consensus, "transaction already pooled")
		}
	}
	if len(p.pending)+len(p.queued) >= p.maxSize {
		return errs.New(errs.InvalidTransaction, "transaction pool full")
	}

	if tx.GasPrice.Uint64() > p.priceThreshold {
		p.pending[hash] = tx
	} else {
		p.queued[hash] = tx
	}
	if p.seen != nil {
		p.seen.Add(bloomKey(hash))
	}
	p.reportSizeLocked()
	return nil
}

// PromoteQueued moves every queued transaction whose gas price is at
// least threshold into pending.
func (p *TxPool) PromoteQueued(threshold uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for hash, tx := range p.queued {
		if tx.GasPrice.Uint64() >= threshold {
			p.pending[hash] = tx
			delete(p.queued, hash)
		}
	}
}

// Pending returns a snapshot of the pending transactions.
func (p *TxPool) Pending() []*core.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*core.Transaction, 0, len(p.pending))
	for _, tx := range p.pending {
		out = append(out, tx)
	}
	return out
}

// Queued returns a snapshot of the queued transactions.
func (p *TxPool) Queued() []*core.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*core.Transaction, 0, len(p.queued))
	for _, tx := range p.queued {
		out = append(out, tx)
	}
	return out
}
