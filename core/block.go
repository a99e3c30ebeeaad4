package core

import (
	"time"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/crypto"
	"github.com/olympus-protocol/olympus/errs"
	"github.com/olympus-protocol/olympus/params"
)

// Block is the core's DAG block model.
type Block struct {
	From              common.Address
	Previous          common.Hash
	Parents           []common.Hash
	Links             []common.Hash
	Approves          []common.Hash
	LastSummary       common.Hash
	LastSummaryBlock  common.Hash
	LastStableBlock   common.Hash
	ExecTimestamp     int64
	GasUsed           uint64
	Signature         *common.Signature
}

// blockRLP mirrors the 13-item canonical hashing preimage: scalar
// fields, the three nested hash lists, then the three signature fields.
type blockRLP struct {
	From             common.Address
	Previous         common.Hash
	LastSummary      common.Hash
	LastSummaryBlock common.Hash
	LastStableBlock  common.Hash
	ExecTimestamp    uint64
	GasUsed          uint64
	Parents          []common.Hash
	Links            []common.Hash
	Approves         []common.Hash
	V                uint8
	R                common.Hash
	S                common.Hash
}

func (b *Block) toRLP() blockRLP {
	v, r, s := uint8(0), common.ZeroHash, common.ZeroHash
	if b.Signature != nil {
		v, r, s = b.Signature.V, b.Signature.R, b.Signature.S
	}
	return blockRLP{
		From:             b.From,
		Previous:         b.Previous,
		LastSummary:      b.LastSummary,
		LastSummaryBlock: b.LastSummaryBlock,
		LastStableBlock:  b.LastStableBlock,
		ExecTimestamp:    uint64(b.ExecTimestamp),
		GasUsed:          b.GasUsed,
		Parents:          nonNilHashes(b.Parents),
		Links:            nonNilHashes(b.Links),
		Approves:         nonNilHashes(b.Approves),
		V:                v,
		R:                r,
		S:                s,
	}
}

func nonNilHashes(hs []common.Hash) []common.Hash {
	if hs == nil {
		return []common.Hash{}
	}
	return hs
}

// Encode returns the canonical 13-item block encoding.
func (b *Block) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(b.toRLP())
}

// DecodeBlock decodes the canonical 13-item block form.
func DecodeBlock(data []byte) (*Block, error) {
	var w blockRLP
	if err := rlp.DecodeBytes(data, &w); err != nil {
		return nil, errs.Wrap(errs.Serialization, "decode block", err)
	}
	b := &Block{
		From:             w.From,
		Previous:         w.Previous,
		Parents:          w.Parents,
		Links:            w.Links,
		Approves:         w.Approves,
		LastSummary:      w.LastSummary,
		LastSummaryBlock: w.LastSummaryBlock,
		LastStableBlock:  w.LastStableBlock,
		ExecTimestamp:    int64(w.ExecTimestamp),
		GasUsed:          w.GasUsed,
	}
	if !w.R.IsZero() || !w.S.IsZero() || w.V != 0 {
		b.Signature = &common.Signature{V: w.V, R: w.R, S: w.S}
	}
	return b, nil
}

// Hash returns the Keccak-256 digest of the canonical block encoding.
func (b *Block) Hash() common.Hash {
	data, err := b.Encode()
	if err != nil {
		return common.ZeroHash
	}
	return crypto.Keccak256(data)
}

// Root returns a placeholder Merkle root: Keccak-256 of the
// concatenated link hashes, or the zero hash when links is empty.
func (b *Block) Root() common.Hash {
	if len(b.Links) == 0 {
		return common.ZeroHash
	}
	buf := make([]byte, 0, len(b.Links)*common.HashLength)
	for _, l := range b.Links {
		buf = append(buf, l[:]...)
	}
	return crypto.Keccak256(buf)
}

// Validate checks the block-level invariants: non-zero creator, bounded
// timestamp skew, and a non-zero signature pair.
func (b *Block) Validate(now time.Time) error {
	if b.From.IsZero() {
		return errs.New(errs.InvalidBlock, "block creator must be non-zero")
	}
	if b.ExecTimestamp > now.Unix()+params.FutureBlockMaxSkewSeconds {
		return errs.New(errs.InvalidBlock, "block timestamp too far in the future")
	}
	if b.Signature == nil || b.Signature.IsZero() {
		return errs.New(errs.InvalidBlock, "block signature pair must be non-zero")
	}
	return nil
}

// LocalizedBlock augments a Block with block number, materialized
// transactions and derived gas/price aggregates.
type LocalizedBlock struct {
	Block        *Block
	Number       uint64
	Transactions []*Transaction
}

// CumulativeGasUsed sums the gas limit of every included transaction.
func (lb *LocalizedBlock) CumulativeGasUsed() uint64 {
	var total uint64
	for _, tx := range lb.Transactions {
		total += tx.GasLimit.Uint64()
	}
	return total
}

// MinGasPrice returns the minimum gas price across the block's
// transactions, or zero if there are none.
func (lb *LocalizedBlock) MinGasPrice() *common.UInt256 {
	if len(lb.Transactions) == 0 {
		return common.NewUInt256(0)
	}
	min := lb.Transactions[0].GasPrice
	for _, tx := range lb.Transactions[1:] {
		if tx.GasPrice.Lt(min) {
			min = tx.GasPrice
		}
	}
	return min
}
