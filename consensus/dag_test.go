package consensus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/core"
	"github.com/olympus-protocol/olympus/errs"
)

// newBlock builds a block whose own Parents/Approves lists drive this
// engine's promotion rules directly: a block is confirmed once its own
// Approves list reaches the confirmation threshold, and stable once
// confirmed and every hash in its own Parents list is already stable.
func newBlock(from byte, parents, approves []common.Hash, ts int64) *core.Block {
	return &core.Block{
		From:          common.BytesToAddress([]byte{from}),
		Parents:       parents,
		Approves:      approves,
		ExecTimestamp: ts,
		Signature:     &common.Signature{V: 27, R: common.BytesToHash([]byte{from}), S: common.BytesToHash([]byte{from})},
	}
}

func TestProcessBlockRejectsDuplicate(t *testing.T) {
	c := NewDagConsensus(1, 5, 1, 100, 1000)
	b := newBlock(0x01, nil, nil, time.Now().Unix())

	_, err := c.ProcessBlock(b)
	require.NoError(t, err)

	_, err = c.ProcessBlock(b)
	require.ErrorIs(t, err, errs.ErrDuplicateBlock)
}

func TestConfirmationPromotesAtThreshold(t *testing.T) {
	c := NewDagConsensus(1, 5, 2, 100, 1000)
	dummy := common.BytesToHash([]byte{0xff})

	oneApproval := newBlock(0x01, nil, []common.Hash{dummy}, time.Now().Unix())
	_, err := c.ProcessBlock(oneApproval)
	require.NoError(t, err)
	require.False(t, c.Dag.IsConfirmed(oneApproval.Hash()))

	twoApprovals := newBlock(0x02, nil, []common.Hash{dummy, dummy}, time.Now().Unix())
	result, err := c.ProcessBlock(twoApprovals)
	require.NoError(t, err)
	require.True(t, c.Dag.IsConfirmed(twoApprovals.Hash()))
	require.Contains(t, result.ConfirmedBlocks, twoApprovals.Hash())
}

func TestStabilityCascadesThroughParents(t *testing.T) {
	c := NewDagConsensus(1, 5, 1, 100, 1000)
	dummy := common.BytesToHash([]byte{0xff})

	root := newBlock(0x01, nil, []common.Hash{dummy}, time.Now().Unix())
	rootHash := root.Hash()
	_, err := c.ProcessBlock(root)
	require.NoError(t, err)
	require.True(t, c.Dag.IsConfirmed(rootHash))
	require.True(t, c.Dag.IsStable(rootHash))

	child := newBlock(0x02, []common.Hash{rootHash}, []common.Hash{dummy}, time.Now().Unix())
	childHash := child.Hash()
	result, err := c.ProcessBlock(child)
	require.NoError(t, err)
	require.True(t, c.Dag.IsStable(childHash))
	require.Contains(t, result.StableBlocks, childHash)
}

func TestStabilityWaitsOnUnstableParent(t *testing.T) {
	c := NewDagConsensus(1, 5, 1, 100, 1000)
	dummy := common.BytesToHash([]byte{0xff})

	unconfirmedParent := newBlock(0x01, nil, nil, time.Now().Unix())
	parentHash := unconfirmedParent.Hash()
	_, err := c.ProcessBlock(unconfirmedParent)
	require.NoError(t, err)
	require.False(t, c.Dag.IsConfirmed(parentHash))

	child := newBlock(0x02, []common.Hash{parentHash}, []common.Hash{dummy}, time.Now().Unix())
	_, err = c.ProcessBlock(child)
	require.NoError(t, err)
	require.True(t, c.Dag.IsConfirmed(child.Hash()))
	require.False(t, c.Dag.IsStable(child.Hash()))
}

func TestEpochRotationGarbageCollects(t *testing.T) {
	c := NewDagConsensus(1, 5, 1, 1, 1)
	dummy := common.BytesToHash([]byte{0xff})

	base := newBlock(0x01, nil, []common.Hash{dummy}, time.Now().Unix())
	_, err := c.ProcessBlock(base)
	require.NoError(t, err)

	require.Equal(t, uint64(1), c.CurrentEpoch)
	require.LessOrEqual(t, len(c.Dag.blocks), 1)
}

func TestDeterministicOrderIndependentOfArrival(t *testing.T) {
	dummy := common.BytesToHash([]byte{0xff})
	base := newBlock(0x01, nil, []common.Hash{dummy}, time.Now().Unix())
	baseHash := base.Hash()
	a := newBlock(0x02, []common.Hash{baseHash}, []common.Hash{dummy}, time.Now().Unix())
	b := newBlock(0x03, []common.Hash{baseHash}, []common.Hash{dummy}, time.Now().Unix())

	c1 := NewDagConsensus(1, 5, 1, 100, 1000)
	require.NoError(t, processAll(c1, base, a, b))

	c2 := NewDagConsensus(1, 5, 1, 100, 1000)
	require.NoError(t, processAll(c2, b, a, base))

	require.Equal(t, c1.Dag.ConfirmedBlocks(), c2.Dag.ConfirmedBlocks())
	require.Equal(t, c1.Dag.StableBlocks(), c2.Dag.StableBlocks())
}

func processAll(c *DagConsensus, blocks ...*core.Block) error {
	for _, b := range blocks {
		if _, err := c.ProcessBlock(b); err != nil {
			return err
		}
	}
	return nil
}
