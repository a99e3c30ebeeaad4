package consensus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olympus-protocol/olympus/common"
)

func TestSelectNextWitnessesRanksByStakeAndPerformance(t *testing.T) {
	wm := NewWitnessManager(1, 2)
	a := common.BytesToAddress([]byte{0x01})
	b := common.BytesToAddress([]byte{0x02})
	c := common.BytesToAddress([]byte{0x03})

	wm.RegisterCandidate(a, common.NewUInt256(100))
	wm.RegisterCandidate(b, common.NewUInt256(100))
	wm.RegisterCandidate(c, common.NewUInt256(10))

	wm.RecordBlock(a)
	wm.RecordBlock(a)
	wm.RecordMiss(b)

	selected := wm.SelectNextWitnesses()
	require.Len(t, selected, 2)
	require.Equal(t, a, selected[0])
	require.True(t, wm.IsActive(a))
	require.False(t, wm.IsActive(c))
}

func TestSelectNextWitnessesPadsToMinimum(t *testing.T) {
	wm := NewWitnessManager(3, 5)
	a := common.BytesToAddress([]byte{0x01})
	wm.RegisterCandidate(a, common.NewUInt256(1))

	selected := wm.SelectNextWitnesses()
	require.Len(t, selected, 3)
	require.Equal(t, a, selected[0])
	require.Equal(t, common.ZeroAddress, selected[1])
	require.Equal(t, common.ZeroAddress, selected[2])
}

func TestActiveReturnsSortedSet(t *testing.T) {
	wm := NewWitnessManager(1, 5)
	a := common.BytesToAddress([]byte{0x03})
	b := common.BytesToAddress([]byte{0x01})
	wm.RegisterCandidate(a, common.NewUInt256(1))
	wm.RegisterCandidate(b, common.NewUInt256(1))
	wm.SelectNextWitnesses()

	active := wm.Active()
	require.Len(t, active, 2)
	require.True(t, lessAddress(active[0], active[1]))
}
