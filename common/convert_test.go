package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashUInt256RoundTrip(t *testing.T) {
	h := BytesToHash([]byte{0x01, 0x02, 0x03})
	u := HashToUInt256(h)
	require.Equal(t, h, UInt256ToHash(u))
}

func TestUInt256ToHashNilIsZero(t *testing.T) {
	require.Equal(t, ZeroHash, UInt256ToHash(nil))
}
