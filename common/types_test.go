package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressZeroAndBytesRoundTrip(t *testing.T) {
	require.True(t, ZeroAddress.IsZero())
	addr := BytesToAddress([]byte{0x01, 0x02})
	require.False(t, addr.IsZero())
	require.Equal(t, addr, BytesToAddress(addr.Bytes()))
}

func TestBytesToAddressTruncatesOverlongInput(t *testing.T) {
	long := make([]byte, 32)
	long[31] = 0xff
	addr := BytesToAddress(long)
	require.Equal(t, byte(0xff), addr[AddressLength-1])
}

func TestSignatureIsZero(t *testing.T) {
	var sig Signature
	require.True(t, sig.IsZero())

	sig.R = BytesToHash([]byte{0x01})
	require.False(t, sig.IsZero())
}
