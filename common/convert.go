package common

// HashToUInt256 interprets a 32-byte hash as a big-endian unsigned
// integer. Used at the RLP boundary to encode signature components (r
// s) as minimal scalars instead of fixed-width strings.
func HashToUInt256(h Hash) *UInt256 {
	var u UInt256
	u.SetBytes(h[:])
	return &u
}

// UInt256ToHash left-pads a UInt256's big-endian bytes to 32 bytes.
func UInt256ToHash(u *UInt256) Hash {
	if u == nil {
		return ZeroHash
	}
	return Hash(u.Bytes32())
}
