// Package common holds the fixed-width primitives shared by every other
// package: addresses, hashes, and the 256-bit unsigned integer used for
// value, gas and balance fields.
package common

import (
	"encoding/hex"
	"fmt"

	"github.com/holiman/uint256"
)

const (
	AddressLength = 20
	HashLength = 32
)

// Address is an opaque 20-byte account identifier.
type Address [AddressLength]byte

// ZeroAddress is the distinguished sentinel used for contract-creation
// destinations and padding witness slates.
var ZeroAddress = Address{}

func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

func (a Address) IsZero() bool { return a == ZeroAddress }

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

// Hash is an opaque 32-byte Keccak-256 digest.
type Hash [HashLength]byte

var ZeroHash = Hash{}

func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

func (h Hash) IsZero() bool { return h == ZeroHash }

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// UInt256 is the 256-bit unsigned integer used for value, gas price and
// balance fields. It is a thin alias over holiman/uint256, the library
// the rest of the pack (go-ethereum, coreth) uses for the same purpose.
type UInt256 = uint256.Int

func NewUInt256(v uint64) *UInt256 { return uint256.NewInt(v) }

// Signature is the triple (v, r, s) produced by ECDSA signing. v encodes
// the recovery id plus EIP-155-style chain-id replay protection:
// v = recid + 27 + (chain_id*2 + 35).
type Signature struct {
	V uint8
	R Hash
	S Hash
}

func (s Signature) IsZero() bool {
	return s.R.IsZero() && s.S.IsZero()
}

func (s Signature) String() string {
	return fmt.Sprintf("Signature{v: %d, r: %s, s: %s}", s.V, s.R.Hex(), s.S.Hex())
}
