// Package crypto wires the core's cryptographic primitives onto
// github.com/ethereum/go-ethereum/crypto: Keccak-256 hashing and
// secp256k1 sign/recover.
package crypto

import (
	"crypto/ecdsa"
	"math/big"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/olympus-protocol/olympus/common"
)

// Keccak256 returns the Keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) common.Hash {
	return common.BytesToHash(gethcrypto.Keccak256(data...))
}

// GenerateKey creates a new secp256k1 private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return gethcrypto.GenerateKey()
}

// PrivateKeyToAddress derives the Address belonging to a private key by
// Keccak-256 hashing its uncompressed public key (sans the leading 0x04
// byte) and taking the trailing 20 bytes.
func PrivateKeyToAddress(sk *ecdsa.PrivateKey) common.Address {
	return PublicKeyToAddress(gethcrypto.FromECDSAPub(&sk.PublicKey))
}

// PublicKeyToAddress converts an uncompressed public key (65 bytes
// leading 0x04 marker) into an Address.
func PublicKeyToAddress(pubUncompressed []byte) common.Address {
	if len(pubUncompressed) == 65 {
		pubUncompressed = pubUncompressed[1:]
	}
	h := Keccak256(pubUncompressed)
	return common.BytesToAddress(h[12:])
}

// SignRecoverable signs digest with sk and returns a 65-byte recoverable
// signature (r || s || recid) as produced by libsecp256k1.
func SignRecoverable(digest common.Hash, sk *ecdsa.PrivateKey) ([]byte, error) {
	return gethcrypto.Sign(digest[:], sk)
}

// Ecrecover recovers the uncompressed public key that produced sig over
// digest. sig must be 65 bytes: r (32) || s (32) || recid (1).
func Ecrecover(digest common.Hash, sig []byte) ([]byte, error) {
	return gethcrypto.Ecrecover(digest[:], sig)
}

// RecoverAddress recovers the signer address from digest and a 65-byte
// recoverable signature.
func RecoverAddress(digest common.Hash, sig []byte) (common.Address, error) {
	pub, err := Ecrecover(digest, sig)
	if err != nil {
		return common.ZeroAddress, err
	}
	return PublicKeyToAddress(pub), nil
}

// ValidateSignatureValues reports whether r, s fall within the valid
// secp256k1 signature range, as required before recovery.
func ValidateSignatureValues(v byte, r, s common.Hash) bool {
	return gethcrypto.ValidateSignatureValues(v, new(big.Int).SetBytes(r[:]), new(big.Int).SetBytes(s[:]), false)
}
