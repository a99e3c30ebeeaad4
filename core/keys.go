package core

import (
	"crypto/ecdsa"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// ecdsaPrivateKey is a local alias so the rest of this package need not
// import crypto/ecdsa directly in every signature.
type ecdsaPrivateKey = ecdsa.PrivateKey

func bytesToECDSA(secret []byte) (*ecdsaPrivateKey, error) {
	return gethcrypto.ToECDSA(secret)
}
