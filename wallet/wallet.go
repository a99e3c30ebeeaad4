// Package wallet is a thin key-and-mnemonic helper: BIP39 mnemonic
// generation and seed derivation, and turning a derived seed into a
// signing key. It intentionally does not implement an on-disk keystore
// file format.
package wallet

import (
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"

	"github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/crypto"
	"github.com/olympus-protocol/olympus/errs"
)

// entropyBits is the BIP39 entropy size that yields a 24-word mnemonic.
const entropyBits = 256

// Account pairs a derived address with the secret bytes used to sign on
// its behalf.
type Account struct {
	Address common.Address
	secret  []byte
}

// Secret returns a copy of the account's raw secp256k1 secret key.
func (a *Account) Secret() []byte { return append([]byte(nil), a.secret...) }

// NewMnemonic generates a fresh 24-word BIP39 mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", errs.Wrap(errs.Serialization, "generate entropy", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errs.Wrap(errs.Serialization, "derive mnemonic", err)
	}
	return mnemonic, nil
}

// AccountFromMnemonic derives a single account's secret key from a
// mnemonic and passphrase by taking the leading 32 bytes of the BIP39
// seed as the secp256k1 secret key. This is a minimal single-account
// scheme, not a BIP32/BIP44 hierarchical derivation.
func AccountFromMnemonic(mnemonic, passphrase string) (*Account, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errs.New(errs.InvalidTransaction, "invalid mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, passphrase)
	secret := seed[:32]

	sk, err := gethcrypto.ToECDSA(secret)
	if err != nil {
		return nil, errs.Wrap(errs.InvalidTransaction, "derive key from seed", err)
	}
	return &Account{Address: crypto.PrivateKeyToAddress(sk), secret: secret}, nil
}
