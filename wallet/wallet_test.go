package wallet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMnemonicIsValidAndDeterministicDerivation(t *testing.T) {
	mnemonic, err := NewMnemonic()
	require.NoError(t, err)
	require.NotEmpty(t, mnemonic)

	acc1, err := AccountFromMnemonic(mnemonic, "")
	require.NoError(t, err)
	acc2, err := AccountFromMnemonic(mnemonic, "")
	require.NoError(t, err)

	require.Equal(t, acc1.Address, acc2.Address)
	require.Equal(t, acc1.Secret(), acc2.Secret())
}

func TestDifferentPassphraseYieldsDifferentAccount(t *testing.T) {
	mnemonic, err := NewMnemonic()
	require.NoError(t, err)

	acc1, err := AccountFromMnemonic(mnemonic, "alpha")
	require.NoError(t, err)
	acc2, err := AccountFromMnemonic(mnemonic, "beta")
	require.NoError(t, err)

	require.NotEqual(t, acc1.Address, acc2.Address)
}

func TestAccountFromMnemonicRejectsInvalidMnemonic(t *testing.T) {
	_, err := AccountFromMnemonic("not a valid mnemonic phrase at all", "")
	require.Error(t, err)
}

func TestSecretReturnsDefensiveCopy(t *testing.T) {
	mnemonic, err := NewMnemonic()
	require.NoError(t, err)
	acc, err := AccountFromMnemonic(mnemonic, "")
	require.NoError(t, err)

	secret := acc.Secret()
	secret[0] ^= 0xff
	require.NotEqual(t, secret, acc.Secret())
}
