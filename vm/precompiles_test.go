package vm

import (
	"crypto/sha256"
	"testing"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	occommon "github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/params"
)

func TestIdentityPrecompile(t *testing.T) {
	p := PrecompiledContracts[occommon.BytesToAddress([]byte{params.PrecompileIdentity})]
	input := []byte("hello world")
	out, err := p.Run(input)
	require.NoError(t, err)
	require.Equal(t, input, out)
	require.Equal(t, params.IdentityBaseGas+params.IdentityPerWordGas, p.RequiredGas(input[:1]))
}

func TestSha256Precompile(t *testing.T) {
	p := PrecompiledContracts[occommon.BytesToAddress([]byte{params.PrecompileSHA256})]
	input := []byte("abc")
	out, err := p.Run(input)
	require.NoError(t, err)
	want := sha256.Sum256(input)
	require.Equal(t, want[:], out)
}

func TestEcrecoverPrecompile(t *testing.T) {
	sk, err := gethcrypto.GenerateKey()
	require.NoError(t, err)

	digest := gethcrypto.Keccak256([]byte("msg"))
	sig, err := gethcrypto.Sign(digest, sk)
	require.NoError(t, err)

	input := make([]byte, 128)
	copy(input[:32], digest)
	input[63] = sig[64] + 27
	copy(input[64:96], sig[0:32])
	copy(input[96:128], sig[32:64])

	p := PrecompiledContracts[occommon.BytesToAddress([]byte{params.PrecompileECRecover})]
	out, err := p.Run(input)
	require.NoError(t, err)

	wantAddr := gethcrypto.PubkeyToAddress(sk.PublicKey)
	require.Equal(t, wantAddr.Bytes(), out[12:])
}

func TestEcrecoverPrecompileInvalidSignatureReturnsZero(t *testing.T) {
	p := PrecompiledContracts[occommon.BytesToAddress([]byte{params.PrecompileECRecover})]
	out, err := p.Run(make([]byte, 128))
	require.NoError(t, err)
	require.Equal(t, make([]byte, 32), out)
}

func TestModExpPrecompile(t *testing.T) {
	p := PrecompiledContracts[occommon.BytesToAddress([]byte{params.PrecompileModExp})]
	// base=3, exp=2, mod=5 => 9 mod 5 = 4
	input := make([]byte, 96+1+1+1)
	copy(input[0:32], leftPad([]byte{1}, 32))
	copy(input[32:64], leftPad([]byte{1}, 32))
	copy(input[64:96], leftPad([]byte{1}, 32))
	input[96] = 3
	input[97] = 2
	input[98] = 5

	out, err := p.Run(input)
	require.NoError(t, err)
	require.Equal(t, []byte{4}, out)

	// 200 + (base_len+mod_len)*50 + exp_len*10 = 200 + (1+1)*50 + 1*10
	require.Equal(t, uint64(310), p.RequiredGas(input))
}

func TestBn256AddOffCurveReturnsZero(t *testing.T) {
	p := PrecompiledContracts[occommon.BytesToAddress([]byte{params.PrecompileBn256Add})]
	// (1, 1) is off the curve: 1^2 != 1^3 + 3.
	input := make([]byte, 128)
	input[31] = 1
	input[63] = 1
	out, err := p.Run(input)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 64), out)
}

func TestBlake2FRejectsWrongLength(t *testing.T) {
	p := PrecompiledContracts[occommon.BytesToAddress([]byte{params.PrecompileBlake2F})]
	_, err := p.Run(make([]byte, 10))
	require.Error(t, err)
}

func TestIsPrecompile(t *testing.T) {
	require.True(t, IsPrecompile(occommon.BytesToAddress([]byte{params.PrecompileIdentity})))
	require.False(t, IsPrecompile(occommon.BytesToAddress([]byte{0x42})))
}
