package vm

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"math/big"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/crypto/blake2b"
	"github.com/ethereum/go-ethereum/crypto/bn256"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck

	occommon "github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/params"
)

// PrecompiledContract is the capability set a fixed-address built-in
// implements: execute(input) -> bytes, gas_cost(input) -> gas.
type PrecompiledContract interface {
	RequiredGas(input []byte) uint64
	Run(input []byte) ([]byte, error)
}

// PrecompiledContracts is the registry keyed by address for addresses
// 0x01..0x09.
var PrecompiledContracts = map[occommon.Address]PrecompiledContract{
	occommon.BytesToAddress([]byte{params.PrecompileECRecover}):    ecrecover{},
	occommon.BytesToAddress([]byte{params.PrecompileSHA256}):       sha256hash{},
	occommon.BytesToAddress([]byte{params.PrecompileRipemd160}):    ripemd160hash{},
	occommon.BytesToAddress([]byte{params.PrecompileIdentity}):     identity{},
	occommon.BytesToAddress([]byte{params.PrecompileModExp}):       bigModExp{},
	occommon.BytesToAddress([]byte{params.PrecompileBn256Add}):     bn256Add{},
	occommon.BytesToAddress([]byte{params.PrecompileBn256Mul}):     bn256ScalarMul{},
	occommon.BytesToAddress([]byte{params.PrecompileBn256Pairing}): bn256Pairing{},
	occommon.BytesToAddress([]byte{params.PrecompileBlake2F}):      blake2F{},
}

// IsPrecompile reports whether addr is a registered precompile.
func IsPrecompile(addr occommon.Address) bool {
	_, ok := PrecompiledContracts[addr]
	return ok
}

// RunPrecompiledContract runs p against input, charging its gas cost
// against suppliedGas. Returns the output and remaining gas.
func RunPrecompiledContract(p PrecompiledContract, input []byte, suppliedGas uint64) (ret []byte, remainingGas uint64, err error) {
	gasCost := p.RequiredGas(input)
	if suppliedGas < gasCost {
		return nil, 0, errors.New("out of gas")
	}
	suppliedGas -= gasCost
	output, err := p.Run(input)
	return output, suppliedGas, err
}

func getData(data []byte, start, size uint64) []byte {
	length := uint64(len(data))
	if start > length {
		start = length
	}
	end := start + size
	if end > length {
		end = length
	}
	out := make([]byte, size)
	copy(out, data[start:end])
	return out
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// ecrecover implements precompile 0x01.
type ecrecover struct{}

func (ecrecover) RequiredGas([]byte) uint64 { return params.EcrecoverGas }

func (ecrecover) Run(input []byte) ([]byte, error) {
	const inputLength = 128
	padded := make([]byte, inputLength)
	copy(padded, input)

	r := new(big.Int).SetBytes(padded[64:96])
	s := new(big.Int).SetBytes(padded[96:128])
	v := padded[63] - 27

	if !allZero(padded[32:63]) || !gethcrypto.ValidateSignatureValues(v, r, s, false) {
		return make([]byte, 32), nil
	}
	sig := make([]byte, 65)
	copy(sig, padded[64:128])
	sig[64] = v

	pub, err := gethcrypto.Ecrecover(padded[:32], sig)
	if err != nil {
		return make([]byte, 32), nil
	}
	out := make([]byte, 32)
	copy(out[12:], gethcrypto.Keccak256(pub[1:])[12:])
	return out, nil
}

// sha256hash implements precompile 0x02 using the Ethereum-specified
// SHA-256 semantics: real SHA-256, not SHA3-256.
type sha256hash struct{}

func (sha256hash) RequiredGas(input []byte) uint64 {
	return uint64(len(input)+31)/32*params.Sha256PerWordGas + params.Sha256BaseGas
}

func (sha256hash) Run(input []byte) ([]byte, error) {
	h := sha256.Sum256(input)
	return h[:], nil
}

// ripemd160hash implements precompile 0x03.
type ripemd160hash struct{}

func (ripemd160hash) RequiredGas(input []byte) uint64 {
	return uint64(len(input)+31)/32*params.Ripemd160PerWordGas + params.Ripemd160BaseGas
}

func (ripemd160hash) Run(input []byte) ([]byte, error) {
	h := ripemd160.New()
	h.Write(input)
	out := make([]byte, 32)
	copy(out[12:], h.Sum(nil))
	return out, nil
}

// identity implements precompile 0x04.
type identity struct{}

func (identity) RequiredGas(input []byte) uint64 {
	return uint64(len(input)+31)/32*params.IdentityPerWordGas + params.IdentityBaseGas
}

func (identity) Run(input []byte) ([]byte, error) {
	out := make([]byte, len(input))
	copy(out, input)
	return out, nil
}

// bigModExp implements precompile 0x05. Its gas cost is the simplified
// formula 200 + (base_len+mod_len)*50 + exp_len*10, not EIP-198's full
// multiplication-complexity formula.
type bigModExp struct{}

var (
	big50  = big.NewInt(50)
	big10  = big.NewInt(10)
	big200 = big.NewInt(200)
)

func (bigModExp) RequiredGas(input []byte) uint64 {
	var (
		baseLen = new(big.Int).SetBytes(getData(input, 0, 32))
		expLen  = new(big.Int).SetBytes(getData(input, 32, 32))
		modLen  = new(big.Int).SetBytes(getData(input, 64, 32))
	)

	gas := new(big.Int).Add(baseLen, modLen)
	gas.Mul(gas, big50)
	gas.Add(gas, new(big.Int).Mul(expLen, big10))
	gas.Add(gas, big200)
	if gas.BitLen() > 64 {
		return ^uint64(0)
	}
	return gas.Uint64()
}

func (bigModExp) Run(input []byte) ([]byte, error) {
	var (
		baseLen = new(big.Int).SetBytes(getData(input, 0, 32)).Uint64()
		expLen  = new(big.Int).SetBytes(getData(input, 32, 32)).Uint64()
		modLen  = new(big.Int).SetBytes(getData(input, 64, 32)).Uint64()
	)
	if len(input) > 96 {
		input = input[96:]
	} else {
		input = input[:0]
	}
	if baseLen == 0 && modLen == 0 {
		return []byte{}, nil
	}
	base := new(big.Int).SetBytes(getData(input, 0, baseLen))
	exp := new(big.Int).SetBytes(getData(input, baseLen, expLen))
	mod := new(big.Int).SetBytes(getData(input, baseLen+expLen, modLen))

	if mod.BitLen() == 0 {
		// MODEXP with modulus 0 returns mod_len zero bytes.
		return leftPad(nil, int(modLen)), nil
	}
	var v []byte
	if base.BitLen() == 1 {
		v = base.Mod(base, mod).Bytes()
	} else {
		v = base.Exp(base, exp, mod).Bytes()
	}
	return leftPad(v, int(modLen)), nil
}

func leftPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b[len(b)-size:]
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}

// The BN254 curve check (y^2 = x^3 + 3 mod p) and the points-at-infinity
// (0,0) convention are delegated entirely to bn256.G1/G2's own
// Unmarshal, so newCurvePoint/newTwistPoint do not duplicate that
// arithmetic.

func newCurvePoint(blob []byte) (*bn256.G1, bool) {
	p := new(bn256.G1)
	if _, err := p.Unmarshal(blob); err != nil {
		return nil, false
	}
	return p, true
}

func newTwistPoint(blob []byte) (*bn256.G2, bool) {
	p := new(bn256.G2)
	if _, err := p.Unmarshal(blob); err != nil {
		return nil, false
	}
	return p, true
}

// bn256Add implements precompile 0x06: BN254 point addition. Off-curve
// inputs produce a 64-byte zero result without failing, rather than
// surfacing the underlying unmarshal error.
type bn256Add struct{}

func (bn256Add) RequiredGas([]byte) uint64 { return params.Bn256AddGas }

func (bn256Add) Run(input []byte) ([]byte, error) {
	x, ok := newCurvePoint(getData(input, 0, 64))
	if !ok {
		return make([]byte, 64), nil
	}
	y, ok := newCurvePoint(getData(input, 64, 64))
	if !ok {
		return make([]byte, 64), nil
	}
	res := new(bn256.G1)
	res.Add(x, y)
	return res.Marshal(), nil
}

// bn256ScalarMul implements precompile 0x07.
type bn256ScalarMul struct{}

func (bn256ScalarMul) RequiredGas([]byte) uint64 { return params.Bn256ScalarMulGas }

func (bn256ScalarMul) Run(input []byte) ([]byte, error) {
	p, ok := newCurvePoint(getData(input, 0, 64))
	if !ok {
		return make([]byte, 64), nil
	}
	res := new(bn256.G1)
	res.ScalarMult(p, new(big.Int).SetBytes(getData(input, 64, 32)))
	return res.Marshal(), nil
}

var (
	true32Byte  = append(make([]byte, 31), 1)
	false32Byte = make([]byte, 32)
)

// bn256Pairing implements precompile 0x08.
type bn256Pairing struct{}

func (bn256Pairing) RequiredGas(input []byte) uint64 {
	return params.Bn256PairingBaseGas + uint64(len(input)/192)*params.Bn256PairingPerPointGas
}

func (bn256Pairing) Run(input []byte) ([]byte, error) {
	if len(input)%192 > 0 {
		return nil, errors.New("bad elliptic curve pairing size")
	}
	var (
		cs []*bn256.G1
		ts []*bn256.G2
	)
	for i := 0; i < len(input); i += 192 {
		c, ok := newCurvePoint(input[i : i+64])
		if !ok {
			return false32Byte, nil
		}
		t, ok := newTwistPoint(input[i+64 : i+192])
		if !ok {
			return false32Byte, nil
		}
		cs = append(cs, c)
		ts = append(ts, t)
	}
	if bn256.PairingCheck(cs, ts) {
		return true32Byte, nil
	}
	return false32Byte, nil
}

// blake2F implements precompile 0x09: the gas cost is the value of the
// 4-byte rounds field at offset 0 (the leading rounds word).
type blake2F struct{}

const blake2FInputLength = 213

func (blake2F) RequiredGas(input []byte) uint64 {
	if len(input) != blake2FInputLength {
		return 0
	}
	return uint64(binary.BigEndian.Uint32(input[0:4]))
}

func (blake2F) Run(input []byte) ([]byte, error) {
	if len(input) != blake2FInputLength {
		return nil, errors.New("invalid input length")
	}
	if input[212] != 0 && input[212] != 1 {
		return nil, errors.New("invalid final flag")
	}
	var (
		rounds = binary.BigEndian.Uint32(input[0:4])
		final  = input[212] == 1

		h [8]uint64
		m [16]uint64
		t [2]uint64
	)
	for i := 0; i < 8; i++ {
		h[i] = binary.LittleEndian.Uint64(input[4+i*8 : 12+i*8])
	}
	for i := 0; i < 16; i++ {
		m[i] = binary.LittleEndian.Uint64(input[68+i*8 : 76+i*8])
	}
	t[0] = binary.LittleEndian.Uint64(input[196:204])
	t[1] = binary.LittleEndian.Uint64(input[204:212])

	blake2b.F(&h, m, t, final, rounds)

	out := make([]byte, 64)
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint64(out[i*8:i*8+8], h[i])
	}
	return out, nil
}
