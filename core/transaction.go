// Package core implements the transaction and block models: canonical
// RLP encoding, hashing, signing and sender recovery.
package core

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/crypto"
	"github.com/olympus-protocol/olympus/errs"
	"github.com/olympus-protocol/olympus/params"
)

// ValidationLevel selects how thoroughly Transaction.Validate checks a
// transaction.
type ValidationLevel int

const (
	ValidateNone ValidationLevel = iota
	ValidateCheap
	ValidateEverything
)

// Transaction is the core's transaction model.
type Transaction struct {
	Nonce          *common.UInt256
	Value          *common.UInt256
	ReceiveAddress common.Address
	GasPrice       *common.UInt256
	GasLimit       *common.UInt256
	Data           []byte
	Signature      *common.Signature
	ChainID        *uint64
}

// NewTransaction builds an unsigned message-call (or, when dest is the
// zero address, contract-creation) transaction on the default chain id.
func NewTransaction(nonce, value, gasPrice, gasLimit *common.UInt256, dest common.Address, data []byte) *Transaction {
	chainID := params.ChainID
	return &Transaction{
		Nonce:          nonce,
		Value:          value,
		ReceiveAddress: dest,
		GasPrice:       gasPrice,
		GasLimit:       gasLimit,
		Data:           append([]byte(nil), data...),
		ChainID:        &chainID,
	}
}

// TransactionSkeleton is the unsigned builder used by RPC-adjacent
// callers to assemble a transaction before optionally signing it
// (supplemented from the Rust original's TransactionSkeleton).
type TransactionSkeleton struct {
	To       common.Address
	Value    *common.UInt256
	Data     []byte
	Nonce    *common.UInt256
	GasLimit *common.UInt256
	GasPrice *common.UInt256
}

// FromSkeleton builds a Transaction from a skeleton, signing it with
// secret when non-nil.
func FromSkeleton(sk *TransactionSkeleton, secret interface{ Bytes() []byte }) (*Transaction, error) {
	tx := NewTransaction(sk.Nonce, sk.Value, sk.GasPrice, sk.GasLimit, sk.To, sk.Data)
	if secret != nil {
		return tx, tx.SignWithBytes(secret.Bytes())
	}
	return tx, nil
}

// IsContractCreation reports whether the transaction targets the zero
// address, signaling contract creation.
func (t *Transaction) IsContractCreation() bool {
	return t.ReceiveAddress.IsZero()
}

// txRLP mirrors the canonical 10-item hashing/transport form: six
// fields, chain id, then r, s, v. All ten fields are always present; r,
// s and v are the zero value when unsigned.
type txRLP struct {
	Nonce          *common.UInt256
	GasPrice       *common.UInt256
	GasLimit       *common.UInt256
	ReceiveAddress common.Address
	Value          *common.UInt256
	Data           []byte
	ChainID        uint64
	R              *common.UInt256
	S              *common.UInt256
	V              uint8
}

// txSigningRLP is the 6-item signing preimage.
type txSigningRLP struct {
	Nonce          *common.UInt256
	GasPrice       *common.UInt256
	GasLimit       *common.UInt256
	ReceiveAddress common.Address
	Value          *common.UInt256
	Data           []byte
}

func (t *Transaction) toRLP() txRLP {
	var chainID uint64
	if t.ChainID != nil {
		chainID = *t.ChainID
	}
	r, s, v := common.NewUInt256(0), common.NewUInt256(0), uint8(0)
	if t.Signature != nil {
		r = common.HashToUInt256(t.Signature.R)
		s = common.HashToUInt256(t.Signature.S)
		v = t.Signature.V
	}
	return txRLP{
		Nonce:          t.Nonce,
		GasPrice:       t.GasPrice,
		GasLimit:       t.GasLimit,
		ReceiveAddress: t.ReceiveAddress,
		Value:          t.Value,
		Data:           t.Data,
		ChainID:        chainID,
		R:              r,
		S:              s,
		V:              v,
	}
}

// EncodeSigningPreimage returns the 6-item signing preimage bytes.
func (t *Transaction) EncodeSigningPreimage() ([]byte, error) {
	return rlp.EncodeToBytes(txSigningRLP{
		Nonce:          t.Nonce,
		GasPrice:       t.GasPrice,
		GasLimit:       t.GasLimit,
		ReceiveAddress: t.ReceiveAddress,
		Value:          t.Value,
		Data:           t.Data,
	})
}

// Encode returns the canonical 10-item hashing/transport form.
func (t *Transaction) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(t.toRLP())
}

// DecodeTransaction decodes the canonical 10-item transport form.
func DecodeTransaction(data []byte) (*Transaction, error) {
	var w txRLP
	if err := rlp.DecodeBytes(data, &w); err != nil {
		return nil, errs.Wrap(errs.Serialization, "decode transaction", err)
	}
	tx := &Transaction{
		Nonce:          w.Nonce,
		GasPrice:       w.GasPrice,
		GasLimit:       w.GasLimit,
		ReceiveAddress: w.ReceiveAddress,
		Value:          w.Value,
		Data:           w.Data,
		ChainID:        &w.ChainID,
	}
	if !w.R.IsZero() || !w.S.IsZero() || w.V != 0 {
		tx.Signature = &common.Signature{
			V: w.V,
			R: common.UInt256ToHash(w.R),
			S: common.UInt256ToHash(w.S),
		}
	}
	return tx, nil
}

// Hash returns the Keccak-256 digest of the hashing preimage: the same
// 10-item layout Encode uses, but with r, s and v always zeroed. Using
// a fixed preimage regardless of whether the transaction carries a
// signature yet means signing and sender recovery hash the exact same
// bytes; hashing over the real signature would make the post-signing
// digest differ from the one signDigest actually signed.
func (t *Transaction) Hash() common.Hash {
	w := t.toRLP()
	w.R, w.S, w.V = common.NewUInt256(0), common.NewUInt256(0), 0
	b, err := rlp.EncodeToBytes(w)
	if err != nil {
		// Encode only fails on unsupported types; our fields are always
		// RLP-encodable, so this path is unreachable in practice.
		return common.ZeroHash
	}
	return crypto.Keccak256(b)
}

// SignWithSecret signs the transaction hash with sk and stores the
// resulting recoverable signature.
func (t *Transaction) SignWithSecret(sk *ecdsaPrivateKey) error {
	return t.signDigest(sk)
}

// SignWithBytes signs using a raw 32-byte secp256k1 secret key.
func (t *Transaction) SignWithBytes(secret []byte) error {
	sk, err := bytesToECDSA(secret)
	if err != nil {
		return errs.Wrap(errs.InvalidTransaction, "invalid secret key", err)
	}
	return t.signDigest(sk)
}

func (t *Transaction) signDigest(sk *ecdsaPrivateKey) error {
	chainID := params.ChainID
	if t.ChainID != nil {
		chainID = *t.ChainID
	} else {
		t.ChainID = &chainID
	}
	digest := t.Hash()
	sig, err := crypto.SignRecoverable(digest, sk)
	if err != nil {
		return errs.Wrap(errs.InvalidTransaction, "sign", err)
	}
	recid := sig[64]
	v := recid + 27 + byte(chainID*2+35)
	t.Signature = &common.Signature{
		V: v,
		R: common.BytesToHash(sig[0:32]),
		S: common.BytesToHash(sig[32:64]),
	}
	return nil
}

// Sender recovers the ECDSA public key from the signature and the
// transaction hash computed with a zeroed signature, and returns the
// trailing 20 bytes of its Keccak-256 digest.
func (t *Transaction) Sender() (common.Address, error) {
	if t.Signature == nil {
		return common.ZeroAddress, errs.ErrUnsignedTransaction
	}
	chainID := params.ChainID
	if t.ChainID != nil {
		chainID = *t.ChainID
	}
	recid := t.Signature.V - 27 - byte(chainID*2+35)
	sig := make([]byte, 65)
	copy(sig[0:32], t.Signature.R[:])
	copy(sig[32:64], t.Signature.S[:])
	sig[64] = recid

	digest := t.Hash()
	addr, err := crypto.RecoverAddress(digest, sig)
	if err != nil {
		return common.ZeroAddress, errs.Wrap(errs.InvalidTransaction, "sender recovery failed", err)
	}
	return addr, nil
}

// SafeSender returns the zero address instead of an error on failure.
func (t *Transaction) SafeSender() common.Address {
	addr, err := t.Sender()
	if err != nil {
		return common.ZeroAddress
	}
	return addr
}

// HasSignature reports whether the transaction carries a signature.
func (t *Transaction) HasSignature() bool { return t.Signature != nil }

// HasZeroSignature reports whether r and s are both zero (supplemented
// from the Rust original's has_zero_signature).
func (t *Transaction) HasZeroSignature() bool {
	return t.Signature != nil && t.Signature.R.IsZero() && t.Signature.S.IsZero()
}

// BaseGasRequired computes the minimum intrinsic gas for this
// transaction: 21000 + (32000 if creation) + per-byte data cost.
func (t *Transaction) BaseGasRequired() uint64 {
	gas := params.TxGas
	if t.IsContractCreation() {
		gas += params.TxGasContractCreation
	}
	for _, b := range t.Data {
		if b == 0 {
			gas += params.TxDataZeroGas
		} else {
			gas += params.TxDataNonZeroGas
		}
	}
	return gas
}

// Validate checks the transaction at the given level.
func (t *Transaction) Validate(level ValidationLevel) error {
	if level == ValidateNone {
		return nil
	}
	if t.GasLimit == nil || t.GasLimit.IsZero() {
		return errs.New(errs.InvalidTransaction, "gas_limit must be non-zero")
	}
	if t.GasPrice == nil || t.GasPrice.IsZero() {
		return errs.New(errs.InvalidTransaction, "gas_price must be non-zero")
	}
	if level == ValidateCheap {
		return nil
	}
	if t.Signature == nil {
		return errs.ErrUnsignedTransaction
	}
	if _, err := t.Sender(); err != nil {
		return err
	}
	return nil
}
