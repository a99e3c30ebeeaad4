package state

import (
	"github.com/olympus-protocol/olympus/common"
	"github.com/olympus-protocol/olympus/crypto"
)

func codeHash(code []byte) common.Hash {
	if len(code) == 0 {
		return common.ZeroHash
	}
	return crypto.Keccak256(code)
}
