package core

import "github.com/olympus-protocol/olympus/common"

// LocalizedTransaction augments a Transaction with the metadata of the
// block it was included in (supplemented from the Rust original's
// LocalizedTransaction).
type LocalizedTransaction struct {
	Transaction *Transaction
	BlockHash   common.Hash
	BlockNumber uint64
	TxIndex     int
}
