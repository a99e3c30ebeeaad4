// Package vm implements the gas-metered execution context and the
// precompiled contract registry.
package vm

import "github.com/olympus-protocol/olympus/errs"

// GasManager tracks gas limit, used, refunded and price for a single
// transaction's execution.
type GasManager struct {
	limit    uint64
	used     uint64
	refunded uint64
	price    uint64
}

func NewGasManager(limit, price uint64) *GasManager {
	return &GasManager{limit: limit, price: price}
}

func (g *GasManager) Limit() uint64    { return g.limit }
func (g *GasManager) Used() uint64     { return g.used }
func (g *GasManager) Refunded() uint64 { return g.refunded }
func (g *GasManager) Price() uint64    { return g.price }

// ConsumeGas debits n gas, failing with out-of-gas if the limit would be
// exceeded. On failure all remaining gas is consumed: Used() becomes the
// limit.
func (g *GasManager) ConsumeGas(n uint64) error {
	if g.used+n > g.limit {
		g.used = g.limit
		return errs.ErrOutOfGas
	}
	g.used += n
	return nil
}

// RefundGas adds n to the refund counter.
func (g *GasManager) RefundGas(n uint64) { g.refunded += n }

// RemainingGas returns limit-used, saturating at zero.
func (g *GasManager) RemainingGas() uint64 {
	if g.used >= g.limit {
		return 0
	}
	return g.limit - g.used
}
