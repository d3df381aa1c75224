// Package pricing implements the Raydium v4 constant-product pricing used
// to size a trader's expected output before it submits a buy. The fee
// model and the checked_ceil_div-based fee rounding are carried over
// unchanged from the AMM's own on-chain math.
package pricing

import "raydiumsentry/internal/u256"

// swapFeeNumerator and swapFeeDenominator encode Raydium's 0.25% swap fee.
const (
	swapFeeNumerator   = 25
	swapFeeDenominator = 10000
)

// ExpectedCoin converts pcIn quote-token lamports into the expected
// base-token ("coin") amount a swap against a pool with the given reserves
// would yield, net of the pool's swap fee. Any step that would overflow or
// divide by zero returns an OutOfRange error; on failure the caller must not
// trade and must unregister its interest in the pool.
func ExpectedCoin(pcIn, pcReserve, coinReserve uint64) (uint64, error) {
	pcInU := u256.FromUint64(pcIn)
	pcReserveU := u256.FromUint64(pcReserve)
	coinReserveU := u256.FromUint64(coinReserve)

	feeNumerator, err := pcInU.CheckedMul(u256.FromUint64(swapFeeNumerator))
	if err != nil {
		return 0, err
	}
	fee, _, err := feeNumerator.CheckedCeilDiv(u256.FromUint64(swapFeeDenominator))
	if err != nil {
		return 0, err
	}
	pcNet, err := pcInU.CheckedSub(fee)
	if err != nil {
		return 0, err
	}
	denom, err := pcReserveU.CheckedAdd(pcNet)
	if err != nil {
		return 0, err
	}
	numerator, err := coinReserveU.CheckedMul(pcNet)
	if err != nil {
		return 0, err
	}
	result, err := numerator.CheckedDiv(denom)
	if err != nil {
		return 0, err
	}
	return result.Uint64(), nil
}
