// Package trinity implements a backtesting engine for a monthly
// momentum-and-trend allocation strategy over a fixed universe of ETFs.
//
// The engine walks a trading [Calendar] day by day and records each day in an
// append-only [Ledger]: cash, integer share counts, the closes used for
// valuation and the derived portfolio value. After every revaluation the
// ledger maintains the invariant
//
//	value = cash + Σ shares·close
//
// and both [EncodeLedger] and [DecodeLedger] re-verify it, so a stored ledger
// can never silently drift from its own entries.
//
// On each month-end the [Simulation] ranks the universe by the equal-weighted
// mean of its 1, 3, 6 and 12 month returns on adjusted closes (see
// [ComputeRanks]), tilts the baseline allocation toward the top-ranked assets
// that also trade above their long moving average (see [TiltPolicy]), and
// rebalances at that day's open, sells before buys. Dividends accrue as cash
// on their pay date, after any trades of the day.
//
// Trades deal in whole shares only. A buy that overdraws cash is still
// applied and reported via [ErrInsufficientFunds]: the backtest models a
// margin-tolerant account where a planned purchase is never silently shrunk,
// and the resulting negative cash is visible in the ledger. A sell that
// exceeds the held position has no such reading, it is rejected with
// [ErrInsufficientShares] and leaves the ledger untouched.
//
// Any other error during a simulated day (a missing price, a calendar gap)
// rolls that day back and halts the run. The committed prefix of the ledger
// stays valid and a later run resumes from it, so interrupted and one-shot
// backtests produce identical ledgers.
package trinity
