package trinity

import "errors"

// Error taxonomy for the simulation core.
//
// ErrInsufficientFunds is advisory: a buy that overdraws cash is still
// applied, the ledger's cash goes negative and the caller is told about it.
// ErrInsufficientShares rejects the sell entirely. The asymmetry is
// deliberate, see the package documentation.
var (
	// ErrInsufficientFunds reports a buy whose cost exceeds the available cash.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares reports a sell that exceeds the held position.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrMissingPrice reports that a required price, moving average or return
	// lookup has no valid value (asset not yet listed, window too short).
	ErrMissingPrice = errors.New("missing price data")

	// ErrCalendarMisalignment reports a date that has no matching entry in the
	// supplied trading calendar.
	ErrCalendarMisalignment = errors.New("date not in trading calendar")

	// ErrLedgerDesync reports an attempt to append a date at or before the
	// ledger's last entry. It indicates driver/ledger desynchronization and is
	// always fatal.
	ErrLedgerDesync = errors.New("ledger out of sync")
)
