package connector

import (
	"context"
	"fmt"

	"trade-journal-go/internal/models"
)

// Credentials identifies an account on the trading platform.
type Credentials struct {
	Account  string
	Password string
	Server   string
}

// ConnectorError reports a broker that is unreachable or rejected the
// request. The periodic sync loop treats it as a skipped cycle; interactive
// connect attempts surface it to the user.
type ConnectorError struct {
	Broker string
	Op     string
	Err    error
}

func (e *ConnectorError) Error() string {
	return fmt.Sprintf("%s connector: %s: %v", e.Broker, e.Op, e.Err)
}

func (e *ConnectorError) Unwrap() error { return e.Err }

// Connector is the capability a broker integration must provide. The
// journal core only consumes this contract; the wire protocol behind it is
// the integration's business.
type Connector interface {
	// Name returns the broker name, for logging and the account snapshot.
	Name() string

	// Connect establishes a session. It returns false without an error
	// when the platform is simply unavailable on this host.
	Connect(ctx context.Context, creds Credentials) (bool, error)

	// Disconnect tears down the session. Safe to call when not connected.
	Disconnect()

	// Connected reports whether a session is currently established.
	Connected() bool

	// GetOpenTrades returns the currently open positions.
	GetOpenTrades(ctx context.Context) ([]models.Trade, error)

	// GetTradeHistory returns closed trades from the last given days.
	GetTradeHistory(ctx context.Context, days int) ([]models.Trade, error)

	// GetAccountInfo returns broker-reported account figures such as
	// balance, equity and margin.
	GetAccountInfo(ctx context.Context) (map[string]float64, error)
}
