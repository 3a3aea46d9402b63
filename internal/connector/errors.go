package connector

import "errors"

// errNotConnected is wrapped in a ConnectorError by data calls made before
// a successful Connect.
var errNotConnected = errors.New("not connected")

// IsNotConnected reports whether err means the connector has no session,
// as opposed to a reachable-but-failing bridge.
func IsNotConnected(err error) bool {
	return errors.Is(err, errNotConnected)
}
