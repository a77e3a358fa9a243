package xmppsasl

import (
	"errors"
	"fmt"
)

// ErrTimeout must be returned (possibly wrapped) by Channel implementations
// when no reply arrives before the timeout supplied to SendElement elapses.
var ErrTimeout = errors.New("xmppsasl: timeout waiting for reply")

// UnsupportedMechanismError is returned by NewSession when the requested
// mechanism is not implemented by this package.
type UnsupportedMechanismError struct {
	Mechanism Mechanism
}

var _ error = (*UnsupportedMechanismError)(nil)

func (err *UnsupportedMechanismError) Error() string {
	return fmt.Sprintf("xmppsasl: unsupported mechanism %q", string(err.Mechanism))
}

// ProtocolError indicates a malformed or inconsistent server message, such
// as an undecodable challenge or a SCRAM nonce mismatch. It is fatal: the
// exchange must not be retried on the same session.
type ProtocolError struct {
	Message string
}

var _ error = (*ProtocolError)(nil)

func (err *ProtocolError) Error() string {
	return "xmppsasl: " + err.Message
}

// AuthError indicates that the server explicitly rejected the
// authentication attempt.
type AuthError struct {
	// Reason is the server-reported failure condition, e.g.
	// "not-authorized".
	Reason string
}

var _ error = (*AuthError)(nil)

func (err *AuthError) Error() string {
	return "xmppsasl: authentication failed: " + err.Reason
}

// ServerAuthError indicates that the server claimed success but failed to
// prove knowledge of the credentials: its SCRAM signature did not match the
// locally computed one. The session must not be treated as authenticated.
type ServerAuthError struct{}

var _ error = (*ServerAuthError)(nil)

func (err *ServerAuthError) Error() string {
	return "xmppsasl: server signature mismatch"
}

// TransportTimeoutError indicates that a bounded-retry send exhausted all
// of its attempts without receiving a reply. It is a transport failure, not
// an authentication rejection.
type TransportTimeoutError struct {
	Attempts int
}

var _ error = (*TransportTimeoutError)(nil)

func (err *TransportTimeoutError) Error() string {
	return fmt.Sprintf("xmppsasl: no reply after %v attempts", err.Attempts)
}
