// Package xmppsasl implements client-side SASL authentication for XMPP.
//
// SASL negotiation over XMPP is defined in RFC 6120 section 6. The package
// implements the PLAIN (RFC 4616), ANONYMOUS (RFC 4505), DIGEST-MD5
// (RFC 2831) and SCRAM-SHA-1 (RFC 5802) mechanisms. Arbitrary other
// mechanisms can be driven through Exchange.
//
// The package doesn't manage the underlying XML stream: callers supply a
// Channel which transmits a single element and delivers the server's reply.
package xmppsasl

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Mechanism is a SASL mechanism name.
type Mechanism string

const (
	MechanismPlain     Mechanism = "PLAIN"
	MechanismAnonymous Mechanism = "ANONYMOUS"
	MechanismDigestMD5 Mechanism = "DIGEST-MD5"
	MechanismScramSHA1 Mechanism = "SCRAM-SHA-1"
)

// Address is the identity authentication is performed for.
//
// It mirrors a bare JID: Node is the localpart, Domain the domainpart and
// Bare the normalized "node@domain" form.
type Address interface {
	Node() string
	Domain() string
	Bare() string
}

// Addr is a minimal Address for callers without a JID library.
type Addr struct {
	Local string
	Host  string
}

func (a Addr) Node() string { return a.Local }

func (a Addr) Domain() string { return a.Host }

func (a Addr) Bare() string { return a.Local + "@" + a.Host }

// Channel transmits SASL elements over an established XML stream.
//
// SendElement writes el to the stream and blocks until the reply correlated
// with it arrives. A zero timeout means wait forever. When the timeout
// elapses first, implementations must return an error matching ErrTimeout.
// Correlating replies with outstanding sends is the implementation's
// responsibility; at most one reply is delivered per send.
type Channel interface {
	SendElement(el interface{}, timeout time.Duration) (*Reply, error)
}

// Session performs SASL authentication for a single mechanism.
//
// Auth drives every remaining exchange with the server and only returns
// once authentication has succeeded or failed. The password is not retained
// after Auth returns. A session is single-use and not safe for concurrent
// use: it issues strictly sequential sends on its channel.
type Session interface {
	Mechanism() Mechanism
	Auth(password string) error
}

// NewSession creates a Session for the requested mechanism, bound to ch.
//
// An unknown mechanism fails with UnsupportedMechanismError before anything
// is sent. For DIGEST-MD5 and SCRAM-SHA-1 the initial auth element is sent
// and the server's first challenge consumed before NewSession returns.
func NewSession(mech Mechanism, ch Channel, addr Address) (Session, error) {
	switch mech {
	case MechanismPlain:
		return &plainSession{ch: ch, addr: addr}, nil
	case MechanismAnonymous:
		return &anonymousSession{ch: ch, addr: addr}, nil
	case MechanismDigestMD5:
		return newDigestMD5Session(ch, addr)
	case MechanismScramSHA1:
		return newScramSHA1Session(ch, addr)
	default:
		return nil, &UnsupportedMechanismError{Mechanism: mech}
	}
}

// generateNonce returns a fresh client nonce: 128 bits of entropy rendered
// as a lowercase hex token. Overridable in tests.
var generateNonce = func() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic("xmppsasl: failed to read random bytes: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
