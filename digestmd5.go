package xmppsasl

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

const (
	digestResponseTimeout  = 30 * time.Second
	digestResponseAttempts = 3
)

// digestMD5Session implements the DIGEST-MD5 mechanism (RFC 2831) with
// qop=auth. The constructor consumes the server's initial challenge; Auth
// sends the digest response and handles the optional rspauth round.
type digestMD5Session struct {
	ch   Channel
	addr Address

	nonce string
	realm string

	// Retry parameters for the digest response send, adjustable in tests.
	timeout  time.Duration
	attempts int
}

func newDigestMD5Session(ch Channel, addr Address) (*digestMD5Session, error) {
	s := &digestMD5Session{
		ch:       ch,
		addr:     addr,
		timeout:  digestResponseTimeout,
		attempts: digestResponseAttempts,
	}

	reply, err := ch.SendElement(&Auth{Mechanism: string(MechanismDigestMD5)}, 0)
	if err != nil {
		return nil, err
	}
	if !reply.isSASL("challenge") {
		return nil, &AuthError{Reason: reply.reason()}
	}
	raw, err := decodeSASL(reply.Text)
	if err != nil {
		return nil, &ProtocolError{Message: "malformed challenge: " + err.Error()}
	}

	dirs := parseChallenge(string(raw))
	s.nonce = dirs["nonce"]
	s.realm = dirs["realm"]
	if s.realm == "" {
		s.realm = addr.Domain()
	}
	return s, nil
}

func (s *digestMD5Session) Mechanism() Mechanism {
	return MechanismDigestMD5
}

func (s *digestMD5Session) Auth(password string) error {
	cnonce := generateNonce()
	uri := "xmpp/" + s.addr.Domain()
	respValue := digestResponseValue(digestParams{
		Username: s.addr.Node(),
		Realm:    s.realm,
		Password: password,
		Nonce:    s.nonce,
		Cnonce:   cnonce,
		NC:       "00000001",
		QOP:      "auth",
		URI:      uri,
	})

	dirs := []string{
		`username="` + s.addr.Node() + `"`,
		`realm="` + s.realm + `"`,
		`nonce="` + s.nonce + `"`,
		`cnonce="` + cnonce + `"`,
		"nc=00000001",
		"qop=auth",
		`digest-uri="` + uri + `"`,
		"response=" + respValue,
		"charset=utf-8",
	}
	resp := &Response{Text: encodeSASL([]byte(strings.Join(dirs, ",")))}

	// Some servers are slow to verify the digest; retry the send a bounded
	// number of times before giving up on the transport.
	var reply *Reply
	var err error
	for i := 0; i < s.attempts; i++ {
		reply, err = s.ch.SendElement(resp, s.timeout)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrTimeout) {
			return err
		}
	}
	if err != nil {
		return &TransportTimeoutError{Attempts: s.attempts}
	}

	switch {
	case reply.isSASL("success"):
		return nil
	case reply.isSASL("challenge"):
		// The server's rspauth confirmation. Its contents are not
		// verified; the empty response below completes the exchange.
		final, err := s.ch.SendElement(&Response{}, 0)
		if err != nil {
			return err
		}
		if !final.isSASL("success") {
			return &AuthError{Reason: final.reason()}
		}
		return nil
	default:
		return &AuthError{Reason: reply.reason()}
	}
}

// digestParams are the inputs of the RFC 2831 response-value computation.
// AuthzID is empty and QOP is always "auth" in this client, but the
// computation supports the other branches.
type digestParams struct {
	Username string
	Realm    string
	Password string
	Nonce    string
	Cnonce   string
	AuthzID  string
	NC       string
	QOP      string
	URI      string
}

// digestResponseValue computes the response directive per RFC 2831 section
// 2.1.2.1: HEX(KD(HEX(H(A1)), nonce:nc:cnonce:qop:HEX(H(A2)))).
func digestResponseValue(p digestParams) string {
	a1 := string(md5Sum(p.Username+":"+p.Realm+":"+p.Password)) +
		":" + p.Nonce + ":" + p.Cnonce
	if p.AuthzID != "" {
		a1 += ":" + p.AuthzID
	}

	a2 := "AUTHENTICATE:" + p.URI
	if p.QOP == "auth-int" || p.QOP == "auth-conf" {
		a2 += ":00000000000000000000000000000000"
	}

	kd := md5Hex(a1) + ":" + p.Nonce + ":" + p.NC + ":" + p.Cnonce +
		":" + p.QOP + ":" + md5Hex(a2)
	return md5Hex(kd)
}

func md5Sum(s string) []byte {
	sum := md5.Sum([]byte(s))
	return sum[:]
}

func md5Hex(s string) string {
	return hex.EncodeToString(md5Sum(s))
}
