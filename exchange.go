package xmppsasl

import (
	"github.com/emersion/go-sasl"
)

// Exchange authenticates with a go-sasl client over ch. It allows
// mechanisms this package doesn't implement itself (EXTERNAL, OAUTHBEARER,
// ...) to be negotiated over the same stream.
//
// Unlike the built-in sessions, credentials are carried by the sasl.Client.
// A nil initial response sends an empty auth element; a zero-length one is
// encoded as "=" per RFC 6120.
func Exchange(ch Channel, client sasl.Client) error {
	mech, ir, err := client.Start()
	if err != nil {
		return err
	}

	auth := &Auth{Mechanism: mech}
	if ir != nil {
		auth.Text = encodeSASL(ir)
	}
	reply, err := ch.SendElement(auth, 0)
	for {
		if err != nil {
			return err
		}
		switch {
		case reply.isSASL("success"):
			return nil
		case reply.isSASL("challenge"):
			challenge, decErr := decodeSASL(reply.Text)
			if decErr != nil {
				return &ProtocolError{Message: "malformed challenge: " + decErr.Error()}
			}
			resp, respErr := client.Next(challenge)
			if respErr != nil {
				return respErr
			}
			reply, err = ch.SendElement(&Response{Text: encodeSASL(resp)}, 0)
		default:
			return &AuthError{Reason: reply.reason()}
		}
	}
}
