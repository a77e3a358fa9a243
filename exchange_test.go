package xmppsasl

import (
	"encoding/base64"
	"testing"

	"github.com/emersion/go-sasl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangePlain(t *testing.T) {
	ch := &scriptedChannel{t: t, steps: []scriptStep{
		{reply: successReply("")},
	}}

	err := Exchange(ch, sasl.NewPlainClient("", "alice", "secret"))
	require.NoError(t, err)

	payload := base64.StdEncoding.EncodeToString([]byte("\x00alice\x00secret"))
	require.Len(t, ch.sent, 1)
	assert.Equal(t, `<auth xmlns="urn:ietf:params:xml:ns:xmpp-sasl" mechanism="PLAIN">`+payload+`</auth>`, ch.sent[0])
}

func TestExchangeRejected(t *testing.T) {
	ch := &scriptedChannel{t: t, steps: []scriptStep{
		{reply: failureReply("not-authorized")},
	}}

	var authErr *AuthError
	require.ErrorAs(t, Exchange(ch, sasl.NewPlainClient("", "alice", "wrong")), &authErr)
	assert.Equal(t, "not-authorized", authErr.Reason)
}

// fakeSASLClient exercises the challenge loop with scripted responses.
type fakeSASLClient struct {
	mech  string
	ir    []byte
	resps [][]byte
}

func (c *fakeSASLClient) Start() (string, []byte, error) {
	return c.mech, c.ir, nil
}

func (c *fakeSASLClient) Next(challenge []byte) ([]byte, error) {
	resp := c.resps[0]
	c.resps = c.resps[1:]
	return resp, nil
}

func TestExchangeChallengeLoop(t *testing.T) {
	ch := &scriptedChannel{t: t, steps: []scriptStep{
		{reply: challengeReply("step-one")},
		{reply: challengeReply("step-two")},
		{reply: successReply("")},
	}}
	client := &fakeSASLClient{
		mech:  "X-TEST",
		resps: [][]byte{[]byte("answer-one"), {}},
	}

	require.NoError(t, Exchange(ch, client))
	require.Len(t, ch.sent, 3)

	// No initial response: the auth element is empty.
	assert.Equal(t, `<auth xmlns="urn:ietf:params:xml:ns:xmpp-sasl" mechanism="X-TEST"></auth>`, ch.sent[0])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("answer-one")), innerText(t, ch.sent[1]))
	// A zero-length response is encoded as "=".
	assert.Equal(t, "=", innerText(t, ch.sent[2]))
}
