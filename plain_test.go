package xmppsasl

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainAuth(t *testing.T) {
	ch := &scriptedChannel{t: t, steps: []scriptStep{
		{reply: successReply("")},
	}}

	session, err := NewSession(MechanismPlain, ch, testAddr)
	require.NoError(t, err)
	assert.Equal(t, MechanismPlain, session.Mechanism())
	assert.Empty(t, ch.sent, "PLAIN must not send before Auth")

	require.NoError(t, session.Auth("secret"))

	payload := base64.StdEncoding.EncodeToString([]byte("alice@example.com\x00alice\x00secret"))
	require.Len(t, ch.sent, 1)
	assert.Equal(t, `<auth xmlns="urn:ietf:params:xml:ns:xmpp-sasl" mechanism="PLAIN">`+payload+`</auth>`, ch.sent[0])
}

func TestPlainAuthRejected(t *testing.T) {
	ch := &scriptedChannel{t: t, steps: []scriptStep{
		{reply: failureReply("not-authorized")},
	}}

	session, err := NewSession(MechanismPlain, ch, testAddr)
	require.NoError(t, err)

	var authErr *AuthError
	require.ErrorAs(t, session.Auth("wrong"), &authErr)
	assert.Equal(t, "not-authorized", authErr.Reason)
}
