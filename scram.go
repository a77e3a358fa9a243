package xmppsasl

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"strconv"
	"strings"
)

// gs2Header signals no channel binding and no authorization identity.
// "biws" is its base64 form, sent back in the client-final message.
const (
	gs2Header       = "n,,"
	gs2HeaderBase64 = "biws"
)

// scramSHA1Session implements the SCRAM-SHA-1 mechanism (RFC 5802). The
// constructor sends the client-first message and consumes the server-first
// challenge; Auth sends the proof and verifies the server's signature.
//
// The client-first-bare and server-first strings are retained verbatim:
// the authentication message both sides sign covers their exact bytes.
type scramSHA1Session struct {
	ch   Channel
	addr Address

	clientNonce     string
	clientFirstBare string
	serverFirst     string
	combinedNonce   string
	salt            []byte
	iterations      int
}

func newScramSHA1Session(ch Channel, addr Address) (*scramSHA1Session, error) {
	s := &scramSHA1Session{
		ch:          ch,
		addr:        addr,
		clientNonce: generateNonce(),
	}
	s.clientFirstBare = "n=" + escapeSCRAMUsername(addr.Node()) + ",r=" + s.clientNonce

	reply, err := ch.SendElement(&Auth{
		Mechanism: string(MechanismScramSHA1),
		Text:      encodeSASL([]byte(gs2Header + s.clientFirstBare)),
	}, 0)
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
	s.serverFirst = string(raw)

	dirs := parseChallenge(s.serverFirst)
	s.combinedNonce = dirs["r"]
	if !strings.HasPrefix(s.combinedNonce, s.clientNonce) {
		return nil, &ProtocolError{Message: "server nonce does not start with client nonce"}
	}
	s.salt, err = base64.StdEncoding.DecodeString(dirs["s"])
	if err != nil {
		return nil, &ProtocolError{Message: "malformed salt: " + err.Error()}
	}
	s.iterations, err = strconv.Atoi(dirs["i"])
	if err != nil || s.iterations <= 0 {
		return nil, &ProtocolError{Message: "invalid iteration count " + strconv.Quote(dirs["i"])}
	}
	return s, nil
}

func (s *scramSHA1Session) Mechanism() Mechanism {
	return MechanismScramSHA1
}

func (s *scramSHA1Session) Auth(password string) error {
	saltedPassword := hi([]byte(password), s.salt, s.iterations)
	clientKey := hmacSHA1(saltedPassword, []byte("Client Key"))
	storedKey := sha1.Sum(clientKey)

	withoutProof := "c=" + gs2HeaderBase64 + ",r=" + s.combinedNonce
	authMessage := s.clientFirstBare + "," + s.serverFirst + "," + withoutProof

	clientSignature := hmacSHA1(storedKey[:], []byte(authMessage))
	proof := make([]byte, len(clientKey))
	for i := range proof {
		proof[i] = clientKey[i] ^ clientSignature[i]
	}
	final := withoutProof + ",p=" + base64.StdEncoding.EncodeToString(proof)

	reply, err := s.ch.SendElement(&Response{Text: encodeSASL([]byte(final))}, 0)
	if err != nil {
		return err
	}
	if !reply.isSASL("success") {
		// Covers both an explicit failure and a challenge carrying an
		// e= directive after the client-final message.
		return &AuthError{Reason: reply.reason()}
	}

	// The server must prove knowledge of the credentials too: a success
	// with a bad signature means the peer is not who it claims to be.
	raw, err := decodeSASL(reply.Text)
	if err != nil {
		return &ProtocolError{Message: "malformed success data: " + err.Error()}
	}
	v, err := base64.StdEncoding.DecodeString(parseChallenge(string(raw))["v"])
	if err != nil {
		return &ProtocolError{Message: "malformed server signature: " + err.Error()}
	}
	serverKey := hmacSHA1(saltedPassword, []byte("Server Key"))
	serverSignature := hmacSHA1(serverKey, []byte(authMessage))
	if !hmac.Equal(v, serverSignature) {
		return &ServerAuthError{}
	}
	return nil
}

// escapeSCRAMUsername escapes "=" and "," in a saslname per RFC 5802
// section 5.1.
func escapeSCRAMUsername(name string) string {
	name = strings.ReplaceAll(name, "=", "=3D")
	return strings.ReplaceAll(name, ",", "=2C")
}

// hi is the Hi(str, salt, i) iterated HMAC of RFC 5802 section 2.2:
// U1 = HMAC(str, salt || INT(1)), Un = HMAC(str, Un-1), XOR-folded.
func hi(password, salt []byte, iterations int) []byte {
	mac := hmac.New(sha1.New, password)
	mac.Write(salt)
	mac.Write([]byte{0, 0, 0, 1})
	u := mac.Sum(nil)

	result := make([]byte, len(u))
	copy(result, u)
	for i := 1; i < iterations; i++ {
		mac := hmac.New(sha1.New, password)
		mac.Write(u)
		u = mac.Sum(nil)
		for j := range result {
			result[j] ^= u[j]
		}
	}
	return result
}

func hmacSHA1(key, data []byte) []byte {
	mac := hmac.New(sha1.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
