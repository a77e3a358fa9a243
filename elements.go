package xmppsasl

import (
	"encoding/base64"
	"encoding/xml"
)

// NamespaceSASL is the XML namespace of SASL negotiation elements, defined
// in RFC 6120 section 6.
const NamespaceSASL = "urn:ietf:params:xml:ns:xmpp-sasl"

// Auth is the initial authentication element sent by the client.
type Auth struct {
	XMLName   xml.Name `xml:"urn:ietf:params:xml:ns:xmpp-sasl auth"`
	Mechanism string   `xml:"mechanism,attr"`
	Text      string   `xml:",chardata"`
}

// Response carries a base64 challenge response from the client.
type Response struct {
	XMLName xml.Name `xml:"urn:ietf:params:xml:ns:xmpp-sasl response"`
	Text    string   `xml:",chardata"`
}

// Reply is a decoded server element received in reply to an auth or
// response element: a challenge, a success, or a failure carrying a nested
// condition element.
type Reply struct {
	XMLName xml.Name
	Text    string       `xml:",chardata"`
	Nested  []ReplyChild `xml:",any"`
}

// ReplyChild is a child element of a Reply. Only its name is of interest:
// for failures it names the condition, e.g. not-authorized.
type ReplyChild struct {
	XMLName xml.Name
}

// isSASL reports whether the reply is the named element in the SASL
// namespace.
func (r *Reply) isSASL(local string) bool {
	return r.XMLName.Space == NamespaceSASL && r.XMLName.Local == local
}

// reason returns the server-reported failure condition: the name of the
// first child element, or the reply's own name if it has none.
func (r *Reply) reason() string {
	if len(r.Nested) > 0 {
		return r.Nested[0].XMLName.Local
	}
	return r.XMLName.Local
}

// encodeSASL encodes SASL payload data. Zero-length data is represented as
// "=" per RFC 6120 section 6.4.2.
func encodeSASL(b []byte) string {
	if len(b) == 0 {
		return "="
	}
	return base64.StdEncoding.EncodeToString(b)
}

// decodeSASL decodes SASL payload data. "=" decodes to a non-nil empty
// slice so that empty challenges stay distinguishable from absent ones.
func decodeSASL(s string) ([]byte, error) {
	if s == "" || s == "=" {
		return []byte{}, nil
	}
	return base64.StdEncoding.DecodeString(s)
}
