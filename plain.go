package xmppsasl

// plainSession implements the PLAIN mechanism (RFC 4616): a single message
// carrying the credentials, no challenge.
type plainSession struct {
	ch   Channel
	addr Address
}

func (s *plainSession) Mechanism() Mechanism {
	return MechanismPlain
}

func (s *plainSession) Auth(password string) error {
	payload := s.addr.Bare() + "\x00" + s.addr.Node() + "\x00" + password
	reply, err := s.ch.SendElement(&Auth{
		Mechanism: string(MechanismPlain),
		Text:      encodeSASL([]byte(payload)),
	}, 0)
	if err != nil {
		return err
	}
	if !reply.isSASL("success") {
		return &AuthError{Reason: reply.reason()}
	}
	return nil
}
