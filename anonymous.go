package xmppsasl

// anonymousSession implements the ANONYMOUS mechanism (RFC 4505). The trace
// data sent is the address's localpart; no credentials are involved, so the
// password passed to Auth is ignored.
type anonymousSession struct {
	ch   Channel
	addr Address
}

func (s *anonymousSession) Mechanism() Mechanism {
	return MechanismAnonymous
}

func (s *anonymousSession) Auth(password string) error {
	reply, err := s.ch.SendElement(&Auth{
		Mechanism: string(MechanismAnonymous),
		Text:      encodeSASL([]byte(s.addr.Node())),
	}, 0)
	if err != nil {
		return err
	}
	if !reply.isSASL("success") {
		return &AuthError{Reason: reply.reason()}
	}
	return nil
}
