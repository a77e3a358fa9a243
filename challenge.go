package xmppsasl

import "strings"

// Scanner states for parseChallenge.
const (
	scanKey = iota
	scanValue
	scanQuote
)

// parseChallenge splits a decoded challenge into its directives. DIGEST-MD5
// and SCRAM share the same comma-separated key=value syntax, with values
// optionally wrapped in double quotes.
//
// The scanner is deliberately lenient: keys are trimmed of surrounding
// whitespace (some servers, ejabberd among them, emit a space after the
// comma), quotes are stripped, and a fragment that never reaches an "=" is
// silently dropped. Don't replace this with a strict RFC grammar.
func parseChallenge(s string) map[string]string {
	dirs := make(map[string]string)
	state := scanKey
	var key, value []byte

	commit := func() {
		k := strings.TrimSpace(string(key))
		if k != "" {
			dirs[k] = string(value)
		}
		key, value = key[:0], value[:0]
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case scanKey:
			if c == '=' {
				state = scanValue
			} else {
				key = append(key, c)
			}
		case scanValue:
			switch {
			case c == ',':
				commit()
				state = scanKey
			case c == '"' && len(value) == 0:
				state = scanQuote
			default:
				value = append(value, c)
			}
		case scanQuote:
			if c == '"' {
				state = scanValue
			} else {
				value = append(value, c)
			}
		}
	}
	// Flush the pending pair for payloads without a trailing comma. A
	// trailing fragment still in the key state has no "=" and yields
	// nothing.
	if state != scanKey {
		commit()
	}
	return dirs
}
