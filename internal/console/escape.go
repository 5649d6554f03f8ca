package console

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrInvalidMessage is returned when a send argument does not fit the mode.
var ErrInvalidMessage = errors.New("invalid message")

var (
	validHex    = regexp.MustCompile(`^([0-9A-Fa-f]{2})+$`)
	validASCII  = regexp.MustCompile(`^(\\\\|\\[01][0-9A-Fa-f]|\\7[fF]|[ -\[\]-~])+$`)
	positiveInt = regexp.MustCompile(`^[1-9][0-9]*$`)
)

// controlNames covers 0x00..0x1f; 0x7f is DEL.
var controlNames = [...]string{
	"NUL", "SOH", "STX", "ETX", "EOT", "ENQ", "ACK", "BEL",
	"BS", "HT", "LF", "VT", "FF", "CR", "SO", "SI",
	"DLE", "DC1", "DC2", "DC3", "DC4", "NAK", "SYN", "ETB",
	"CAN", "EM", "SUB", "ESC", "FS", "GS", "RS", "US",
}

// TokenizeASCII splits an ASCII-mode argument into tokens: `\\` becomes two
// backslash tokens, `\XX` naming a control code becomes one token, anything
// else is one token per rune.
func TokenizeASCII(s string) []string {
	var out []string
	for len(s) > 0 {
		if strings.HasPrefix(s, `\\`) {
			out = append(out, `\`, `\`)
			s = s[2:]
			continue
		}
		if len(s) >= 3 && s[0] == '\\' {
			if c, ok := controlCode(s[1:3]); ok && isControl(c) {
				out = append(out, s[:3])
				s = s[3:]
				continue
			}
		}
		_, n := utf8.DecodeRuneInString(s)
		out = append(out, s[:n])
		s = s[n:]
	}
	return out
}

func controlCode(xx string) (byte, bool) {
	if len(xx) != 2 || !isHexDigit(xx[0]) || !isHexDigit(xx[1]) {
		return 0, false
	}
	v, err := strconv.ParseUint(xx, 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isControl(c byte) bool { return c < 0x20 || c == 0x7f }

// DisplayName shows an escape token by its control code name, e.g. `\1b` as
// [ESC]. Other tokens are returned unchanged.
func DisplayName(tok string) string {
	if len(tok) != 3 || tok[0] != '\\' {
		return tok
	}
	c, ok := controlCode(tok[1:])
	if !ok {
		return tok
	}
	switch {
	case c < 0x20:
		return "[" + controlNames[c] + "]"
	case c == 0x7f:
		return "[DEL]"
	}
	return tok
}

// DisplayASCII renders an ASCII-mode argument the way it is echoed.
func DisplayASCII(arg string) string {
	var sb strings.Builder
	for _, tok := range TokenizeASCII(arg) {
		sb.WriteString(DisplayName(tok))
	}
	return sb.String()
}

// EncodeASCII turns an ASCII-mode argument into bytes.
func EncodeASCII(arg string) ([]byte, error) {
	if !validASCII.MatchString(arg) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMessage, arg)
	}
	var out []byte
	pending := false
	for _, tok := range TokenizeASCII(arg) {
		switch {
		case tok == `\`:
			if !pending {
				out = append(out, '\\')
			}
			pending = !pending
		case len(tok) == 3 && tok[0] == '\\':
			c, _ := controlCode(tok[1:])
			out = append(out, c)
		default:
			out = append(out, tok[0])
		}
	}
	return out, nil
}

// DecodeHex turns a HEX-mode argument such as "0d0A" into bytes.
func DecodeHex(arg string) ([]byte, error) {
	if !validHex.MatchString(arg) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMessage, arg)
	}
	return hex.DecodeString(arg)
}

// FormatASCII renders received bytes: printable ASCII as itself, a backslash
// doubled, control codes by name and anything else as \XX.
func FormatASCII(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case isControl(c):
			sb.WriteString(DisplayName(fmt.Sprintf(`\%02x`, c)))
		case c < 0x80:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, `\%02X`, c)
		}
	}
	return sb.String()
}

func FormatHex(b []byte) string { return strings.ToUpper(hex.EncodeToString(b)) }
