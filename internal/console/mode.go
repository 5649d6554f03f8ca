package console

import (
	"fmt"
	"strings"
)

// Mode selects how send arguments and received bytes are written.
type Mode int

const (
	ModeASCII Mode = iota
	ModeHex
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "ascii":
		return ModeASCII, nil
	case "hex":
		return ModeHex, nil
	}
	return 0, fmt.Errorf("invalid mode: %q", s)
}

func (m Mode) String() string {
	if m == ModeHex {
		return "HEX"
	}
	return "ASCII"
}

// Ending is appended to every sent payload.
type Ending int

const (
	EndingNone Ending = iota
	EndingCR
	EndingLF
	EndingCRLF
)

var endingNames = []string{"none", "cr", "lf", "crlf"}

func ParseEnding(s string) (Ending, error) {
	for i, n := range endingNames {
		if strings.EqualFold(s, n) {
			return Ending(i), nil
		}
	}
	return 0, fmt.Errorf("invalid ending: %q", s)
}

func (e Ending) String() string {
	switch e {
	case EndingCR:
		return "CR"
	case EndingLF:
		return "LF"
	case EndingCRLF:
		return "CRLF"
	default:
		return "None"
	}
}

func (e Ending) Bytes() []byte {
	switch e {
	case EndingCR:
		return []byte{'\r'}
	case EndingLF:
		return []byte{'\n'}
	case EndingCRLF:
		return []byte{'\r', '\n'}
	default:
		return nil
	}
}
