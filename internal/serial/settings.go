package serial

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	bug "go.bug.st/serial"
)

// DefaultTimeout is the read timeout used when none is configured.
const DefaultTimeout = 100 * time.Millisecond

// ErrInvalid marks a setting value that cannot be parsed or applied.
var ErrInvalid = errors.New("invalid setting")

// Settings describes how a port is opened.
type Settings struct {
	Name     string
	BaudRate int
	DataBits int
	Parity   Parity
	StopBits StopBits
	Timeout  time.Duration
}

// DefaultSettings mirrors the usual 19200 8N1 console setup.
func DefaultSettings() Settings {
	return Settings{
		BaudRate: 19200,
		DataBits: 8,
		Parity:   ParityNone,
		StopBits: StopBitsOne,
		Timeout:  DefaultTimeout,
	}
}

func (s Settings) mode() *bug.Mode {
	return &bug.Mode{
		BaudRate: s.BaudRate,
		DataBits: s.DataBits,
		Parity:   s.Parity.bug(),
		StopBits: s.StopBits.bug(),
	}
}

func (s Settings) String() string {
	return fmt.Sprintf("%s %d %d%s%s", s.Name, s.BaudRate, s.DataBits, s.Parity.short(), s.StopBits)
}

type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

// ParityNames lists the accepted parity spellings in display order.
var ParityNames = []string{"none", "odd", "even"}

func ParseParity(s string) (Parity, error) {
	switch strings.ToLower(s) {
	case "none":
		return ParityNone, nil
	case "odd":
		return ParityOdd, nil
	case "even":
		return ParityEven, nil
	}
	return 0, fmt.Errorf("%w: parity %q", ErrInvalid, s)
}

func (p Parity) String() string {
	switch p {
	case ParityOdd:
		return "odd"
	case ParityEven:
		return "even"
	default:
		return "none"
	}
}

func (p Parity) short() string { return strings.ToUpper(p.String()[:1]) }

func (p Parity) bug() bug.Parity {
	switch p {
	case ParityOdd:
		return bug.OddParity
	case ParityEven:
		return bug.EvenParity
	default:
		return bug.NoParity
	}
}

type StopBits int

const (
	StopBitsOne StopBits = iota
	StopBitsTwo
)

// StopBitsNames lists the accepted stop bit values.
var StopBitsNames = []string{"1", "2"}

func ParseStopBits(s string) (StopBits, error) {
	switch s {
	case "1":
		return StopBitsOne, nil
	case "2":
		return StopBitsTwo, nil
	}
	return 0, fmt.Errorf("%w: stop bits %q", ErrInvalid, s)
}

func (b StopBits) String() string {
	if b == StopBitsTwo {
		return "2"
	}
	return "1"
}

func (b StopBits) bug() bug.StopBits {
	if b == StopBitsTwo {
		return bug.TwoStopBits
	}
	return bug.OneStopBit
}

// DataBitsNames lists the supported character sizes, largest first.
var DataBitsNames = []string{"8", "7", "6", "5"}

func ParseDataBits(s string) (int, error) {
	switch s {
	case "5", "6", "7", "8":
		n, _ := strconv.Atoi(s)
		return n, nil
	}
	return 0, fmt.Errorf("%w: data bits %q", ErrInvalid, s)
}

// BaudRates are the common rates offered for completion; any positive rate
// is accepted.
var BaudRates = []string{"9600", "19200", "38400", "57600", "115200"}

func ParseBaudRate(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: baud rate %q", ErrInvalid, s)
	}
	return int(n), nil
}

// ParseTimeout reads a timeout in milliseconds.
func ParseTimeout(s string) (time.Duration, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: timeout %q", ErrInvalid, s)
	}
	return time.Duration(n) * time.Millisecond, nil
}

// ParseSwitch reads an on/off line state.
func ParseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("%w: state %q", ErrInvalid, s)
}
