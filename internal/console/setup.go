package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/flowave-io/serialflow/internal/config"
	"github.com/flowave-io/serialflow/internal/lineedit"
	"github.com/flowave-io/serialflow/internal/serial"
)

// answer is what the setup prompts finalize to; err marks an answer that has
// to be asked again.
type answer[T any] struct {
	v   T
	err error
}

// Prompter asks for the port settings the configuration left open.
type Prompter struct {
	term  lineedit.Terminal
	ports *PortCache
}

func NewPrompter(term lineedit.Terminal, ports *PortCache) *Prompter {
	return &Prompter{term: term, ports: ports}
}

// Setup fills every setting not pinned by the configuration.
func (p *Prompter) Setup(s serial.Settings, pin config.Pinned) (serial.Settings, error) {
	var err error
	if !pin.Name {
		if s.Name, err = p.Port(); err != nil {
			return s, err
		}
	}
	if !pin.Baud {
		if s.BaudRate, err = p.Baud(); err != nil {
			return s, err
		}
	}
	if !pin.DataBits {
		if s.DataBits, err = p.DataBits(); err != nil {
			return s, err
		}
	}
	if !pin.Parity {
		if s.Parity, err = p.Parity(); err != nil {
			return s, err
		}
	}
	if !pin.StopBits {
		if s.StopBits, err = p.StopBits(); err != nil {
			return s, err
		}
	}
	return s, nil
}

// ask repeats the prompt until the answer parses.
func ask[T any](p *Prompter, ed *lineedit.Editor[answer[T]], invalid string) (T, error) {
	for {
		a, err := ed.Prompt()
		if err != nil {
			var zero T
			return zero, err
		}
		if a.err == nil {
			return a.v, nil
		}
		// leave the message under the prompt line and redraw the prompt above it
		if _, err := io.WriteString(p.term, ansiRed+invalid+ansiReset+"\r\x1b[1A"); err != nil {
			return a.v, err
		}
	}
}

// colourBy renders the answer green when valid, red when it can no longer
// become valid and plain otherwise.
func colourBy(valid, hopeless func(string) bool) lineedit.Renderer {
	return func(buf lineedit.Buffer, cursor int) (string, int) {
		s := buf.Concat()
		var sb strings.Builder
		switch {
		case valid(s):
			sb.WriteString(ansiGreen)
		case hopeless(s):
			sb.WriteString(ansiRed)
		}
		sb.WriteString(s)
		sb.WriteString(ansiReset)
		budget := lineedit.NewColumnBudget(cursor)
		budget.Text(s)
		return sb.String(), budget.Column()
	}
}

// completeFrom offers options extending the typed text.
func completeFrom(options func() []string) lineedit.Preprocessor {
	return func(buf lineedit.Buffer, _ int) lineedit.Processed {
		return lineedit.Processed{Buffer: buf, Candidates: lineedit.Complete(options(), buf.Concat()).Suffixes}
	}
}

// offerWhenEmpty lists options only before anything was typed.
func offerWhenEmpty(options ...string) lineedit.Preprocessor {
	return func(buf lineedit.Buffer, _ int) lineedit.Processed {
		if len(buf) != 0 {
			return lineedit.Processed{Buffer: buf}
		}
		return lineedit.Processed{Buffer: buf, Candidates: options}
	}
}

func parsed[T any](parse func(string) (T, error)) lineedit.Finalizer[answer[T]] {
	return func(line string) answer[T] {
		v, err := parse(line)
		return answer[T]{v: v, err: err}
	}
}

func negate(f func(string) bool) func(string) bool { return func(s string) bool { return !f(s) } }

func parses[T any](parse func(string) (T, error)) func(string) bool {
	return func(s string) bool {
		_, err := parse(s)
		return err == nil
	}
}

var errUnknownPort = errors.New("unknown port")

func (p *Prompter) Port() (string, error) {
	ed := lineedit.NewBuilder[answer[string]]("Port Name: ").
		Terminal(p.term).
		Preprocessor(completeFrom(p.ports.List)).
		Renderer(colourBy(p.ports.Contains, negate(p.ports.Extends))).
		Finalizer(parsed(func(s string) (string, error) {
			if !p.ports.Contains(s) {
				return s, fmt.Errorf("%w: %q", errUnknownPort, s)
			}
			return s, nil
		})).
		Build()
	return ask(p, ed, "Invalid port name.")
}

func (p *Prompter) Baud() (int, error) {
	isRate := parses(serial.ParseBaudRate)
	ed := lineedit.NewBuilder[answer[int]]("Baud Rate: ").
		Terminal(p.term).
		Preprocessor(completeFrom(func() []string { return serial.BaudRates })).
		Renderer(colourBy(func(string) bool { return false }, func(s string) bool { return s != "" && !isRate(s) })).
		Finalizer(parsed(func(s string) (int, error) {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return 0, fmt.Errorf("%w: baud rate %q", serial.ErrInvalid, s)
			}
			return n, nil
		})).
		Build()
	return ask(p, ed, "Invalid baud rate.")
}

func (p *Prompter) DataBits() (int, error) {
	ed := lineedit.NewBuilder[answer[int]]("Data bits: ").
		Terminal(p.term).
		Preprocessor(offerWhenEmpty(serial.DataBitsNames...)).
		Renderer(colourBy(parses(serial.ParseDataBits), negate(parses(serial.ParseDataBits)))).
		Finalizer(parsed(serial.ParseDataBits)).
		Build()
	return ask(p, ed, "Invalid data bits.")
}

func (p *Prompter) Parity() (serial.Parity, error) {
	ed := lineedit.NewBuilder[answer[serial.Parity]]("Parity   : ").
		Terminal(p.term).
		Preprocessor(completeFrom(func() []string { return serial.ParityNames })).
		Renderer(colourBy(parses(serial.ParseParity), negate(parses(serial.ParseParity)))).
		Finalizer(parsed(serial.ParseParity)).
		Build()
	return ask(p, ed, "Invalid parity.")
}

func (p *Prompter) StopBits() (serial.StopBits, error) {
	ed := lineedit.NewBuilder[answer[serial.StopBits]]("Stop bits: ").
		Terminal(p.term).
		Preprocessor(offerWhenEmpty(serial.StopBitsNames...)).
		Renderer(colourBy(parses(serial.ParseStopBits), negate(parses(serial.ParseStopBits)))).
		Finalizer(parsed(serial.ParseStopBits)).
		Build()
	return ask(p, ed, "Invalid stop bits.")
}
