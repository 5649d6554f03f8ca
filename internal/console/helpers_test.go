package console

import (
	"bytes"
	"errors"
	"io"
	"time"

	"github.com/flowave-io/serialflow/internal/lineedit"
	"github.com/flowave-io/serialflow/internal/serial"
)

// scriptTerm plays back raw keyboard bytes through the real key decoder.
type scriptTerm struct {
	events []lineedit.Event
	out    bytes.Buffer
}

func newScriptTerm(keys string) *scriptTerm {
	evs, _ := lineedit.DecodeEvents([]byte(keys))
	return &scriptTerm{events: evs}
}

func (s *scriptTerm) Write(p []byte) (int, error) { return s.out.Write(p) }

func (s *scriptTerm) ReadEvent() (lineedit.Event, error) {
	if len(s.events) == 0 {
		return lineedit.Event{}, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

func (s *scriptTerm) Width() int { return 80 }

func (s *scriptTerm) MakeRaw() (func() error, error) { return func() error { return nil }, nil }

// fakePort records what the console asked of the serial line.
type fakePort struct {
	written  []byte
	input    []byte
	settings serial.Settings
	rts, dtr bool
	status   serial.Status
	reopened string
	flushes  int
	fail     error
}

var errPort = errors.New("port gone")

func (p *fakePort) Write(b []byte) (int, error) {
	if p.fail != nil {
		return 0, p.fail
	}
	p.written = append(p.written, b...)
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.fail != nil {
		return 0, p.fail
	}
	n := copy(b, p.input)
	p.input = p.input[n:]
	return n, nil
}

func (p *fakePort) Flush() error {
	if p.fail != nil {
		return p.fail
	}
	p.flushes++
	return nil
}

func (p *fakePort) set(f func()) error {
	if p.fail != nil {
		return p.fail
	}
	f()
	return nil
}

func (p *fakePort) SetBaud(rate int) error { return p.set(func() { p.settings.BaudRate = rate }) }
func (p *fakePort) SetDataBits(bits int) error {
	return p.set(func() { p.settings.DataBits = bits })
}
func (p *fakePort) SetParity(par serial.Parity) error {
	return p.set(func() { p.settings.Parity = par })
}
func (p *fakePort) SetStopBits(b serial.StopBits) error {
	return p.set(func() { p.settings.StopBits = b })
}
func (p *fakePort) SetTimeout(d time.Duration) error {
	return p.set(func() { p.settings.Timeout = d })
}
func (p *fakePort) SetRTS(on bool) error { return p.set(func() { p.rts = on }) }
func (p *fakePort) SetDTR(on bool) error { return p.set(func() { p.dtr = on }) }
func (p *fakePort) Reopen(name string) error {
	return p.set(func() { p.reopened = name })
}

func (p *fakePort) Status() (serial.Status, error) {
	if p.fail != nil {
		return serial.Status{}, p.fail
	}
	return p.status, nil
}

func staticPorts(names ...string) *PortCache {
	return NewPortCache(func() ([]string, error) { return names, nil })
}
