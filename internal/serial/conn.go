// Package serial wraps go.bug.st/serial with the operations the console
// needs: open by settings, change one line parameter at a time, query the
// modem lines and reopen on another device without losing the settings.
package serial

import (
	"fmt"
	"sort"
	"sync"
	"time"

	bug "go.bug.st/serial"
)

// Port is the subset of go.bug.st/serial.Port used by Conn.
type Port interface {
	SetMode(mode *bug.Mode) error
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Drain() error
	ResetInputBuffer() error
	SetDTR(dtr bool) error
	SetRTS(rts bool) error
	GetModemStatusBits() (*bug.ModemStatusBits, error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

// Opener opens a device. The default is go.bug.st/serial.Open.
type Opener func(name string, mode *bug.Mode) (Port, error)

func openBug(name string, mode *bug.Mode) (Port, error) { return bug.Open(name, mode) }

// ListPorts returns the serial devices present on the system, sorted.
func ListPorts() ([]string, error) {
	ports, err := bug.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list ports: %w", err)
	}
	sort.Strings(ports)
	return ports, nil
}

// Status is a snapshot of the modem input lines.
type Status struct {
	CTS bool `json:"cts"`
	DSR bool `json:"dsr"`
	RI  bool `json:"ri"`
	CD  bool `json:"cd"`
}

// Conn is an open port plus the settings it was opened with. Methods are
// safe for concurrent use.
type Conn struct {
	mu       sync.Mutex
	port     Port
	settings Settings
	open     Opener
}

// Open opens s.Name with the given settings.
func Open(s Settings) (*Conn, error) {
	return OpenWith(openBug, s)
}

// OpenWith is Open with a custom opener.
func OpenWith(open Opener, s Settings) (*Conn, error) {
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	p, err := openPort(open, s)
	if err != nil {
		return nil, err
	}
	return &Conn{port: p, settings: s, open: open}, nil
}

func openPort(open Opener, s Settings) (Port, error) {
	p, err := open(s.Name, s.mode())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Name, err)
	}
	if err := p.SetReadTimeout(s.Timeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("set timeout on %s: %w", s.Name, err)
	}
	return p, nil
}

// Settings returns the settings currently applied.
func (c *Conn) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// Write sends b and waits until it has been transmitted.
func (c *Conn) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.port.Write(b)
	if err != nil {
		return n, fmt.Errorf("write: %w", err)
	}
	if err := c.port.Drain(); err != nil {
		return n, fmt.Errorf("drain: %w", err)
	}
	return n, nil
}

// Read reads whatever arrives within the read timeout. A timeout with no data
// returns 0, nil.
func (c *Conn) Read(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, err := c.port.Read(b)
	if err != nil {
		return n, fmt.Errorf("read: %w", err)
	}
	return n, nil
}

// Flush waits for pending output and discards unread input.
func (c *Conn) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.port.Drain(); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	if err := c.port.ResetInputBuffer(); err != nil {
		return fmt.Errorf("reset input: %w", err)
	}
	return nil
}

// apply changes one field of the settings and pushes the new mode to the
// port. The previous settings are kept when the port rejects the change.
func (c *Conn) apply(change func(*Settings)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.settings
	change(&next)
	if err := c.port.SetMode(next.mode()); err != nil {
		return fmt.Errorf("set mode: %w", err)
	}
	c.settings = next
	return nil
}

func (c *Conn) SetBaud(rate int) error {
	return c.apply(func(s *Settings) { s.BaudRate = rate })
}

func (c *Conn) SetDataBits(bits int) error {
	return c.apply(func(s *Settings) { s.DataBits = bits })
}

func (c *Conn) SetParity(p Parity) error {
	return c.apply(func(s *Settings) { s.Parity = p })
}

func (c *Conn) SetStopBits(b StopBits) error {
	return c.apply(func(s *Settings) { s.StopBits = b })
}

func (c *Conn) SetTimeout(d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.port.SetReadTimeout(d); err != nil {
		return fmt.Errorf("set timeout: %w", err)
	}
	c.settings.Timeout = d
	return nil
}

func (c *Conn) SetRTS(on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.port.SetRTS(on); err != nil {
		return fmt.Errorf("set RTS: %w", err)
	}
	return nil
}

func (c *Conn) SetDTR(on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.port.SetDTR(on); err != nil {
		return fmt.Errorf("set DTR: %w", err)
	}
	return nil
}

// Status reads the modem status lines.
func (c *Conn) Status() (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bits, err := c.port.GetModemStatusBits()
	if err != nil {
		return Status{}, fmt.Errorf("modem status: %w", err)
	}
	return Status{CTS: bits.CTS, DSR: bits.DSR, RI: bits.RI, CD: bits.DCD}, nil
}

// Reopen switches to another device with the current settings. The old port
// stays open if the new one cannot be opened.
func (c *Conn) Reopen(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.settings
	next.Name = name
	p, err := openPort(c.open, next)
	if err != nil {
		return err
	}
	_ = c.port.Close()
	c.port = p
	c.settings = next
	return nil
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port.Close()
}
