// Package console is the interactive serial console: a command prompt built
// on lineedit plus the setup prompts that pick the port.
package console

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flowave-io/serialflow/internal/lineedit"
	"github.com/flowave-io/serialflow/internal/serial"
)

const helpText = `Help:
  Hot keys:
    Ctrl-C x 2: exit

  Commands:
    help             : show this
    clear            : clear screen

    send <message>   : send message
    recv             : receive message
    flush            : flush serial port

    set-mode <mode>  : set mode             mode  : ascii, hex
    set-end  <end>   : set line ending      end   : none, cr, lf, crlf

    set-port <name>  : set port             name  : string
    set-baud <rate>  : set baud rate        rate  : 9600, 19200, 38400, 57600,
                                                    115200, or custom
    set-data <dbits> : set data bits        dbits : 5, 6, 7, 8
    set-par  <parity>: set parity           parity: none, odd, even
    set-stop <sbits> : set stop bits        sbits : 1, 2
    set-time <time>  : set timeout          time  : milliseconds

    set-rts  <state> : set RTS state        state : on, off
    set-dtr  <state> : set DTR state        state : on, off

    get-cts          : query CTS state
    get-dsr          : query DSR state
    get-ri           : query RI  state
    get-cd           : query CD  state
`

const recvBufferSize = 1024

// Port is the serial connection the console drives. *serial.Conn implements
// it.
type Port interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Flush() error
	SetBaud(rate int) error
	SetDataBits(bits int) error
	SetParity(p serial.Parity) error
	SetStopBits(b serial.StopBits) error
	SetTimeout(d time.Duration) error
	SetRTS(on bool) error
	SetDTR(on bool) error
	Status() (serial.Status, error)
	Reopen(name string) error
}

type Options struct {
	Mode        Mode
	Ending      Ending
	Prompt      string
	HistorySize int
	// Notices returns log output held back while a prompt was active. It is
	// printed before the next prompt.
	Notices func() string
}

type Console struct {
	term    lineedit.Terminal
	port    Port
	ports   *PortCache
	mode    Mode
	ending  Ending
	notices func() string
	editor  *lineedit.Editor[Command]
}

func New(term lineedit.Terminal, port Port, ports *PortCache, opts Options) *Console {
	c := &Console{term: term, port: port, ports: ports, mode: opts.Mode, ending: opts.Ending, notices: opts.Notices}
	if opts.Prompt == "" {
		opts.Prompt = "> "
	}
	line := &commandLine{mode: &c.mode, ports: ports}
	c.editor = lineedit.NewBuilder[Command](opts.Prompt).
		Terminal(term).
		Preprocessor(line.preprocess).
		Renderer(line.render).
		Finalizer(finalizeCommand).
		HistorySize(opts.HistorySize).
		Build()
	return c
}

// PrintHelp clears the screen and shows the command list.
func (c *Console) PrintHelp() {
	c.printf("\x1b[2J\x1b[H%s", helpText)
}

// Run reads and executes commands until Ctrl-C is pressed twice in a row.
func (c *Console) Run() error {
	armed := false
	for {
		c.printNotices()
		cmd, err := c.editor.Prompt()
		if errors.Is(err, lineedit.ErrInterrupted) {
			if armed {
				return nil
			}
			c.fail("Press again to exit.")
			c.printf("\n")
			armed = true
			continue
		}
		if err != nil {
			return err
		}
		armed = false
		c.Execute(cmd)
		c.printf("\n\n")
	}
}

// Execute runs one command and prints its outcome.
func (c *Console) Execute(cmd Command) {
	switch cmd.Type {
	case CommandNone:
		c.fail("Invalid command.")
	case CommandSend:
		c.send(cmd.Arg)
	case CommandSetPort:
		c.setPort(cmd.Arg)
	default:
		if cmd.Arg != "" && !takesArgument(cmd.Type) {
			c.fail("Invalid argument.")
			return
		}
		c.run(cmd.Type, strings.ToLower(cmd.Arg))
	}
}

func takesArgument(t CommandType) bool {
	switch t {
	case CommandSetMode, CommandSetBaud, CommandSetDataBits, CommandSetParity,
		CommandSetStopBits, CommandSetTimeout, CommandSetRTS, CommandSetDTR, CommandSetEnding:
		return true
	}
	return false
}

func (c *Console) run(t CommandType, arg string) {
	switch t {
	case CommandHelp:
		c.printf("%s", helpText)

	case CommandClear:
		c.printf("\x1b[2J\x1b[H")

	case CommandReceive:
		c.receive()

	case CommandFlush:
		if err := c.port.Flush(); err != nil {
			c.fail("Failed to flush.")
			return
		}
		c.printf("Flushed.")

	case CommandSetMode:
		m, err := ParseMode(arg)
		if err != nil {
			c.fail("Invalid mode.")
			return
		}
		c.mode = m
		c.value("Mode", m.String())

	case CommandSetEnding:
		e, err := ParseEnding(arg)
		if err != nil {
			c.fail("Invalid ending.")
			return
		}
		c.ending = e
		c.value("Ending", e.String())

	case CommandSetBaud:
		c.apply("baud rate", "Baud rate", arg, func() error {
			rate, err := serial.ParseBaudRate(arg)
			if err != nil {
				return err
			}
			return c.port.SetBaud(rate)
		})

	case CommandSetDataBits:
		c.apply("data bits", "Data bits", arg, func() error {
			bits, err := serial.ParseDataBits(arg)
			if err != nil {
				return err
			}
			return c.port.SetDataBits(bits)
		})

	case CommandSetParity:
		c.apply("parity", "Parity", arg, func() error {
			p, err := serial.ParseParity(arg)
			if err != nil {
				return err
			}
			return c.port.SetParity(p)
		})

	case CommandSetStopBits:
		c.apply("stop bits", "Stop bits", arg, func() error {
			b, err := serial.ParseStopBits(arg)
			if err != nil {
				return err
			}
			return c.port.SetStopBits(b)
		})

	case CommandSetTimeout:
		c.apply("timeout", "Timeout", arg, func() error {
			d, err := serial.ParseTimeout(arg)
			if err != nil {
				return err
			}
			return c.port.SetTimeout(d)
		})

	case CommandSetRTS:
		c.apply("RTS state", "RTS", arg, func() error {
			on, err := serial.ParseSwitch(arg)
			if err != nil {
				return err
			}
			return c.port.SetRTS(on)
		})

	case CommandSetDTR:
		c.apply("DTR state", "DTR", arg, func() error {
			on, err := serial.ParseSwitch(arg)
			if err != nil {
				return err
			}
			return c.port.SetDTR(on)
		})

	case CommandGetCTS, CommandGetDSR, CommandGetRI, CommandGetCD:
		c.status(t)
	}
}

// apply runs set and reports "<label>: <arg>" on success, "Invalid <what>."
// for unparsable input and "Failed to set <what>." when the port refused.
func (c *Console) apply(what, label, arg string, set func() error) {
	err := set()
	switch {
	case errors.Is(err, serial.ErrInvalid):
		c.fail("Invalid " + what + ".")
	case err != nil:
		c.fail("Failed to set " + what + ".")
	default:
		c.value(label, arg)
	}
}

func (c *Console) send(arg string) {
	var payload []byte
	var shown string
	var err error
	if c.mode == ModeHex {
		payload, err = DecodeHex(arg)
		shown = arg
	} else {
		payload, err = EncodeASCII(arg)
		shown = DisplayASCII(arg)
	}
	if err != nil {
		c.fail("Invalid message.")
		return
	}
	if end := c.ending.Bytes(); len(end) > 0 {
		payload = append(payload, end...)
		if c.mode == ModeHex {
			shown += FormatHex(end)
		} else {
			shown += FormatASCII(end)
		}
	}
	if _, err := c.port.Write(payload); err != nil {
		c.fail("Failed to send.")
		return
	}
	c.printf("Sent %s%4d%s bytes: %s", ansiGreen, len(payload), ansiReset, shown)
}

func (c *Console) receive() {
	buf := make([]byte, recvBufferSize)
	n, err := c.port.Read(buf)
	if err != nil {
		c.fail("Failed to receive.")
		return
	}
	shown := FormatASCII(buf[:n])
	if c.mode == ModeHex {
		shown = FormatHex(buf[:n])
	}
	c.printf("Received %4d bytes: %s", n, shown)
}

func (c *Console) setPort(name string) {
	if err := c.ports.Refresh(); err != nil {
		c.fail("Failed to list ports.")
		return
	}
	if !c.ports.Contains(name) {
		c.fail("Invalid port.")
		return
	}
	if err := c.port.Reopen(name); err != nil {
		c.fail("Failed to open port.")
		return
	}
	c.printf("Port %s%s%s is now opened.", ansiGreen, name, ansiReset)
}

func (c *Console) status(t CommandType) {
	line := strings.ToUpper(strings.TrimPrefix(t.String(), "get-"))
	st, err := c.port.Status()
	if err != nil {
		c.fail("Failed to get " + line + " state.")
		return
	}
	on := map[CommandType]bool{
		CommandGetCTS: st.CTS,
		CommandGetDSR: st.DSR,
		CommandGetRI:  st.RI,
		CommandGetCD:  st.CD,
	}[t]
	state := "Off"
	if on {
		state = "On"
	}
	c.printf("%s: %s", line, state)
}

func (c *Console) printNotices() {
	if c.notices == nil {
		return
	}
	if s := c.notices(); s != "" {
		c.printf("%s", s)
	}
}

func (c *Console) value(label, v string) {
	c.printf("%s: %s%s%s", label, ansiGreen, v, ansiReset)
}

func (c *Console) fail(msg string) {
	c.printf("%s%s%s", ansiRed, msg, ansiReset)
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.term, format, args...)
}
