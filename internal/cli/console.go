package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/flowave-io/serialflow/internal/config"
	"github.com/flowave-io/serialflow/internal/console"
	"github.com/flowave-io/serialflow/internal/lineedit"
	"github.com/flowave-io/serialflow/internal/monitor"
	"github.com/flowave-io/serialflow/internal/serial"
	"github.com/flowave-io/serialflow/pkg/log"
)

// consoleFlags are the command line overrides for the config file.
type consoleFlags struct {
	port string
	baud int
	mode string
}

func RunConsoleCommand(args []string, cfg *config.Config) {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	fs.Usage = printConsoleHelp
	var f consoleFlags
	fs.StringVar(&f.port, "port", "", "Serial port to open, skipping the port prompt")
	fs.IntVar(&f.baud, "baud", 0, "Baud rate, skipping the baud rate prompt")
	fs.StringVar(&f.mode, "mode", "", "Initial mode: ascii or hex")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	settings, pin := cfg.Settings()
	opts, err := consoleOptions(cfg.ConsoleOptions(), f)
	if err != nil {
		log.Fatal(err)
	}
	settings, pin, err = f.apply(settings, pin)
	if err != nil {
		log.Fatal(err)
	}

	// the prompts hold the terminal in raw mode; warnings wait for the next
	// prompt instead of cutting into the edited line
	pending := &log.Pending{}
	log.SetOutput(pending)
	defer func() {
		log.SetOutput(os.Stderr)
		fmt.Fprint(os.Stderr, pending.Drain())
	}()

	ports := console.NewPortCache(serial.ListPorts)
	refreshCh := make(chan struct{}, 1)
	if stop, err := monitor.WatchPorts(monitor.DefaultDevDir, refreshCh); err != nil {
		log.Warn("port hot-plug detection disabled:", err)
	} else {
		defer stop()
		go ports.Follow(refreshCh)
	}

	term := lineedit.NewStdTerminal()
	if !(pin.Name && pin.Baud && pin.DataBits && pin.Parity && pin.StopBits) {
		fmt.Fprint(term, "\x1b[2J\x1b[HSet the serial port.\r\n\r\n")
	}
	settings, err = console.NewPrompter(term, ports).Setup(settings, pin)
	if errors.Is(err, lineedit.ErrInterrupted) {
		return
	}
	if err != nil {
		fatal(pending, "setup:", err)
	}

	conn, err := serial.Open(settings)
	if err != nil {
		fatal(pending, fmt.Sprintf("open %s:", settings), err)
	}

	opts.Notices = pending.Drain
	c := console.New(term, conn, ports, opts)
	c.PrintHelp()
	err = c.Run()
	if cerr := conn.Close(); cerr != nil {
		log.Warn("close port:", cerr)
	}
	if err != nil {
		fatal(pending, "console:", err)
	}
}

// fatal restores stderr logging, flushes what was held back and exits.
func fatal(pending *log.Pending, v ...any) {
	log.SetOutput(os.Stderr)
	fmt.Fprint(os.Stderr, pending.Drain())
	log.Fatal(v...)
}

// apply overrides the config file with the flags that were set. A flag pins
// its setting so it is not asked for again.
func (f consoleFlags) apply(s serial.Settings, pin config.Pinned) (serial.Settings, config.Pinned, error) {
	if f.port != "" {
		s.Name, pin.Name = f.port, true
	}
	if f.baud < 0 {
		return s, pin, fmt.Errorf("-baud: must be positive, got %d", f.baud)
	}
	if f.baud > 0 {
		s.BaudRate, pin.Baud = f.baud, true
	}
	return s, pin, nil
}

func consoleOptions(c config.Console, f consoleFlags) (console.Options, error) {
	if f.mode != "" {
		c.Mode = f.mode
	}
	mode, err := console.ParseMode(c.Mode)
	if err != nil {
		return console.Options{}, err
	}
	ending, err := console.ParseEnding(c.Ending)
	if err != nil {
		return console.Options{}, err
	}
	return console.Options{Mode: mode, Ending: ending, Prompt: c.Prompt, HistorySize: c.History}, nil
}

func printConsoleHelp() {
	fmt.Print(`Usage: serialflow console [options]

Opens a serial port and starts an interactive command prompt for sending
and receiving bytes. Settings missing from serialflow.hcl and the flags
below are asked for before the port is opened.

Options:
  -port <name>  Serial port, e.g. /dev/ttyUSB0 or COM3
  -baud <rate>  Baud rate
  -mode <mode>  ascii or hex

Type "help" at the prompt for the command list. Press Ctrl-C twice to exit.
`)
}
