package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/flowave-io/serialflow/internal/encoding/jsonx"
	"github.com/flowave-io/serialflow/internal/serial"
	"github.com/flowave-io/serialflow/pkg/log"
)

func RunPortsCommand(args []string) {
	fs := flag.NewFlagSet("ports", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	asJSON := fs.Bool("json", false, "Print the port list as a JSON array")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if err := listPorts(os.Stdout, serial.ListPorts, *asJSON); err != nil {
		log.Fatal(err)
	}
}

func listPorts(w io.Writer, list func() ([]string, error), asJSON bool) error {
	ports, err := list()
	if err != nil {
		return fmt.Errorf("list ports: %w", err)
	}
	if asJSON {
		if ports == nil {
			ports = []string{}
		}
		b, err := jsonx.MarshalIndent(ports)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}
	if len(ports) == 0 {
		_, err = fmt.Fprintln(w, "No serial ports found.")
		return err
	}
	for _, p := range ports {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}
