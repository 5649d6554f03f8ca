package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/flowave-io/serialflow/internal/cli"
	"github.com/flowave-io/serialflow/internal/config"
	"github.com/flowave-io/serialflow/pkg/log"
)

const version = "0.1.0"

func printHelp() {
	fmt.Print(`Serialflow is an interactive serial port console.

Usage: serialflow [global options] <subcommand> [args]

Global options:
  -config <file>  Configuration file (default: ./serialflow.hcl when present)

Available commands:
  help     Show this help output
  version  Show the current Serialflow version
  console  Open a serial port at an interactive command prompt
  ports    List the serial ports found on this machine
`)
}

func main() {
	flag.Usage = printHelp
	flagHelp := flag.Bool("help", false, "Show help")
	flagConfig := flag.String("config", "", "Configuration file")
	flag.Parse()

	args := flag.Args()

	if *flagHelp || len(args) == 0 || args[0] == "help" {
		printHelp()
		os.Exit(0)
	}

	switch args[0] {
	case "version":
		fmt.Println("Serialflow", version)
	case "ports":
		cli.RunPortsCommand(args[1:])
	case "console":
		cli.RunConsoleCommand(args[1:], loadConfig(*flagConfig))
	default:
		fmt.Fprintln(os.Stderr, "Unknown command: ", args[0])
		printHelp()
		os.Exit(1)
	}
}

// loadConfig reads the -config file, or the default file when it exists.
func loadConfig(path string) *config.Config {
	optional := path == ""
	if optional {
		path = config.DefaultFile
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(version); err != nil {
		log.Fatalf("%s: %v", path, err)
	}
	return cfg
}
