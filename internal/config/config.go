// Package config loads the optional serialflow.hcl file.
//
//	required_version = ">= 0.1"
//
//	port {
//	  name      = env.SERIALFLOW_PORT
//	  baud      = 115200
//	  data_bits = 8
//	  parity    = "none"
//	  stop_bits = 1
//	  timeout_ms = 100
//	}
//
//	console {
//	  mode    = "hex"
//	  ending  = "crlf"
//	  history = 50
//	}
//
// Every attribute is optional. Values left unset are asked for interactively.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	gv "github.com/hashicorp/go-version"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	cty "github.com/zclconf/go-cty/cty"

	"github.com/flowave-io/serialflow/internal/serial"
)

// DefaultFile is looked up in the working directory when no -config is given.
const DefaultFile = "serialflow.hcl"

// Config is the decoded file.
type Config struct {
	RequiredVersion string   `hcl:"required_version,optional"`
	Port            *Port    `hcl:"port,block"`
	Console         *Console `hcl:"console,block"`
}

type Port struct {
	Name      string `hcl:"name,optional"`
	Baud      int    `hcl:"baud,optional"`
	DataBits  int    `hcl:"data_bits,optional"`
	Parity    string `hcl:"parity,optional"`
	StopBits  int    `hcl:"stop_bits,optional"`
	TimeoutMS int    `hcl:"timeout_ms,optional"`
}

type Console struct {
	Mode    string `hcl:"mode,optional"`
	Ending  string `hcl:"ending,optional"`
	History int    `hcl:"history,optional"`
	Prompt  string `hcl:"prompt,optional"`
}

var (
	modes   = []string{"ascii", "hex"}
	endings = []string{"none", "cr", "lf", "crlf"}
)

// Load reads path. A missing file yields an empty Config when optional is
// true, which is how the default file is treated.
func Load(path string, optional bool) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes HCL source. env.* resolves to the process environment.
func Parse(src []byte, filename string) (*Config, error) {
	p := hclparse.NewParser()
	f, diags := p.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse config: %w", diags)
	}
	var c Config
	if diags := gohcl.DecodeBody(f.Body, evalContext(os.Environ()), &c); diags.HasErrors() {
		return nil, fmt.Errorf("decode config: %w", diags)
	}
	return &c, nil
}

func evalContext(environ []string) *hcl.EvalContext {
	vars := map[string]cty.Value{}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !hclIdentifier(k) {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{Variables: map[string]cty.Value{"env": ctyObjectFromMap(vars)}}
}

func ctyObjectFromMap(m map[string]cty.Value) cty.Value {
	if len(m) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(m)
}

func hclIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate(version string) error {
	var result *multierror.Error
	if c.RequiredVersion != "" {
		if err := checkVersion(c.RequiredVersion, version); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if p := c.Port; p != nil {
		if p.Baud < 0 {
			result = multierror.Append(result, fmt.Errorf("port.baud: must be positive, got %d", p.Baud))
		}
		if p.DataBits != 0 {
			if _, err := serial.ParseDataBits(strconv.Itoa(p.DataBits)); err != nil {
				result = multierror.Append(result, fmt.Errorf("port.data_bits: %w", err))
			}
		}
		if p.Parity != "" {
			if _, err := serial.ParseParity(p.Parity); err != nil {
				result = multierror.Append(result, fmt.Errorf("port.parity: %w", err))
			}
		}
		if p.StopBits != 0 {
			if _, err := serial.ParseStopBits(strconv.Itoa(p.StopBits)); err != nil {
				result = multierror.Append(result, fmt.Errorf("port.stop_bits: %w", err))
			}
		}
		if p.TimeoutMS < 0 {
			result = multierror.Append(result, fmt.Errorf("port.timeout_ms: must be positive, got %d", p.TimeoutMS))
		}
	}
	if cs := c.Console; cs != nil {
		if cs.Mode != "" && !oneOf(cs.Mode, modes) {
			result = multierror.Append(result, fmt.Errorf("console.mode: %q is not one of %s", cs.Mode, strings.Join(modes, ", ")))
		}
		if cs.Ending != "" && !oneOf(cs.Ending, endings) {
			result = multierror.Append(result, fmt.Errorf("console.ending: %q is not one of %s", cs.Ending, strings.Join(endings, ", ")))
		}
		if cs.History < 0 {
			result = multierror.Append(result, fmt.Errorf("console.history: must be positive, got %d", cs.History))
		}
	}
	return result.ErrorOrNil()
}

func checkVersion(required, current string) error {
	cons, err := gv.NewConstraint(required)
	if err != nil {
		return fmt.Errorf("required_version: %w", err)
	}
	cur, err := gv.NewVersion(current)
	if err != nil {
		return fmt.Errorf("required_version: current version %q: %w", current, err)
	}
	if !cons.Check(cur) {
		return fmt.Errorf("required_version: serialflow %s does not satisfy %q", cur, required)
	}
	return nil
}

func oneOf(s string, set []string) bool {
	s = strings.ToLower(s)
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Settings returns the port settings the file pins, on top of
// serial.DefaultSettings, and which of them were given explicitly.
func (c *Config) Settings() (serial.Settings, Pinned) {
	s := serial.DefaultSettings()
	var pin Pinned
	p := c.Port
	if p == nil {
		return s, pin
	}
	if p.Name != "" {
		s.Name, pin.Name = p.Name, true
	}
	if p.Baud > 0 {
		s.BaudRate, pin.Baud = p.Baud, true
	}
	if p.DataBits != 0 {
		s.DataBits, pin.DataBits = p.DataBits, true
	}
	if p.Parity != "" {
		s.Parity, _ = serial.ParseParity(p.Parity)
		pin.Parity = true
	}
	if p.StopBits != 0 {
		s.StopBits, _ = serial.ParseStopBits(strconv.Itoa(p.StopBits))
		pin.StopBits = true
	}
	if p.TimeoutMS > 0 {
		s.Timeout = time.Duration(p.TimeoutMS) * time.Millisecond
	}
	return s, pin
}

// Pinned records which settings need no interactive prompt.
type Pinned struct {
	Name, Baud, DataBits, Parity, StopBits bool
}

// ConsoleOptions returns the console block with defaults filled in.
func (c *Config) ConsoleOptions() Console {
	out := Console{Mode: "ascii", Ending: "none", Prompt: "> "}
	if cs := c.Console; cs != nil {
		if cs.Mode != "" {
			out.Mode = strings.ToLower(cs.Mode)
		}
		if cs.Ending != "" {
			out.Ending = strings.ToLower(cs.Ending)
		}
		if cs.Prompt != "" {
			out.Prompt = cs.Prompt
		}
		out.History = cs.History
	}
	return out
}
