//go:build !serialflowfastjson

// Package jsonx is the JSON codec used for machine-readable output. Building
// with -tags serialflowfastjson swaps in bytedance/sonic.
package jsonx

import "encoding/json"

func Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func MarshalIndent(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }

func Unmarshal(b []byte, v any) error { return json.Unmarshal(b, v) }
