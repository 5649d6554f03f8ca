//go:build serialflowfastjson

package jsonx

import "github.com/bytedance/sonic"

func Marshal(v any) ([]byte, error) { return sonic.ConfigStd.Marshal(v) }

func MarshalIndent(v any) ([]byte, error) { return sonic.ConfigStd.MarshalIndent(v, "", "  ") }

func Unmarshal(b []byte, v any) error { return sonic.ConfigStd.Unmarshal(b, v) }
