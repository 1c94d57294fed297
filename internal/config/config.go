package config

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	AppName = "ap-aging"

	DefaultServicesFile = "services.yaml"
	DefaultAgingPort    = 6143
	DefaultGatewayPort  = 8081
	DefaultEURRate      = "52.50"
	DefaultCurrency     = "EGP"
	DefaultMaxUploadMB  = 32
	DefaultAuditTable   = "aging_run_audit"
)

// Int reads an integer from a services.yaml config block. YAML and JSON decoders
// disagree on numeric types, so every numeric shape is accepted.
func Int(cfg map[string]interface{}, key string, def int) int {
	v, ok := cfg[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		var parsed int
		if _, err := fmt.Sscanf(strings.TrimSpace(t), "%d", &parsed); err == nil {
			return parsed
		}
	}
	return def
}

// String reads a string value, returning def when absent or empty.
func String(cfg map[string]interface{}, key, def string) string {
	if v, ok := cfg[key]; ok && v != nil {
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			return s
		}
	}
	return def
}

// Bool reads a boolean value.
func Bool(cfg map[string]interface{}, key string, def bool) bool {
	v, ok := cfg[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
	}
	return def
}

// StringMap reads a nested mapping such as gateway routes.
func StringMap(cfg map[string]interface{}, key string) map[string]string {
	out := map[string]string{}
	raw, ok := cfg[key]
	if !ok {
		return out
	}
	switch m := raw.(type) {
	case map[string]interface{}:
		for k, v := range m {
			out[k] = fmt.Sprint(v)
		}
	case map[string]string:
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
