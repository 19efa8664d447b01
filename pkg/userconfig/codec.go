package userconfig

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// Encode serializes the config to compact JSON and applies URL-safe
// base64 without padding, producing the opaque string clients embed in
// request paths.
func Encode(cfg *Config) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("nil config")
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode reverses Encode. It tolerates padded input and the standard
// base64 alphabet. Malformed input yields nil, never a panic or an error
// to the caller; the failure is logged at debug level only because bad
// config strings arrive with every crawler hit.
func Decode(s string) *Config {
	if s == "" {
		return nil
	}
	trimmed := strings.TrimRight(s, "=")

	data, err := base64.RawURLEncoding.DecodeString(trimmed)
	if err != nil {
		// some clients re-encode with the standard alphabet
		data, err = base64.RawStdEncoding.DecodeString(trimmed)
	}
	if err != nil {
		log.Printf("[DEBUG] config decode failed: %v", err)
		return nil
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("[DEBUG] config parse failed: %v", err)
		return nil
	}

	cfg.applyDefaults()
	return &cfg
}
