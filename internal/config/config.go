// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "time"

// Reserve holds the placeholder resource figures attached to a statistics
// summary. These are simulated values, not derived from the uploaded data.
type Reserve struct {
	// VolumeM3 is the reported total volume in cubic metres.
	VolumeM3 float64 `koanf:"volume_m3"`

	// TonnageT is the reported tonnage in tonnes.
	TonnageT float64 `koanf:"tonnage_t"`

	// DensityTM3 is the reported average density in tonnes per cubic metre.
	DensityTM3 float64 `koanf:"density_t_m3"`

	// RecoveryPct is the assumed metallurgical recovery percentage.
	RecoveryPct float64 `koanf:"recovery_pct"`
}

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxUploadBytes caps the size of a single CSV upload body.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// SampleLimit bounds the number of points returned for 3D rendering.
	SampleLimit int `koanf:"sample_limit"`

	// MaxSessions bounds the number of concurrently held sessions.
	MaxSessions int `koanf:"max_sessions"`

	// SessionTTL is how long an idle session is kept before eviction.
	SessionTTL time.Duration `koanf:"session_ttl"`

	// CompositeReserve is used when the grade column name contains "composite".
	CompositeReserve Reserve `koanf:"composite_reserve"`

	// BlockReserve is used for every other grade column name.
	BlockReserve Reserve `koanf:"block_reserve"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		MaxUploadBytes: 32 << 20,
		SampleLimit:    5000,
		MaxSessions:    256,
		SessionTTL:     2 * time.Hour,
		CompositeReserve: Reserve{
			VolumeM3:    1_250_000,
			TonnageT:    3_375_000,
			DensityTM3:  2.7,
			RecoveryPct: 92.5,
		},
		BlockReserve: Reserve{
			VolumeM3:    1_275_000,
			TonnageT:    3_442_500,
			DensityTM3:  2.7,
			RecoveryPct: 91.0,
		},
	}
}
