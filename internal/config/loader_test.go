package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/orestat/orestat/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.SampleLimit, convey.ShouldEqual, 5000)
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 256)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ORESTAT_ADDR", ":8080")
			_ = os.Setenv("ORESTAT_SAMPLE_LIMIT", "1000")
			_ = os.Setenv("ORESTAT_MAX_SESSIONS", "32")
			_ = os.Setenv("ORESTAT_LOG_LEVEL", "debug")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SampleLimit, convey.ShouldEqual, 1000)
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 32)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
sample_limit: 2500
session_ttl: 30m
composite_reserve:
  volume_m3: 1000000
  tonnage_t: 2700000
  density_t_m3: 2.7
  recovery_pct: 90
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ORESTAT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.SampleLimit, convey.ShouldEqual, 2500)
				convey.So(cfg.SessionTTL, convey.ShouldEqual, 30*time.Minute)
				convey.So(cfg.CompositeReserve.VolumeM3, convey.ShouldEqual, 1_000_000)
				convey.So(cfg.CompositeReserve.RecoveryPct, convey.ShouldEqual, 90.0)
			})
		})

		convey.Convey("When env vars override the YAML file", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("ORESTAT_CONFIG", tmpFile)
			_ = os.Setenv("ORESTAT_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("ORESTAT_CONFIG", "/nonexistent/orestat.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When validation fails", func() {
			clearConfigEnvVars()
			_ = os.Setenv("ORESTAT_SAMPLE_LIMIT", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading should fail with an invalid config error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"ORESTAT_CONFIG",
		"ORESTAT_ADDR",
		"ORESTAT_LOG_LEVEL",
		"ORESTAT_SAMPLE_LIMIT",
		"ORESTAT_MAX_SESSIONS",
		"ORESTAT_MAX_UPLOAD_BYTES",
		"ORESTAT_SESSION_TTL",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(content string) string {
	dir := os.TempDir()
	f, err := os.CreateTemp(dir, "orestat-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := f.WriteString(content); err != nil {
		panic(err)
	}
	_ = f.Close()
	return filepath.Join(dir, filepath.Base(f.Name()))
}
