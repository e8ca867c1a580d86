package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/pitchside/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"PITCHSIDE_CONFIG",
	"PITCHSIDE_ADDR",
	"PITCHSIDE_LOG_LEVEL",
	"PITCHSIDE_SESSION_STORE",
	"PITCHSIDE_MAX_RESULTS_CAP",
	"PITCHSIDE_PREFETCH_ENABLED",
	"PITCHSIDE_CACHE_TTL_SECONDS",
	"PITCHSIDE_DEFAULT_WINDOW_END",
}

func clearConfigEnvVars() {
	for _, v := range configEnvVars {
		_ = os.Unsetenv(v)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.MaxResultsCap, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PITCHSIDE_ADDR", ":8080")
			_ = os.Setenv("PITCHSIDE_MAX_RESULTS_CAP", "500")
			_ = os.Setenv("PITCHSIDE_PREFETCH_ENABLED", "true")
			_ = os.Setenv("PITCHSIDE_CACHE_TTL_SECONDS", "30")

			cfg, err := config.Load(ctx)

			convey.Convey("Then the environment overrides the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxResultsCap, convey.ShouldEqual, 500)
				convey.So(cfg.PrefetchEnabled, convey.ShouldBeTrue)
				convey.So(cfg.CacheTTLSeconds, convey.ShouldEqual, 30)
			})
		})

		convey.Convey("When loading config from a YAML file", func() {
			path := filepath.Join(t.TempDir(), "pitchside.yaml")
			body := "addr: \":7070\"\nsession_store: sqlite\nsession_db_path: /tmp/sessions.db\nlog_format: json\n"
			convey.So(os.WriteFile(path, []byte(body), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("PITCHSIDE_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.SessionStore, convey.ShouldEqual, "sqlite")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})

			convey.Convey("Then the environment still wins over the file", func() {
				_ = os.Setenv("PITCHSIDE_ADDR", ":6060")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the config file is missing", func() {
			_ = os.Setenv("PITCHSIDE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
			_, err := config.Load(ctx)

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the environment produces an invalid config", func() {
			_ = os.Setenv("PITCHSIDE_SESSION_STORE", "redis")
			_, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the default window end is malformed", func() {
			_ = os.Setenv("PITCHSIDE_DEFAULT_WINDOW_END", "90")
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
