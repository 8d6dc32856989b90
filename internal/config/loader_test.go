package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/okian/muster/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.TickIntervalMS, convey.ShouldEqual, 200)
				convey.So(cfg.MatchThreshold, convey.ShouldEqual, 0.45)
				convey.So(cfg.CooldownSeconds, convey.ShouldEqual, 30)
				convey.So(cfg.DescriptorDim, convey.ShouldEqual, 128)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.LateAfterMinutes, convey.ShouldEqual, 15)
				convey.So(cfg.RecentLimit, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MUSTER_ADDR", ":8080")
			_ = os.Setenv("MUSTER_QUEUE_SIZE", "4096")
			_ = os.Setenv("MUSTER_WORKER_COUNT", "8")
			_ = os.Setenv("MUSTER_MATCH_THRESHOLD", "0.6")
			_ = os.Setenv("MUSTER_COOLDOWN_SECONDS", "45")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 4096)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 8)
				convey.So(cfg.MatchThreshold, convey.ShouldEqual, 0.6)
				convey.So(cfg.CooldownSeconds, convey.ShouldEqual, 45)
				convey.So(cfg.DescriptorDim, convey.ShouldEqual, 128)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
tick_interval_ms: 100
match_threshold: 0.5
descriptor_dim: 512
late_after_minutes: 10
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("MUSTER_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.TickIntervalMS, convey.ShouldEqual, 100)
				convey.So(cfg.MatchThreshold, convey.ShouldEqual, 0.5)
				convey.So(cfg.DescriptorDim, convey.ShouldEqual, 512)
				convey.So(cfg.LateAfterMinutes, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, "addr: \":9090\"\nqueue_size: 2048\n")
			_ = os.Setenv("MUSTER_CONFIG", tmpFile)
			_ = os.Setenv("MUSTER_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars take precedence over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2048)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("MUSTER_CONFIG", "/nonexistent/muster.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail with a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value fails validation", func() {
			_ = os.Setenv("MUSTER_MATCH_THRESHOLD", "1.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should fail with an invalid-config error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the listen address is emptied", func() {
			tmpFile := createTempConfigFile(t, "addr: \"\"\n")
			_ = os.Setenv("MUSTER_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"MUSTER_CONFIG",
		"MUSTER_ADDR",
		"MUSTER_LOG_LEVEL",
		"MUSTER_TICK_INTERVAL_MS",
		"MUSTER_MATCH_THRESHOLD",
		"MUSTER_DISTANCE_CAP",
		"MUSTER_COOLDOWN_SECONDS",
		"MUSTER_DESCRIPTOR_DIM",
		"MUSTER_QUEUE_SIZE",
		"MUSTER_WORKER_COUNT",
		"MUSTER_LATE_AFTER_MINUTES",
		"MUSTER_RECENT_LIMIT",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "muster.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}
