package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/ladder/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Sorter, convey.ShouldEqual, "merge")
			convey.So(cfg.Search, convey.ShouldEqual, "binary")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.TopCacheSize, convey.ShouldEqual, 10)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one invalid setting", t, func() {
		cases := []struct {
			name   string
			mutate func(c *config.Config)
		}{
			{"unknown sorter", func(c *config.Config) { c.Sorter = "bogo" }},
			{"unknown search", func(c *config.Config) { c.Search = "hash" }},
			{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"zero queue", func(c *config.Config) { c.QueueSize = 0 }},
			{"negative workers", func(c *config.Config) { c.WorkerCount = -1 }},
			{"zero dedupe", func(c *config.Config) { c.DedupeSize = 0 }},
			{"negative rate", func(c *config.Config) { c.IngestRate = -1 }},
			{"negative snapshot", func(c *config.Config) { c.SnapshotIntervalMS = -5 }},
			{"zero compare size", func(c *config.Config) { c.CompareSize = 0 }},
			{"inverted range", func(c *config.Config) { c.CompareRangeLow, c.CompareRangeHigh = 10, 5 }},
			{"zero monitor period", func(c *config.Config) { c.MonitorGCMS = 0 }},
		}

		for _, tc := range cases {
			cfg := config.New()
			tc.mutate(cfg)

			convey.Convey("Then "+tc.name+" should be rejected", func() {
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
