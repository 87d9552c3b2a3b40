package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/jury/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.CacheTTL, convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.StoreDriver, convey.ShouldEqual, "file")
			convey.So(cfg.StorePath, convey.ShouldBeEmpty)
			convey.So(cfg.S3Region, convey.ShouldEqual, "us-east-1")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
