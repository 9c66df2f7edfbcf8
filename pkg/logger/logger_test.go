package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When it is initialized", func() {
			err := Init()

			Convey("Then Get and Named should return loggers", func() {
				So(err, ShouldBeNil)
				So(Get(), ShouldNotBeNil)
				So(Named("test"), ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		l := New(&buf).Named("store")
		ctx := context.Background()

		Convey("When logging with fields", func() {
			l.Info(ctx, "added entity",
				String("name", "Alice"),
				Int("score", 1500),
				Bool("dirty", true),
				Duration("took", time.Millisecond),
				Float64("ms", 1.5),
				Any("names", []string{"a"}),
				Error(errors.New("boom")),
			)

			Convey("Then the record should carry the component and fields", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "msg=\"added entity\"")
				So(out, ShouldContainSubstring, "component=store")
				So(out, ShouldContainSubstring, "name=Alice")
				So(out, ShouldContainSubstring, "score=1500")
				So(out, ShouldContainSubstring, "dirty=true")
				So(out, ShouldContainSubstring, "took=1ms")
				So(out, ShouldContainSubstring, "error=boom")
				So(out, ShouldContainSubstring, "source=")
			})
		})

		Convey("When the level excludes debug", func() {
			SetLevel(slog.LevelInfo)
			l.Debug(ctx, "hidden")

			Convey("Then nothing should be written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the level is lowered to debug", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			l.Debug(ctx, "visible")
			So(SetLevelString("info"), ShouldBeNil)

			Convey("Then debug records should be written", func() {
				So(buf.String(), ShouldContainSubstring, "visible")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		Convey("Then known levels should be accepted", func() {
			for _, lvl := range []string{"debug", "INFO", "", "warn", "warning", "error"} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
			So(SetLevelString("info"), ShouldBeNil)
		})

		Convey("Then unknown levels should be rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}

func TestSetFormat(t *testing.T) {
	Convey("Given the global logger redirected to a buffer", t, func() {
		var buf bytes.Buffer
		So(SetOutput(&buf), ShouldBeNil)
		Reset(func() {
			_ = SetOutput(os.Stderr)
			_ = SetFormat(FormatText)
		})

		Convey("When switching to json", func() {
			So(SetFormat("json"), ShouldBeNil)
			Get().Warn(context.Background(), "json record", String("k", "v"))

			Convey("Then records should be JSON objects", func() {
				So(buf.String(), ShouldStartWith, "{")
				So(buf.String(), ShouldContainSubstring, `"k":"v"`)
			})
		})

		Convey("When given an unknown format", func() {
			Convey("Then it should be rejected", func() {
				So(SetFormat("xml"), ShouldNotBeNil)
			})
		})
	})
}
