package log

import (
	"bytes"
	"testing"

	"github.com/hatlonely/uidx/log/logger"
	"github.com/hatlonely/uidx/ref"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewLoggerWithOptions(t *testing.T) {
	Convey("NewLoggerWithOptions", t, func() {
		Convey("空配置返回默认日志器", func() {
			l, err := NewLoggerWithOptions(nil)
			So(err, ShouldBeNil)
			So(l, ShouldEqual, Default())
		})

		Convey("通过 ref 创建 SLog", func() {
			var buf bytes.Buffer
			l, err := NewLoggerWithOptions(&ref.TypeOptions{
				Namespace: "github.com/hatlonely/uidx/log/logger",
				Type:      "SLog",
				Options:   &logger.SLogOptions{Writer: &buf, Format: "json"},
			})
			So(err, ShouldBeNil)
			l.Info("hello")
			So(buf.String(), ShouldContainSubstring, `"msg":"hello"`)
		})

		Convey("类型不存在", func() {
			_, err := NewLoggerWithOptions(&ref.TypeOptions{Namespace: "x", Type: "Missing"})
			So(err, ShouldNotBeNil)
		})

		Convey("不是 Logger", func() {
			_, err := NewLoggerWithOptions(&ref.TypeOptions{
				Namespace: "github.com/hatlonely/uidx/log/writer",
				Type:      "ConsoleWriter",
			})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSetDefault(t *testing.T) {
	Convey("SetDefault", t, func() {
		origin := Default()
		defer SetDefault(origin)

		var buf bytes.Buffer
		l, err := logger.NewSLogWithOptions(&logger.SLogOptions{Writer: &buf})
		So(err, ShouldBeNil)

		SetDefault(l)
		So(Default(), ShouldEqual, l)

		SetDefault(nil)
		So(Default(), ShouldEqual, l)
	})
}
