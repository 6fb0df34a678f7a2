package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// typeOptions 与 ref.TypeOptions 结构一致，ref 依赖 cfg，测试中不能反向引用
type typeOptions struct {
	Namespace string `cfg:"namespace"`
	Type      string `cfg:"type"`
	Options   any    `cfg:"options"`
}

type testOptions struct {
	Name     string        `cfg:"name" validate:"required"`
	Mode     string        `cfg:"mode" def:"strict" validate:"oneof=strict loose"`
	Timeout  time.Duration `cfg:"timeout" def:"5s"`
	MaxDepth int           `cfg:"maxDepth" def:"8"`
	Tags     []string      `cfg:"tags"`
	Source   *typeOptions  `cfg:"source"`
	Database struct {
		Driver string `cfg:"driver" def:"sqlite"`
		DSN    string `cfg:"dsn"`
	} `cfg:"database"`
}

func writeFile(t *testing.T, name string, content string) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	Convey("测试 Load", t, func() {
		Convey("yaml", func() {
			path := writeFile(t, "app.yaml", `
name: demo
timeout: 3s
tags: [a, b]
source:
  namespace: github.com/hatlonely/gqlmodel/meta
  type: GormSource
  options:
    tablePrefix: t_
database:
  dsn: ":memory:"
`)
			var options testOptions
			So(Load(path, &options), ShouldBeNil)
			So(options.Name, ShouldEqual, "demo")
			So(options.Mode, ShouldEqual, "strict")
			So(options.Timeout, ShouldEqual, 3*time.Second)
			So(options.MaxDepth, ShouldEqual, 8)
			So(options.Tags, ShouldResemble, []string{"a", "b"})
			So(options.Source.Type, ShouldEqual, "GormSource")
			So(options.Source.Options, ShouldResemble, map[string]any{"tablePrefix": "t_"})
			So(options.Database.Driver, ShouldEqual, "sqlite")
			So(options.Database.DSN, ShouldEqual, ":memory:")
		})

		Convey("json", func() {
			path := writeFile(t, "app.json", `{"name": "demo", "mode": "loose", "maxDepth": 3}`)
			var options testOptions
			So(Load(path, &options), ShouldBeNil)
			So(options.Mode, ShouldEqual, "loose")
			So(options.MaxDepth, ShouldEqual, 3)
		})

		Convey("toml", func() {
			path := writeFile(t, "app.toml", "name = \"demo\"\n[database]\ndriver = \"mysql\"\n")
			var options testOptions
			So(Load(path, &options), ShouldBeNil)
			So(options.Database.Driver, ShouldEqual, "mysql")
		})

		Convey("ini", func() {
			path := writeFile(t, "app.ini", "name = demo\nmaxDepth = 4\n[database]\ndsn = test.db\n")
			var options testOptions
			So(Load(path, &options), ShouldBeNil)
			So(options.MaxDepth, ShouldEqual, 4)
			So(options.Database.DSN, ShouldEqual, "test.db")
		})

		Convey("校验失败", func() {
			path := writeFile(t, "app.yaml", "mode: strict\n")
			var options testOptions
			So(Load(path, &options), ShouldNotBeNil)
		})

		Convey("不支持的格式", func() {
			path := writeFile(t, "app.xml", "<name/>")
			var options testOptions
			So(Load(path, &options), ShouldNotBeNil)
		})

		Convey("文件不存在", func() {
			var options testOptions
			So(Load(filepath.Join(t.TempDir(), "missing.yaml"), &options), ShouldNotBeNil)
		})
	})
}

func TestSetDefaults(t *testing.T) {
	Convey("测试 SetDefaults", t, func() {
		Convey("非零值不会被覆盖", func() {
			options := testOptions{Mode: "loose", MaxDepth: 1}
			So(SetDefaults(&options), ShouldBeNil)
			So(options.Mode, ShouldEqual, "loose")
			So(options.MaxDepth, ShouldEqual, 1)
			So(options.Timeout, ShouldEqual, 5*time.Second)
		})

		Convey("非指针参数", func() {
			So(SetDefaults(testOptions{}), ShouldNotBeNil)
		})

		Convey("非法默认值", func() {
			var bad struct {
				Count int `def:"many"`
			}
			So(SetDefaults(&bad), ShouldNotBeNil)
		})
	})
}
