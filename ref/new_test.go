package ref

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

type Source struct {
	Prefix  string
	Timeout time.Duration
}

type SourceOptions struct {
	Prefix  string        `cfg:"prefix"`
	Timeout time.Duration `cfg:"timeout"`
}

func NewSourceWithOptions(options *SourceOptions) (*Source, error) {
	if options.Prefix == "invalid" {
		return nil, errors.New("invalid prefix")
	}
	return &Source{Prefix: options.Prefix, Timeout: options.Timeout}, nil
}

func NewDefaultSource() *Source {
	return &Source{Prefix: "default"}
}

func TestRegisterAndNew(t *testing.T) {
	Convey("测试 Register 和 New", t, func() {
		So(Register("test-new", "Source", NewSourceWithOptions), ShouldBeNil)
		So(Register("test-new", "DefaultSource", NewDefaultSource), ShouldBeNil)

		Convey("结构体指针参数", func() {
			obj, err := New("test-new", "Source", &SourceOptions{Prefix: "t_"})
			So(err, ShouldBeNil)
			So(obj.(*Source).Prefix, ShouldEqual, "t_")
		})

		Convey("map 参数按 cfg tag 转换", func() {
			obj, err := New("test-new", "Source", map[string]any{
				"prefix":  "m_",
				"timeout": "3s",
			})
			So(err, ShouldBeNil)
			So(obj.(*Source).Prefix, ShouldEqual, "m_")
			So(obj.(*Source).Timeout, ShouldEqual, 3*time.Second)
		})

		Convey("nil 参数使用零值", func() {
			obj, err := New("test-new", "Source", nil)
			So(err, ShouldBeNil)
			So(obj.(*Source).Prefix, ShouldEqual, "")
		})

		Convey("无参构造函数", func() {
			obj, err := New("test-new", "DefaultSource", nil)
			So(err, ShouldBeNil)
			So(obj.(*Source).Prefix, ShouldEqual, "default")
		})

		Convey("构造函数返回错误", func() {
			_, err := New("test-new", "Source", &SourceOptions{Prefix: "invalid"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "invalid prefix")
		})

		Convey("未注册的类型", func() {
			_, err := New("test-new", "NotExist", nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDuplicateRegister(t *testing.T) {
	Convey("测试重复注册", t, func() {
		So(Register("test-duplicate", "Source", NewSourceWithOptions), ShouldBeNil)
		So(Register("test-duplicate", "Source", NewSourceWithOptions), ShouldBeNil)

		err := Register("test-duplicate", "Source", NewDefaultSource)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldEqual, "constructor for test-duplicate:Source already registered with different function")

		So(func() { MustRegister("test-duplicate", "Source", NewDefaultSource) }, ShouldPanic)
	})
}

func TestInvalidConstructor(t *testing.T) {
	Convey("测试非法的构造函数", t, func() {
		So(Register("test-invalid", "NotFunc", 1), ShouldNotBeNil)
		So(Register("test-invalid", "TwoArgs", func(a, b int) int { return a + b }), ShouldNotBeNil)
		So(Register("test-invalid", "BadReturn", func() (int, int) { return 1, 2 }), ShouldNotBeNil)
	})
}

func TestNewT(t *testing.T) {
	Convey("测试 RegisterT 和 NewT", t, func() {
		So(RegisterT[*Source](NewSourceWithOptions), ShouldBeNil)

		source, err := NewT[*Source](&SourceOptions{Prefix: "generic"})
		So(err, ShouldBeNil)
		So(source.Prefix, ShouldEqual, "generic")

		obj, err := New("github.com/hatlonely/gqlmodel/ref", "Source", &SourceOptions{Prefix: "by-name"})
		So(err, ShouldBeNil)
		So(obj.(*Source).Prefix, ShouldEqual, "by-name")
	})
}

func TestNewWithOptions(t *testing.T) {
	Convey("测试 NewWithOptions", t, func() {
		MustRegister("test-with-options", "Source", NewSourceWithOptions)

		Convey("类型匹配", func() {
			source, err := NewWithOptions[*Source](&TypeOptions{
				Namespace: "test-with-options",
				Type:      "Source",
				Options:   map[string]any{"prefix": "x"},
			})
			So(err, ShouldBeNil)
			So(source.Prefix, ShouldEqual, "x")
		})

		Convey("类型不匹配", func() {
			_, err := NewWithOptions[*SourceOptions](&TypeOptions{Namespace: "test-with-options", Type: "Source"})
			So(err, ShouldNotBeNil)
		})

		Convey("nil options", func() {
			_, err := NewWithOptions[*Source](nil)
			So(err, ShouldNotBeNil)
		})
	})
}

type PoolOptions struct {
	Size int           `cfg:"size" def:"8" validate:"gte=1,lte=64"`
	Idle time.Duration `cfg:"idle" def:"30s"`
}

type Pool struct {
	options PoolOptions
}

func NewPoolWithOptions(options *PoolOptions) *Pool {
	return &Pool{options: *options}
}

func TestConvertOptions(t *testing.T) {
	Convey("测试参数转换时的默认值与校验", t, func() {
		MustRegister("test-convert", "Pool", NewPoolWithOptions)

		Convey("nil 参数补齐默认值", func() {
			obj, err := New("test-convert", "Pool", nil)
			So(err, ShouldBeNil)
			So(obj.(*Pool).options, ShouldResemble, PoolOptions{Size: 8, Idle: 30 * time.Second})
		})

		Convey("map 参数补齐缺失字段", func() {
			obj, err := New("test-convert", "Pool", map[string]any{"size": "16"})
			So(err, ShouldBeNil)
			So(obj.(*Pool).options, ShouldResemble, PoolOptions{Size: 16, Idle: 30 * time.Second})
		})

		Convey("map 参数校验失败", func() {
			_, err := New("test-convert", "Pool", map[string]any{"size": 100})
			So(err, ShouldNotBeNil)
		})

		Convey("结构体参数原样传入", func() {
			obj, err := New("test-convert", "Pool", &PoolOptions{Size: 2})
			So(err, ShouldBeNil)
			So(obj.(*Pool).options.Idle, ShouldEqual, time.Duration(0))
		})
	})
}
