package binder

import (
	"reflect"
	"regexp"

	"github.com/hatlonely/gqlmodel/cfg/validator"
	"github.com/hatlonely/gqlmodel/log"
	"github.com/hatlonely/gqlmodel/ref"
)

var nameRegex = regexp.MustCompile(`^[_a-zA-Z][_a-zA-Z0-9]*$`)

func init() {
	if err := validator.RegisterValidation("graphqlname", func(value reflect.Value) bool {
		return nameRegex.MatchString(value.String())
	}); err != nil {
		panic(err)
	}
}

type Options struct {
	// 模型元信息来源，默认 GormSource
	Source *ref.TypeOptions `cfg:"source"`
	// 关联与属性访问器，默认不连接数据库的 GormAccessor
	Accessor *ref.TypeOptions `cfg:"accessor"`
	Log      *log.Options     `cfg:"log"`
}

// AttributeOptions 绑定列属性时的可选项
type AttributeOptions struct {
	// 字段名，为空时使用属性名的小驼峰形式
	Name              string `cfg:"name" validate:"omitempty,graphqlname"`
	Description       string `cfg:"description"`
	DeprecationReason string `cfg:"deprecationReason"`
}

// TypedFieldOptions 绑定自定义类型字段时的可选项
type TypedFieldOptions struct {
	Name string `cfg:"name" validate:"omitempty,graphqlname"`
}
