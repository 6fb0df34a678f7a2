package meta

import (
	"github.com/hatlonely/gqlmodel/ref"
	"github.com/pkg/errors"
)

// Namespace 本包构造函数在 ref 中注册的命名空间
const Namespace = "github.com/hatlonely/gqlmodel/meta"

func init() {
	ref.MustRegisterT[*GormSource](NewGormSourceWithOptions)
	ref.MustRegisterT[*TagSource](NewTagSource)
}

// NewSourceWithOptions 根据配置创建元信息来源，options 为 nil 时使用 GormSource
func NewSourceWithOptions(options *ref.TypeOptions) (Source, error) {
	if options == nil || options.Type == "" {
		return NewGormSourceWithOptions(nil)
	}

	if options.Namespace == "" {
		options = &ref.TypeOptions{Namespace: Namespace, Type: options.Type, Options: options.Options}
	}

	source, err := ref.NewWithOptions[Source](options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.NewWithOptions failed")
	}
	return source, nil
}
