package path

import (
	"github.com/hatlonely/gqlmodel/ref"
	"github.com/pkg/errors"
)

const Namespace = "github.com/hatlonely/gqlmodel/path"

func init() {
	ref.MustRegisterT[*GormAccessor](NewGormAccessorWithOptions)
	ref.MustRegisterT[*RelatorAccessor](NewRelatorAccessor)
}

// NewAccessorWithOptions 根据配置创建访问器，options 为 nil 时使用不连接数据库的 GormAccessor
func NewAccessorWithOptions(options *ref.TypeOptions) (Accessor, error) {
	if options == nil || options.Type == "" {
		return NewGormAccessorWithOptions(nil)
	}

	if options.Namespace == "" {
		options = &ref.TypeOptions{Namespace: Namespace, Type: options.Type, Options: options.Options}
	}

	accessor, err := ref.NewWithOptions[Accessor](options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.NewWithOptions failed")
	}
	return accessor, nil
}
