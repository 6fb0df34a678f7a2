// Package binder 把模型属性绑定为 graphql-go 字段
//
// 字段的解析函数先沿关联路径找到目标实体，再用 context 中的鉴权器检查读权限，
// 最后按列类型取值：区间拆成两个字符串端点，枚举转换为字符串，其余原样返回。
// 属性不存在是定义期错误，解析期的路径中断和无权限都返回 null。
package binder

import (
	"context"
	"fmt"
	"strings"

	"github.com/graphql-go/graphql"
	"github.com/hatlonely/gqlmodel/cfg/validator"
	"github.com/hatlonely/gqlmodel/log"
	"github.com/hatlonely/gqlmodel/meta"
	"github.com/hatlonely/gqlmodel/naming"
	"github.com/hatlonely/gqlmodel/path"
	"github.com/hatlonely/gqlmodel/schema"
	"github.com/pkg/errors"
)

type Binder struct {
	inspector *schema.Inspector
	accessor  path.Accessor
	logger    log.Logger
}

func NewBinderWithOptions(options *Options) (*Binder, error) {
	if options == nil {
		options = &Options{}
	}

	logger, err := log.NewLogWithOptions(options.Log)
	if err != nil {
		return nil, errors.WithMessage(err, "log.NewLogWithOptions failed")
	}
	source, err := meta.NewSourceWithOptions(options.Source)
	if err != nil {
		return nil, errors.WithMessage(err, "meta.NewSourceWithOptions failed")
	}
	accessor, err := path.NewAccessorWithOptions(options.Accessor)
	if err != nil {
		return nil, errors.WithMessage(err, "path.NewAccessorWithOptions failed")
	}

	return NewBinder(source, accessor, logger), nil
}

func NewBinder(source meta.Source, accessor path.Accessor, logger log.Logger) *Binder {
	if logger == nil {
		logger = log.Default()
	}
	return &Binder{
		inspector: schema.NewInspector(source, logger),
		accessor:  accessor,
		logger:    logger,
	}
}

func (b *Binder) Inspector() *schema.Inspector {
	return b.inspector
}

// BindAttribute 将 model 上名为 attribute 的列绑定为字段，字段值从沿 p 找到的实体上读取
func (b *Binder) BindAttribute(sink Sink, model any, p path.Path, attribute string, options *AttributeOptions) error {
	if options == nil {
		options = &AttributeOptions{}
	}
	if err := validator.ValidateStruct(options); err != nil {
		return errors.Wrapf(err, "invalid options for attribute %s", attribute)
	}

	desc, err := b.inspector.InspectColumn(model, attribute, options.Name)
	if err != nil {
		return err
	}

	r := resolution{
		path:      p.Clone(),
		attribute: attribute,
		isRange:   desc.IsRange,
		isEnum:    desc.Enum != nil,
	}
	sink.AddField(desc.FieldName, &graphql.Field{
		Name:              desc.FieldName,
		Type:              desc.Type,
		Description:       options.Description,
		DeprecationReason: options.DeprecationReason,
		Resolve:           b.resolver(r),
	})

	if b.logger.Enabled(context.Background(), log.LevelDebug) {
		b.logger.Debug("attribute bound", "model", desc.Model, "attribute", attribute, "field", desc.FieldName, "path", r.path.String())
	}
	return nil
}

// BindAttributes 按默认选项依次绑定多个属性，遇到错误立即返回
func (b *Binder) BindAttributes(sink Sink, model any, p path.Path, attributes ...string) error {
	for _, attribute := range attributes {
		if err := b.BindAttribute(sink, model, p, attribute, nil); err != nil {
			return err
		}
	}
	return nil
}

// BindTypedField 绑定由 AttributeType 决定类型和取值的字段，经过同样的路径访问和鉴权
func (b *Binder) BindTypedField(sink Sink, model any, p path.Path, attributeType AttributeType, fieldName string, options *TypedFieldOptions) error {
	if attributeType == nil {
		return errors.Errorf("attribute type of field %s is nil", fieldName)
	}
	if fieldName == "" {
		return errors.New("field name cannot be empty")
	}
	if options == nil {
		options = &TypedFieldOptions{}
	}
	if err := validator.ValidateStruct(options); err != nil {
		return errors.Wrapf(err, "invalid options for field %s", fieldName)
	}

	name := options.Name
	if name == "" {
		name = naming.LowerCamel(fieldName)
	}

	r := resolution{
		path:      p.Clone(),
		attribute: fieldName,
		typed:     attributeType,
	}
	sink.AddField(name, &graphql.Field{
		Name:    name,
		Type:    attributeType.GraphQLType(),
		Resolve: b.resolver(r),
	})

	if b.logger.Enabled(context.Background(), log.LevelDebug) {
		b.logger.Debug("typed field bound", "model", fmt.Sprintf("%T", model), "field", name, "path", r.path.String())
	}
	return nil
}

// BindArgument 生成与列类型一致的参数定义，存在允许值时写入描述
func (b *Binder) BindArgument(model any, attribute string) (*graphql.ArgumentConfig, error) {
	desc, err := b.inspector.InspectColumn(model, attribute, "")
	if err != nil {
		return nil, err
	}
	input, ok := desc.Type.(graphql.Input)
	if !ok {
		return nil, errors.Errorf("type %s of attribute %s is not an input type", desc.Type.Name(), attribute)
	}

	permitted, present, err := b.inspector.DetectPermittedValues(model, attribute)
	if err != nil {
		return nil, err
	}

	argument := &graphql.ArgumentConfig{Type: input}
	if present {
		values := make([]string, 0, len(permitted))
		for _, v := range permitted {
			values = append(values, fmt.Sprint(v))
		}
		argument.Description = "One of: " + strings.Join(values, ", ")
	}
	return argument, nil
}

// CheckArgument 校验请求参数是否在属性允许的取值之内
func (b *Binder) CheckArgument(ctx context.Context, model any, attribute string, value any) error {
	permitted, present, err := b.inspector.DetectPermittedValues(model, attribute)
	if err != nil {
		return err
	}
	if err := schema.ValidateArgument(value, permitted, present); err != nil {
		b.logger.DebugContext(ctx, "argument rejected", "attribute", attribute, "error", err)
		return errors.WithMessagef(err, "argument %s", naming.LowerCamel(attribute))
	}
	return nil
}
