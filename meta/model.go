// Package meta 描述持久化模型的列、枚举声明与校验规则
//
// 元信息来源于 gorm 的 schema 解析（GormSource）或 rdb struct tag（TagSource），
// 模型还可以通过 EnumDeclarer 和 Validatable 接口补充声明。
package meta

import (
	"reflect"

	"github.com/pkg/errors"
)

var ErrInvalidModel = errors.New("invalid model")

// PrimitiveType 存储层的基础类型标记
type PrimitiveType string

const (
	TypeBoolean   PrimitiveType = "boolean"
	TypeInteger   PrimitiveType = "integer"
	TypeFloat     PrimitiveType = "float"
	TypeString    PrimitiveType = "string"
	TypeText      PrimitiveType = "text"
	TypeDate      PrimitiveType = "date"
	TypeDateTime  PrimitiveType = "datetime"
	TypeDateRange PrimitiveType = "daterange"
	TypeTsRange   PrimitiveType = "tsrange"
	TypeJSON      PrimitiveType = "json"
	TypeBytes     PrimitiveType = "bytes"
)

// Column 模型上的一列
type Column struct {
	Name      string        // 列名，即属性名
	FieldName string        // Go 结构体字段名
	Type      PrimitiveType // 数组列为元素类型
	Array     bool
}

// ValidatorKind 校验规则类型
type ValidatorKind string

const (
	KindInclusion ValidatorKind = "inclusion"
)

// Condition 校验规则的生效条件
type Condition func(entity any) bool

type ValidatorOptions struct {
	In     []any
	If     Condition
	Unless Condition
}

// Validator 属性上的一条校验规则
type Validator struct {
	Kind    ValidatorKind
	Options ValidatorOptions
}

// Conditional 规则是否带有 if/unless 条件
func (v Validator) Conditional() bool {
	return v.Options.If != nil || v.Options.Unless != nil
}

// Inclusion 构造一条无条件的 inclusion 规则
func Inclusion(values ...any) Validator {
	return Validator{Kind: KindInclusion, Options: ValidatorOptions{In: values}}
}

// EnumDeclarer 由模型实现，声明枚举列及其有序的枚举键
type EnumDeclarer interface {
	DeclaredEnums() map[string][]string
}

// Validatable 由模型实现，按属性名声明额外的校验规则
type Validatable interface {
	Validations() map[string][]Validator
}

// Model 解析后的模型元信息，解析完成后只读
type Model struct {
	Name       string
	Type       reflect.Type
	Columns    []Column
	Enums      map[string][]string
	Validators map[string][]Validator
}

// Column 按列名精确查找
func (m *Model) Column(name string) (Column, bool) {
	for _, c := range m.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Enum 返回列声明的枚举键
func (m *Model) Enum(name string) ([]string, bool) {
	keys, ok := m.Enums[name]
	return keys, ok
}

// ValidatorsOn 返回属性上的全部校验规则
func (m *Model) ValidatorsOn(name string) []Validator {
	return m.Validators[name]
}

// attributeName 将 Go 字段名归一为列名，找不到时原样返回
func (m *Model) attributeName(name string) string {
	for _, c := range m.Columns {
		if c.Name == name || c.FieldName == name {
			return c.Name
		}
	}
	return name
}

// applyDeclarations 合并模型通过接口声明的枚举与校验规则
func (m *Model) applyDeclarations(model any) {
	if declarer, ok := model.(EnumDeclarer); ok {
		for name, keys := range declarer.DeclaredEnums() {
			m.Enums[m.attributeName(name)] = append([]string(nil), keys...)
		}
	}
	if validatable, ok := model.(Validatable); ok {
		for name, validators := range validatable.Validations() {
			attr := m.attributeName(name)
			m.Validators[attr] = append(m.Validators[attr], validators...)
		}
	}
}

// Source 模型元信息来源
type Source interface {
	Parse(model any) (*Model, error)
}

// structType 返回模型的结构体类型以及可用于接口断言的实例
func structType(model any) (reflect.Type, any, error) {
	if model == nil {
		return nil, nil, errors.Wrap(ErrInvalidModel, "model is nil")
	}

	rt := reflect.TypeOf(model)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, nil, errors.Wrapf(ErrInvalidModel, "expected struct, got %T", model)
	}

	// 使用零值指针做接口断言，指针和值接收者的方法都能命中
	return rt, reflect.New(rt).Interface(), nil
}
