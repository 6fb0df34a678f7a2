package meta

import (
	"reflect"
	"strings"
	"sync"

	"github.com/hatlonely/gqlmodel/naming"
	"github.com/pkg/errors"
)

// TagSource 从 rdb struct tag 读取模型元信息，不依赖 ORM
//
// 支持的 tag 格式：
//   - `rdb:"column_name,type=daterange,array,enum=draft|active|archived"`
//   - `rdb:"-"` 忽略字段
//
// 未指定列名时使用字段名的下划线形式，未指定类型时从 Go 类型推断。
// oneof 规则从同一字段的 validate tag 中读取。
type TagSource struct {
	cache sync.Map
}

func NewTagSource() *TagSource {
	return &TagSource{}
}

func (s *TagSource) Parse(model any) (*Model, error) {
	rt, instance, err := structType(model)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Load(rt); ok {
		return cached.(*Model), nil
	}

	m := &Model{
		Name:       rt.Name(),
		Type:       rt,
		Enums:      map[string][]string{},
		Validators: map[string][]Validator{},
	}
	if err := s.parseFields(m, rt); err != nil {
		return nil, errors.WithMessagef(err, "parse model %s failed", rt.Name())
	}
	m.applyDeclarations(instance)

	actual, _ := s.cache.LoadOrStore(rt, m)
	return actual.(*Model), nil
}

func (s *TagSource) parseFields(m *Model, rt reflect.Type) error {
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("rdb")
		if tag == "-" {
			continue
		}

		// 匿名嵌入的结构体展开为当前模型的列
		if field.Anonymous && tag == "" {
			ft := field.Type
			for ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && ft != timeType {
				if err := s.parseFields(m, ft); err != nil {
					return err
				}
				continue
			}
		}

		column, enum, err := parseFieldTag(field, tag)
		if err != nil {
			return errors.WithMessagef(err, "field %s", field.Name)
		}
		if _, exists := m.Column(column.Name); exists {
			return errors.Errorf("duplicate column %s", column.Name)
		}

		m.Columns = append(m.Columns, column)
		if enum != nil {
			m.Enums[column.Name] = enum
		}
		if validate := field.Tag.Get("validate"); validate != "" {
			m.Validators[column.Name] = append(m.Validators[column.Name], ParseValidateTag(validate, elemKind(field.Type))...)
		}
	}
	return nil
}

// parseFieldTag 解析字段的 rdb tag
func parseFieldTag(field reflect.StructField, tag string) (Column, []string, error) {
	column := Column{
		Name:      naming.Underscore(field.Name),
		FieldName: field.Name,
	}
	column.Type, column.Array = InferType(field.Type)

	var enum []string
	if tag == "" {
		return column, enum, nil
	}

	parts := strings.Split(tag, ",")
	if parts[0] != "" && !strings.Contains(parts[0], "=") {
		column.Name = parts[0]
		parts = parts[1:]
	}

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, hasValue := strings.Cut(part, "=")
		switch {
		case key == "type" && hasValue:
			if base, ok := strings.CutSuffix(value, "[]"); ok {
				column.Type, column.Array = NormalizeType(base), true
			} else {
				column.Type = NormalizeType(value)
			}
		case key == "array" && !hasValue:
			column.Array = true
		case key == "enum" && hasValue:
			enum = strings.Split(value, "|")
		default:
			return column, nil, errors.Errorf("unknown rdb tag option %q", part)
		}
	}

	return column, enum, nil
}
