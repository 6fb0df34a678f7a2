package meta

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gorm.io/gorm/schema"
)

type GormSourceOptions struct {
	TablePrefix   string `cfg:"tablePrefix"`
	SingularTable bool   `cfg:"singularTable"`
}

// GormSource 通过 gorm 的 schema 解析读取模型元信息
//
// 数组列需要在 gorm tag 中声明类型，例如 `gorm:"type:text[]"`，
// 否则 gorm 会把切片字段当作关联解析。
type GormSource struct {
	cache *sync.Map
	namer schema.Namer
}

func NewGormSourceWithOptions(options *GormSourceOptions) (*GormSource, error) {
	if options == nil {
		options = &GormSourceOptions{}
	}

	return NewGormSource(&sync.Map{}, schema.NamingStrategy{
		TablePrefix:   options.TablePrefix,
		SingularTable: options.SingularTable,
	}), nil
}

// NewGormSource 复用调用方的 schema 缓存与命名策略，通常传入 db.Config 中的同名字段
func NewGormSource(cache *sync.Map, namer schema.Namer) *GormSource {
	return &GormSource{cache: cache, namer: namer}
}

// Schema 返回模型的 gorm schema
func (s *GormSource) Schema(model any) (*schema.Schema, error) {
	if model == nil {
		return nil, errors.Wrap(ErrInvalidModel, "model is nil")
	}
	sch, err := schema.Parse(model, s.cache, s.namer)
	if err != nil {
		return nil, errors.Wrapf(err, "parse gorm schema of %T failed", model)
	}
	return sch, nil
}

func (s *GormSource) Parse(model any) (*Model, error) {
	sch, err := s.Schema(model)
	if err != nil {
		return nil, err
	}
	_, instance, err := structType(model)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Name:       sch.Name,
		Type:       sch.ModelType,
		Enums:      map[string][]string{},
		Validators: map[string][]Validator{},
	}

	for _, field := range sch.Fields {
		if field.DBName == "" {
			continue
		}

		column := Column{Name: field.DBName, FieldName: field.Name}
		column.Type, column.Array = gormColumnType(field)
		m.Columns = append(m.Columns, column)

		if tag := field.Tag.Get("validate"); tag != "" {
			m.Validators[column.Name] = append(m.Validators[column.Name], ParseValidateTag(tag, elemKind(field.FieldType))...)
		}
	}

	m.applyDeclarations(instance)
	return m, nil
}

func gormColumnType(field *schema.Field) (PrimitiveType, bool) {
	dt := string(field.DataType)
	if base, ok := strings.CutSuffix(dt, "[]"); ok {
		return NormalizeType(base), true
	}

	if dt == "" {
		return InferType(field.IndirectFieldType)
	}
	return NormalizeType(dt), false
}
