package schema

import (
	"sort"
	"strings"
	"sync"

	"github.com/graphql-go/graphql"
	"github.com/hatlonely/gqlmodel/log"
	"github.com/hatlonely/gqlmodel/meta"
	"github.com/hatlonely/gqlmodel/naming"
	"github.com/pkg/errors"
)

var ErrAttributeNotFound = errors.New("attribute not found")

// ColumnDescriptor 一个模型属性对应的 GraphQL 字段描述，创建后只读
type ColumnDescriptor struct {
	Model     string
	Column    meta.Column
	IsRange   bool
	FieldName string
	Type      graphql.Output

	// 枚举列才有，EnumKeys 保持声明顺序
	Enum     *graphql.Enum
	EnumKeys []string
}

// Inspector 读取模型元信息并生成列描述
//
// 同名的枚举类型只创建一次，graphql-go 要求 schema 内类型名唯一。
type Inspector struct {
	source meta.Source
	logger log.Logger

	mu    sync.Mutex
	enums map[string]*graphql.Enum
}

func NewInspector(source meta.Source, logger log.Logger) *Inspector {
	if logger == nil {
		logger = log.Default()
	}
	return &Inspector{
		source: source,
		logger: logger,
		enums:  map[string]*graphql.Enum{},
	}
}

// Model 解析模型元信息
func (i *Inspector) Model(model any) (*meta.Model, error) {
	m, err := i.source.Parse(model)
	if err != nil {
		return nil, errors.WithMessagef(err, "parse model %T failed", model)
	}
	return m, nil
}

// InspectColumn 查找模型上名为 attribute 的列并生成描述，name 非空时作为字段名
func (i *Inspector) InspectColumn(model any, attribute string, name string) (*ColumnDescriptor, error) {
	m, err := i.Model(model)
	if err != nil {
		return nil, err
	}

	column, ok := m.Column(attribute)
	if !ok {
		return nil, errors.Wrapf(ErrAttributeNotFound, "the attribute %s wasn't found on model %s", attribute, m.Name)
	}

	desc := &ColumnDescriptor{
		Model:     m.Name,
		Column:    column,
		IsRange:   strings.HasSuffix(string(column.Type), "range"),
		FieldName: name,
	}
	if desc.FieldName == "" {
		desc.FieldName = naming.LowerCamel(attribute)
	}

	if keys, ok := m.Enum(attribute); ok {
		desc.Enum = i.enumType(m.Name, attribute, keys)
		desc.EnumKeys = append([]string(nil), keys...)
		desc.Type = desc.Enum
	} else {
		desc.Type = MapPrimitive(column.Type)
	}

	if column.Array {
		desc.Type = graphql.NewList(desc.Type)
	}

	return desc, nil
}

func (i *Inspector) enumType(modelName string, attribute string, keys []string) *graphql.Enum {
	name := modelName + naming.Classify(attribute)

	i.mu.Lock()
	defer i.mu.Unlock()

	if enum, ok := i.enums[name]; ok {
		return enum
	}

	values := graphql.EnumValueConfigMap{}
	for _, key := range keys {
		values[key] = &graphql.EnumValueConfig{
			Value:       key,
			Description: naming.Titleize(key),
		}
	}
	enum := graphql.NewEnum(graphql.EnumConfig{
		Name:        name,
		Description: naming.Titleize(attribute) + " field on " + naming.Titleize(modelName),
		Values:      values,
	})
	// EnumValueConfigMap 是 map，Values 返回的是枚举内部的切片，按声明顺序原地重排
	order := make(map[string]int, len(keys))
	for idx, key := range keys {
		order[key] = idx
	}
	defs := enum.Values()
	sort.SliceStable(defs, func(a, b int) bool {
		return order[defs[a].Name] < order[defs[b].Name]
	})
	i.enums[name] = enum

	i.logger.Debug("enum type created", "name", name, "values", keys)
	return enum
}
