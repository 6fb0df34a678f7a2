package path

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/hatlonely/gqlmodel/log"
	"github.com/hatlonely/gqlmodel/naming"
	"github.com/hatlonely/gqlmodel/rdb/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type GormAccessorOptions struct {
	// 配置后，值为零的关联会通过数据库按需加载
	Database *database.Options `cfg:"database"`
	Log      *log.Options      `cfg:"log"`
}

// GormAccessor 通过 gorm 的 schema 信息读取实体的关联和属性
//
// 关联名可以是 Go 字段名、小写形式或下划线形式，例如 BillingAccount、billingAccount、billing_account。
// 加载得到的关联不会写回实体。
type GormAccessor struct {
	db     *gorm.DB
	cache  *sync.Map
	namer  schema.Namer
	logger log.Logger
}

func NewGormAccessorWithOptions(options *GormAccessorOptions) (*GormAccessor, error) {
	if options == nil {
		options = &GormAccessorOptions{}
	}

	logger, err := log.NewLogWithOptions(options.Log)
	if err != nil {
		return nil, errors.WithMessage(err, "log.NewLogWithOptions failed")
	}

	var db *gorm.DB
	if options.Database != nil {
		if db, err = database.Open(options.Database); err != nil {
			return nil, errors.WithMessage(err, "database.Open failed")
		}
	}

	return NewGormAccessor(db, logger), nil
}

// NewGormAccessor db 为 nil 时只读取实体上已有的值
func NewGormAccessor(db *gorm.DB, logger log.Logger) *GormAccessor {
	if logger == nil {
		logger = log.Default()
	}

	var namer schema.Namer = schema.NamingStrategy{}
	if db != nil && db.NamingStrategy != nil {
		namer = db.NamingStrategy
	}

	return &GormAccessor{
		db:     db,
		cache:  &sync.Map{},
		namer:  namer,
		logger: logger,
	}
}

func (a *GormAccessor) Relation(ctx context.Context, entity any, name string) any {
	if !isStruct(entity) {
		return nil
	}
	sch, err := schema.Parse(entity, a.cache, a.namer)
	if err != nil {
		a.logger.WarnContext(ctx, "parse gorm schema failed", "type", reflect.TypeOf(entity).String(), "error", err)
		return nil
	}

	rel := lookupRelation(sch, name)
	if rel == nil {
		return nil
	}

	value, zero := rel.Field.ValueOf(ctx, reflect.ValueOf(entity))
	if !zero {
		return asPointer(value)
	}
	if a.db == nil {
		return nil
	}
	return a.load(ctx, entity, rel)
}

func (a *GormAccessor) Attribute(ctx context.Context, entity any, name string) any {
	if !isStruct(entity) {
		return nil
	}
	sch, err := schema.Parse(entity, a.cache, a.namer)
	if err != nil {
		a.logger.WarnContext(ctx, "parse gorm schema failed", "type", reflect.TypeOf(entity).String(), "error", err)
		return nil
	}

	field := sch.LookUpField(name)
	if field == nil {
		field = sch.LookUpField(naming.UpperCamel(name))
	}
	if field == nil {
		return nil
	}

	value, _ := field.ValueOf(ctx, reflect.ValueOf(entity))
	return value
}

// load 从数据库读取值为零的关联，entity 必须是指针
func (a *GormAccessor) load(ctx context.Context, entity any, rel *schema.Relationship) any {
	if reflect.ValueOf(entity).Kind() != reflect.Ptr {
		return nil
	}

	modelType := rel.FieldSchema.ModelType
	switch rel.Type {
	case schema.HasOne, schema.BelongsTo:
		target := reflect.New(modelType)
		if err := a.db.WithContext(ctx).Model(entity).Association(rel.Name).Find(target.Interface()); err != nil {
			a.logger.WarnContext(ctx, "load relation failed", "relation", rel.Name, "error", err)
			return nil
		}
		// Find 没有命中时不报错，以主键是否为零判断
		if pk := rel.FieldSchema.PrioritizedPrimaryField; pk != nil {
			if _, zero := pk.ValueOf(ctx, target); zero {
				return nil
			}
		}
		return target.Interface()
	default:
		targets := reflect.New(reflect.SliceOf(reflect.PointerTo(modelType)))
		if err := a.db.WithContext(ctx).Model(entity).Association(rel.Name).Find(targets.Interface()); err != nil {
			a.logger.WarnContext(ctx, "load relation failed", "relation", rel.Name, "error", err)
			return nil
		}
		return targets.Elem().Interface()
	}
}

func lookupRelation(sch *schema.Schema, name string) *schema.Relationship {
	relations := sch.Relationships.Relations
	if rel, ok := relations[name]; ok {
		return rel
	}
	if rel, ok := relations[naming.UpperCamel(name)]; ok {
		return rel
	}
	for key, rel := range relations {
		if strings.EqualFold(key, name) || strings.EqualFold(naming.Underscore(key), name) {
			return rel
		}
	}
	return nil
}

// isStruct 实体是结构体或指向结构体的非 nil 指针，路径停在 has many 关联时实体是切片
func isStruct(entity any) bool {
	rv := reflect.ValueOf(entity)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct
}

// asPointer 结构体值转换为指针，保证下一跳和鉴权拿到的都是可寻址的实体
func asPointer(value any) any {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Struct {
		return value
	}
	ptr := reflect.New(rv.Type())
	ptr.Elem().Set(rv)
	return ptr.Interface()
}
