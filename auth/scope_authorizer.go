package auth

import (
	"context"
	"reflect"
	"sync"

	"github.com/hatlonely/gqlmodel/log"
	"github.com/hatlonely/gqlmodel/rdb/database"
	"github.com/hatlonely/gqlmodel/rdb/query"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScopeFunc 返回当前请求可读的数据行范围
//
// ok 为 false 表示没有任何可读的行；q 为 nil 表示不限制。
type ScopeFunc func(ctx context.Context) (q query.Query, ok bool)

type ScopeAuthorizerOptions struct {
	Database *database.Options `cfg:"database" validate:"required"`
	Log      *log.Options      `cfg:"log"`

	// 未注册范围的类型是否允许读取
	AllowUnscoped bool `cfg:"allowUnscoped"`
}

// ScopeAuthorizer 按实体类型注册可读范围，通过查询数据库判断实体的主键是否落在范围内
//
// 每个字段解析都会调用一次 CanRead，即每个字段一条 COUNT 查询，结果不做缓存。
type ScopeAuthorizer struct {
	db            *gorm.DB
	logger        log.Logger
	allowUnscoped bool

	mu     sync.RWMutex
	scopes map[reflect.Type]ScopeFunc
}

func NewScopeAuthorizerWithOptions(options *ScopeAuthorizerOptions) (*ScopeAuthorizer, error) {
	if options == nil || options.Database == nil {
		return nil, errors.New("database options is required")
	}

	logger, err := log.NewLogWithOptions(options.Log)
	if err != nil {
		return nil, errors.WithMessage(err, "log.NewLogWithOptions failed")
	}
	db, err := database.Open(options.Database)
	if err != nil {
		return nil, errors.WithMessage(err, "database.Open failed")
	}

	a := NewScopeAuthorizer(db, logger)
	a.allowUnscoped = options.AllowUnscoped
	return a, nil
}

func NewScopeAuthorizer(db *gorm.DB, logger log.Logger) *ScopeAuthorizer {
	if logger == nil {
		logger = log.Default()
	}
	return &ScopeAuthorizer{
		db:     db,
		logger: logger,
		scopes: map[reflect.Type]ScopeFunc{},
	}
}

// Scope 为模型类型 T 注册可读范围
func Scope[T any](a *ScopeAuthorizer, fn ScopeFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scopes[indirectType(reflect.TypeOf((*T)(nil)).Elem())] = fn
}

func (a *ScopeAuthorizer) CanRead(ctx context.Context, entity any) bool {
	if entity == nil {
		return false
	}
	rt := indirectType(reflect.TypeOf(entity))

	a.mu.RLock()
	fn, ok := a.scopes[rt]
	a.mu.RUnlock()
	if !ok {
		return a.allowUnscoped
	}

	q, ok := fn(ctx)
	if !ok {
		return false
	}
	if q == nil {
		return true
	}

	where, args, err := q.ToSQL()
	if err != nil {
		a.logger.WarnContext(ctx, "render scope query failed", "type", rt.String(), "error", err)
		return false
	}

	stmt := &gorm.Statement{DB: a.db}
	if err := stmt.Parse(reflect.New(rt).Interface()); err != nil {
		a.logger.WarnContext(ctx, "parse model failed", "type", rt.String(), "error", err)
		return false
	}
	if len(stmt.Schema.PrimaryFields) == 0 {
		a.logger.WarnContext(ctx, "model has no primary key", "type", rt.String())
		return false
	}

	tx := a.db.WithContext(ctx).Model(reflect.New(rt).Interface()).Where(where, args...)
	rv := reflect.ValueOf(entity)
	for _, field := range stmt.Schema.PrimaryFields {
		value, zero := field.ValueOf(ctx, rv)
		// 尚未保存的实体不在任何范围内
		if zero {
			return false
		}
		tx = tx.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: field.DBName}, Value: value})
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		a.logger.WarnContext(ctx, "count scoped rows failed", "type", rt.String(), "error", err)
		return false
	}
	return count > 0
}

func indirectType(rt reflect.Type) reflect.Type {
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	return rt
}
