package main

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/hatlonely/gqlmodel/auth"
	"github.com/hatlonely/gqlmodel/binder"
	"github.com/hatlonely/gqlmodel/log"
	"github.com/hatlonely/gqlmodel/meta"
	"github.com/hatlonely/gqlmodel/path"
	"github.com/hatlonely/gqlmodel/rangex"
	"github.com/hatlonely/gqlmodel/rdb/database"
	"github.com/hatlonely/gqlmodel/rdb/query"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Account struct {
	ID   uint
	Name string
	Role string `validate:"oneof=admin member"`
}

type Project struct {
	ID          uint
	Name        string
	Status      string
	Priority    int `validate:"oneof=1 2 3"`
	ValidPeriod rangex.DateRange
	OwnerID     uint
	Owner       *Account
}

func (Project) DeclaredEnums() map[string][]string {
	return map[string][]string{"status": {"draft", "active", "archived"}}
}

type userKey struct{}

func withUser(ctx context.Context, user uint) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// App 示例数据库上的 GraphQL schema
type App struct {
	db         *gorm.DB
	schema     graphql.Schema
	authorizer auth.Authorizer
	logger     log.Logger
}

func NewApp(config *Config) (*App, error) {
	logger, err := log.NewLogWithOptions(config.Log)
	if err != nil {
		return nil, errors.WithMessage(err, "log.NewLogWithOptions failed")
	}
	db, err := database.Open(&config.Database)
	if err != nil {
		return nil, errors.WithMessage(err, "database.Open failed")
	}
	if !config.SkipSeed {
		if err := seed(db); err != nil {
			return nil, errors.WithMessage(err, "seed failed")
		}
	}

	source, err := meta.NewSourceWithOptions(config.Binder.Source)
	if err != nil {
		return nil, errors.WithMessage(err, "meta.NewSourceWithOptions failed")
	}
	var accessor path.Accessor = path.NewGormAccessor(db, logger)
	if config.Binder.Accessor != nil {
		if accessor, err = path.NewAccessorWithOptions(config.Binder.Accessor); err != nil {
			return nil, errors.WithMessage(err, "path.NewAccessorWithOptions failed")
		}
	}

	s, err := buildSchema(binder.NewBinder(source, accessor, logger), db)
	if err != nil {
		return nil, errors.WithMessage(err, "build schema failed")
	}

	// 用户只能读自己负责的项目，用户 0 不受限制
	authorizer := auth.NewScopeAuthorizer(db, logger)
	auth.Scope[Project](authorizer, func(ctx context.Context) (query.Query, bool) {
		user, ok := ctx.Value(userKey{}).(uint)
		if !ok {
			return nil, false
		}
		if user == 0 {
			return nil, true
		}
		return &query.TermQuery{Field: "owner_id", Value: user}, true
	})
	auth.Scope[Account](authorizer, func(ctx context.Context) (query.Query, bool) {
		_, ok := ctx.Value(userKey{}).(uint)
		return nil, ok
	})

	return &App{db: db, schema: s, authorizer: authorizer, logger: logger}, nil
}

// Do 执行查询，ctx 中没有用户时所有项目字段都为 null
func (a *App) Do(ctx context.Context, request string, variables map[string]any, operationName string) *graphql.Result {
	ctx = auth.WithAuthorizer(ctx, a.authorizer)
	result := graphql.Do(graphql.Params{
		Schema:         a.schema,
		RequestString:  request,
		VariableValues: variables,
		OperationName:  operationName,
		Context:        ctx,
	})
	if result.HasErrors() {
		a.logger.WarnContext(ctx, "query failed", "errors", result.Errors)
	}
	return result
}

func buildSchema(b *binder.Binder, db *gorm.DB) (graphql.Schema, error) {
	accountFields := graphql.Fields{}
	if err := b.BindAttributes(binder.FieldsSink(accountFields), &Account{}, nil, "id", "name", "role"); err != nil {
		return graphql.Schema{}, err
	}
	accountType := graphql.NewObject(graphql.ObjectConfig{Name: "Account", Fields: accountFields})

	projectFields := graphql.Fields{}
	sink := binder.FieldsSink(projectFields)
	if err := b.BindAttributes(sink, &Project{}, nil, "id", "name", "status", "priority", "valid_period"); err != nil {
		return graphql.Schema{}, err
	}
	if err := b.BindAttribute(sink, &Account{}, path.Path{"owner"}, "name", &binder.AttributeOptions{
		Name:        "ownerName",
		Description: "Name of the project owner",
	}); err != nil {
		return graphql.Schema{}, err
	}
	if err := b.BindTypedField(sink, &Project{}, path.Path{"owner"}, &binder.TypedAttribute{
		Type: accountType,
		ResolveFunc: func(ctx context.Context, entity any, fieldName string) any {
			return entity
		},
	}, "owner", nil); err != nil {
		return graphql.Schema{}, err
	}
	projectType := graphql.NewObject(graphql.ObjectConfig{Name: "Project", Fields: projectFields})

	status, err := b.BindArgument(&Project{}, "status")
	if err != nil {
		return graphql.Schema{}, err
	}
	priority, err := b.BindArgument(&Project{}, "priority")
	if err != nil {
		return graphql.Schema{}, err
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"projects": &graphql.Field{
				Type: graphql.NewList(projectType),
				Args: graphql.FieldConfigArgument{"status": status, "priority": priority},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					tx := db.WithContext(p.Context).Order("id")
					if v, ok := p.Args["status"]; ok {
						tx = tx.Where("status = ?", v)
					}
					if v, ok := p.Args["priority"]; ok {
						if err := b.CheckArgument(p.Context, &Project{}, "priority", v); err != nil {
							return nil, err
						}
						tx = tx.Where("priority = ?", v)
					}
					var projects []*Project
					if err := tx.Find(&projects).Error; err != nil {
						return nil, errors.Wrap(err, "find projects failed")
					}
					return projects, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

func seed(db *gorm.DB) error {
	if err := db.AutoMigrate(&Account{}, &Project{}); err != nil {
		return errors.Wrap(err, "auto migrate failed")
	}

	var count int64
	if err := db.Model(&Account{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count accounts failed")
	}
	if count > 0 {
		return nil
	}

	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	return db.Transaction(func(tx *gorm.DB) error {
		alice := &Account{Name: "alice", Role: "admin"}
		bob := &Account{Name: "bob", Role: "member"}
		if err := tx.Create([]*Account{alice, bob}).Error; err != nil {
			return err
		}
		return tx.Create([]*Project{
			{Name: "apollo", Status: "active", Priority: 1, OwnerID: alice.ID, ValidPeriod: rangex.NewDateRange(day(2024, 1, 1), day(2024, 12, 31))},
			{Name: "gemini", Status: "draft", Priority: 2, OwnerID: bob.ID, ValidPeriod: rangex.NewDateRange(day(2025, 1, 1), day(2025, 6, 30))},
			{Name: "mercury", Status: "archived", Priority: 3, OwnerID: alice.ID},
		}).Error
	})
}
