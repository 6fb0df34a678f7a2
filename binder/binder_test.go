package binder

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/hatlonely/gqlmodel/auth"
	"github.com/hatlonely/gqlmodel/meta"
	"github.com/hatlonely/gqlmodel/path"
	"github.com/hatlonely/gqlmodel/rangex"
	"github.com/hatlonely/gqlmodel/ref"
	"github.com/hatlonely/gqlmodel/schema"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

type Status string

type period struct {
	start time.Time
	end   time.Time
}

func (p period) First() any { return p.start }
func (p period) Last() any  { return p.end }

func (period) GormDataType() string { return "daterange" }

type Account struct {
	ID   uint
	Name string
}

type Project struct {
	ID          uint
	Name        string
	Status      Status
	Priority    int `validate:"oneof=1 2 3,oneof=2 3 4"`
	ValidPeriod rangex.DateRange
	Span        period
	Labels      []string `gorm:"type:text[]"`
	CreatedAt   time.Time
	OwnerID     uint
	Owner       *Account
}

func (Project) DeclaredEnums() map[string][]string {
	return map[string][]string{"status": {"draft", "active", "archived"}}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newProject(id uint) *Project {
	return &Project{
		ID:          id,
		Name:        fmt.Sprintf("project-%d", id),
		Status:      "active",
		Priority:    2,
		ValidPeriod: rangex.NewDateRange(date(2020, 1, 1), date(2020, 12, 31)),
		Span:        period{start: date(2020, 1, 1), end: date(2020, 12, 31)},
		Labels:      []string{"go", "graphql"},
		CreatedAt:   time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC),
		OwnerID:     100 + id,
		Owner:       &Account{ID: 100 + id, Name: fmt.Sprintf("owner-%d", id)},
	}
}

func newBinder() *Binder {
	binder, err := NewBinderWithOptions(nil)
	if err != nil {
		panic(err)
	}
	return binder
}

func allow() context.Context {
	return auth.WithAuthorizer(context.Background(), auth.AllowAll)
}

func deny() context.Context {
	return auth.WithAuthorizer(context.Background(), auth.DenyAll)
}

func resolveField(field *graphql.Field, ctx context.Context, source any) (any, error) {
	return field.Resolve(graphql.ResolveParams{Source: source, Context: ctx})
}

func TestBindAttribute(t *testing.T) {
	Convey("测试 BindAttribute", t, func() {
		binder := newBinder()
		fields := graphql.Fields{}
		sink := FieldsSink(fields)
		project := newProject(1)

		Convey("枚举列", func() {
			So(binder.BindAttribute(sink, &Project{}, nil, "status", nil), ShouldBeNil)
			field := fields["status"]
			So(field, ShouldNotBeNil)
			So(field.Type.Name(), ShouldEqual, "ProjectStatus")

			value, err := resolveField(field, allow(), project)
			So(err, ShouldBeNil)
			So(value, ShouldEqual, "active")

			value, err = resolveField(field, deny(), project)
			So(err, ShouldBeNil)
			So(value, ShouldBeNil)

			value, err = resolveField(field, context.Background(), project)
			So(err, ShouldBeNil)
			So(value, ShouldBeNil)
		})

		Convey("同一枚举绑定两次复用类型", func() {
			other := graphql.Fields{}
			So(binder.BindAttribute(sink, &Project{}, nil, "status", nil), ShouldBeNil)
			So(binder.BindAttribute(FieldsSink(other), &Project{}, nil, "status", &AttributeOptions{Name: "state"}), ShouldBeNil)
			So(other["state"].Type, ShouldEqual, fields["status"].Type)
		})

		Convey("区间列优先使用 LastIncluded", func() {
			So(binder.BindAttribute(sink, &Project{}, nil, "valid_period", nil), ShouldBeNil)
			value, err := resolveField(fields["validPeriod"], allow(), project)
			So(err, ShouldBeNil)
			So(value, ShouldResemble, []any{"2020-01-01", "2020-12-31"})
		})

		Convey("区间值没有 LastIncluded 时退回 Last", func() {
			So(binder.BindAttribute(sink, &Project{}, nil, "span", nil), ShouldBeNil)
			value, err := resolveField(fields["span"], allow(), project)
			So(err, ShouldBeNil)
			So(value, ShouldResemble, []any{"2020-01-01", "2020-12-31"})
		})

		Convey("普通列原样返回", func() {
			So(binder.BindAttributes(sink, &Project{}, nil, "name", "priority", "labels", "created_at"), ShouldBeNil)
			So(fields, ShouldContainKey, "createdAt")

			value, err := resolveField(fields["name"], allow(), project)
			So(err, ShouldBeNil)
			So(value, ShouldEqual, "project-1")

			value, err = resolveField(fields["labels"], allow(), project)
			So(err, ShouldBeNil)
			So(value, ShouldResemble, []string{"go", "graphql"})

			value, err = resolveField(fields["createdAt"], allow(), project)
			So(err, ShouldBeNil)
			So(value, ShouldEqual, project.CreatedAt)
		})

		Convey("字段选项", func() {
			So(binder.BindAttribute(sink, &Project{}, nil, "name", &AttributeOptions{
				Name:              "title",
				Description:       "Project title",
				DeprecationReason: "use displayName",
			}), ShouldBeNil)
			So(fields, ShouldNotContainKey, "name")
			So(fields["title"].Description, ShouldEqual, "Project title")
			So(fields["title"].DeprecationReason, ShouldEqual, "use displayName")

			err := binder.BindAttribute(sink, &Project{}, nil, "name", &AttributeOptions{Name: "project-name"})
			So(err, ShouldNotBeNil)
		})

		Convey("沿关联路径取值", func() {
			p := path.Path{"owner"}
			So(binder.BindAttribute(sink, &Account{}, p, "name", &AttributeOptions{Name: "ownerName"}), ShouldBeNil)
			p[0] = "changed"

			value, err := resolveField(fields["ownerName"], allow(), project)
			So(err, ShouldBeNil)
			So(value, ShouldEqual, "owner-1")

			orphan := newProject(2)
			orphan.Owner = nil
			value, err = resolveField(fields["ownerName"], allow(), orphan)
			So(err, ShouldBeNil)
			So(value, ShouldBeNil)
		})

		Convey("只检查路径终点的实体", func() {
			So(binder.BindAttribute(sink, &Account{}, path.Path{"owner"}, "name", &AttributeOptions{Name: "ownerName"}), ShouldBeNil)
			ctx := auth.WithAuthorizer(context.Background(), auth.Func(func(ctx context.Context, entity any) bool {
				_, ok := entity.(*Account)
				return ok
			}))

			value, err := resolveField(fields["ownerName"], ctx, project)
			So(err, ShouldBeNil)
			So(value, ShouldEqual, "owner-1")
		})

		Convey("属性不存在", func() {
			err := binder.BindAttribute(sink, &Project{}, nil, "missing", nil)
			So(errors.Is(err, schema.ErrAttributeNotFound), ShouldBeTrue)
			So(fields, ShouldBeEmpty)
		})
	})
}

func TestBindTypedField(t *testing.T) {
	Convey("测试 BindTypedField", t, func() {
		binder := newBinder()
		fields := graphql.Fields{}
		labelCount := &TypedAttribute{
			Type: graphql.Int,
			ResolveFunc: func(ctx context.Context, entity any, fieldName string) any {
				return len(entity.(*Project).Labels)
			},
		}

		So(binder.BindTypedField(FieldsSink(fields), &Project{}, nil, labelCount, "label_count", nil), ShouldBeNil)
		field := fields["labelCount"]
		So(field.Type, ShouldEqual, graphql.Int)

		value, err := resolveField(field, allow(), newProject(1))
		So(err, ShouldBeNil)
		So(value, ShouldEqual, 2)

		value, err = resolveField(field, deny(), newProject(1))
		So(err, ShouldBeNil)
		So(value, ShouldBeNil)

		Convey("字段名与参数", func() {
			So(binder.BindTypedField(FieldsSink(fields), &Project{}, nil, labelCount, "label_count", &TypedFieldOptions{Name: "tagCount"}), ShouldBeNil)
			So(fields, ShouldContainKey, "tagCount")

			So(binder.BindTypedField(FieldsSink(fields), &Project{}, nil, nil, "label_count", nil), ShouldNotBeNil)
			So(binder.BindTypedField(FieldsSink(fields), &Project{}, nil, labelCount, "", nil), ShouldNotBeNil)
		})

		Convey("路径中断", func() {
			ownerName := &TypedAttribute{
				Type: graphql.String,
				ResolveFunc: func(ctx context.Context, entity any, fieldName string) any {
					return entity.(*Account).Name
				},
			}
			So(binder.BindTypedField(FieldsSink(fields), &Project{}, path.Path{"owner"}, ownerName, "owner_name", nil), ShouldBeNil)

			project := newProject(3)
			project.Owner = nil
			value, err := resolveField(fields["ownerName"], allow(), project)
			So(err, ShouldBeNil)
			So(value, ShouldBeNil)
		})
	})
}

func TestBindArgument(t *testing.T) {
	Convey("测试 BindArgument", t, func() {
		binder := newBinder()

		argument, err := binder.BindArgument(&Project{}, "priority")
		So(err, ShouldBeNil)
		So(argument.Type, ShouldEqual, graphql.Int)
		So(argument.Description, ShouldEqual, "One of: 2, 3")

		argument, err = binder.BindArgument(&Project{}, "status")
		So(err, ShouldBeNil)
		So(argument.Type.Name(), ShouldEqual, "ProjectStatus")
		So(argument.Description, ShouldBeEmpty)

		_, err = binder.BindArgument(&Project{}, "missing")
		So(errors.Is(err, schema.ErrAttributeNotFound), ShouldBeTrue)

		So(binder.CheckArgument(context.Background(), &Project{}, "priority", 3), ShouldBeNil)
		So(errors.Is(binder.CheckArgument(context.Background(), &Project{}, "priority", 1), schema.ErrValueNotPermitted), ShouldBeTrue)
		So(binder.CheckArgument(context.Background(), &Project{}, "name", "anything"), ShouldBeNil)
	})
}

func TestNewBinderWithOptions(t *testing.T) {
	Convey("测试 NewBinderWithOptions", t, func() {
		binder, err := NewBinderWithOptions(&Options{
			Source:   &ref.TypeOptions{Type: "TagSource"},
			Accessor: &ref.TypeOptions{Type: "RelatorAccessor"},
		})
		So(err, ShouldBeNil)
		So(binder.accessor, ShouldHaveSameTypeAs, &path.RelatorAccessor{})

		_, err = NewBinderWithOptions(&Options{Source: &ref.TypeOptions{Type: "Unknown"}})
		So(err, ShouldNotBeNil)

		_, err = NewBinderWithOptions(&Options{Source: &ref.TypeOptions{Namespace: meta.Namespace, Type: "GormSource"}})
		So(err, ShouldBeNil)
	})
}

func TestConcurrentResolve(t *testing.T) {
	Convey("测试并发解析", t, func() {
		binder := newBinder()
		fields := graphql.Fields{}
		So(binder.BindAttribute(FieldsSink(fields), &Project{}, nil, "name", nil), ShouldBeNil)
		So(binder.BindAttribute(FieldsSink(fields), &Account{}, path.Path{"owner"}, "name", &AttributeOptions{Name: "ownerName"}), ShouldBeNil)

		const n = 64
		names := make([]any, n)
		owners := make([]any, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ctx := allow()
				if i%2 == 1 {
					ctx = deny()
				}
				project := newProject(uint(i))
				names[i], _ = resolveField(fields["name"], ctx, project)
				owners[i], _ = resolveField(fields["ownerName"], ctx, project)
			}(i)
		}
		wg.Wait()

		for i := 0; i < n; i++ {
			if i%2 == 1 {
				So(names[i], ShouldBeNil)
				So(owners[i], ShouldBeNil)
			} else {
				So(names[i], ShouldEqual, fmt.Sprintf("project-%d", i))
				So(owners[i], ShouldEqual, fmt.Sprintf("owner-%d", i))
			}
		}
	})
}
