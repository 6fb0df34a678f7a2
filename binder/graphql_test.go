package binder

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/hatlonely/gqlmodel/auth"
	"github.com/hatlonely/gqlmodel/path"
	. "github.com/smartystreets/goconvey/convey"
)

func newSchema(binder *Binder, projects []*Project) (graphql.Schema, error) {
	projectFields := graphql.Fields{}
	sink := FieldsSink(projectFields)
	if err := binder.BindAttributes(sink, &Project{}, nil, "id", "name", "status", "valid_period", "labels"); err != nil {
		return graphql.Schema{}, err
	}
	if err := binder.BindAttribute(sink, &Account{}, path.Path{"owner"}, "name", &AttributeOptions{Name: "ownerName"}); err != nil {
		return graphql.Schema{}, err
	}
	projectType := graphql.NewObject(graphql.ObjectConfig{Name: "Project", Fields: projectFields})

	status, err := binder.BindArgument(&Project{}, "status")
	if err != nil {
		return graphql.Schema{}, err
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"projects": &graphql.Field{
				Type: graphql.NewList(projectType),
				Args: graphql.FieldConfigArgument{"status": status},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					want, ok := p.Args["status"]
					if !ok {
						return projects, nil
					}
					if err := binder.CheckArgument(p.Context, &Project{}, "status", want); err != nil {
						return nil, err
					}
					var result []*Project
					for _, project := range projects {
						if string(project.Status) == want {
							result = append(result, project)
						}
					}
					return result, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

func TestGraphQLExecution(t *testing.T) {
	Convey("测试 GraphQL 查询", t, func() {
		visible := newProject(1)
		hidden := newProject(2)
		hidden.Status = "archived"

		s, err := newSchema(newBinder(), []*Project{visible, hidden})
		So(err, ShouldBeNil)

		// 只能读 ID 为奇数的项目以及所有负责人
		ctx := auth.WithAuthorizer(context.Background(), auth.Func(func(ctx context.Context, entity any) bool {
			if project, ok := entity.(*Project); ok {
				return project.ID%2 == 1
			}
			return true
		}))

		Convey("无权限的实体字段为 null", func() {
			result := graphql.Do(graphql.Params{
				Schema:        s,
				RequestString: `{ projects { name status validPeriod labels ownerName } }`,
				Context:       ctx,
			})
			So(result.Errors, ShouldBeEmpty)

			projects := result.Data.(map[string]any)["projects"].([]any)
			So(len(projects), ShouldEqual, 2)
			So(projects[0], ShouldResemble, map[string]any{
				"name":        "project-1",
				"status":      "active",
				"validPeriod": []any{"2020-01-01", "2020-12-31"},
				"labels":      []any{"go", "graphql"},
				"ownerName":   "owner-1",
			})
			So(projects[1], ShouldResemble, map[string]any{
				"name":        nil,
				"status":      nil,
				"validPeriod": nil,
				"labels":      nil,
				"ownerName":   "owner-2",
			})
		})

		Convey("枚举参数", func() {
			result := graphql.Do(graphql.Params{
				Schema:        s,
				RequestString: `{ projects(status: active) { id } }`,
				Context:       ctx,
			})
			So(result.Errors, ShouldBeEmpty)
			projects := result.Data.(map[string]any)["projects"].([]any)
			So(projects, ShouldResemble, []any{map[string]any{"id": 1}})

			result = graphql.Do(graphql.Params{
				Schema:        s,
				RequestString: `{ projects(status: deleted) { id } }`,
				Context:       ctx,
			})
			So(result.Errors, ShouldNotBeEmpty)
		})

		Convey("没有鉴权器时全部为 null", func() {
			result := graphql.Do(graphql.Params{
				Schema:        s,
				RequestString: `{ projects { name ownerName } }`,
				Context:       context.Background(),
			})
			So(result.Errors, ShouldBeEmpty)
			projects := result.Data.(map[string]any)["projects"].([]any)
			So(projects[0], ShouldResemble, map[string]any{"name": nil, "ownerName": nil})
		})
	})
}
