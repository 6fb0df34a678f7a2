package query

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTermQuery(t *testing.T) {
	Convey("测试 TermQuery", t, func() {
		Convey("普通值", func() {
			sql, args, err := (&TermQuery{Field: "owner_id", Value: 7}).ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "owner_id = ?")
			So(args, ShouldResemble, []any{7})
		})

		Convey("nil 值", func() {
			sql, args, err := (&TermQuery{Field: "deleted_at"}).ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "deleted_at IS NULL")
			So(args, ShouldBeNil)
		})

		Convey("带表名的字段", func() {
			sql, _, err := (&TermQuery{Field: "projects.status", Value: "active"}).ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "projects.status = ?")
		})

		Convey("非法字段名", func() {
			for _, field := range []string{"", "1id", "id; DROP TABLE users", "a.b.c", "name--"} {
				_, _, err := (&TermQuery{Field: field, Value: 1}).ToSQL()
				So(errors.Is(err, ErrInvalidField), ShouldBeTrue)
			}
		})
	})
}

func TestTermsQuery(t *testing.T) {
	Convey("测试 TermsQuery", t, func() {
		sql, args, err := (&TermsQuery{Field: "status", Values: []any{"draft", "active"}}).ToSQL()
		So(err, ShouldBeNil)
		So(sql, ShouldEqual, "status IN (?, ?)")
		So(args, ShouldResemble, []any{"draft", "active"})

		sql, args, err = (&TermsQuery{Field: "status"}).ToSQL()
		So(err, ShouldBeNil)
		So(sql, ShouldEqual, "1=0")
		So(args, ShouldBeNil)
	})
}

func TestExistsAndPrefixQuery(t *testing.T) {
	Convey("测试 ExistsQuery 和 PrefixQuery", t, func() {
		sql, args, err := (&ExistsQuery{Field: "owner_id"}).ToSQL()
		So(err, ShouldBeNil)
		So(sql, ShouldEqual, "owner_id IS NOT NULL")
		So(args, ShouldBeNil)

		sql, args, err = (&PrefixQuery{Field: "path", Value: "team_a/50%"}).ToSQL()
		So(err, ShouldBeNil)
		So(sql, ShouldEqual, `path LIKE ? ESCAPE '\'`)
		So(args, ShouldResemble, []any{`team\_a/50\%%`})
	})
}

func TestRangeQuery(t *testing.T) {
	Convey("测试 RangeQuery", t, func() {
		Convey("上下界", func() {
			sql, args, err := (&RangeQuery{Field: "level", Gte: 1, Lt: 5}).ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "level >= ? AND level < ?")
			So(args, ShouldResemble, []any{1, 5})
		})

		Convey("没有端点", func() {
			sql, args, err := (&RangeQuery{Field: "level"}).ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "1=1")
			So(args, ShouldBeNil)
		})
	})
}

func TestBoolQuery(t *testing.T) {
	Convey("测试 BoolQuery", t, func() {
		Convey("空查询", func() {
			sql, args, err := (&BoolQuery{}).ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "1=1")
			So(args, ShouldBeNil)
		})

		Convey("组合条件", func() {
			q := &BoolQuery{
				Must:    []Query{&TermQuery{Field: "tenant_id", Value: 1}},
				Should:  []Query{&TermQuery{Field: "owner_id", Value: 7}, &TermQuery{Field: "public", Value: true}},
				MustNot: []Query{&TermQuery{Field: "status", Value: "archived"}},
			}
			sql, args, err := q.ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "(tenant_id = ?) AND (owner_id = ? OR public = ?) AND (NOT (status = ?))")
			So(args, ShouldResemble, []any{1, 7, true, "archived"})
		})

		Convey("MinShouldMatch", func() {
			two := 2
			q := &BoolQuery{
				Should: []Query{
					&TermQuery{Field: "a", Value: 1},
					&TermQuery{Field: "b", Value: 2},
					&TermQuery{Field: "c", Value: 3},
				},
				MinShouldMatch: &two,
			}
			sql, args, err := q.ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "(CASE WHEN (a = ?) THEN 1 ELSE 0 END + CASE WHEN (b = ?) THEN 1 ELSE 0 END + CASE WHEN (c = ?) THEN 1 ELSE 0 END) >= 2")
			So(args, ShouldResemble, []any{1, 2, 3})
		})

		Convey("子查询出错", func() {
			q := &BoolQuery{Must: []Query{&TermQuery{Field: "bad field", Value: 1}}}
			_, _, err := q.ToSQL()
			So(errors.Is(err, ErrInvalidField), ShouldBeTrue)
		})
	})
}
