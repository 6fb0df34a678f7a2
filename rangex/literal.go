package rangex

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const timestampLayout = "2006-01-02 15:04:05.999999"

// DateRange 日期区间，统一保存为左闭右开 [Lower, Upper)
type DateRange struct {
	Lower time.Time
	Upper time.Time
}

// NewDateRange 根据闭区间 [first, last] 构造
func NewDateRange(first, last time.Time) DateRange {
	return DateRange{Lower: first, Upper: last.AddDate(0, 0, 1)}
}

func (r DateRange) First() any {
	return r.Lower
}

func (r DateRange) Last() any {
	return r.Upper
}

func (r DateRange) LastIncluded() any {
	return r.Upper.AddDate(0, 0, -1)
}

func (DateRange) GormDataType() string {
	return "daterange"
}

// IsZero 零值区间对应数据库中的 NULL
func (r DateRange) IsZero() bool {
	return r.Lower.IsZero() && r.Upper.IsZero()
}

func (r DateRange) Value() (driver.Value, error) {
	if r.IsZero() {
		return nil, nil
	}
	return "[" + r.Lower.Format(time.DateOnly) + "," + r.Upper.Format(time.DateOnly) + ")", nil
}

// Scan 解析 PostgreSQL 的 daterange 字面量，闭合端点会被换算为左闭右开
func (r *DateRange) Scan(src any) error {
	if src == nil {
		*r = DateRange{}
		return nil
	}
	lit, err := parseLiteral(src)
	if err != nil {
		return err
	}

	lower, err := time.Parse(time.DateOnly, lit.lower)
	if err != nil {
		return errors.Wrapf(err, "invalid daterange lower bound %q", lit.lower)
	}
	upper, err := time.Parse(time.DateOnly, lit.upper)
	if err != nil {
		return errors.Wrapf(err, "invalid daterange upper bound %q", lit.upper)
	}

	if !lit.lowerInclusive {
		lower = lower.AddDate(0, 0, 1)
	}
	if lit.upperInclusive {
		upper = upper.AddDate(0, 0, 1)
	}
	r.Lower, r.Upper = lower, upper
	return nil
}

// TimestampRange 时间戳区间，连续区间没有 LastIncluded
type TimestampRange struct {
	Lower          time.Time
	Upper          time.Time
	UpperInclusive bool
}

func (r TimestampRange) First() any {
	return r.Lower
}

func (r TimestampRange) Last() any {
	return r.Upper
}

func (TimestampRange) GormDataType() string {
	return "tsrange"
}

func (r TimestampRange) IsZero() bool {
	return r.Lower.IsZero() && r.Upper.IsZero()
}

func (r TimestampRange) Value() (driver.Value, error) {
	if r.IsZero() {
		return nil, nil
	}
	closing := ")"
	if r.UpperInclusive {
		closing = "]"
	}
	return `["` + r.Lower.Format(timestampLayout) + `","` + r.Upper.Format(timestampLayout) + `"` + closing, nil
}

func (r *TimestampRange) Scan(src any) error {
	if src == nil {
		*r = TimestampRange{}
		return nil
	}
	lit, err := parseLiteral(src)
	if err != nil {
		return err
	}

	lower, err := time.Parse(timestampLayout, lit.lower)
	if err != nil {
		return errors.Wrapf(err, "invalid tsrange lower bound %q", lit.lower)
	}
	upper, err := time.Parse(timestampLayout, lit.upper)
	if err != nil {
		return errors.Wrapf(err, "invalid tsrange upper bound %q", lit.upper)
	}

	r.Lower, r.Upper, r.UpperInclusive = lower, upper, lit.upperInclusive
	return nil
}

type literal struct {
	lower          string
	upper          string
	lowerInclusive bool
	upperInclusive bool
}

// parseLiteral 解析形如 [a,b) 的区间字面量，不支持无界端点
func parseLiteral(src any) (literal, error) {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return literal{}, errors.Errorf("unsupported range source %T", src)
	}

	s = strings.TrimSpace(s)
	if len(s) < 3 {
		return literal{}, errors.Errorf("invalid range literal %q", s)
	}

	lit := literal{
		lowerInclusive: s[0] == '[',
		upperInclusive: s[len(s)-1] == ']',
	}
	if (s[0] != '[' && s[0] != '(') || (s[len(s)-1] != ']' && s[len(s)-1] != ')') {
		return literal{}, errors.Errorf("invalid range literal %q", s)
	}

	lower, upper, ok := strings.Cut(s[1:len(s)-1], ",")
	lit.lower, lit.upper = strings.Trim(lower, `" `), strings.Trim(upper, `" `)
	if !ok || lit.lower == "" || lit.upper == "" {
		return literal{}, errors.Errorf("unbounded or malformed range literal %q", s)
	}
	return lit, nil
}
