// Package naming 提供 GraphQL 字段名、类型名以及描述文本的命名转换
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// LowerCamel 将下划线风格的属性名转换为小驼峰字段名，例如 created_at -> createdAt
func LowerCamel(name string) string {
	camel := UpperCamel(name)
	if camel == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(camel)
	return string(unicode.ToLower(r)) + camel[size:]
}

// UpperCamel 将下划线风格的属性名转换为大驼峰，例如 valid_period -> ValidPeriod
func UpperCamel(name string) string {
	var sb strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		sb.WriteRune(unicode.ToUpper(r))
		sb.WriteString(part[size:])
	}
	return sb.String()
}

// Classify 生成类型名片段：先单数化再转大驼峰，例如 statuses -> Status
func Classify(name string) string {
	return UpperCamel(inflection.Singular(name))
}

// Underscore 将驼峰名转换为下划线风格，例如 BillingAccount -> billing_account
func Underscore(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}
		if r == '-' || r == ' ' {
			sb.WriteByte('_')
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

// Titleize 生成人类可读的标题，例如 valid_period -> Valid Period，BillingAccount -> Billing Account
func Titleize(name string) string {
	s := Underscore(name)
	s = strings.TrimSuffix(s, "_id")
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '_' }), " ")
	return titleCaser.String(s)
}
