package meta

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// 与 go-playground/validator 解析 oneof 参数的规则一致
var oneofParamsRegex = regexp.MustCompile(`'[^']*'|\S+`)

// ParseValidateTag 从 go-playground/validator 的 validate tag 中提取 inclusion 规则
//
// 每个 oneof 都是一条无条件规则，参数按 kind 转换为对应的 Go 类型。
// 处于 | 组合中的 oneof 无法静态确定是否生效，直接忽略。
func ParseValidateTag(tag string, kind reflect.Kind) []Validator {
	var validators []Validator
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if strings.Contains(part, "|") {
			continue
		}
		params, ok := strings.CutPrefix(part, "oneof=")
		if !ok {
			continue
		}

		var values []any
		for _, param := range oneofParamsRegex.FindAllString(params, -1) {
			values = append(values, convertParam(strings.Trim(param, "'"), kind))
		}
		validators = append(validators, Inclusion(values...))
	}
	return validators
}

func convertParam(param string, kind reflect.Kind) any {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v, err := strconv.Atoi(param); err == nil {
			return v
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v, err := strconv.ParseUint(param, 10, 64); err == nil {
			return uint(v)
		}
	case reflect.Float32, reflect.Float64:
		if v, err := strconv.ParseFloat(param, 64); err == nil {
			return v
		}
	}
	return param
}

// elemKind 返回字段（或数组元素）去掉指针后的 Kind
func elemKind(t reflect.Type) reflect.Kind {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
	}
	return t.Kind()
}
