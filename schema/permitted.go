package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/hatlonely/gqlmodel/cfg/validator"
	"github.com/hatlonely/gqlmodel/meta"
	"github.com/pkg/errors"
)

var ErrValueNotPermitted = errors.New("value not permitted")

// DetectPermittedValues 求属性上所有无条件 inclusion 规则允许值的交集
//
// 带 if/unless 条件或允许值为空的规则不参与计算。没有规则参与时 present 为 false；
// 规则互斥时返回空集合且 present 为 true。结果保持第一条规则中的顺序。
func (i *Inspector) DetectPermittedValues(model any, attribute string) ([]any, bool, error) {
	m, err := i.Model(model)
	if err != nil {
		return nil, false, err
	}

	var sets [][]any
	for _, v := range m.ValidatorsOn(attribute) {
		if v.Kind != meta.KindInclusion || v.Conditional() || len(v.Options.In) == 0 {
			continue
		}
		sets = append(sets, v.Options.In)
	}
	if len(sets) == 0 {
		return nil, false, nil
	}

	permitted := []any{}
	for _, value := range sets[0] {
		if contains(permitted, value) {
			continue
		}
		inAll := true
		for _, set := range sets[1:] {
			if !contains(set, value) {
				inAll = false
				break
			}
		}
		if inAll {
			permitted = append(permitted, value)
		}
	}
	return permitted, true, nil
}

// ValidateArgument 校验请求参数是否在允许值之内
//
// present 为 false 时不做限制；允许值为空集合时拒绝一切输入；nil 视为未传参。
func ValidateArgument(value any, permitted []any, present bool) error {
	if !present || value == nil {
		return nil
	}
	if len(permitted) == 0 {
		return errors.Wrapf(ErrValueNotPermitted, "%v, no value is permitted", value)
	}

	if tag, ok := oneofTag(value, permitted); ok {
		if err := validator.ValidateVar(value, tag); err != nil {
			return errors.Wrapf(ErrValueNotPermitted, "%v, expected one of %v", value, permitted)
		}
		return nil
	}

	for _, p := range permitted {
		if reflect.DeepEqual(p, value) || fmt.Sprint(p) == fmt.Sprint(value) {
			return nil
		}
	}
	return errors.Wrapf(ErrValueNotPermitted, "%v, expected one of %v", value, permitted)
}

// oneofTag 生成 validator 的 oneof tag，oneof 只支持字符串和整数
func oneofTag(value any, permitted []any) (string, bool) {
	switch reflect.ValueOf(value).Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return "", false
	}

	params := make([]string, 0, len(permitted))
	for _, p := range permitted {
		s := fmt.Sprint(p)
		if s == "" || strings.ContainsAny(s, "',|") {
			return "", false
		}
		if strings.ContainsAny(s, " \t") {
			s = "'" + s + "'"
		}
		params = append(params, s)
	}
	return "oneof=" + strings.Join(params, " "), true
}

func contains(values []any, value any) bool {
	for _, v := range values {
		if reflect.DeepEqual(v, value) {
			return true
		}
	}
	return false
}
