package cfg

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// SetDefaults 为结构体中零值字段设置 def tag 指定的默认值
func SetDefaults(object any) error {
	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("object must be a non-nil pointer")
	}
	return setDefaults(rv.Elem())
}

func setDefaults(rv reflect.Value) error {
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		return setDefaults(rv.Elem())
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fieldValue := rv.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		if err := setDefaults(fieldValue); err != nil {
			return errors.WithMessagef(err, "field %s", field.Name)
		}

		defTag, ok := field.Tag.Lookup("def")
		if !ok || !fieldValue.IsZero() {
			continue
		}
		if err := setDefaultValue(fieldValue, defTag); err != nil {
			return errors.WithMessagef(err, "set default value for field %s failed", field.Name)
		}
	}

	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// setDefaultValue 将 def tag 的字符串解析为字段类型，切片以逗号分隔
func setDefaultValue(rv reflect.Value, defValue string) error {
	if rv.Type() == durationType {
		d, err := time.ParseDuration(defValue)
		if err != nil {
			return errors.Wrapf(err, "invalid duration value %q", defValue)
		}
		rv.SetInt(int64(d))
		return nil
	}

	var err error
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(defValue)
	case reflect.Bool:
		var b bool
		if b, err = strconv.ParseBool(defValue); err == nil {
			rv.SetBool(b)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		if n, err = strconv.ParseInt(defValue, 0, rv.Type().Bits()); err == nil {
			rv.SetInt(n)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var n uint64
		if n, err = strconv.ParseUint(defValue, 0, rv.Type().Bits()); err == nil {
			rv.SetUint(n)
		}
	case reflect.Float32, reflect.Float64:
		var f float64
		if f, err = strconv.ParseFloat(defValue, rv.Type().Bits()); err == nil {
			rv.SetFloat(f)
		}
	case reflect.Slice:
		parts := strings.Split(defValue, ",")
		slice := reflect.MakeSlice(rv.Type(), len(parts), len(parts))
		for i, part := range parts {
			if err := setDefaultValue(slice.Index(i), strings.TrimSpace(part)); err != nil {
				return errors.WithMessagef(err, "slice element %d", i)
			}
		}
		rv.Set(slice)
	default:
		return errors.Errorf("unsupported type %v", rv.Type())
	}
	if err != nil {
		return errors.Wrapf(err, "invalid %s value %q", rv.Kind(), defValue)
	}
	return nil
}
