package meta

import (
	"reflect"
	"strings"
	"time"

	"gorm.io/gorm/schema"
)

var timeType = reflect.TypeOf(time.Time{})

// NormalizeType 将存储层的类型名归一为 PrimitiveType，未知类型原样保留（小写）
func NormalizeType(dataType string) PrimitiveType {
	dt := strings.ToLower(strings.TrimSpace(dataType))
	if i := strings.IndexByte(dt, '('); i >= 0 {
		dt = dt[:i]
	}

	switch dt {
	case "bool", "boolean":
		return TypeBoolean
	case "int", "uint", "integer", "smallint", "bigint", "tinyint", "int2", "int4", "int8", "serial", "bigserial":
		return TypeInteger
	case "float", "double", "real", "numeric", "decimal", "float4", "float8", "double precision":
		return TypeFloat
	case "string", "varchar", "char", "character varying", "citext", "uuid":
		return TypeString
	case "time", "datetime", "timestamp", "timestamptz":
		return TypeDateTime
	case "bytes", "blob", "bytea":
		return TypeBytes
	case "jsonb":
		return TypeJSON
	}
	return PrimitiveType(dt)
}

// InferType 从 Go 类型推断列类型与是否为数组列
func InferType(t reflect.Type) (PrimitiveType, bool) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if typer, ok := reflect.New(t).Interface().(schema.GormDataTypeInterface); ok {
		dt := typer.GormDataType()
		if base, ok := strings.CutSuffix(dt, "[]"); ok {
			return NormalizeType(base), true
		}
		return NormalizeType(dt), false
	}

	if t == timeType {
		return TypeDateTime, false
	}

	switch t.Kind() {
	case reflect.String:
		return TypeString, false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeInteger, false
	case reflect.Float32, reflect.Float64:
		return TypeFloat, false
	case reflect.Bool:
		return TypeBoolean, false
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return TypeBytes, false
		}
		elem, _ := InferType(t.Elem())
		return elem, true
	}
	return TypeJSON, false
}
