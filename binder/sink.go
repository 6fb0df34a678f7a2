package binder

import (
	"github.com/graphql-go/graphql"
)

// Sink 接收绑定好的字段
type Sink interface {
	AddField(name string, field *graphql.Field)
}

// SinkFunc 函数形式的 Sink
type SinkFunc func(name string, field *graphql.Field)

func (f SinkFunc) AddField(name string, field *graphql.Field) {
	f(name, field)
}

// FieldsSink 写入 graphql.Fields，通常用于 ObjectConfig.Fields 或 FieldsThunk
func FieldsSink(fields graphql.Fields) Sink {
	return SinkFunc(func(name string, field *graphql.Field) {
		fields[name] = field
	})
}

// ObjectSink 直接添加到已创建的对象类型上
func ObjectSink(object *graphql.Object) Sink {
	return SinkFunc(func(name string, field *graphql.Field) {
		object.AddFieldConfig(name, field)
	})
}
