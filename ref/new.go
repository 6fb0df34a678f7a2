package ref

import (
	"reflect"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hatlonely/gqlmodel/cfg"
	"github.com/pkg/errors"
)

// TypeOptions 通过命名空间和类型名选择一个已注册的构造函数
type TypeOptions struct {
	Namespace string `cfg:"namespace"`
	Type      string `cfg:"type"`
	Options   any    `cfg:"options"`
}

type constructor struct {
	originalFunc any
	newFunc      reflect.Value
	hasOptions   bool
	returnsError bool
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func newConstructor(newFunc any) (*constructor, error) {
	funcValue := reflect.ValueOf(newFunc)
	if funcValue.Kind() != reflect.Func {
		return nil, errors.New("newFunc must be a function")
	}

	funcType := funcValue.Type()
	numIn := funcType.NumIn()
	numOut := funcType.NumOut()

	// 构造函数形如 New() T / New(options) T / New(options) (T, error)
	if numIn > 1 {
		return nil, errors.Errorf("newFunc must have 0 or 1 input parameters, got %d", numIn)
	}
	if numOut != 1 && numOut != 2 {
		return nil, errors.Errorf("newFunc must have 1 or 2 return values, got %d", numOut)
	}
	if numOut == 2 && !funcType.Out(1).Implements(errorType) {
		return nil, errors.New("second return value must be error type")
	}

	return &constructor{
		originalFunc: newFunc,
		newFunc:      funcValue,
		hasOptions:   numIn == 1,
		returnsError: numOut == 2,
	}, nil
}

func (c *constructor) new(options any) (any, error) {
	var args []reflect.Value
	if c.hasOptions {
		arg, err := c.convertOptions(options)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	results := c.newFunc.Call(args)
	if c.returnsError && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// convertOptions 将 options 转换为构造函数的参数类型
//
// 配置文件解码得到的 map 经 cfg.Bind 映射到参数结构体，和直接加载配置一样补齐 def 默认值并校验。
// options 为 nil 时参数只补齐默认值。
func (c *constructor) convertOptions(options any) (reflect.Value, error) {
	paramType := c.newFunc.Type().In(0)
	target := paramType
	if target.Kind() == reflect.Ptr {
		target = target.Elem()
	}

	if options != nil {
		if value := reflect.ValueOf(options); value.Type().AssignableTo(paramType) {
			return value, nil
		}
	}

	ptr := reflect.New(target)
	switch raw := options.(type) {
	case nil:
		if target.Kind() == reflect.Struct {
			if err := cfg.SetDefaults(ptr.Interface()); err != nil {
				return reflect.Value{}, errors.WithMessagef(err, "set defaults of %v failed", paramType)
			}
		}
	case map[string]any:
		if err := cfg.Bind(raw, ptr.Interface()); err != nil {
			return reflect.Value{}, errors.WithMessagef(err, "convert options to %v failed", paramType)
		}
	default:
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "cfg",
			Result:           ptr.Interface(),
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		})
		if err != nil {
			return reflect.Value{}, errors.Wrap(err, "mapstructure.NewDecoder failed")
		}
		if err := decoder.Decode(raw); err != nil {
			return reflect.Value{}, errors.Wrapf(err, "convert options to %v failed", paramType)
		}
	}

	if paramType.Kind() == reflect.Ptr {
		return ptr, nil
	}
	return ptr.Elem(), nil
}

var nameConstructorMap sync.Map

func isSameFunc(func1, func2 any) bool {
	if func1 == nil || func2 == nil {
		return func1 == func2
	}
	return reflect.ValueOf(func1).Pointer() == reflect.ValueOf(func2).Pointer()
}

// Register 注册构造函数，同一个 key 重复注册同一个函数是幂等的
func Register(namespace string, type_ string, newFunc any) error {
	key := namespace + ":" + type_

	if existing, ok := nameConstructorMap.Load(key); ok {
		if isSameFunc(existing.(*constructor).originalFunc, newFunc) {
			return nil
		}
		return errors.Errorf("constructor for %s already registered with different function", key)
	}

	c, err := newConstructor(newFunc)
	if err != nil {
		return errors.WithMessagef(err, "register %s failed", key)
	}

	nameConstructorMap.Store(key, c)
	return nil
}

func MustRegister(namespace string, type_ string, newFunc any) {
	if err := Register(namespace, type_, newFunc); err != nil {
		panic(err)
	}
}

// RegisterT 以 T 的包路径和类型名作为 namespace 和 type 注册构造函数
func RegisterT[T any](newFunc any) error {
	namespace, type_, err := typeKey[T]()
	if err != nil {
		return err
	}
	return Register(namespace, type_, newFunc)
}

func MustRegisterT[T any](newFunc any) {
	if err := RegisterT[T](newFunc); err != nil {
		panic(err)
	}
}

// New 调用已注册的构造函数创建对象
func New(namespace string, type_ string, options any) (any, error) {
	key := namespace + ":" + type_
	value, ok := nameConstructorMap.Load(key)
	if !ok {
		return nil, errors.Errorf("constructor not found for %s", key)
	}
	return value.(*constructor).new(options)
}

// NewWithOptions 根据 TypeOptions 创建对象并断言为 T
func NewWithOptions[T any](options *TypeOptions) (T, error) {
	var zero T
	if options == nil {
		return zero, errors.New("type options cannot be nil")
	}

	obj, err := New(options.Namespace, options.Type, options.Options)
	if err != nil {
		return zero, err
	}

	result, ok := obj.(T)
	if !ok {
		return zero, errors.Errorf("%s:%s created %T, which is not %T", options.Namespace, options.Type, obj, zero)
	}
	return result, nil
}

func NewT[T any](options any) (T, error) {
	var zero T
	namespace, type_, err := typeKey[T]()
	if err != nil {
		return zero, err
	}
	return NewWithOptions[T](&TypeOptions{Namespace: namespace, Type: type_, Options: options})
}

func typeKey[T any]() (string, string, error) {
	tType := reflect.TypeOf((*T)(nil)).Elem()
	for tType.Kind() == reflect.Ptr {
		tType = tType.Elem()
	}

	pkgPath := tType.PkgPath()
	typeName := tType.Name()
	if pkgPath == "" || typeName == "" {
		return "", "", errors.Errorf("cannot determine package path or type name for type %v", tType)
	}
	return pkgPath, typeName, nil
}
