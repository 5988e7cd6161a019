package ioc

import (
	"reflect"
	"strings"
)

// Call invokes target, autowiring any parameter not present in overrides
// by TypeID, and returns its single non-error return value (or nil). Three
// shapes are accepted, per spec §4.4:
//
//   - a func value: called directly
//   - "Class@method": resolves "Class" from the container, then calls its
//     exported "method"
//   - [2]any{target, "method"}: calls "method" on the already-built target
func (c *Container) Call(callable any, overrides map[string]any) (any, error) {
	switch v := callable.(type) {
	case string:
		class, method, ok := strings.Cut(v, "@")
		if !ok {
			return nil, &ContainerError{Message: "Call: string form must be \"Class@method\""}
		}
		target, err := c.Get(class)
		if err != nil {
			return nil, err
		}
		return c.callMethod(target, method, overrides)

	case [2]any:
		methodName, ok := v[1].(string)
		if !ok {
			return nil, &ContainerError{Message: "Call: second element of a [target, method] pair must be a string"}
		}
		return c.callMethod(v[0], methodName, overrides)

	default:
		fn := reflect.ValueOf(callable)
		if fn.Kind() != reflect.Func {
			return nil, &ContainerError{Message: "Call: callable must be a func, \"Class@method\" string, or [target, method] pair"}
		}
		return c.callFunc(fn, overrides)
	}
}

func (c *Container) callMethod(target any, methodName string, overrides map[string]any) (any, error) {
	v := reflect.ValueOf(target)
	method := v.MethodByName(methodName)
	if !method.IsValid() {
		return nil, &ContainerError{Message: "Call: no method " + methodName + " on " + formatType(v.Type())}
	}
	return c.callFunc(method, overrides)
}

func (c *Container) callFunc(fn reflect.Value, overrides map[string]any) (any, error) {
	ft := fn.Type()
	n := ft.NumIn()
	args := make([]reflect.Value, n)

	rc := newRootContext("", nil, overrides, true)
	for i := 0; i < n; i++ {
		pt := ft.In(i)
		variadic := ft.IsVariadic() && i == n-1
		p := ParameterPrototype{
			Name:       paramName(i),
			Type:       pt,
			AllowsNull: pt.Kind() == reflect.Ptr || pt.Kind() == reflect.Interface,
			IsVariadic: variadic,
		}
		v, err := c.engine.resolveParam(rc, p)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	out := fn.Call(args)
	return firstNonError(out)
}

func firstNonError(out []reflect.Value) (any, error) {
	if len(out) == 0 {
		return nil, nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(errorType) {
		var err error
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		if len(out) == 1 {
			return nil, err
		}
		return out[0].Interface(), err
	}
	return out[0].Interface(), nil
}
