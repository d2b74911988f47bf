package mlang

import (
	"fmt"
	"reflect"

	"github.com/mlang-dev/mlang/internal/interp"
	"github.com/mlang-dev/mlang/internal/types"
	"github.com/mlang-dev/mlang/internal/value"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// RegisterFunction installs a Go function as a native callable under name,
// deriving its parameter and return TypeInfo from fn's reflected signature.
// fn may optionally return a trailing error; a non-nil error aborts the
// call and propagates out of the enclosing Run/Eval instead of producing a
// script-visible return value.
func (e *Engine) RegisterFunction(name string, fn any) error {
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return fmt.Errorf("mlang: RegisterFunction(%q): fn is not a function", name)
	}

	numOut := fnType.NumOut()
	returnsError := numOut > 0 && fnType.Out(numOut-1) == errorType
	numResults := numOut
	if returnsError {
		numResults--
	}
	if numResults > 1 {
		return fmt.Errorf("mlang: RegisterFunction(%q): at most one non-error return value is supported", name)
	}

	params := make([]types.Param, fnType.NumIn())
	for i := range params {
		t, err := typeInfoFor(e.core, fnType.In(i))
		if err != nil {
			return fmt.Errorf("mlang: RegisterFunction(%q): parameter %d: %w", name, i, err)
		}
		params[i] = types.Param{Name: fmt.Sprintf("arg%d", i), Type: t}
	}

	var returnType *types.TypeInfo
	if numResults == 1 {
		t, err := typeInfoFor(e.core, fnType.Out(0))
		if err != nil {
			return fmt.Errorf("mlang: RegisterFunction(%q): return value: %w", name, err)
		}
		returnType = t
	} else {
		returnType, _ = e.core.TypeByName("void")
	}

	native := func(_ *interp.Engine, args []value.Rvalue) (value.Rvalue, error) {
		if len(args) != fnType.NumIn() {
			return value.Rvalue{}, fmt.Errorf("%s: expected %d argument(s), got %d", name, fnType.NumIn(), len(args))
		}
		in := make([]reflect.Value, fnType.NumIn())
		for i, arg := range args {
			in[i] = rvalueToGo(arg, fnType.In(i))
		}
		out := fnVal.Call(in)
		if returnsError {
			if errVal := out[len(out)-1]; !errVal.IsNil() {
				return value.Rvalue{}, errVal.Interface().(error)
			}
			out = out[:len(out)-1]
		}
		if len(out) == 0 {
			return value.Rvalue{Type: returnType}, nil
		}
		return goToRvalue(out[0], returnType), nil
	}

	return e.core.RegisterFunction(name, params, returnType, native)
}

// RegisterType exposes internal/interp.Engine.RegisterType to hosts that
// build a TypeInfo by hand (e.g. to expose a class already declared in
// another script module). It is a plain pass-through: no reflection-based
// bridging of Go structs to classes is provided.
func (e *Engine) RegisterType(t *types.TypeInfo) error { return e.core.RegisterType(t) }

// RegisterMethod exposes internal/interp.Engine.RegisterMethod for
// attaching a native method to a host-registered type.
func (e *Engine) RegisterMethod(t *types.TypeInfo, name string, params []types.Param, returnType *types.TypeInfo, isConst bool, fn interp.NativeFunc) error {
	return e.core.RegisterMethod(t, name, params, returnType, isConst, fn)
}

func typeInfoFor(e *interp.Engine, t reflect.Type) (*types.TypeInfo, error) {
	name, ok := primitiveNameFor(t.Kind())
	if !ok {
		return nil, fmt.Errorf("unsupported Go type %s", t)
	}
	typ, ok := e.TypeByName(name)
	if !ok {
		return nil, fmt.Errorf("primitive type %q not registered", name)
	}
	return typ, nil
}

func primitiveNameFor(k reflect.Kind) (string, bool) {
	switch k {
	case reflect.Int8:
		return "char", true
	case reflect.Int16:
		return "short", true
	case reflect.Int32:
		return "int", true
	case reflect.Int, reflect.Int64:
		return "long", true
	case reflect.Uint8:
		return "unsigned char", true
	case reflect.Uint16:
		return "unsigned short", true
	case reflect.Uint32:
		return "unsigned int", true
	case reflect.Uint, reflect.Uint64:
		return "unsigned long", true
	case reflect.Float32:
		return "float", true
	case reflect.Float64:
		return "double", true
	case reflect.Bool:
		return "bool", true
	default:
		return "", false
	}
}

// rvalueToGo converts an Rvalue's boxed native (one of the fixed-width
// kinds internal/value works with) into the reflect.Value a registered Go
// function's parameter type expects, e.g. internal/value's int64 for
// "long" into a Go `int` parameter.
func rvalueToGo(rv value.Rvalue, goType reflect.Type) reflect.Value {
	v := reflect.ValueOf(rv.Val)
	if v.Type() == goType {
		return v
	}
	return v.Convert(goType)
}

// goToRvalue boxes a Go function's return value into the fixed-width
// native internal/value.Rvalue expects for t, narrowing/widening and
// matching signedness the same way internal/value.ConvertScalar does for
// script-level assignment.
func goToRvalue(rv reflect.Value, t *types.TypeInfo) value.Rvalue {
	switch {
	case t.Name == "bool":
		return value.NewRvalue(t, rv.Bool())
	case t.IsFloat():
		f := toFloat64(rv)
		if t.Name == "float" {
			return value.NewRvalue(t, float32(f))
		}
		return value.NewRvalue(t, f)
	case t.Unsigned:
		u := toUint64(rv)
		switch t.Size {
		case 1:
			return value.NewRvalue(t, uint8(u))
		case 2:
			return value.NewRvalue(t, uint16(u))
		case 4:
			return value.NewRvalue(t, uint32(u))
		default:
			return value.NewRvalue(t, u)
		}
	default:
		i := toInt64(rv)
		switch t.Size {
		case 1:
			return value.NewRvalue(t, int8(i))
		case 2:
			return value.NewRvalue(t, int16(i))
		case 4:
			return value.NewRvalue(t, int32(i))
		default:
			return value.NewRvalue(t, i)
		}
	}
}

func toFloat64(rv reflect.Value) float64 {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	default:
		return 0
	}
}

func toInt64(rv reflect.Value) int64 {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return int64(rv.Float())
	default:
		return 0
	}
}

func toUint64(rv reflect.Value) uint64 {
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(rv.Int())
	case reflect.Float32, reflect.Float64:
		return uint64(rv.Float())
	default:
		return 0
	}
}
