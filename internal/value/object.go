package value

import (
	"fmt"

	"github.com/mlang-dev/mlang/internal/types"
)

// box is the mutable storage cell a scalar Object points at. Aliasing an
// Object (REFERENCE semantics) means pointing a second Object at the same
// box rather than copying it — the Go analogue of the original engine's
// shared pointer.
type box struct {
	v any
}

// Object is a runtime ScriptObject: either an owning value of its type or
// a non-owning REFERENCE aliasing another Object. Class instances own one
// child Object per field, keyed by field name in Fields (the declaration
// order itself is kept in Type.FieldOrder).
type Object struct {
	Type     *types.TypeInfo
	IsRef    bool
	RefCount int

	scalar *box               // non-nil for non-class objects
	Fields map[string]*Object // non-nil for class objects

	aliasOf *Object // set once this reference has been aliased to a target
}

// NewObject constructs a ScriptObject of typ. A REFERENCE object starts
// with no storage and a zero refcount until Alias binds it to a target;
// any other object allocates its own storage (a scalar box, or one child
// Object per field for a class) with refcount 1.
func NewObject(typ *types.TypeInfo, isRef bool) *Object {
	o := &Object{Type: typ, IsRef: isRef}
	if isRef {
		return o
	}
	if typ.IsClass {
		o.Fields = make(map[string]*Object, len(typ.FieldOrder))
		for _, name := range typ.FieldOrder {
			o.Fields[name] = NewObject(typ.Fields[name], false)
		}
	} else {
		o.scalar = &box{v: zeroValue(typ)}
	}
	o.RefCount = 1
	return o
}

func zeroValue(t *types.TypeInfo) any {
	switch t.Name {
	case "bool":
		return false
	case "float":
		return float32(0)
	case "double":
		return float64(0)
	default:
		return truncateInt(0, t.Size, t.Unsigned)
	}
}

// Rvalue reads this object's current value as an Rvalue. For a class
// object it returns an Rvalue whose Val is the *Object itself, so callers
// evaluating a class-typed expression get the Object back.
func (o *Object) Rvalue() Rvalue {
	if o.Type.IsClass {
		return Rvalue{Type: o.Type, Val: o}
	}
	return Rvalue{Type: o.Type, Val: o.scalar.v}
}

// Alias binds a REFERENCE object o to target, aliasing target's storage
// and incrementing target's refcount. o must have been constructed with
// isRef=true and not yet aliased.
func (o *Object) Alias(target *Object) error {
	if !o.IsRef {
		return fmt.Errorf("Alias: object is not a reference")
	}
	if o.Type.IsClass != target.Type.IsClass || (!o.Type.IsClass && o.Type.ID != target.Type.ID) {
		return fmt.Errorf("Alias: type mismatch between reference and target")
	}
	o.scalar = target.scalar
	o.Fields = target.Fields
	o.aliasOf = target
	target.RefCount++
	return nil
}

// Write stores rv into o's own storage via the conversion matrix, failing
// if o is a class object (class writes go field-by-field) or rv targets a
// class value being written into a scalar slot.
func (o *Object) Write(rv Rvalue) error {
	if o.Type.IsClass {
		return fmt.Errorf("Write: object is a class; assign field-by-field")
	}
	converted, err := ConvertScalar(rv, o.Type)
	if err != nil {
		return err
	}
	o.scalar.v = converted.Val
	return nil
}

// CopyFrom performs the conversion matrix' class row: a field-wise copy
// from src into o, valid only when both share the same class type id.
func (o *Object) CopyFrom(src *Object) error {
	if !o.Type.IsClass || !src.Type.IsClass {
		return fmt.Errorf("CopyFrom: both operands must be class objects")
	}
	if o.Type.ID != src.Type.ID {
		return fmt.Errorf("CopyFrom: class type ids differ (%d vs %d)", o.Type.ID, src.Type.ID)
	}
	for name, srcField := range src.Fields {
		dstField := o.Fields[name]
		if srcField.Type.IsClass {
			if err := dstField.CopyFrom(srcField); err != nil {
				return err
			}
			continue
		}
		if err := dstField.Write(srcField.Rvalue()); err != nil {
			return err
		}
	}
	return nil
}

// Release decrements o's refcount (for a reference, which never owns
// storage, it releases the aliased target instead, or does nothing if the
// reference was never aliased) and recursively releases field sub-objects
// once the count reaches zero. Go's GC reclaims the underlying memory; Release exists so
// refcount bookkeeping — and the "no leakage across invocations" property —
// stays observable and testable.
func (o *Object) Release() {
	if o.IsRef {
		if o.aliasOf != nil {
			o.aliasOf.Release()
		}
		return
	}
	if o.RefCount == 0 {
		return
	}
	o.RefCount--
	if o.RefCount == 0 {
		for _, f := range o.Fields {
			f.Release()
		}
	}
}

// Retain increments o's refcount, used when a second owning path (e.g. a
// return-by-value binding) starts sharing this object.
func (o *Object) Retain() {
	if !o.IsRef {
		o.RefCount++
	}
}

// GetMember returns the named field sub-object of a class instance.
func (o *Object) GetMember(name string) (*Object, bool) {
	f, ok := o.Fields[name]
	return f, ok
}
