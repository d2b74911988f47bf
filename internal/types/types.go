// Package types describes the guest language's type system: primitive
// scalar kinds and user-defined class layouts. It holds no runtime state —
// see internal/value for objects and internal/scope for where types live.
package types

import "github.com/mlang-dev/mlang/internal/ast"

// IDAllocator mints stable, per-Engine type ids. Parsing needs to register
// new class types without importing the package that owns Engine, so the
// dependency is inverted through this interface.
type IDAllocator interface {
	NextTypeID() uint64
}

// TypeInfo is the metadata record for one type: a primitive or a
// user-declared class. Field insertion order defines memory layout; a
// class's Size is the sum of its field sizes (no padding).
type TypeInfo struct {
	ID       uint64
	Name     string
	Size     int  // bytes; 0 for void
	Unsigned bool // meaningless for non-integer types

	// Offset is this type's byte offset within its parent class, valid
	// only when Parent != nil (i.e. this TypeInfo describes a field).
	Offset int
	Parent *TypeInfo

	IsClass    bool
	FieldOrder []string // insertion order, defines layout
	Fields     map[string]*TypeInfo
	Methods    map[string]*ScriptFunc
}

// NewPrimitive builds a non-class TypeInfo for a scalar kind.
func NewPrimitive(id uint64, name string, size int, unsigned bool) *TypeInfo {
	return &TypeInfo{ID: id, Name: name, Size: size, Unsigned: unsigned}
}

// NewClass builds an empty class TypeInfo; fields are added with AddField.
func NewClass(id uint64, name string) *TypeInfo {
	return &TypeInfo{
		ID:      id,
		Name:    name,
		IsClass: true,
		Fields:  make(map[string]*TypeInfo),
		Methods: make(map[string]*ScriptFunc),
	}
}

// AddField appends a field to the class in declaration order, cloning
// fieldType with a fresh id and setting its Offset/Parent. The class's
// Size grows by fieldType.Size.
func (t *TypeInfo) AddField(alloc IDAllocator, name string, fieldType *TypeInfo) *TypeInfo {
	field := &TypeInfo{
		ID:       alloc.NextTypeID(),
		Name:     fieldType.Name,
		Size:     fieldType.Size,
		Unsigned: fieldType.Unsigned,
		IsClass:  fieldType.IsClass,
		Fields:   fieldType.Fields,
		Methods:  fieldType.Methods,
		Offset:   t.Size,
		Parent:   t,
	}
	t.Fields[name] = field
	t.FieldOrder = append(t.FieldOrder, name)
	t.Size += fieldType.Size
	return field
}

// AddMethod registers a method under name, returning false if one is
// already registered (the caller should treat this as a parse error).
func (t *TypeInfo) AddMethod(name string, fn *ScriptFunc) bool {
	if _, exists := t.Methods[name]; exists {
		return false
	}
	t.Methods[name] = fn
	return true
}

// Visibility enumerates the class-body access labels. Nothing in this
// module uses it: ast.FieldDecl records the label as a string, and no
// access check consults it.
type Visibility int

const (
	Private Visibility = iota
	Protected
	Public
)

// Param describes one formal parameter's static shape.
type Param struct {
	Name    string
	Type    *TypeInfo
	IsConst bool
}

// ScriptFunc is a callable: either script-defined (Body != nil) or native
// (Native != nil, bridged as `any` to avoid an import cycle with
// internal/value — see DESIGN.md). IsMethod/IsConstMethod apply only to
// class methods; a free function leaves both false.
type ScriptFunc struct {
	Name          string
	Params        []Param
	ReturnType    *TypeInfo
	IsMethod      bool
	IsConstMethod bool
	Body          *ast.FuncDeclStmt // nil for native functions
	Native        any               // interp.NativeFunc when Body == nil
	ReceiverType  *TypeInfo         // the owning class, for methods
}

// IsVoid reports whether t is the primitive void type.
func (t *TypeInfo) IsVoid() bool { return !t.IsClass && t.Name == "void" }

// IsNumeric reports whether t is a scalar, non-bool, non-void type.
func (t *TypeInfo) IsNumeric() bool {
	return !t.IsClass && !t.IsVoid() && t.Name != "bool"
}

// IsFloat reports whether t is float or double.
func (t *TypeInfo) IsFloat() bool {
	return t.Name == "float" || t.Name == "double"
}
