package types

// DefaultPrimitives builds the primitive type table every Engine/Module
// starts with: void, the signed and unsigned integer family, float,
// double, and bool. alloc mints each primitive's stable id.
func DefaultPrimitives(alloc IDAllocator) []*TypeInfo {
	return []*TypeInfo{
		NewPrimitive(alloc.NextTypeID(), "void", 0, false),
		NewPrimitive(alloc.NextTypeID(), "char", 1, false),
		NewPrimitive(alloc.NextTypeID(), "short", 2, false),
		NewPrimitive(alloc.NextTypeID(), "int", 4, false),
		NewPrimitive(alloc.NextTypeID(), "long", 8, false),
		NewPrimitive(alloc.NextTypeID(), "unsigned char", 1, true),
		NewPrimitive(alloc.NextTypeID(), "unsigned short", 2, true),
		NewPrimitive(alloc.NextTypeID(), "unsigned int", 4, true),
		NewPrimitive(alloc.NextTypeID(), "unsigned long", 8, true),
		NewPrimitive(alloc.NextTypeID(), "float", 4, false),
		NewPrimitive(alloc.NextTypeID(), "double", 8, false),
		NewPrimitive(alloc.NextTypeID(), "bool", 1, false),
	}
}
