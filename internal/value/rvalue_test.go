package value

import "github.com/mlang-dev/mlang/internal/types"

var (
	testBool   = types.NewPrimitive(1, "bool", 1, false)
	testChar   = types.NewPrimitive(2, "char", 1, false)
	testShort  = types.NewPrimitive(3, "short", 2, false)
	testInt    = types.NewPrimitive(4, "int", 4, false)
	testLong   = types.NewPrimitive(5, "long", 8, false)
	testUInt   = types.NewPrimitive(6, "int", 4, true)
	testFloat  = types.NewPrimitive(7, "float", 4, false)
	testDouble = types.NewPrimitive(8, "double", 8, false)
)
