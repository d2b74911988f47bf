package value

import (
	"testing"

	"github.com/mlang-dev/mlang/internal/types"
)

type fakeAlloc struct{ next uint64 }

func (f *fakeAlloc) NextTypeID() uint64 { f.next++; return f.next }

func buildPointClass() *types.TypeInfo {
	alloc := &fakeAlloc{next: 100}
	cls := types.NewClass(1, "Point")
	cls.AddField(alloc, "x", testInt)
	cls.AddField(alloc, "y", testInt)
	return cls
}

func TestNewObjectScalarStartsAtZeroRefcountOne(t *testing.T) {
	o := NewObject(testInt, false)
	if o.RefCount != 1 {
		t.Fatalf("expected refcount 1, got %d", o.RefCount)
	}
	if o.Rvalue().Val.(int32) != 0 {
		t.Fatalf("expected zero value, got %v", o.Rvalue().Val)
	}
}

func TestNewObjectReferenceStartsAtRefcountZero(t *testing.T) {
	o := NewObject(testInt, true)
	if o.RefCount != 0 {
		t.Fatalf("expected refcount 0 for an unaliased reference, got %d", o.RefCount)
	}
}

// TestClassLayout exercises testable property 5: offset(fi) = sum of
// preceding field sizes, and size(C) = sum of all field sizes.
func TestClassLayout(t *testing.T) {
	cls := buildPointClass()
	if cls.Size != 8 {
		t.Fatalf("expected Point size 8, got %d", cls.Size)
	}
	if cls.Fields["x"].Offset != 0 {
		t.Fatalf("expected x at offset 0, got %d", cls.Fields["x"].Offset)
	}
	if cls.Fields["y"].Offset != 4 {
		t.Fatalf("expected y at offset 4, got %d", cls.Fields["y"].Offset)
	}
}

func TestNewObjectClassBuildsFieldSubObjects(t *testing.T) {
	cls := buildPointClass()
	o := NewObject(cls, false)

	x, ok := o.GetMember("x")
	if !ok {
		t.Fatal("expected field x to exist")
	}
	if x.Rvalue().Val.(int32) != 0 {
		t.Fatalf("expected field x to zero-initialize, got %v", x.Rvalue().Val)
	}
	if x.RefCount != 1 {
		t.Fatalf("expected field sub-object refcount 1, got %d", x.RefCount)
	}
}

func TestWriteConvertsThroughMatrix(t *testing.T) {
	o := NewObject(testLong, false)
	if err := o.Write(NewRvalue(testInt, int32(42))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.Rvalue().Val.(int64) != 42 {
		t.Fatalf("expected widened 42, got %v", o.Rvalue().Val)
	}
}

// TestRefcountAccuracy exercises testable property 6: after k alias binds
// and k releases, the owner's refcount returns to its pre-alias value.
func TestRefcountAccuracy(t *testing.T) {
	owner := NewObject(testInt, false) // refcount 1

	refs := make([]*Object, 3)
	for i := range refs {
		r := NewObject(testInt, true)
		if err := r.Alias(owner); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		refs[i] = r
	}
	if owner.RefCount != 4 {
		t.Fatalf("expected owner refcount 4 after 3 aliases, got %d", owner.RefCount)
	}

	for _, r := range refs {
		r.Release()
	}
	if owner.RefCount != 1 {
		t.Fatalf("expected owner refcount back to 1 after releasing all aliases, got %d", owner.RefCount)
	}
}

func TestAliasRejectsTypeMismatch(t *testing.T) {
	owner := NewObject(testInt, false)
	ref := NewObject(testLong, true)

	if err := ref.Alias(owner); err == nil {
		t.Fatal("expected type mismatch error aliasing int to a long reference")
	}
}

func TestCopyFromRequiresSameClassID(t *testing.T) {
	a := buildPointClass()
	b := types.NewClass(2, "Vector")
	alloc := &fakeAlloc{next: 200}
	b.AddField(alloc, "x", testInt)
	b.AddField(alloc, "y", testInt)

	src := NewObject(a, false)
	dst := NewObject(b, false)

	if err := dst.CopyFrom(src); err == nil {
		t.Fatal("expected error copying between distinct class type ids")
	}
}

func TestCopyFromFieldWise(t *testing.T) {
	cls := buildPointClass()
	src := NewObject(cls, false)
	xf, _ := src.GetMember("x")
	xf.Write(NewRvalue(testInt, int32(7)))

	dst := NewObject(cls, false)
	if err := dst.CopyFrom(src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dx, _ := dst.GetMember("x")
	if dx.Rvalue().Val.(int32) != 7 {
		t.Fatalf("expected copied field value 7, got %v", dx.Rvalue().Val)
	}
}
