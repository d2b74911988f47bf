package interp

import "github.com/mlang-dev/mlang/internal/value"

// frame is the runtime counterpart to a *scope.Scope node: a static Scope
// exists exactly once, built by the parser, but a frame is allocated fresh
// every time execution enters the block or call it backs. That is what
// lets recursion work — two overlapping calls to the same function get two
// frames over the same fnScope, never sharing storage — per the
// requirement that a function's runtime state never survives across
// overlapping invocations.
type frame struct {
	vars   map[string]*value.Object
	parent *frame

	// receiver is set on a method call's own frame; resolve falls back to
	// it so a method body can reference a field by its bare name instead
	// of requiring an explicit qualifier.
	receiver *value.Object
}

func newFrame(parent *frame) *frame {
	return &frame{vars: make(map[string]*value.Object), parent: parent}
}

func (f *frame) declare(name string, obj *value.Object) {
	f.vars[name] = obj
}

// resolve walks f and its ancestors for name, falling back to the nearest
// receiver's fields when no local/param binding matches.
func (f *frame) resolve(name string) (*value.Object, bool) {
	for cur := f; cur != nil; cur = cur.parent {
		if obj, ok := cur.vars[name]; ok {
			return obj, true
		}
		if cur.receiver != nil {
			if fld, ok := cur.receiver.GetMember(name); ok {
				return fld, true
			}
		}
	}
	return nil, false
}

// resolveReceiver walks f and its ancestors for the nearest non-nil
// receiver, the runtime counterpart to scope.Scope.EnclosingReceiver: an
// unqualified call inside a method body dispatches against whichever
// receiver object is in scope at the call site, not necessarily f's own.
func (f *frame) resolveReceiver() (*value.Object, bool) {
	for cur := f; cur != nil; cur = cur.parent {
		if cur.receiver != nil {
			return cur.receiver, true
		}
	}
	return nil, false
}

// release drops this frame's own bindings, matching the refcount
// bookkeeping that the "no leakage across invocations" property checks.
func (f *frame) release() {
	for _, obj := range f.vars {
		obj.Release()
	}
}
