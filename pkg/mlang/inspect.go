package mlang

import (
	"fmt"
	"sort"

	"github.com/mlang-dev/mlang/internal/errors"
	"github.com/mlang-dev/mlang/internal/types"
)

// TypeDump is the JSON-friendly projection of one types.TypeInfo: enough
// for a host tool to report a type's id, size, and (for a class) its
// field layout without importing internal/types itself.
type TypeDump struct {
	ID       uint64   `json:"id"`
	Name     string   `json:"name"`
	Size     int      `json:"size"`
	Unsigned bool     `json:"unsigned,omitempty"`
	IsClass  bool     `json:"is_class,omitempty"`
	Fields   []string `json:"fields,omitempty"`
}

// FuncDump is the JSON-friendly projection of one types.ScriptFunc.
type FuncDump struct {
	Name       string   `json:"name"`
	Params     []string `json:"params"`
	ReturnType string   `json:"return_type"`
	IsMethod   bool     `json:"is_method,omitempty"`
	IsConst    bool     `json:"is_const,omitempty"`
}

// Dump is the full JSON document cmd/mlang's inspect subcommand emits:
// every type and free function visible after building a script, primitive
// types and host registrations included.
type Dump struct {
	Types []TypeDump `json:"types"`
	Funcs []FuncDump `json:"funcs"`
}

// Inspect builds src (without running it) and reports every type and
// function visible in the result: the primitive table and any host
// registrations from the Engine's global scope, plus whatever classes and
// free functions src itself declares.
func (e *Engine) Inspect(src string) (Dump, error) {
	e.moduleSeq++
	m := e.core.NewModule(fmt.Sprintf("inspect#%d", e.moduleSeq))
	if !m.Build(src) {
		return Dump{}, fmt.Errorf("mlang: build failed: %s", errors.FormatAll(m.Diagnostics(), false))
	}

	typeSet := map[string]*types.TypeInfo{}
	for name, t := range e.core.GlobalScope().Types {
		typeSet[name] = t
	}
	for name, t := range m.Scope().Types {
		typeSet[name] = t
	}
	funcSet := map[string]*types.ScriptFunc{}
	for name, fn := range e.core.GlobalScope().Funcs {
		funcSet[name] = fn
	}
	for name, fn := range m.Scope().Funcs {
		funcSet[name] = fn
	}

	dump := Dump{}
	for _, name := range sortedKeys(typeSet) {
		dump.Types = append(dump.Types, typeDump(typeSet[name]))
	}
	for _, name := range sortedFuncKeys(funcSet) {
		dump.Funcs = append(dump.Funcs, funcDump(funcSet[name]))
	}
	return dump, nil
}

func typeDump(t *types.TypeInfo) TypeDump {
	d := TypeDump{ID: t.ID, Name: t.Name, Size: t.Size, Unsigned: t.Unsigned, IsClass: t.IsClass}
	if t.IsClass {
		d.Fields = append(d.Fields, t.FieldOrder...)
	}
	return d
}

func funcDump(fn *types.ScriptFunc) FuncDump {
	d := FuncDump{Name: fn.Name, IsMethod: fn.IsMethod, IsConst: fn.IsConstMethod}
	for _, p := range fn.Params {
		d.Params = append(d.Params, p.Type.Name)
	}
	if fn.ReturnType != nil {
		d.ReturnType = fn.ReturnType.Name
	} else {
		d.ReturnType = "void"
	}
	return d
}

func sortedKeys(m map[string]*types.TypeInfo) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFuncKeys(m map[string]*types.ScriptFunc) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
