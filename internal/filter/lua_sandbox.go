package filter

import (
	"context"
	"errors"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

const (
	defaultLuaTimeout     = 2 * time.Second
	defaultRegistryMax    = 4096
	sandboxTimeoutMessage = "sandbox timeout"
)

// ErrSandboxTimeout is returned when a predicate runs past its timeout.
var ErrSandboxTimeout = errors.New(sandboxTimeoutMessage)

// Predicate is a compiled-once Lua expression evaluated against each record
// in a fresh sandboxed state.
type Predicate struct {
	code    string
	timeout time.Duration
}

// NewPredicate wraps an expression without a return statement into one.
// Chunks that only parse as statements run as given. An empty expression
// keeps every record.
func NewPredicate(expr string, timeout time.Duration) *Predicate {
	code := "return true"
	if strings.TrimSpace(expr) != "" {
		code = expr
		if !strings.Contains(expr, "return") {
			wrapped := "return (" + expr + ")"
			if compiles(wrapped) || !compiles(expr) {
				code = wrapped
			}
		}
	}
	if timeout <= 0 {
		timeout = defaultLuaTimeout
	}
	return &Predicate{code: code, timeout: timeout}
}

func compiles(code string) bool {
	_, err := parse.Parse(strings.NewReader(code), "<filter>")
	return err == nil
}

// Code returns the Lua chunk that is executed.
func (p *Predicate) Code() string { return p.code }

// newSandboxLuaState opens only the base, string, table and math libraries.
func newSandboxLuaState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:     true,
		RegistrySize:     256,
		RegistryMaxSize:  defaultRegistryMax,
		RegistryGrowStep: 0,
	})
	openLib := func(name string, f lua.LGFunction) {
		L.Push(L.NewFunction(f))
		L.Push(lua.LString(name))
		L.Call(1, 0)
	}
	openLib("base", lua.OpenBase)
	openLib("string", lua.OpenString)
	openLib("table", lua.OpenTable)
	openLib("math", lua.OpenMath)
	// base exposes file access; the sandbox does not.
	for _, name := range []string{"dofile", "loadfile", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// Eval runs the predicate with globals. Only a boolean true keeps the record.
func (p *Predicate) Eval(ctx context.Context, globals map[string]any) (bool, error) {
	L := newSandboxLuaState()
	defer L.Close()

	parent := ctx
	ctx, cancel := context.WithTimeout(parent, p.timeout)
	defer cancel()
	L.SetContext(ctx)

	for k, v := range globals {
		L.SetGlobal(k, toLValue(L, v))
	}
	fn, err := L.LoadString(p.code)
	if err != nil {
		return false, err
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		if perr := parent.Err(); perr != nil {
			return false, perr
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return false, ErrSandboxTimeout
		}
		return false, err
	}
	ret := L.Get(-1)
	L.Pop(1)
	keep, _ := fromLValue(ret).(bool)
	return keep, nil
}

// toLValue converts a record value to a Lua value. Integers become Lua
// numbers.
func toLValue(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(float64(x))
	case int32:
		return lua.LNumber(float64(x))
	case int64:
		return lua.LNumber(float64(x))
	case float64:
		return lua.LNumber(x)
	case map[string]any:
		tbl := L.NewTable()
		for k, v2 := range x {
			tbl.RawSetString(k, toLValue(L, v2))
		}
		return tbl
	case []any:
		tbl := L.NewTable()
		for i, v2 := range x {
			tbl.RawSetInt(i+1, toLValue(L, v2))
		}
		return tbl
	default:
		return lua.LNil
	}
}

func fromLValue(v lua.LValue) any {
	switch v.Type() {
	case lua.LTNil:
		return nil
	case lua.LTBool:
		return lua.LVAsBool(v)
	case lua.LTNumber:
		return float64(v.(lua.LNumber))
	case lua.LTString:
		return v.String()
	case lua.LTTable:
		t := v.(*lua.LTable)
		arr := []any{}
		isArray := true
		t.ForEach(func(k, val lua.LValue) {
			if !isArray {
				return
			}
			if lk, ok := k.(lua.LNumber); ok && int(lk) == len(arr)+1 {
				arr = append(arr, fromLValue(val))
				return
			}
			isArray = false
		})
		if isArray {
			return arr
		}
		obj := map[string]any{}
		t.ForEach(func(k, val lua.LValue) {
			obj[k.String()] = fromLValue(val)
		})
		return obj
	default:
		return nil
	}
}
