package lua

import (
	"crypto/sha1"
	"fmt"
	"math"
	"sync"

	"github.com/raniellyferreira/respdecode/protocol"
	lua "github.com/yuin/gopher-lua"
)

// Engine runs Lua scripts against decoded RESP replies
type Engine struct {
	scripts sync.Map // map[string]string - SHA1 -> script content
}

// NewEngine creates a new Lua execution engine
func NewEngine() *Engine {
	return &Engine{}
}

// Eval executes a Lua script with reply bound to the global REPLY and
// converts the script's return value back into a RESP value
func (e *Engine) Eval(script string, reply protocol.Value) (protocol.Value, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	if err := openSandbox(L); err != nil {
		return protocol.Value{}, err
	}
	L.SetGlobal("REPLY", ToLua(L, reply))

	if err := L.DoString(script); err != nil {
		return protocol.Value{}, fmt.Errorf("script execution error: %w", err)
	}

	return FromLua(L.Get(-1))
}

// EvalSHA executes a previously loaded script by its SHA1 hash
func (e *Engine) EvalSHA(sha1 string, reply protocol.Value) (protocol.Value, error) {
	script, exists := e.scripts.Load(sha1)
	if !exists {
		return protocol.Value{}, fmt.Errorf("NOSCRIPT No matching script. Please use EVAL")
	}

	return e.Eval(script.(string), reply)
}

// LoadScript loads a script and returns its SHA1 hash
func (e *Engine) LoadScript(script string) string {
	hash := fmt.Sprintf("%x", sha1.Sum([]byte(script)))
	e.scripts.Store(hash, script)
	return hash
}

// ScriptExists checks if scripts with given SHA1 hashes exist
func (e *Engine) ScriptExists(hashes []string) []bool {
	results := make([]bool, len(hashes))
	for i, hash := range hashes {
		_, exists := e.scripts.Load(hash)
		results[i] = exists
	}
	return results
}

// ScriptFlush removes all cached scripts
func (e *Engine) ScriptFlush() {
	e.scripts.Range(func(key, value interface{}) bool {
		e.scripts.Delete(key)
		return true
	})
}

// openSandbox loads the libraries scripts may use. io and os are left out.
func openSandbox(L *lua.LState) error {
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name))
		if err != nil {
			return fmt.Errorf("open lua library %s: %w", lib.name, err)
		}
	}

	for _, name := range []string{"dofile", "loadfile", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return nil
}

// ToLua converts a RESP value using the Redis scripting rules: integers
// become numbers, bulk strings become strings, arrays become 1-indexed
// tables and the null array becomes false.
func ToLua(L *lua.LState, v protocol.Value) lua.LValue {
	switch v.Type {
	case protocol.TypeInteger:
		return lua.LNumber(float64(v.Integer))
	case protocol.TypeBulkString:
		return lua.LString(v.Data)
	case protocol.TypeArray:
		if v.IsNull {
			return lua.LFalse
		}
		table := L.CreateTable(len(v.Array), 0)
		for i, item := range v.Array {
			table.RawSetInt(i+1, ToLua(L, item)) // Lua arrays are 1-indexed
		}
		return table
	default:
		return lua.LNil
	}
}

// FromLua converts a Lua value back into a RESP value. Numbers are
// truncated toward zero, tables are read up to the first nil, true becomes
// 1 and false or nil become the null array. Negative numbers and the
// status/error tables Redis uses for other reply types are rejected.
func FromLua(lv lua.LValue) (protocol.Value, error) {
	return fromLua(lv, 0)
}

func fromLua(lv lua.LValue, depth int) (protocol.Value, error) {
	switch v := lv.(type) {
	case lua.LBool:
		if v {
			return protocol.Number(1), nil
		}
		return protocol.NullArray(), nil
	case lua.LString:
		return protocol.BulkString([]byte(v)), nil
	case lua.LNumber:
		f := math.Trunc(float64(v))
		if math.IsNaN(f) || f < 0 || f >= math.Exp2(64) {
			return protocol.Value{}, fmt.Errorf("number %v cannot be represented as an unsigned integer", float64(v))
		}
		return protocol.Number(uint64(f)), nil
	case *lua.LNilType:
		return protocol.NullArray(), nil
	case *lua.LTable:
		return tableToArray(v, depth)
	default:
		return protocol.Value{}, fmt.Errorf("unsupported lua type %s", lv.Type())
	}
}

func tableToArray(table *lua.LTable, depth int) (protocol.Value, error) {
	if depth >= protocol.DefaultMaxDepth {
		return protocol.Value{}, fmt.Errorf("table nesting exceeds max depth %d", protocol.DefaultMaxDepth)
	}
	for _, field := range []string{"err", "ok"} {
		if table.RawGetString(field) != lua.LNil {
			return protocol.Value{}, fmt.Errorf("%s replies are not supported", field)
		}
	}

	elems := make([]protocol.Value, 0, table.Len())
	for i := 1; ; i++ {
		item := table.RawGetInt(i)
		if item == lua.LNil {
			break
		}
		v, err := fromLua(item, depth+1)
		if err != nil {
			return protocol.Value{}, err
		}
		elems = append(elems, v)
	}
	return protocol.ArrayOf(elems...), nil
}
