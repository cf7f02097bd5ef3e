package lua

import (
	"strings"
	"testing"

	"github.com/raniellyferreira/respdecode/protocol"
	lua "github.com/yuin/gopher-lua"
)

func decode(t *testing.T, input string) protocol.Value {
	t.Helper()
	v, _, err := protocol.Decode([]byte(input))
	if err != nil {
		t.Fatalf("Decode(%q) error = %v", input, err)
	}
	return v
}

func TestLuaEngine_BasicExecution(t *testing.T) {
	engine := NewEngine()
	reply := decode(t, "*3\r\n$3\r\nfoo\r\n:42\r\n*-1\r\n")

	tests := []struct {
		name     string
		script   string
		expected protocol.Value
	}{
		{
			name:     "simple return",
			script:   "return 'hello'",
			expected: protocol.BulkString([]byte("hello")),
		},
		{
			name:     "return number",
			script:   "return 42",
			expected: protocol.Number(42),
		},
		{
			name:     "reply length",
			script:   "return #REPLY",
			expected: protocol.Number(3),
		},
		{
			name:     "access bulk string",
			script:   "return REPLY[1]",
			expected: protocol.BulkString([]byte("foo")),
		},
		{
			name:     "integer arithmetic",
			script:   "return REPLY[2] + 1",
			expected: protocol.Number(43),
		},
		{
			name:     "null array is false",
			script:   "if REPLY[3] == false then return 'null' end return 'other'",
			expected: protocol.BulkString([]byte("null")),
		},
		{
			name:     "round trip",
			script:   "return REPLY",
			expected: reply,
		},
		{
			name:     "reshape",
			script:   "return {REPLY[2], string.upper(REPLY[1])}",
			expected: protocol.ArrayOf(protocol.Number(42), protocol.BulkString([]byte("FOO"))),
		},
		{
			name:     "no return value",
			script:   "local x = 1",
			expected: protocol.NullArray(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Eval(tt.script, reply)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.Equal(tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestLuaEngine_ScriptCaching(t *testing.T) {
	engine := NewEngine()
	reply := decode(t, "$5\r\nhello\r\n")

	sha := engine.LoadScript("return REPLY .. ' world'")
	if len(sha) != 40 {
		t.Fatalf("expected 40 character SHA1, got %q", sha)
	}

	result, err := engine.EvalSHA(sha, reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(protocol.BulkString([]byte("hello world"))) {
		t.Errorf("unexpected result %v", result)
	}

	_, err = engine.EvalSHA("0000000000000000000000000000000000000000", reply)
	if err == nil || !strings.HasPrefix(err.Error(), "NOSCRIPT") {
		t.Errorf("expected NOSCRIPT error, got %v", err)
	}
}

func TestLuaEngine_ScriptExists(t *testing.T) {
	engine := NewEngine()
	sha := engine.LoadScript("return 1")

	exists := engine.ScriptExists([]string{sha, "missing"})
	if len(exists) != 2 || !exists[0] || exists[1] {
		t.Errorf("ScriptExists() = %v", exists)
	}
}

func TestLuaEngine_ScriptFlush(t *testing.T) {
	engine := NewEngine()
	sha1 := engine.LoadScript("return 1")
	sha2 := engine.LoadScript("return 2")

	engine.ScriptFlush()

	for _, exists := range engine.ScriptExists([]string{sha1, sha2}) {
		if exists {
			t.Error("script still cached after flush")
		}
	}
}

func TestLuaEngine_Sandbox(t *testing.T) {
	engine := NewEngine()

	for _, script := range []string{
		"return io.read()",
		"return os.time()",
		"return dofile('/etc/passwd')",
	} {
		if _, err := engine.Eval(script, protocol.NullArray()); err == nil {
			t.Errorf("Eval(%q) succeeded, want error", script)
		}
	}
}

func TestLuaEngine_ErrorHandling(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name   string
		script string
	}{
		{"syntax error", "return +"},
		{"runtime error", "error('boom')"},
		{"negative number", "return -1"},
		{"error reply table", "return {err = 'ERR'}"},
		{"status reply table", "return {ok = 'OK'}"},
		{"function", "return function() end"},
		{"self referencing table", "local t = {}; t[1] = t; return t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := engine.Eval(tt.script, protocol.NullArray()); err == nil {
				t.Errorf("expected error for %q", tt.script)
			}
		})
	}
}

func TestLuaEngine_DataTypeConversion(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if lv := ToLua(L, protocol.NullArray()); lv != lua.LFalse {
		t.Errorf("null array converted to %v", lv)
	}
	if lv := ToLua(L, protocol.Number(7)); lv != lua.LNumber(7) {
		t.Errorf("integer converted to %v", lv)
	}
	if lv := ToLua(L, protocol.BulkString([]byte("x"))); lv != lua.LString("x") {
		t.Errorf("bulk string converted to %v", lv)
	}

	table, ok := ToLua(L, protocol.ArrayOf()).(*lua.LTable)
	if !ok || table.Len() != 0 {
		t.Errorf("empty array converted to %v", table)
	}

	tests := []struct {
		name     string
		value    lua.LValue
		expected protocol.Value
	}{
		{"true", lua.LTrue, protocol.Number(1)},
		{"false", lua.LFalse, protocol.NullArray()},
		{"nil", lua.LNil, protocol.NullArray()},
		{"float truncates", lua.LNumber(3.99), protocol.Number(3)},
		{"string", lua.LString(""), protocol.BulkString([]byte{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromLua(tt.value)
			if err != nil {
				t.Fatalf("FromLua() error = %v", err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("FromLua() = %v, want %v", got, tt.expected)
			}
		})
	}

	// Tables stop at the first nil, like Redis.
	holes := L.NewTable()
	holes.RawSetInt(1, lua.LNumber(1))
	holes.RawSetInt(3, lua.LNumber(3))
	got, err := FromLua(holes)
	if err != nil {
		t.Fatalf("FromLua() error = %v", err)
	}
	if !got.Equal(protocol.ArrayOf(protocol.Number(1))) {
		t.Errorf("FromLua(table with hole) = %v", got)
	}
}
