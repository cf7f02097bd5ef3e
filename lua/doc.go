// Package lua runs Lua scripts over decoded RESP replies.
//
// Replies cross into Lua with the same conversions Redis applies to the
// result of redis.call():
//   - Integers become numbers
//   - Bulk strings become strings
//   - Arrays become 1-indexed tables
//   - The null array becomes false
//
// A script sees the reply as the global REPLY and its return value is
// converted back, so scripts can both inspect and reshape replies:
//
//	engine := lua.NewEngine()
//	out, err := engine.Eval("return #REPLY", reply)
//
// Scripts are executed with only the base, table, string and math
// libraries loaded.
package lua
