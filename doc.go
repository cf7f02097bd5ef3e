// Package respdecode decodes Redis Serialization Protocol (RESP) values from
// in-memory buffers.
//
// The grammar itself lives in the protocol package; this package wraps it
// with configuration, logging and metrics for applications that own the
// network side and hand complete or partial buffers to the decoder.
//
// Basic usage:
//
//	decoder, err := respdecode.New(
//		respdecode.WithMaxDepth(32),
//		respdecode.WithMaxBulkLength(64*1024*1024),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	values, rest, err := decoder.DecodeAll(buf)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, v := range values {
//		fmt.Println(v)
//	}
//	// rest holds a trailing partial value, if any
//
// The library supports:
//
//   - Integers, bulk strings, arrays and null arrays
//   - Distinguishing incomplete input from malformed input
//   - Limits on nesting depth, bulk string size and array length
//   - Converting decoded replies to and from Lua values (package lua)
//
// For a command line front end, see cmd/respdump.
package respdecode
