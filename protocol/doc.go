// Package protocol decodes values of the Redis Serialization Protocol (RESP)
// from in-memory buffers.
//
// The decoder is built from a handful of small parsers (a single expected
// byte, a run of digits, a literal, a fixed-size chunk) composed with
// sequencing, ordered alternation and counted repetition. Every parser
// returns the unconsumed input, so a caller that owns the connection can
// keep decoding from where the last value ended:
//
//	for {
//		value, rest, err := protocol.Decode(buf)
//		if protocol.IsIncomplete(err) {
//			break // read more bytes into buf and try again
//		}
//		if err != nil {
//			return err
//		}
//		// Process value
//		buf = rest
//	}
//
// The supported grammar is:
//   - Integers: ":<digits>\r\n" (unsigned)
//   - Bulk Strings: "$<len>\r\n<bytes>\r\n"
//   - Arrays: "*<count>\r\n" followed by count values
//   - Null arrays: "*-1\r\n"
//
// Simple strings, errors, null bulk strings and signed integers are
// rejected as malformed input.
package protocol
