package protocol

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Digest returns a 64-bit content hash of v. Equal values have equal
// digests; the type and every length are hashed, so an empty array, the
// null array and an empty string all differ.
func Digest(v Value) uint64 {
	h := xxhash.New()
	writeDigest(h, v, make([]byte, 0, 9))
	return h.Sum64()
}

func writeDigest(h *xxhash.Digest, v Value, scratch []byte) {
	scratch = append(scratch[:0], byte(v.Type))
	switch v.Type {
	case TypeInteger:
		scratch = binary.BigEndian.AppendUint64(scratch, v.Integer)
		h.Write(scratch)
	case TypeBulkString:
		scratch = binary.BigEndian.AppendUint64(scratch, uint64(len(v.Data)))
		h.Write(scratch)
		h.Write(v.Data)
	case TypeArray:
		if v.IsNull {
			// a length no real array can have
			scratch = binary.BigEndian.AppendUint64(scratch, ^uint64(0))
			h.Write(scratch)
			return
		}
		scratch = binary.BigEndian.AppendUint64(scratch, uint64(len(v.Array)))
		h.Write(scratch)
		for _, item := range v.Array {
			writeDigest(h, item, scratch)
		}
	default:
		h.Write(scratch)
	}
}
