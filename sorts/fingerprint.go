package sorts

import (
	"encoding/binary"

	"github.com/dgryski/go-farm"
)

// Fingerprint hashes a step sequence. Two runs of the same algorithm over the same
// input have equal fingerprints.
func Fingerprint(steps []Step) uint64 {
	var buf []byte
	for _, s := range steps {
		buf = binary.AppendUvarint(buf, uint64(len(s.Snapshot)))
		for _, v := range s.Snapshot {
			buf = binary.AppendVarint(buf, int64(v))
		}
		buf = binary.AppendUvarint(buf, uint64(s.Count))
	}
	return farm.Hash64(buf)
}
