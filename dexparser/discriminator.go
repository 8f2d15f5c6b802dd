package dexparser

import (
	"bytes"
	"crypto/sha256"
)

// Anchor-based programs tag every instruction with the first 8 bytes of
// sha256("global:<method_name>"), and every self-CPI event with a fixed
// 8-byte emit marker followed by sha256("event:<EventName>")[:8]. Deriving
// the bytes from the names keeps the table auditable against each program's
// IDL instead of hardcoding opaque constants.

var anchorEventMarker = []byte{228, 69, 165, 46, 81, 203, 154, 29}

func anchorDiscriminator(method string) []byte {
	sum := sha256.Sum256([]byte("global:" + method))
	out := make([]byte, 8)
	copy(out, sum[:8])
	return out
}

func anchorEventDiscriminator(event string) []byte {
	sum := sha256.Sum256([]byte("event:" + event))
	out := make([]byte, 0, 16)
	out = append(out, anchorEventMarker...)
	out = append(out, sum[:8]...)
	return out
}

// instructionRule binds one logical event name to the discriminators that
// select it and the number of leading bytes to compare. Decode receives the
// payload after the discriminator plus the instruction context.
type instructionRule struct {
	name           string
	discriminators [][]byte
	sliceLength    int
}

func (r instructionRule) matches(data []byte) bool {
	if len(data) < r.sliceLength {
		return false
	}
	head := data[:r.sliceLength]
	for _, d := range r.discriminators {
		if bytes.Equal(head, d) {
			return true
		}
	}
	return false
}

// matchRule returns the first rule whose discriminator matches, or nil.
// Unmatched data is expected (admin/config instructions) and not an error.
func matchRule(data []byte, rules []instructionRule) *instructionRule {
	for i := range rules {
		if rules[i].matches(data) {
			return &rules[i]
		}
	}
	return nil
}

func anchorRule(name string, methods ...string) instructionRule {
	discs := make([][]byte, 0, len(methods))
	for _, m := range methods {
		discs = append(discs, anchorDiscriminator(m))
	}
	return instructionRule{name: name, discriminators: discs, sliceLength: 8}
}

func byteRule(name string, opcodes ...byte) instructionRule {
	discs := make([][]byte, 0, len(opcodes))
	for _, op := range opcodes {
		discs = append(discs, []byte{op})
	}
	return instructionRule{name: name, discriminators: discs, sliceLength: 1}
}
