package asn1

import (
	"encoding/asn1"
	"fmt"
)

// Universal-class tag numbers relevant to peeking at a DER SEQUENCE.
const (
	classUniversal = 0x00
	tagSequence    = 0x10
)

// PeekSequenceInt reads only the first element of a top-level SEQUENCE,
// interpreting it as an INTEGER, without requiring the rest of the
// sequence to parse against any particular shape.
//
// This is the "peek-then-parse" primitive the Android Key Attestation
// extension needs: attestationVersion is always the first field of the
// extension payload, but the shape of everything after it depends on
// that very version. Unlike a full struct-tag unmarshal, this function
// deliberately discards the "trailing data" signal that unmarshalling
// only a prefix of the sequence produces — the caller resumes parsing the
// full version-specific shape separately once the version is known.
func PeekSequenceInt(data []byte) (int64, error) {
	var seq asn1.RawValue
	if _, err := asn1.Unmarshal(data, &seq); err != nil {
		return 0, fmt.Errorf("asn1: peek outer sequence: %w", err)
	}
	if seq.Class != classUniversal || seq.Tag != tagSequence || !seq.IsCompound {
		return 0, fmt.Errorf("asn1: peek: expected SEQUENCE, got tag %d class %d", seq.Tag, seq.Class)
	}

	var version int64
	// The remainder of seq.Bytes after the first element is intentionally
	// unread and unchecked: a full-shape parse happens later once the
	// version selects a schema.
	if _, err := asn1.Unmarshal(seq.Bytes, &version); err != nil {
		return 0, fmt.Errorf("asn1: peek first element as INTEGER: %w", err)
	}
	return version, nil
}
