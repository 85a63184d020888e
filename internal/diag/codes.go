package diag

import (
	"fmt"
)

// Code is a stable numeric identifier for a diagnostic kind.
type Code uint16

const (
	// UnknownCode is the fallback for unclassified diagnostics.
	UnknownCode Code = 0

	// Validation findings produced by the body validator (3000 block).
	ValInfo Code = 3000
	// ValMissingStructFields flags a record literal that omits declared
	// fields without a spread operand.
	ValMissingStructFields Code = 3001
	// ValMissingPatternFields flags a record pattern that omits declared
	// fields without a rest marker.
	ValMissingPatternFields Code = 3002
	// ValMismatchedArgCount flags a call whose argument count differs from
	// the resolved parameter count.
	ValMismatchedArgCount Code = 3003
	// ValMissingMatchArms flags a non-exhaustive match expression.
	ValMissingMatchArms Code = 3004
	// ValMissingOkWrap flags a tail expression carrying the unwrapped
	// success type where a Result was expected.
	ValMissingOkWrap Code = 3005

	// Driver / snapshot IO problems (4000 block).
	IOInfo            Code = 4000
	IOSnapshotInvalid Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:             "unknown diagnostic",
	ValInfo:                 "validation note",
	ValMissingStructFields:  "missing fields in record literal",
	ValMissingPatternFields: "missing fields in record pattern",
	ValMismatchedArgCount:   "mismatched argument count",
	ValMissingMatchArms:     "missing match arms",
	ValMissingOkWrap:        "missing Ok wrap in tail expression",
	IOInfo:                  "driver note",
	IOSnapshotInvalid:       "invalid analysis snapshot",
}

// ID returns the short stable identifier used in rendered output.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("VAL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

// Title returns a one-line description of the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return c.ID()
}
