package normalizer

import "fmt"

// StructureError reports an analysis result whose shape does not match the
// expected field/value tree. It names the offending field and is treated
// as a defect signal, not a user error.
type StructureError struct {
	Field  string
	Reason string
}

func (e *StructureError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed analysis result: %s", e.Reason)
	}
	return fmt.Sprintf("malformed analysis result at field %q: %s", e.Field, e.Reason)
}
