package diff

import (
	"fmt"
	"strings"

	"github.com/sarchlab/simuben/table"
)

// KeySetMismatchError reports two tables that do not cover the same keys.
type KeySetMismatchError struct {
	OldSource string
	NewSource string
	// MissingInNew lists keys present only in the old table, sorted.
	MissingInNew []table.Key
	// MissingInOld lists keys present only in the new table, sorted.
	MissingInOld []table.Key
}

func (e *KeySetMismatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "key mismatch between %s and %s", e.OldSource, e.NewSource)
	if len(e.MissingInNew) > 0 {
		fmt.Fprintf(&sb, "\nkeys in old file but not in new: %s", formatKeys(e.MissingInNew))
	}
	if len(e.MissingInOld) > 0 {
		fmt.Fprintf(&sb, "\nkeys in new file but not in old: %s", formatKeys(e.MissingInOld))
	}
	return sb.String()
}

// ZeroBaselineError reports a relative diff against an old value of zero
// under the ZeroAsError policy.
type ZeroBaselineError struct {
	Key    table.Key
	Metric string
}

func (e *ZeroBaselineError) Error() string {
	return fmt.Sprintf("cannot compute relative %s diff for key %s: old value is 0",
		e.Metric, e.Key)
}

func formatKeys(keys []table.Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
