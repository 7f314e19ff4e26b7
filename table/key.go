package table

import (
	"strconv"
	"strings"
)

// Key is a composite row key: the values of the key columns, in key column
// order.
type Key []string

// String renders the key as a tuple, e.g. ("alu", "run1").
func (k Key) String() string {
	quoted := make([]string, len(k))
	for i, v := range k {
		quoted[i] = strconv.Quote(v)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

// Compare orders keys lexicographically, element by element. A key that is
// a prefix of another sorts first.
func (k Key) Compare(other Key) int {
	for i := 0; i < len(k) && i < len(other); i++ {
		if c := strings.Compare(k[i], other[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(k) < len(other):
		return -1
	case len(k) > len(other):
		return 1
	default:
		return 0
	}
}

// Equal reports whether both keys hold the same values.
func (k Key) Equal(other Key) bool {
	return k.Compare(other) == 0
}

// id is a collision-free map index for the key.
func (k Key) id() string {
	var sb strings.Builder
	for _, v := range k {
		sb.WriteString(strconv.Itoa(len(v)))
		sb.WriteByte(':')
		sb.WriteString(v)
	}
	return sb.String()
}
