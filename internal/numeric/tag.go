package numeric

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTag parses a CLI/config numeric type tag of the form "FLOAT",
// "DOUBLE", "FIXED(N,K)" or "FAST_FIXED(N,K)" into a Kind plus its (n,k)
// parameters (zero for FLOAT/DOUBLE).
func ParseTag(tag string) (kind Kind, n, k int, err error) {
	tag = strings.TrimSpace(tag)
	switch {
	case tag == "FLOAT":
		return KindFloat, 0, 0, nil
	case tag == "DOUBLE":
		return KindDouble, 0, 0, nil
	case strings.HasPrefix(tag, "FAST_FIXED(") && strings.HasSuffix(tag, ")"):
		n, k, err = parseNK(tag, "FAST_FIXED(")
		return KindFastFixed, n, k, err
	case strings.HasPrefix(tag, "FIXED(") && strings.HasSuffix(tag, ")"):
		n, k, err = parseNK(tag, "FIXED(")
		return KindFixed, n, k, err
	default:
		return 0, 0, 0, fmt.Errorf("numeric: unknown type tag %q", tag)
	}
}

func parseNK(tag, prefix string) (int, int, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(tag, prefix), ")")
	parts := strings.Split(inner, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("numeric: malformed type tag %q", tag)
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("numeric: malformed N in tag %q: %w", tag, err)
	}
	k, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("numeric: malformed K in tag %q: %w", tag, err)
	}
	return n, k, nil
}

// ZeroFromTag is a convenience wrapper combining ParseTag and Zero.
func ZeroFromTag(tag string) (Number, error) {
	kind, n, k, err := ParseTag(tag)
	if err != nil {
		return nil, err
	}
	return Zero(kind, n, k)
}
