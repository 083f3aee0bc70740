package iface

import (
	"fmt"
	"math"
	"net/netip"
	"strconv"
	"strings"
	"unicode"

	"github.com/kballard/go-shellquote"
)

// mungeArray wraps a scalar into a one-element sequence and keeps sequences in order.
// Strings are never split. An empty sequence normalizes to nil (absent).
func mungeArray(v interface{}) []interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		if len(t) == 0 {
			return nil
		}
		return t
	case []string:
		if len(t) == 0 {
			return nil
		}
		out := make([]interface{}, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []int:
		if len(t) == 0 {
			return nil
		}
		out := make([]interface{}, len(t))
		for i, n := range t {
			out[i] = n
		}
		return out
	default:
		return []interface{}{v}
	}
}

// mungeInteger coerces integers, integral floats and numeric strings into an int.
func mungeInteger(attr string, v interface{}) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int8:
		return int(t), nil
	case int16:
		return int(t), nil
	case int32:
		return int(t), nil
	case int64:
		return int(t), nil
	case uint:
		return int(t), nil
	case uint8:
		return int(t), nil
	case uint16:
		return int(t), nil
	case uint32:
		return int(t), nil
	case uint64:
		if t > math.MaxInt32 {
			return 0, invalidValue(attr, v, "integer out of range")
		}
		return int(t), nil
	case float32:
		return mungeFloat(attr, v, float64(t))
	case float64:
		return mungeFloat(attr, v, t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, invalidValue(attr, v, "not an integer")
		}
		return n, nil
	default:
		return 0, invalidValue(attr, v, "not an integer")
	}
}

func mungeFloat(attr string, v interface{}, f float64) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, invalidValue(attr, v, "not an integer")
	}
	return int(f), nil
}

// mungeBoolean accepts literal booleans and case-insensitive "true"/"false".
// A null value takes the attribute's default.
func mungeBoolean(attr string, v interface{}, def bool) (bool, error) {
	switch t := v.(type) {
	case nil:
		return def, nil
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, invalidValue(attr, v, `must be true or false`)
}

// mungeString accepts strings and renders integers in decimal, so that values such as
// vlan_id: 100 or vrf_table: 1001 are taken as written. Every value becomes one stanza line,
// so control characters are rejected and surrounding whitespace is trimmed.
func mungeString(attr string, v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		if strings.IndexFunc(t, unicode.IsControl) >= 0 {
			return "", invalidValue(attr, v, "must not contain control characters")
		}
		return strings.TrimSpace(t), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", t), nil
	case float32, float64:
		n, err := mungeInteger(attr, v)
		if err != nil {
			return "", invalidValue(attr, v, "not a string")
		}
		return strconv.Itoa(n), nil
	default:
		return "", invalidValue(attr, v, "not a string")
	}
}

func checkRange(attr string, n, min, max int) error {
	if n < min || n > max {
		return invalidValue(attr, n, fmt.Sprintf("must be between %d and %d", min, max))
	}
	return nil
}

// checkCIDR returns the canonical text of an address/prefix-length of the given family.
func checkCIDR(family int) func(attr, s string) (string, error) {
	return func(attr, s string) (string, error) {
		p, err := netip.ParsePrefix(strings.TrimSpace(s))
		if err != nil {
			return "", invalidValue(attr, s, "not in CIDR notation")
		}
		if family == 4 && !p.Addr().Is4() {
			return "", invalidValue(attr, s, "not an IPv4 prefix")
		}
		if family == 6 && !p.Addr().Is6() {
			return "", invalidValue(attr, s, "not an IPv6 prefix")
		}
		return p.String(), nil
	}
}

// checkCommand requires a command line that splits into shell words.
func checkCommand(attr, s string) (string, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return "", invalidValue(attr, s, err.Error())
	}
	if len(words) == 0 {
		return "", invalidValue(attr, s, "empty command")
	}
	return strings.TrimSpace(s), nil
}

// checkWord requires a value without inner whitespace.
func checkWord(attr, s string) (string, error) {
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return "", invalidValue(attr, s, "must not contain whitespace")
	}
	return s, nil
}

// maxNameLen is the kernel's interface name limit (IFNAMSIZ without the terminator).
const maxNameLen = 15

// checkName requires a usable kernel interface name, which is also the stanza's file name.
func checkName(attr, s string) (string, error) {
	switch {
	case s == "":
		return s, nil
	case s == "." || s == "..":
		return "", invalidValue(attr, s, "not a valid interface name")
	case strings.ContainsRune(s, '/'):
		return "", invalidValue(attr, s, "must not contain '/'")
	case len(s) > maxNameLen:
		return "", invalidValue(attr, s, fmt.Sprintf("longer than %d characters", maxNameLen))
	}
	return checkWord(attr, s)
}
