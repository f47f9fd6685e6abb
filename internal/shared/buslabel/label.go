package buslabel

import (
	"fmt"
	"strings"
)

const (
	escapeChar = '_'
	hexDigits  = "0123456789abcdef"

	// emptyLabel is the segment used for the empty identifier.
	emptyLabel = "_"
)

// DecodeError reports a malformed escape sequence in a path segment.
type DecodeError struct {
	Segment string
	Offset  int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("buslabel: malformed escape at offset %d in segment %q", e.Offset, e.Segment)
}

// Encode escapes every byte of id outside [A-Za-z0-9] as "_xx".
func Encode(id string) string {
	if id == "" {
		return emptyLabel
	}

	var sb strings.Builder
	sb.Grow(len(id))
	for i := 0; i < len(id); i++ {
		c := id[i]
		if isAlnum(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte(escapeChar)
		sb.WriteByte(hexDigits[c>>4])
		sb.WriteByte(hexDigits[c&0x0f])
	}
	return sb.String()
}

// Decode reverses Encode. Characters other than escape runs are copied as-is.
func Decode(segment string) (string, error) {
	if segment == emptyLabel {
		return "", nil
	}
	if strings.IndexByte(segment, escapeChar) < 0 {
		return segment, nil
	}

	out := make([]byte, 0, len(segment))
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		if c != escapeChar {
			out = append(out, c)
			continue
		}
		if len(segment)-i < 3 {
			return "", &DecodeError{Segment: segment, Offset: i}
		}
		hi, okHi := unhex(segment[i+1])
		lo, okLo := unhex(segment[i+2])
		if !okHi || !okLo {
			return "", &DecodeError{Segment: segment, Offset: i}
		}
		out = append(out, hi<<4|lo)
		i += 2
	}
	return string(out), nil
}

// IsValid reports whether segment only holds characters legal in an object
// path element and decodes cleanly.
func IsValid(segment string) bool {
	if segment == "" {
		return false
	}
	for i := 0; i < len(segment); i++ {
		if c := segment[i]; !isAlnum(c) && c != escapeChar {
			return false
		}
	}
	_, err := Decode(segment)
	return err == nil
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
