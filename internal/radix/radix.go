package radix

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Alphabet lists the 32 symbols in ascending digit order. I, J, L and O are
// left out so printed labels cannot be misread as 1 or 0.
const Alphabet = "0123456789ABCDEFGHKMNPQRSTUVWXYZ"

// Base is the numeric base of the codec.
const Base = int64(len(Alphabet))

// ErrEncoding marks invalid codec input: negative numbers, symbols outside
// the alphabet, or values that do not fit the requested width.
var ErrEncoding = errors.New("encoding error")

var symbolValues = func() [256]int8 {
	var table [256]int8
	for i := range table {
		table[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		table[Alphabet[i]] = int8(i)
		lower := Alphabet[i]
		if lower >= 'A' && lower <= 'Z' {
			table[lower+('a'-'A')] = int8(i)
		}
	}
	return table
}()

// Encode renders n most-significant symbol first. Encode(0) is "0".
func Encode(n int64) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("%w: negative value %d", ErrEncoding, n)
	}
	if n == 0 {
		return "0", nil
	}
	var buf [16]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = Alphabet[n%Base]
		n /= Base
	}
	return string(buf[pos:]), nil
}

// EncodePadded encodes n and left-pads the result with '0' to width.
func EncodePadded(n int64, width int) (string, error) {
	encoded, err := Encode(n)
	if err != nil {
		return "", err
	}
	if len(encoded) > width {
		return "", fmt.Errorf("%w: %d needs %d symbols, width is %d", ErrEncoding, n, len(encoded), width)
	}
	return strings.Repeat("0", width-len(encoded)) + encoded, nil
}

// Decode parses s ignoring case and surrounding whitespace.
func Decode(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty value", ErrEncoding)
	}
	var n int64
	for i := 0; i < len(trimmed); i++ {
		v := symbolValues[trimmed[i]]
		if v < 0 {
			return 0, fmt.Errorf("%w: symbol %q not in alphabet (value %q)", ErrEncoding, trimmed[i], s)
		}
		if n > (math.MaxInt64-int64(v))/Base {
			return 0, fmt.Errorf("%w: value %q overflows", ErrEncoding, s)
		}
		n = n*Base + int64(v)
	}
	return n, nil
}

// MaxForWidth is the largest value that encodes into width symbols.
func MaxForWidth(width int) int64 {
	max := int64(1)
	for i := 0; i < width; i++ {
		max *= Base
	}
	return max - 1
}

// IsSymbol reports whether b is an upper-case alphabet symbol.
func IsSymbol(b byte) bool {
	return symbolValues[b] >= 0 && !(b >= 'a' && b <= 'z')
}

// ValidLabel reports whether s is exactly width upper-case alphabet symbols.
// This is the printable-label policy shared by fixture numbers, part counts
// and versions.
func ValidLabel(s string, width int) bool {
	if len(s) != width {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsSymbol(s[i]) {
			return false
		}
	}
	return true
}
