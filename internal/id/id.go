package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Format returns an entry number like "LN-001".
func Format(prefix string, seq int) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}

// Parse splits an entry number into prefix and sequence.
func Parse(number string) (prefix string, seq int, err error) {
	i := strings.LastIndexByte(number, '-')
	if i <= 0 || i == len(number)-1 {
		return "", 0, fmt.Errorf("invalid entry number format: %q", number)
	}

	prefix = number[:i]
	if err := ValidPrefix(prefix); err != nil {
		return "", 0, fmt.Errorf("invalid entry number %q: %w", number, err)
	}

	seq, err = strconv.Atoi(number[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid sequence in entry number %q: %w", number, err)
	}
	if seq <= 0 {
		return "", 0, fmt.Errorf("invalid sequence %d in entry number %q", seq, number)
	}

	return prefix, seq, nil
}

// ValidPrefix checks that a category prefix is 1-8 upper-case letters/digits.
func ValidPrefix(prefix string) error {
	if len(prefix) == 0 || len(prefix) > 8 {
		return fmt.Errorf("prefix must be 1-8 characters, got %q", prefix)
	}
	for _, r := range prefix {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return fmt.Errorf("prefix %q may only contain A-Z and 0-9", prefix)
		}
	}
	return nil
}
