// Package gnu implements GNU/dpkg style version ordering.
//
// The algorithm follows verrevcmp from dpkg and coreutils' filevercmp
// (Copyright (C) 1995 Ian Jackson, (C) 2001 Anthony Towns,
// (C) 2008-2025 Free Software Foundation, Inc.; LGPL-3.0-or-later).
package gnu

// Compare orders two version strings and returns -1, 0 or 1.
//
// Non-digit runs are compared character by character, with letters sorting
// before other symbols and '~' sorting before everything, even the end of
// the string. Digit runs are compared numerically, ignoring leading zeros.
func Compare(a, b string) int {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		for (i < len(a) && !isDigit(a[i])) || (j < len(b) && !isDigit(b[j])) {
			if wa, wb := weight(a, i), weight(b, j); wa != wb {
				return sign(wa - wb)
			}
			i++
			j++
		}

		for i < len(a) && a[i] == '0' {
			i++
		}
		for j < len(b) && b[j] == '0' {
			j++
		}

		diff := 0
		for i < len(a) && j < len(b) && isDigit(a[i]) && isDigit(b[j]) {
			if diff == 0 {
				diff = int(a[i]) - int(b[j])
			}
			i++
			j++
		}
		// the longer digit run is the bigger number
		if i < len(a) && isDigit(a[i]) {
			return 1
		}
		if j < len(b) && isDigit(b[j]) {
			return -1
		}
		if diff != 0 {
			return sign(diff)
		}
	}
	return 0
}

// weight returns the sort weight of s[i]; past the end counts as 0.
func weight(s string, i int) int {
	if i >= len(s) {
		return 0
	}
	switch c := s[i]; {
	case isDigit(c):
		return 0
	case isAlpha(c):
		return int(c)
	case c == '~':
		return -1
	default:
		return int(c) + 256
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
