package databazeknih

import "strings"

// normalizeISBN strips hyphens and whitespace and upper-cases a trailing x.
func normalizeISBN(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch r {
		case '-', ' ', '\t', '\n', '\r':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// checkISBN returns the normalized ISBN when it is a valid ISBN-10 or
// ISBN-13, or "" otherwise.
func checkISBN(raw string) string {
	isbn := normalizeISBN(raw)
	switch len(isbn) {
	case 10:
		if validISBN10(isbn) {
			return isbn
		}
	case 13:
		if validISBN13(isbn) {
			return isbn
		}
	}
	return ""
}

func validISBN10(isbn string) bool {
	sum := 0
	for i := 0; i < 10; i++ {
		c := isbn[i]
		var v int
		switch {
		case c >= '0' && c <= '9':
			v = int(c - '0')
		case c == 'X' && i == 9:
			v = 10
		default:
			return false
		}
		sum += (10 - i) * v
	}
	return sum%11 == 0
}

func validISBN13(isbn string) bool {
	sum := 0
	for i := 0; i < 13; i++ {
		c := isbn[i]
		if c < '0' || c > '9' {
			return false
		}
		v := int(c - '0')
		if i%2 == 1 {
			v *= 3
		}
		sum += v
	}
	return sum%10 == 0
}
