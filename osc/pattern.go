package osc

import "strings"

// Match reports whether address matches the OSC 1.0 address pattern.
// Both strings are split on '/'; the number of non-empty parts must be
// equal, and each part is matched independently against the wildcard
// grammar: '?' (one character), '*' (zero or more characters, never
// crossing a '/'), '[...]' (a character class, optionally negated with a
// leading '!', with 'x-y' ranges), and '{a,b,c}' (literal alternatives,
// tried in order, with no further wildcard interpretation inside an
// alternative except that a brace group nested inside an alternative is
// itself expanded, balanced arbitrarily deep). An unclosed '[' makes the
// pattern malformed and yields no match; an unclosed '{' falls back to
// matching '{' as a literal character.
func Match(pattern, address string) bool {
	patParts := splitNonEmpty(pattern)
	addrParts := splitNonEmpty(address)
	if len(patParts) != len(addrParts) {
		return false
	}
	for i := range patParts {
		if !matchPart(patParts[i], addrParts[i]) {
			return false
		}
	}
	return true
}

func splitNonEmpty(s string) []string {
	raw := strings.Split(s, "/")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// matchPart matches a single '/'-delimited part of a pattern against the
// corresponding part of a concrete address.
func matchPart(pattern, address string) bool {
	return matchAt([]byte(pattern), 0, []byte(address), 0)
}

func matchAt(pat []byte, pi int, str []byte, si int) bool {
	for pi < len(pat) {
		switch pat[pi] {
		case '*':
			for k := si; k <= len(str); k++ {
				if matchAt(pat, pi+1, str, k) {
					return true
				}
			}
			return false

		case '?':
			if si >= len(str) {
				return false
			}
			pi++
			si++

		case '[':
			end := findClassEnd(pat, pi)
			if end == -1 {
				return false
			}
			if si >= len(str) {
				return false
			}
			if !matchClass(string(pat[pi+1:end]), str[si]) {
				return false
			}
			pi = end + 1
			si++

		case '{':
			end, ok := findBraceEnd(pat, pi)
			if !ok {
				if si >= len(str) || str[si] != '{' {
					return false
				}
				pi++
				si++
				continue
			}
			rest := pat[end+1:]
			for _, alt := range splitAlternatives(pat[pi+1 : end]) {
				if matchBraceLiteral(alt, rest, str, si) {
					return true
				}
			}
			return false

		default:
			if si >= len(str) || str[si] != pat[pi] {
				return false
			}
			pi++
			si++
		}
	}
	return si == len(str)
}

// matchBraceLiteral matches lit, a single brace alternative, as a literal
// string against str at si, except that any brace group nested inside lit
// is itself expanded (recursively, same rule) rather than matched as
// literal text — matching spec.md §4.3's "nested braces are permitted and
// balanced" on top of "each alternative is a literal string (no further
// wildcard interpretation inside it)". On a full literal match, matching
// continues with rest, the remainder of the pattern after the group's
// closing '}', via the ordinary wildcard grammar.
func matchBraceLiteral(lit string, rest []byte, str []byte, si int) bool {
	idx := strings.IndexByte(lit, '{')
	if idx == -1 {
		if si+len(lit) <= len(str) && string(str[si:si+len(lit)]) == lit {
			return matchAt(rest, 0, str, si+len(lit))
		}
		return false
	}

	prefix := lit[:idx]
	if si+len(prefix) > len(str) || string(str[si:si+len(prefix)]) != prefix {
		return false
	}
	si2 := si + len(prefix)

	end, ok := findBraceEnd([]byte(lit), idx)
	if !ok {
		if si2 >= len(str) || str[si2] != '{' {
			return false
		}
		return matchBraceLiteral(lit[idx+1:], rest, str, si2+1)
	}

	suffix := lit[end+1:]
	for _, alt := range splitAlternatives([]byte(lit[idx+1:end])) {
		if matchBraceLiteral(alt+suffix, rest, str, si2) {
			return true
		}
	}
	return false
}

// findClassEnd returns the index of the ']' that closes the bracket class
// starting at pat[start] == '[', or -1 if there is none.
func findClassEnd(pat []byte, start int) int {
	for i := start + 1; i < len(pat); i++ {
		if pat[i] == ']' {
			return i
		}
	}
	return -1
}

// matchClass reports whether ch is a member of the bracket class body
// (the text between '[' and ']', including any leading '!', which
// matchClass itself strips and treats as negation).
func matchClass(body string, ch byte) bool {
	negate := false
	if strings.HasPrefix(body, "!") {
		negate = true
		body = body[1:]
	}

	if body == "" {
		return negate
	}

	matched := false
	i := 0
	for i < len(body) {
		if body[i] == '-' {
			if ch == '-' {
				matched = true
			}
			i++
			continue
		}
		if i+2 < len(body) && body[i+1] == '-' {
			lo, hi := body[i], body[i+2]
			if ch >= lo && ch <= hi {
				matched = true
			}
			i += 3
			continue
		}
		if body[i] == ch {
			matched = true
		}
		i++
	}

	if negate {
		return !matched
	}
	return matched
}

// findBraceEnd returns the index of the '}' that closes the brace group
// starting at pat[start] == '{', honoring nested (balanced) braces, or
// ok=false if there is none.
func findBraceEnd(pat []byte, start int) (end int, ok bool) {
	depth := 1
	for i := start + 1; i < len(pat); i++ {
		switch pat[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// splitAlternatives splits the interior of a brace group into its literal
// alternatives, splitting on commas only at nesting depth 0 so that
// balanced nested braces stay intact within a single alternative.
func splitAlternatives(interior []byte) []string {
	var alts []string
	depth := 0
	start := 0
	for i := 0; i < len(interior); i++ {
		switch interior[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				alts = append(alts, string(interior[start:i]))
				start = i + 1
			}
		}
	}
	alts = append(alts, string(interior[start:]))
	return alts
}
