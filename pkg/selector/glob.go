package selector

import "unicode/utf8"

// Match reports whether name matches the shell glob pattern.
//
//	*      any run of characters, including "/"
//	?      exactly one character
//	[abc]  one character from the set; ranges (a-z) and negation ([!x], [^x])
//	\x     the literal character x
//
// A malformed pattern (such as an unterminated class) never matches.
func Match(pattern, name string) bool {
	// Backtracking on the most recent star keeps the matcher linear in
	// practice: only the last "*" ever needs to absorb more input.
	px, nx := 0, 0
	starPx, starNx := -1, -1

	for nx < len(name) {
		if px < len(pattern) {
			switch c := pattern[px]; c {
			case '*':
				starPx, starNx = px, nx
				px++
				continue
			case '?':
				_, w := utf8.DecodeRuneInString(name[nx:])
				px++
				nx += w
				continue
			case '[':
				r, w := utf8.DecodeRuneInString(name[nx:])
				ok, end, valid := matchClass(pattern, px, r)
				if !valid {
					return false
				}
				if ok {
					px = end
					nx += w
					continue
				}
			default:
				lit, lw := literal(pattern, px)
				r, w := utf8.DecodeRuneInString(name[nx:])
				if lit == r {
					px += lw
					nx += w
					continue
				}
			}
		}
		if starPx < 0 {
			return false
		}
		// Let the last star swallow one more character and retry.
		_, w := utf8.DecodeRuneInString(name[starNx:])
		starNx += w
		px, nx = starPx+1, starNx
	}

	for px < len(pattern) && pattern[px] == '*' {
		px++
	}
	return px == len(pattern)
}

// literal decodes the character at pattern[px], honouring backslash escapes.
func literal(pattern string, px int) (rune, int) {
	if pattern[px] == '\\' && px+1 < len(pattern) {
		r, w := utf8.DecodeRuneInString(pattern[px+1:])
		return r, w + 1
	}
	return utf8.DecodeRuneInString(pattern[px:])
}

// matchClass matches r against the class starting at pattern[px] == '['.
// It returns whether r is in the class, the index just past the closing
// ']', and whether the class is well formed.
func matchClass(pattern string, px int, r rune) (matched bool, end int, valid bool) {
	i := px + 1
	negate := false
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		negate = true
		i++
	}

	first := true
	for i < len(pattern) {
		if pattern[i] == ']' && !first {
			return matched != negate, i + 1, true
		}
		first = false

		lo, w := literal(pattern, i)
		i += w
		hi := lo
		if i+1 < len(pattern) && pattern[i] == '-' && pattern[i+1] != ']' {
			hi, w = literal(pattern, i+1)
			i += 1 + w
		}
		if lo <= r && r <= hi {
			matched = true
		}
	}
	return false, 0, false
}
