package variant

// IsACGT reports whether c is A, C, G or T in either case.
func IsACGT(c byte) bool {
	switch c {
	case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		return true
	}
	return false
}

// IsACGTN reports whether c is A, C, G, T or N in either case.
func IsACGTN(c byte) bool {
	return IsACGT(c) || c == 'N' || c == 'n'
}

// IsAllACGT reports whether every character of s satisfies IsACGT.
func IsAllACGT(s string) bool {
	for i := 0; i < len(s); i++ {
		if !IsACGT(s[i]) {
			return false
		}
	}
	return true
}

// IsAllACGTN reports whether every character of s satisfies IsACGTN.
func IsAllACGTN(s string) bool {
	for i := 0; i < len(s); i++ {
		if !IsACGTN(s[i]) {
			return false
		}
	}
	return true
}
