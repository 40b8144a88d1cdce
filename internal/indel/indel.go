// Package indel determines whether two differently positioned insertions, or
// two differently positioned deletions, produce the same sequence.
//
// The tests follow S.V. Rice, "Determining Whether Two Indels Are
// Equivalent", St. Jude Children's Research Hospital, 2015. They only read
// reference bases; a lookup outside the loaded window returns 'N', which
// compares unequal to every inserted base, so callers must supply a window
// covering InsertionWindow or DeletionWindow.
package indel

// MaxEquivDistance is the largest distance in bases between two indels that
// are considered candidates for equivalence.
const MaxEquivDistance = 1000

// BaseLookup returns the reference base at a 1-based position, or 'N' where
// the base is unknown.
type BaseLookup interface {
	Base(pos uint32) byte
}

// EquivalentInsertions reports whether inserting seq1 before position pos1
// yields the same sequence as inserting seq2 before position pos2.
func EquivalentInsertions(ref BaseLookup, pos1 uint32, seq1 string, pos2 uint32, seq2 string) bool {
	if len(seq1) != len(seq2) {
		return false
	}
	if pos1 == pos2 {
		return seq1 == seq2
	}

	// j and k are the bases preceding the earlier and later insertions,
	// carrying v and w respectively.
	v, w := seq1, seq2
	j, k := pos1-1, pos2-1
	if pos1 > pos2 {
		v, w = seq2, seq1
		j, k = pos2-1, pos1-1
	}

	m := k - j
	n := uint32(len(v))

	switch {
	case m < n:
		// Overlapping: the first m bases of v match the reference and the
		// tail of w; the rest of v is the head of w.
		for i := uint32(0); i < m; i++ {
			if v[i] != w[n-m+i] || v[i] != ref.Base(j+1+i) {
				return false
			}
		}
		for i := m; i < n; i++ {
			if v[i] != w[i-m] {
				return false
			}
		}
		return true

	case m == n:
		// Adjacent: v, w and the bases between the insertions all agree.
		for i := uint32(0); i < n; i++ {
			if v[i] != w[i] || v[i] != ref.Base(j+1+i) {
				return false
			}
		}
		return true

	default:
		// Separated: v matches the reference after j, w matches the
		// reference ending at k, and the bases between repeat with period n.
		for i := uint32(0); i < n; i++ {
			if v[i] != ref.Base(j+1+i) {
				return false
			}
		}
		for i := uint32(0); i < n; i++ {
			if w[i] != ref.Base(k-n+1+i) {
				return false
			}
		}
		for s := j + 1; s <= k-n; s++ {
			if ref.Base(s) != ref.Base(s+n) {
				return false
			}
		}
		return true
	}
}

// EquivalentDeletions reports whether deleting seq1 starting at pos1 yields
// the same sequence as deleting seq2 starting at pos2. The payloads are not
// checked against the reference; see ValidDeletion on the reference type.
func EquivalentDeletions(ref BaseLookup, pos1 uint32, seq1 string, pos2 uint32, seq2 string) bool {
	if len(seq1) != len(seq2) {
		return false
	}
	if pos1 == pos2 {
		return seq1 == seq2
	}

	j, k := min(pos1, pos2), max(pos1, pos2)
	n := uint32(len(seq1))

	for s := j; s < k; s++ {
		if ref.Base(s) != ref.Base(s+n) {
			return false
		}
	}
	return true
}

// InsertionWindow returns the inclusive range of reference positions that
// EquivalentInsertions may consult for insertions at pos1 and pos2.
func InsertionWindow(pos1, pos2 uint32) (begin, end uint32) {
	begin, end = min(pos1, pos2), max(pos1, pos2)
	if end > begin {
		end--
	}
	return begin, end
}

// DeletionWindow returns the inclusive range of reference positions that
// EquivalentDeletions may consult for deletions of n bases at pos1 and pos2.
func DeletionWindow(pos1, pos2 uint32, n int) (begin, end uint32) {
	begin, end = min(pos1, pos2), max(pos1, pos2)
	if n > 0 {
		end += uint32(n) - 1
	}
	return begin, end
}
