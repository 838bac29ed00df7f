package coupon

import "strings"

// codeSet collects the distinct product codes of one coupon, compared
// without regard to case. Stored keys are folded copies; the codes passed
// in are never modified.
type codeSet struct {
	codes map[string]struct{}
}

func newCodeSet(capacity int) *codeSet {
	return &codeSet{
		codes: make(map[string]struct{}, capacity),
	}
}

// add folds code and inserts it. It returns the folded key and whether the
// key was not already present.
func (s *codeSet) add(code string) (string, bool) {
	key := foldCode(code)
	if _, exists := s.codes[key]; exists {
		return key, false
	}
	s.codes[key] = struct{}{}
	return key, true
}

// reset empties the set, keeping its allocated storage.
func (s *codeSet) reset() {
	clear(s.codes)
}

// foldCode returns the case-insensitive comparison key for a product code:
// every rune mapped to its simple upper case, with no locale rules and no
// expansion. Keys compare the way .NET's OrdinalIgnoreCase does, so U+212A
// (Kelvin sign) stays distinct from "k" and U+0130 (dotted capital I) from
// "i", while U+017F (long s) matches "s". strings.EqualFold would merge
// all three.
func foldCode(code string) string {
	return strings.ToUpper(code)
}
