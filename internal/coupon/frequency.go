package coupon

// frequencyIndex maps a folded product code to the number of distinct
// coupons that contain it. It lives for a single count.
type frequencyIndex map[string]int

func newFrequencyIndex(capacity int) frequencyIndex {
	return make(frequencyIndex, capacity)
}

// add records one occurrence of each key. Keys must already be distinct
// for the coupon they came from.
func (f frequencyIndex) add(keys []string) {
	for _, key := range keys {
		f[key]++
	}
}

// hasUnique reports whether any key occurs in exactly one coupon.
func (f frequencyIndex) hasUnique(keys []string) bool {
	for _, key := range keys {
		if f[key] == 1 {
			return true
		}
	}
	return false
}
