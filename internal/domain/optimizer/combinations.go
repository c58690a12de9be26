package optimizer

import (
	"math"
	"math/bits"
	"strconv"
)

// Binomial returns C(n, k). The second result is false when the count does
// not fit in an int64. Out-of-range arguments yield (0, true).
func Binomial(n, k int) (int64, bool) {
	if n < 0 || k < 0 || k > n {
		return 0, true
	}
	k = min(k, n-k)
	var c uint64 = 1
	for i := 1; i <= k; i++ {
		// c holds C(n-k+i-1, i-1); multiplying by (n-k+i) and dividing by i
		// is exact at every step. The 128-bit product avoids intermediate
		// overflow.
		hi, lo := bits.Mul64(c, uint64(n-k+i))
		if hi >= uint64(i) {
			return 0, false
		}
		c, _ = bits.Div64(hi, lo, uint64(i))
		if c > math.MaxInt64 {
			return 0, false
		}
	}
	return int64(c), true
}

// exceeds reports whether C(n, k) is larger than threshold, treating an
// overflowing count as larger than any threshold.
func exceeds(n, k int, threshold int64) bool {
	count, ok := Binomial(n, k)
	return !ok || count > threshold
}

func formatCount(n, k int) string {
	count, ok := Binomial(n, k)
	if !ok {
		return ">" + strconv.FormatInt(math.MaxInt64, 10)
	}
	return strconv.FormatInt(count, 10)
}
