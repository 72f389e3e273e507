package install

import (
	"sort"
	"strconv"
	"strings"
)

// versionKey maps a version string onto its ordering weight:
// major*10000 + minor*100 + patch. A fourth component is tolerated but
// carries no weight, and non-numeric components count as zero.
func versionKey(v string) int {
	parts := strings.SplitN(strings.TrimSpace(v), ".", 4)
	var nums [3]int
	for i := 0; i < len(parts) && i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			continue
		}
		nums[i] = n
	}
	return nums[0]*10000 + nums[1]*100 + nums[2]
}

// OrderVersions sorts version strings numerically, newest first, so that
// 3.10 outranks 3.9. The sort is stable: versions with equal weight keep
// their incoming order.
func OrderVersions(versions []string) []string {
	out := append([]string(nil), versions...)
	sort.SliceStable(out, func(i, j int) bool {
		return versionKey(out[i]) > versionKey(out[j])
	})
	return out
}
