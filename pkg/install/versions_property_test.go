//go:build property
// +build property

package install

import (
	"fmt"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestOrderVersionsProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	versionGen := gopter.CombineGens(
		gen.IntRange(1, 9),
		gen.IntRange(0, 30),
		gen.IntRange(0, 30),
	).Map(func(vals []interface{}) string {
		return fmt.Sprintf("%d.%d.%d", vals[0], vals[1], vals[2])
	})

	properties.Property("output is a permutation of the input", prop.ForAll(
		func(versions []string) bool {
			got := OrderVersions(versions)
			if len(got) != len(versions) {
				return false
			}
			a := append([]string(nil), versions...)
			b := append([]string(nil), got...)
			sort.Strings(a)
			sort.Strings(b)
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(versionGen),
	))

	properties.Property("adjacent keys never increase", prop.ForAll(
		func(versions []string) bool {
			got := OrderVersions(versions)
			for i := 1; i < len(got); i++ {
				if versionKey(got[i-1]) < versionKey(got[i]) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(versionGen),
	))

	properties.TestingRun(t)
}
