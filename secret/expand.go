package secret

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Expand expands environment references in s against src.
//
// Semantics:
//   - `$VAR` and `${VAR}` are replaced by the slot value from src.
//   - If any referenced slot is absent, Expand errors naming every missing
//     slot, sorted.
//   - `$$` emits a literal `$` (escape hatch).
func Expand(s string, src Source) (string, error) {
	const dollarSentinel = "\x00BOARDOPS_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", dollarSentinel)

	missing := make(map[string]struct{})
	expanded := os.Expand(s, func(name string) string {
		if v, ok := src.Lookup(name); ok {
			return v
		}
		missing[name] = struct{}{}
		return ""
	})
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		return "", fmt.Errorf("missing required environment variables: %s", strings.Join(names, ", "))
	}

	return strings.ReplaceAll(expanded, dollarSentinel, "$"), nil
}
