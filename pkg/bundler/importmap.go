package bundler

import "strings"

// ResolveImport resolves a bare specifier against Context.ImportMap using
// longest-prefix-wins alias matching, the behavior every import-map
// implementation (browser native, Deno, and bundler-userland
// reimplementations alike) converges on. spec.md lists ImportMap as a
// Context field but leaves its resolution precedence unspecified; this is
// the supplemental behavior SPEC_FULL.md §7 calls for.
//
// An exact key match always wins outright. Otherwise the longest key
// ending in "/" that prefixes specifier wins, with the matched prefix
// replaced by its mapped value.
func (c *Context) ResolveImport(specifier string) (string, bool) {
	if c.ImportMap == nil {
		return "", false
	}
	if target, ok := c.ImportMap[specifier]; ok {
		return target, true
	}

	bestKey := ""
	bestTarget := ""
	found := false
	for k, v := range c.ImportMap {
		if !strings.HasSuffix(k, "/") {
			continue
		}
		if !strings.HasPrefix(specifier, k) {
			continue
		}
		if len(k) > len(bestKey) {
			bestKey = k
			bestTarget = v
			found = true
		}
	}
	if !found {
		return "", false
	}
	return bestTarget + strings.TrimPrefix(specifier, bestKey), true
}
