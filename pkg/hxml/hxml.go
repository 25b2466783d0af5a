// Package hxml renders a manifest as build-tool library flags.
package hxml

import (
	"fmt"
	"strings"

	"github.com/hxmtool/hxm/pkg/manifest"
)

// Dump renders one "-lib name[:version]" line per dependency, in
// manifest order. Only registry versions qualify the name; refs and
// paths are resolved through the cache at build time, not here.
func Dump(m *manifest.Manifest) string {
	var b strings.Builder
	for i := range m.Dependencies {
		dep := &m.Dependencies[i]
		if dep.Kind == manifest.KindHaxelib && dep.Version != "" {
			fmt.Fprintf(&b, "-lib %s:%s\n", dep.Name, dep.Version)
			continue
		}
		fmt.Fprintf(&b, "-lib %s\n", dep.Name)
	}
	return b.String()
}
