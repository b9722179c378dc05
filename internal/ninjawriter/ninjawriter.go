// Package ninjawriter emits the Ninja build file that drives the external
// qbe, cc, and linker tools over the printer's .il artifacts.
//
// There is no Ninja-file-generation library among the retrieved examples
// or their dependency graphs; Ninja's manifest syntax is a small,
// line-oriented text format with no canonical Go client, so this package
// writes it directly with fmt.Fprintf into a strings.Builder rather than
// reaching for a general-purpose templating or build-graph library that
// would add a dependency without adding expressiveness.
package ninjawriter

import (
	"fmt"
	"strings"
)

// Options parameterizes the three rules: the paths to the external qbe
// and cc binaries, and the link-flag fragments assembled from the CLI's
// -l/-L options.
type Options struct {
	QBEPath   string
	CCPath    string
	LinkFlags []string
}

// Artifact is one .il source file (as written by the printer) that the
// build graph must compile through to an object file.
type Artifact struct {
	// ILName is the "{module}.il" filename, relative to the build dir.
	ILName string
}

// Generate renders a complete build.ninja: three rules (qbe, cc, link),
// two build edges per artifact (qbe for .il to .s, cc for .s to .o), a
// final edge linking all objects into output, and a default line naming
// output.
func Generate(artifacts []Artifact, output string, opts Options) string {
	var b strings.Builder

	qbe := opts.QBEPath
	if qbe == "" {
		qbe = "qbe"
	}
	cc := opts.CCPath
	if cc == "" {
		cc = "cc"
	}

	fmt.Fprintf(&b, "qbe = %s\n", qbe)
	fmt.Fprintf(&b, "cc = %s\n", cc)
	fmt.Fprintf(&b, "link_flags = %s\n\n", strings.Join(opts.LinkFlags, " "))

	b.WriteString("rule qbe\n")
	b.WriteString("  command = $qbe -o $out $in\n\n")

	b.WriteString("rule cc\n")
	b.WriteString("  command = $cc -c -o $out $in\n\n")

	b.WriteString("rule link\n")
	b.WriteString("  command = $cc -o $out $in $link_flags\n\n")

	objects := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		base := strings.TrimSuffix(a.ILName, ".il")
		asm := base + ".s"
		obj := base + ".o"
		objects = append(objects, obj)

		fmt.Fprintf(&b, "build %s: qbe %s\n", asm, a.ILName)
		fmt.Fprintf(&b, "build %s: cc %s\n\n", obj, asm)
	}

	fmt.Fprintf(&b, "build %s: link %s\n", output, strings.Join(objects, " "))
	fmt.Fprintf(&b, "default %s\n", output)

	return b.String()
}

// LinkFlags assembles the $link_flags fragments: -l{lib} for each library
// and -L{path} for each library search path, libraries first.
func LinkFlags(libraries, libraryPaths []string) []string {
	flags := make([]string, 0, len(libraries)+len(libraryPaths))
	for _, lib := range libraries {
		flags = append(flags, "-l"+lib)
	}
	for _, path := range libraryPaths {
		flags = append(flags, "-L"+path)
	}
	return flags
}
