// Package backend implements component C8: it runs the lowerer and
// printer over a type-checked MIR program and assembles the build.ninja
// graph that will turn the resulting .il files into a native binary.
package backend

import (
	"github.com/jbirddog/midlangc/internal/lowering"
	"github.com/jbirddog/midlangc/internal/mir"
	"github.com/jbirddog/midlangc/internal/ninjawriter"
	"github.com/jbirddog/midlangc/internal/printer"
)

// BuildConfig carries the driver's CLI-derived options that affect the
// build graph but not the IL text itself.
type BuildConfig struct {
	QBEPath      string
	CCPath       string
	Output       string
	Libraries    []string
	LibraryPaths []string
}

// Artifacts is the complete set of files the driver must write into the
// build directory before invoking ninja.
type Artifacts struct {
	ILFiles    []printer.Artifact
	NinjaBuild string // contents of build.ninja
}

// GenerateBuildArtifacts implements the Backend capability from the
// driver's point of view: lower prog to LIR, print it to IL text, and
// compose the Ninja build graph that compiles and links it into cfg.Output.
func GenerateBuildArtifacts(prog *mir.Program, cfg BuildConfig) Artifacts {
	units := lowering.Lower(prog)
	ilFiles := printer.GenerateIL(units)

	ninjaArtifacts := make([]ninjawriter.Artifact, 0, len(ilFiles))
	for _, f := range ilFiles {
		ninjaArtifacts = append(ninjaArtifacts, ninjawriter.Artifact{ILName: f.Name})
	}

	linkFlags := ninjawriter.LinkFlags(cfg.Libraries, cfg.LibraryPaths)
	ninjaBuild := ninjawriter.Generate(ninjaArtifacts, cfg.Output, ninjawriter.Options{
		QBEPath:   cfg.QBEPath,
		CCPath:    cfg.CCPath,
		LinkFlags: linkFlags,
	})

	return Artifacts{ILFiles: ilFiles, NinjaBuild: ninjaBuild}
}
