// Package compiler implements component C9, the driver core: it
// sequences the Frontend and Backend capabilities (per §9's
// polymorphism-by-capability design note) into one compile() call, then
// writes every artifact to disk and invokes ninja.
package compiler

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/jbirddog/midlangc/internal/backend"
	"github.com/jbirddog/midlangc/internal/frontend"
	"github.com/jbirddog/midlangc/internal/mir"
	"github.com/jbirddog/midlangc/internal/typecheck"
)

// Frontend offers the JSON→MIR direction only; the driver never needs to
// raise during a normal compile (raise is exercised by `midlangc inspect`
// and by round-trip tests directly against the frontend package).
type Frontend interface {
	Parse(src []byte) (*mir.Program, error)
}

// Backend turns a checked MIR program into the files a build runner needs.
type Backend interface {
	GenerateBuildArtifacts(prog *mir.Program, cfg backend.BuildConfig) backend.Artifacts
}

type defaultFrontend struct{}

func (defaultFrontend) Parse(src []byte) (*mir.Program, error) { return frontend.Parse(src) }

type defaultBackend struct{}

func (defaultBackend) GenerateBuildArtifacts(prog *mir.Program, cfg backend.BuildConfig) backend.Artifacts {
	return backend.GenerateBuildArtifacts(prog, cfg)
}

// Options carries the driver's resolved CLI/config surface.
type Options struct {
	JSONFile     string
	BuildDir     string
	NinjaPath    string
	QBEPath      string
	CCPath       string
	Output       string
	Libraries    []string
	LibraryPaths []string
}

// Compile runs the full pipeline: parse, type-check, lower+print+graph,
// write every artifact under opts.BuildDir, then invoke ninja there. It
// uses the real Frontend/Backend implementations; Run accepts substitutes
// for testing against a fake backend.
func Compile(opts Options) error {
	return Run(opts, defaultFrontend{}, defaultBackend{})
}

// Run is Compile with the Frontend/Backend capabilities injected, so
// tests can exercise the sequencing without shelling out to a real qbe/cc
// toolchain.
func Run(opts Options, fe Frontend, be Backend) error {
	src, err := os.ReadFile(opts.JSONFile)
	if err != nil {
		return fmt.Errorf("compiler: reading %s: %w", opts.JSONFile, err)
	}

	prog, err := fe.Parse(src)
	if err != nil {
		return err
	}

	if err := typecheck.Check(prog); err != nil {
		return err
	}

	cfg := backend.BuildConfig{
		QBEPath:      opts.QBEPath,
		CCPath:       opts.CCPath,
		Output:       opts.Output,
		Libraries:    opts.Libraries,
		LibraryPaths: opts.LibraryPaths,
	}
	artifacts := be.GenerateBuildArtifacts(prog, cfg)

	if err := os.MkdirAll(opts.BuildDir, 0o755); err != nil {
		return fmt.Errorf("compiler: creating build dir %s: %w", opts.BuildDir, err)
	}

	for _, f := range artifacts.ILFiles {
		path := filepath.Join(opts.BuildDir, f.Name)
		if err := os.WriteFile(path, []byte(f.Text), 0o644); err != nil {
			return fmt.Errorf("compiler: writing %s: %w", path, err)
		}
	}

	ninjaPath := filepath.Join(opts.BuildDir, "build.ninja")
	if err := os.WriteFile(ninjaPath, []byte(artifacts.NinjaBuild), 0o644); err != nil {
		return fmt.Errorf("compiler: writing %s: %w", ninjaPath, err)
	}

	cmd := exec.Command(opts.NinjaPath, "-C", opts.BuildDir)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("compiler: ninja build failed: %w", err)
	}

	return nil
}
