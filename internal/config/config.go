// Package config loads a midlangc.yaml project file supplying default
// CLI values (build dir, ninja/qbe/cc paths, libraries) that the driver's
// flags can override.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Project is the on-disk shape of midlangc.yaml.
type Project struct {
	BuildDir     string   `yaml:"build_dir"`
	NinjaPath    string   `yaml:"ninja_path"`
	QBEPath      string   `yaml:"qbe_path"`
	CCPath       string   `yaml:"cc_path"`
	Output       string   `yaml:"output"`
	Libraries    []string `yaml:"libraries"`
	LibraryPaths []string `yaml:"library_paths"`
}

// Load reads and parses a midlangc.yaml project file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project config: %w", err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse project config: %w", err)
	}

	return &p, nil
}

// ApplyDefaults fills any CLI option left at its zero value with the
// project config's value; explicit flags always win.
func (p *Project) ApplyDefaults(buildDir, ninjaPath, qbePath, ccPath, output *string, libraries, libraryPaths *[]string) {
	if *buildDir == "" {
		*buildDir = p.BuildDir
	}
	if *ninjaPath == "" {
		*ninjaPath = p.NinjaPath
	}
	if *qbePath == "" {
		*qbePath = p.QBEPath
	}
	if *ccPath == "" {
		*ccPath = p.CCPath
	}
	if *output == "" {
		*output = p.Output
	}
	if len(*libraries) == 0 {
		*libraries = p.Libraries
	}
	if len(*libraryPaths) == 0 {
		*libraryPaths = p.LibraryPaths
	}
}
