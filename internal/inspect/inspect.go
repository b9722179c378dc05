// Package inspect implements the interactive `midlangc inspect` shell: a
// read-eval-print loop over an already-parsed mir.Program, for exploring
// modules and declarations without re-running the full compile pipeline.
package inspect

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/jbirddog/midlangc/internal/compiler"
	"github.com/jbirddog/midlangc/internal/frontend"
	"github.com/jbirddog/midlangc/internal/lowering"
	"github.com/jbirddog/midlangc/internal/mir"
	"github.com/jbirddog/midlangc/internal/printer"
	"github.com/jbirddog/midlangc/internal/schema"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
)

// Shell holds the state of one inspect session.
type Shell struct {
	prog     *mir.Program
	jsonFile string
	history  []string
}

// New creates a Shell over an already-lowered program. jsonFile is the
// source path `build` re-compiles; it may be empty when there is none
// (e.g. a Shell built directly from a Program in tests).
func New(prog *mir.Program, jsonFile string) *Shell {
	return &Shell{prog: prog, jsonFile: jsonFile}
}

// Load parses jsonPath and returns a Shell ready to inspect it.
func Load(jsonPath string) (*Shell, error) {
	src, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("inspect: reading %s: %w", jsonPath, err)
	}
	prog, err := frontend.Parse(src)
	if err != nil {
		return nil, err
	}
	return New(prog, jsonPath), nil
}

var commands = []string{":modules", ":decls", ":show", ":raise", ":help", ":quit", "build"}

// Start runs the shell against in/out until :quit or EOF.
func (s *Shell) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyFile := filepath.Join(os.TempDir(), ".midlangc_inspect_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(l string) (c []string) {
		for _, cmd := range commands {
			if strings.HasPrefix(cmd, l) {
				c = append(c, cmd)
			}
		}
		return
	})

	fmt.Fprintf(out, "%s\n", bold("midlangc inspect"))
	fmt.Fprintln(out, dim("Type :help for commands, :quit to exit"))

	for {
		input, err := line.Prompt(cyan("mir> "))
		if err == io.EOF {
			fmt.Fprintln(out, green("goodbye"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		s.history = append(s.history, input)

		if input == ":quit" || input == ":q" {
			fmt.Fprintln(out, green("goodbye"))
			break
		}

		if strings.HasPrefix(input, ":") {
			s.dispatch(input, out)
		} else {
			s.dispatchBareWord(input, out)
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (s *Shell) dispatch(input string, out io.Writer) {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":help":
		fmt.Fprintln(out, "commands:")
		fmt.Fprintln(out, "  :modules            list module names")
		fmt.Fprintln(out, "  :decls <module>     list decl names in a module")
		fmt.Fprintln(out, "  :show <mod> <decl>  pretty-print one declaration")
		fmt.Fprintln(out, "  :raise              dump the program as (pretty) canonical JSON")
		fmt.Fprintln(out, "  :compact            toggle compact :raise output")
		fmt.Fprintln(out, "  :quit               exit")
		fmt.Fprintln(out, "  <module name>       print that module's lowered .il text")
		fmt.Fprintln(out, "  build               run the normal compile-and-link pipeline")

	case ":modules":
		for _, m := range s.prog.Modules {
			fmt.Fprintln(out, m.Name)
		}

	case ":decls":
		if len(fields) < 2 {
			fmt.Fprintf(out, "%s: usage :decls <module>\n", red("error"))
			return
		}
		m := s.findModule(fields[1])
		if m == nil {
			fmt.Fprintf(out, "%s: no such module %q\n", red("error"), fields[1])
			return
		}
		for _, d := range m.Decls {
			fmt.Fprintln(out, declName(d))
		}

	case ":show":
		if len(fields) < 3 {
			fmt.Fprintf(out, "%s: usage :show <module> <decl>\n", red("error"))
			return
		}
		m := s.findModule(fields[1])
		if m == nil {
			fmt.Fprintf(out, "%s: no such module %q\n", red("error"), fields[1])
			return
		}
		for _, d := range m.Decls {
			if declName(d) == fields[2] {
				fmt.Fprintf(out, "%+v\n", d)
				return
			}
		}
		fmt.Fprintf(out, "%s: no such decl %q in module %q\n", red("error"), fields[2], fields[1])

	case ":raise":
		data, err := frontend.RaiseCanonical(s.prog)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			return
		}
		formatted, err := schema.FormatJSON(data)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			return
		}
		fmt.Fprintln(out, string(formatted))

	case ":compact":
		schema.SetCompactMode(!schema.CompactMode)
		fmt.Fprintf(out, "compact mode: %v\n", schema.CompactMode)

	default:
		fmt.Fprintf(out, "%s: unknown command %q (try :help)\n", red("error"), fields[0])
	}
}

// dispatchBareWord handles input that isn't a ":command": either the name
// of a module in the loaded program (print its lowered .il text) or the
// literal "build" (run the normal compile-and-link pipeline against the
// file this Shell was loaded from).
func (s *Shell) dispatchBareWord(input string, out io.Writer) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return
	}

	if fields[0] == "build" {
		s.build(out)
		return
	}

	m := s.findModule(fields[0])
	if m == nil {
		fmt.Fprintf(out, "%s: unknown command or module %q (try :help)\n", red("error"), fields[0])
		return
	}

	units := lowering.Lower(&mir.Program{Modules: []*mir.Module{m}})
	artifacts := printer.GenerateIL(units)
	for _, a := range artifacts {
		fmt.Fprint(out, a.Text)
	}
}

// build runs the full compile-and-link pipeline against the JSON source
// this Shell was loaded from, with fixed options: build dir "build",
// "ninja" looked up on PATH, output "a.out", and no libraries. No
// midlangc.yaml is read.
func (s *Shell) build(out io.Writer) {
	if s.jsonFile == "" {
		fmt.Fprintf(out, "%s: no source file loaded, nothing to build\n", red("error"))
		return
	}

	opts := compiler.Options{
		JSONFile:  s.jsonFile,
		BuildDir:  "build",
		NinjaPath: "ninja",
		Output:    "a.out",
	}
	if err := compiler.Compile(opts); err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}
	fmt.Fprintf(out, "%s built %s\n", green("✓"), opts.Output)
}

func (s *Shell) findModule(name string) *mir.Module {
	for _, m := range s.prog.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

func declName(d mir.Decl) string {
	switch d := d.(type) {
	case *mir.FwdDecl:
		return d.Name
	case *mir.FuncDecl:
		return d.Name
	default:
		return "?"
	}
}
