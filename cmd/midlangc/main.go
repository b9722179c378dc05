package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/jbirddog/midlangc/internal/compiler"
	"github.com/jbirddog/midlangc/internal/config"
	"github.com/jbirddog/midlangc/internal/inspect"
)

var (
	// Version info - set by ldflags during build
	Version = "dev"
	Commit  = "unknown"

	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		runBuild(os.Args[2:])
	case "inspect":
		runInspect(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("midlangc %s (%s)\n", bold(Version), Commit)
}

func printHelp() {
	fmt.Println(bold("midlangc - a JSON-IR-to-native compiler"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  midlangc build -j <file.json> -b <dir> -n <ninja> [-l lib]... [-L path]... [-o out]")
	fmt.Println("  midlangc inspect <file.json>")
	fmt.Println("  midlangc version")
	fmt.Println()
	fmt.Printf("  %s   compile a JSON IR module down to a native binary\n", cyan("build"))
	fmt.Printf("  %s compile and explore a program's MIR interactively\n", cyan("inspect"))
}

type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func runBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	jsonFile := fs.String("j", "", "path to the JSON IR source file (required)")
	buildDir := fs.String("b", "", "build output directory (required)")
	ninjaPath := fs.String("n", "", "path to the ninja binary (required)")
	qbePath := fs.String("qbe", "", "path to the qbe binary (default: qbe on PATH)")
	ccPath := fs.String("cc", "", "path to the C compiler (default: cc on PATH)")
	output := fs.String("o", "", "output binary path (default: a.out)")
	configPath := fs.String("c", "midlangc.yaml", "path to the project config file")
	var libraries, libraryPaths stringList
	fs.Var(&libraries, "l", "link against library (may repeat)")
	fs.Var(&libraryPaths, "L", "add a library search path (may repeat)")
	fs.Parse(args)

	if cfg, err := config.Load(*configPath); err == nil {
		libs := []string(libraries)
		libPaths := []string(libraryPaths)
		cfg.ApplyDefaults(buildDir, ninjaPath, qbePath, ccPath, output, &libs, &libPaths)
		libraries = libs
		libraryPaths = libPaths
	}

	if *output == "" {
		*output = "a.out"
	}

	if *jsonFile == "" || *buildDir == "" || *ninjaPath == "" {
		fmt.Fprintf(os.Stderr, "%s: -j, -b and -n are required\n", red("Error"))
		fs.Usage()
		os.Exit(1)
	}

	opts := compiler.Options{
		JSONFile:     *jsonFile,
		BuildDir:     *buildDir,
		NinjaPath:    *ninjaPath,
		QBEPath:      *qbePath,
		CCPath:       *ccPath,
		Output:       *output,
		Libraries:    libraries,
		LibraryPaths: libraryPaths,
	}

	if err := compiler.Compile(opts); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	fmt.Printf("%s built %s\n", green("✓"), opts.Output)
}

func runInspect(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "%s: usage: midlangc inspect <file.json>\n", red("Error"))
		os.Exit(1)
	}

	shell, err := inspect.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	shell.Start(os.Stdin, os.Stdout)
}
