// Package builtin holds the commands the shell runs in-process.
package builtin

import (
	"fmt"
	"io"
	"sort"

	getopt "github.com/pborman/getopt/v2"

	"github.com/smallshell/smsh/core/shell"
)

// Env is the slice of the shell a builtin may touch. Builtins never spawn
// processes themselves; checkEnv hands a pipeline back through Run.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer

	// Getenv reads the shell's environment, e.g. HOME.
	Getenv func(string) string
	// Chdir changes the shell's working directory.
	Chdir func(string) error
	// Run executes a pipeline in the foreground and returns its status.
	Run func(*shell.Pipeline) int
	// Shutdown terminates the shell after background jobs are cleaned up.
	Shutdown func(status int)
}

// Func is a builtin entry point: argv (including the builtin's own name) to
// exit status.
type Func func(env *Env, argv []string) int

// Builtin couples a registered name with its handler and help strings.
type Builtin struct {
	Name  string
	Use   string
	Short string
	Main  Func
}

// All holds every registered builtin keyed by name.
var All = make(map[string]*Builtin)

func register(b *Builtin) {
	All[b.Name] = b
}

// Lookup resolves a command name to a builtin, if one is registered.
func Lookup(name string) (*Builtin, bool) {
	b, ok := All[name]
	return b, ok
}

// List returns all builtins ordered by name.
func List() []*Builtin {
	out := make([]*Builtin, 0, len(All))
	for _, b := range All {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type simpleCommand struct {
	Use   string
	Short string

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *simpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *simpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run parses argv and, if parsing succeeded and help wasn't requested,
// calls the callback with the remaining arguments.
func (s *simpleCommand) Run(env *Env, argv []string, callback func(args []string) int) int {
	opts := s.Flags()
	showHelp := opts.BoolLong("help", 'h', "show this help and exit")

	if err := opts.Getopt(argv, nil); err != nil {
		fmt.Fprintf(env.Stderr, "error: %s\n\n", err)
		s.PrintHelp(env.Stderr)
		return 1
	}

	if *showHelp {
		s.PrintHelp(env.Stdout)
		return 0
	}

	return callback(opts.Args())
}
