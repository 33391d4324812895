package builtin

import (
	"github.com/smallshell/smsh/core/shell"
)

// CheckEnv pages through the environment: printenv | sort | pager, with a
// grep stage spliced in when arguments are given. The arguments belong to
// grep, flags included, so they bypass option parsing and flow through
// verbatim; only a lone leading --help is checkEnv's own.
func CheckEnv(env *Env, argv []string) int {
	args := argv[1:]

	if len(args) > 0 && (args[0] == "--help" || args[0] == "-h") {
		cmd := &simpleCommand{
			Use:   "checkEnv [PATTERN]...",
			Short: "Print the environment, filtered and sorted, through a pager.",
		}
		cmd.Flags().BoolLong("help", 'h', "show this help and exit")
		cmd.PrintHelp(env.Stdout)
		return 0
	}

	pipeline := &shell.Pipeline{
		Stages: []*shell.Command{{Args: []string{"printenv"}}},
	}
	if len(args) > 0 {
		pipeline.Stages = append(pipeline.Stages,
			&shell.Command{Args: append([]string{"grep"}, args...)})
	}
	pipeline.Stages = append(pipeline.Stages,
		&shell.Command{Args: []string{"sort"}},
		&shell.Command{Args: []string{"pager"}},
	)

	return env.Run(pipeline)
}

func init() {
	register(&Builtin{
		Name:  "checkEnv",
		Use:   "checkEnv [PATTERN]...",
		Short: "Print the environment, filtered and sorted, through a pager.",
		Main:  CheckEnv,
	})
}
