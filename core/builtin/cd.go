package builtin

import (
	"fmt"
	"strings"
)

// Cd changes the shell's working directory. With no argument it targets
// $HOME; a leading ~ in the argument is substituted with $HOME.
func Cd(env *Env, argv []string) int {
	cmd := &simpleCommand{
		Use:   "cd [DIR]",
		Short: "Change the working directory.",
	}

	return cmd.Run(env, argv, func(args []string) int {
		var dir string
		switch len(args) {
		case 0:
			dir = env.Getenv("HOME")
		case 1:
			dir = args[0]
			if strings.HasPrefix(dir, "~") {
				dir = env.Getenv("HOME") + strings.TrimPrefix(dir, "~")
			}
		default:
			fmt.Fprintf(env.Stderr, "cd: too many arguments\n")
			return 1
		}

		if err := env.Chdir(dir); err != nil {
			fmt.Fprintf(env.Stderr, "cd: %v\n", err)
			return 1
		}
		return 0
	})
}

func init() {
	register(&Builtin{
		Name:  "cd",
		Use:   "cd [DIR]",
		Short: "Change the working directory.",
		Main:  Cd,
	})
}
