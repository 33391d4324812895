package builtin

// Exit terminates the shell. Background jobs are signaled and reaped by the
// shutdown callback before the process exits with status 0.
func Exit(env *Env, argv []string) int {
	cmd := &simpleCommand{
		Use:   "exit",
		Short: "Terminate the shell and its background jobs.",
	}

	return cmd.Run(env, argv, func(args []string) int {
		env.Shutdown(0)
		return 0
	})
}

func init() {
	register(&Builtin{
		Name:  "exit",
		Use:   "exit",
		Short: "Terminate the shell and its background jobs.",
		Main:  Exit,
	})
}
