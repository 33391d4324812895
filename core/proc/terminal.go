package proc

import (
	"os"

	"golang.org/x/sys/unix"
)

// SetTerminalForeground makes pgid the terminal's foreground process group,
// so keyboard-generated signals reach the job instead of the shell. Callers
// ignore the error when stdin isn't a terminal.
func SetTerminalForeground(tty *os.File, pgid int) error {
	return unix.IoctlSetPointerInt(int(tty.Fd()), unix.TIOCSPGRP, pgid)
}

// ShellPgid returns the shell's own process group id, used to reclaim the
// terminal after a foreground job finishes.
func ShellPgid() int {
	return unix.Getpgrp()
}
