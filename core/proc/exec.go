// Package proc spawns pipeline stages as OS processes and supervises their
// foreground/background lifecycle.
package proc

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/smallshell/smsh/core/shell"
)

// PagerCommand is a reserved stage name. It is never executed directly;
// the executor resolves it through $PAGER, then less, then more.
const PagerCommand = "pager"

// Executor turns pipeline descriptions into running process groups.
//
// Stdin must be the shell's controlling terminal (or whatever replaces it)
// because the first stage of a foreground pipeline inherits it directly.
type Executor struct {
	Stdin  *os.File
	Stdout io.Writer
	Stderr io.Writer

	// PagerFallback is tried after $PAGER but before less/more. Empty means
	// no configured fallback.
	PagerFallback string
}

// NewExecutor returns an executor wired to the process's standard streams.
func NewExecutor() *Executor {
	return &Executor{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Start spawns one process per stage, connected by pipes, all placed in a
// single new process group keyed by the first stage's pid. It returns without
// waiting; the caller decides whether the job runs in the foreground.
//
// Every pipe descriptor the parent holds is closed before Start returns,
// on success and on error alike. A descriptor leaked into the parent would
// keep a consumer blocked waiting for end-of-file forever.
func (e *Executor) Start(pipeline *shell.Pipeline) (*Job, error) {
	if pipeline.Empty() {
		return nil, fmt.Errorf("empty pipeline")
	}

	job := &Job{
		Name:    pipeline.String(),
		Started: time.Now(),
	}

	var parentEnds []*os.File
	closeParentEnds := func() {
		for _, fd := range parentEnds {
			fd.Close()
		}
		parentEnds = nil
	}

	var prevRead *os.File
	last := len(pipeline.Stages) - 1

	for i, stage := range pipeline.Stages {
		cmd, err := e.stageCommand(stage, i == last)
		if err != nil {
			closeParentEnds()
			return nil, err
		}

		// First stage reads the shell's stdin, or /dev/null in the
		// background so the job never competes for the terminal.
		switch {
		case i > 0:
			cmd.Stdin = prevRead
		case pipeline.Background:
			devNull, err := os.Open(os.DevNull)
			if err != nil {
				closeParentEnds()
				return nil, fmt.Errorf("open %s: %w", os.DevNull, err)
			}
			parentEnds = append(parentEnds, devNull)
			cmd.Stdin = devNull
		default:
			cmd.Stdin = e.Stdin
		}

		if i < last {
			read, write, err := os.Pipe()
			if err != nil {
				closeParentEnds()
				return nil, fmt.Errorf("pipe: %w", err)
			}
			parentEnds = append(parentEnds, write, read)
			cmd.Stdout = write
			prevRead = read
		} else {
			cmd.Stdout = e.Stdout
		}
		cmd.Stderr = e.Stderr

		// One process group per pipeline: the first child founds it, the
		// rest join so signals hit every stage at once.
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: job.Pgid}

		if err := cmd.Start(); err != nil {
			closeParentEnds()
			// Already-started stages are left to run; they will see
			// end-of-file on their pipes and exit on their own.
			return nil, fmt.Errorf("%s: %w", stage.Name(), err)
		}

		if i == 0 {
			job.Pgid = cmd.Process.Pid
		}
		job.cmds = append(job.cmds, cmd)
	}

	closeParentEnds()
	return job, nil
}

// stageCommand builds the exec.Cmd for one stage, applying the pager
// fallback chain when the final stage is the reserved pager command.
func (e *Executor) stageCommand(stage *shell.Command, final bool) (*exec.Cmd, error) {
	if final && stage.Name() == PagerCommand {
		path, err := e.resolvePager()
		if err != nil {
			return nil, err
		}
		return exec.Command(path), nil
	}
	return exec.Command(stage.Name(), stage.Args[1:]...), nil
}

func (e *Executor) resolvePager() (string, error) {
	candidates := []string{os.Getenv("PAGER"), e.PagerFallback, "less", "more"}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: no pager found, set $PAGER", PagerCommand)
}
