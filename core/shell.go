// Package core wires the parser, builtins, executor, job table and signal
// coordinator into the interactive shell loop.
package core

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"

	"github.com/smallshell/smsh/core/builtin"
	"github.com/smallshell/smsh/core/config"
	"github.com/smallshell/smsh/core/logger"
	"github.com/smallshell/smsh/core/proc"
	"github.com/smallshell/smsh/core/shell"
)

const EnvHome = "HOME"

var promptColor = color.New(color.FgCyan, color.Bold)

// Shell is one interactive session: a line reader on the controlling
// terminal plus the process machinery behind it.
type Shell struct {
	Readline *readline.Instance

	out         io.Writer
	config      *config.Configuration
	executor    *proc.Executor
	jobs        *proc.Jobs
	coordinator *proc.Coordinator
	log         *logger.SessionLogger

	quit   bool
	status int
}

// NewShell builds a shell session reading from the process's stdin.
func NewShell(configuration *config.Configuration, log *logger.Logger) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:  expandHome(configuration.HistoryFile),
		HistoryLimit: 1000,
	})
	if err != nil {
		return nil, err
	}

	executor := proc.NewExecutor()
	executor.PagerFallback = configuration.Pager

	jobs := proc.NewJobs()

	return &Shell{
		Readline:    rl,
		out:         rl,
		config:      configuration,
		executor:    executor,
		jobs:        jobs,
		coordinator: proc.NewCoordinator(jobs),
		log:         log.NewSession(),
	}, nil
}

// Prompt renders the prompt template, abbreviating $HOME to ~ in the
// working directory.
func (s *Shell) Prompt() string {
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "?"
	}
	if home := os.Getenv(EnvHome); home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}

	prompt := strings.ReplaceAll(s.config.Prompt, `\w`, pwd)
	if s.config.Color {
		prompt = promptColor.Sprint(prompt)
	}
	return prompt
}

// Run drives the interactive loop until exit or end-of-input and returns
// the shell's exit status. The top of the loop is the restart checkpoint:
// parse errors, interrupts and finished jobs all funnel back to it.
func (s *Shell) Run() int {
	s.wireSignals()
	s.coordinator.Start()
	defer s.coordinator.Stop()

	wd, _ := os.Getwd()
	s.log.RecordEvent(&logger.LogEntry{SessionStart: &logger.SessionStart{WorkingDir: wd}})

	for !s.quit {
		s.reapBackground()

		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			s.quit = true

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			fmt.Fprintf(os.Stderr, "smsh: readline: %v\n", err)
			s.quit = true

		default:
			s.eval(line)
		}
	}

	return s.shutdown()
}

// wireSignals points the coordinator's callbacks at this session. Each one
// may run on the handler goroutine.
func (s *Shell) wireSignals() {
	s.coordinator.Interrupt = func() {
		// Idle interrupt: nothing to forward, nudge out a fresh line.
		fmt.Fprintln(s.out)
		s.log.RecordEvent(&logger.LogEntry{Interrupt: &logger.Interrupt{}})
	}
	s.coordinator.Forwarded = func() {
		s.log.RecordEvent(&logger.LogEntry{Interrupt: &logger.Interrupt{Forwarded: true}})
	}
	s.coordinator.Shutdown = func() {
		// Idle SIGTERM: same path as end-of-input.
		if s.Readline != nil {
			s.Readline.Close()
		}
	}
}

// reapBackground drains completed background jobs and reports each one,
// mirroring an opportunistic WNOHANG sweep at the top of the prompt cycle.
func (s *Shell) reapBackground() {
	s.jobs.Reap(func(pgid int) {
		fmt.Fprintf(s.out, "%d done\n", pgid)
		s.log.RecordEvent(&logger.LogEntry{JobDone: &logger.JobDone{Pgid: pgid}})
	})
}

// eval parses and executes one input line.
func (s *Shell) eval(line string) {
	pipeline, err := shell.Parse(line)
	if err != nil {
		fmt.Fprintf(s.out, "smsh: %v\n", err)
		s.log.RecordEvent(&logger.LogEntry{ParseError: &logger.ParseError{Line: line, Error: err.Error()}})
		return
	}
	if pipeline.Empty() {
		return
	}

	// Builtins only take the single-command fast path; inside a pipeline a
	// name like "sort" always means the external program.
	if len(pipeline.Stages) == 1 {
		if b, ok := builtin.Lookup(pipeline.Stages[0].Name()); ok {
			status := b.Main(s.builtinEnv(), pipeline.Stages[0].Args)
			s.log.RecordEvent(&logger.LogEntry{CommandRun: &logger.CommandRun{
				Pipeline: pipeline.String(),
				Builtin:  true,
				Status:   status,
			}})
			return
		}
	}

	s.runPipeline(pipeline)
}

// runPipeline spawns the pipeline and supervises it in the foreground, or
// registers it as a background job.
func (s *Shell) runPipeline(pipeline *shell.Pipeline) int {
	job, err := s.executor.Start(pipeline)
	if err != nil {
		fmt.Fprintf(s.out, "smsh: %v\n", err)
		return 1
	}

	if pipeline.Background {
		s.jobs.Track(job)
		s.log.RecordEvent(&logger.LogEntry{CommandRun: &logger.CommandRun{
			Pipeline:   pipeline.String(),
			Background: true,
		}})
		return 0
	}

	s.jobs.SetForeground(job)
	// Hand the terminal to the job so Ctrl+C reaches it, not the shell.
	_ = proc.SetTerminalForeground(os.Stdin, job.Pgid)

	status := job.Wait()

	_ = proc.SetTerminalForeground(os.Stdin, proc.ShellPgid())
	s.jobs.ClearForeground()

	elapsed := job.Elapsed()
	if s.config.TimeReports {
		fmt.Fprintf(s.out, "%d ms\n", elapsed.Milliseconds())
	}
	s.log.RecordEvent(&logger.LogEntry{CommandRun: &logger.CommandRun{
		Pipeline:  pipeline.String(),
		Status:    status,
		ElapsedMs: elapsed.Milliseconds(),
	}})
	return status
}

func (s *Shell) builtinEnv() *builtin.Env {
	return &builtin.Env{
		Stdout: s.out,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
		Chdir:  os.Chdir,
		Run:    s.runPipeline,
		Shutdown: func(status int) {
			s.quit = true
			s.status = status
		},
	}
}

// shutdown terminates every live background job, waits for the stragglers
// and closes the session.
func (s *Shell) shutdown() int {
	s.jobs.Shutdown()
	s.log.RecordEvent(&logger.LogEntry{SessionEnd: &logger.SessionEnd{Status: s.status}})
	if s.Readline != nil {
		s.Readline.Close()
	}
	return s.status
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		if home := os.Getenv(EnvHome); home != "" {
			return home + strings.TrimPrefix(path, "~")
		}
	}
	return path
}
