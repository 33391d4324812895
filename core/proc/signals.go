package proc

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// Coordinator owns asynchronous signal delivery for the shell. It runs a
// single handler goroutine and consults the job table to decide whether a
// signal belongs to the shell or to the current foreground job.
//
// Interrupt with a foreground job: forwarded to the job's process group.
// Interrupt while idle: the Interrupt callback asks the loop to re-prompt.
// Termination while a foreground job is active: ignored, delivery to the
// group would be ambiguous. Termination while idle: the Shutdown callback
// ends the shell cleanly. Child termination is never handled here; the job
// table's explicit per-job waits own reaping.
type Coordinator struct {
	jobs *Jobs

	// Interrupt is invoked for an interrupt received while no foreground
	// job is active. It must be safe to call from the handler goroutine.
	Interrupt func()
	// Forwarded is invoked after an interrupt has been delivered to the
	// foreground process group.
	Forwarded func()
	// Shutdown is invoked for a termination signal received while idle.
	Shutdown func()

	sigs chan os.Signal
}

// NewCoordinator builds a coordinator over the given job table. Start must
// be called before any pipeline is spawned.
func NewCoordinator(jobs *Jobs) *Coordinator {
	return &Coordinator{
		jobs:      jobs,
		Interrupt: func() {},
		Forwarded: func() {},
		Shutdown:  func() {},
	}
}

// Start installs the handlers and launches the handler goroutine.
func (c *Coordinator) Start() {
	// The shell moves jobs in and out of the terminal's foreground process
	// group; without these it would stop itself on the way back.
	signal.Ignore(syscall.SIGTTOU, syscall.SIGTTIN)

	c.sigs = make(chan os.Signal, 1)
	signal.Notify(c.sigs, syscall.SIGINT, syscall.SIGTERM)
	go c.run()
}

// Stop uninstalls the handlers. Pending notifications are dropped.
func (c *Coordinator) Stop() {
	signal.Stop(c.sigs)
	close(c.sigs)
}

func (c *Coordinator) run() {
	for sig := range c.sigs {
		c.handle(sig)
	}
}

func (c *Coordinator) handle(sig os.Signal) {
	switch sig {
	case syscall.SIGINT:
		if pgid, ok := c.jobs.Foreground(); ok {
			_ = unix.Kill(-pgid, unix.SIGINT)
			c.Forwarded()
		} else {
			c.Interrupt()
		}

	case syscall.SIGTERM:
		if _, ok := c.jobs.Foreground(); ok {
			// Delivery while a job owns the terminal is ambiguous with
			// process-group semantics; drop it.
			return
		}
		c.Shutdown()
	}
}
