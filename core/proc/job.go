package proc

import (
	"os/exec"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Job is one spawned pipeline: every stage process plus the process group
// that contains them all.
type Job struct {
	// Pgid identifies the job's process group; it equals the first stage's
	// pid.
	Pgid int
	// Name is the pipeline re-serialized for reporting.
	Name string
	// Started is captured just before the first stage is spawned.
	Started time.Time

	cmds []*exec.Cmd
}

// Wait blocks until every stage of the job has terminated and returns the
// exit status of the last stage. Each stage is waited for individually, so a
// completion of some unrelated child can never be miscounted as ours.
func (j *Job) Wait() int {
	var lastErr error
	for _, cmd := range j.cmds {
		if err := cmd.Wait(); err != nil {
			lastErr = err
		}
	}
	return exitStatus(lastErr)
}

// Elapsed is the wall-clock duration since the job was spawned.
func (j *Job) Elapsed() time.Duration {
	return time.Since(j.Started)
}

// Signal delivers sig to the job's whole process group.
func (j *Job) Signal(sig syscall.Signal) error {
	return unix.Kill(-j.Pgid, sig)
}

func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			return status.ExitStatus()
		}
	}
	return 1
}

// Jobs tracks the single foreground job and every live background job. It is
// the one piece of state shared between the interactive loop and the signal
// coordinator, so all access goes through its lock.
type Jobs struct {
	mu         sync.Mutex
	foreground *Job
	background map[int]*Job
	reporting  bool

	done chan int
	wg   sync.WaitGroup
}

// NewJobs returns an empty job table.
func NewJobs() *Jobs {
	return &Jobs{
		background: make(map[int]*Job),
		reporting:  true,
		done:       make(chan int, 64),
	}
}

// SetForeground marks job as the current foreground job.
func (j *Jobs) SetForeground(job *Job) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.foreground = job
}

// ClearForeground resets the table to the idle state.
func (j *Jobs) ClearForeground() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.foreground = nil
}

// Foreground returns the current foreground process group id, if any.
func (j *Jobs) Foreground() (pgid int, ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.foreground == nil {
		return 0, false
	}
	return j.foreground.Pgid, true
}

// Track registers a background job and reaps it from a monitor goroutine.
// The completion is queued and reported at a later prompt cycle; nothing is
// printed from here.
func (j *Jobs) Track(job *Job) {
	j.mu.Lock()
	j.background[job.Pgid] = job
	j.mu.Unlock()

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		job.Wait()

		j.mu.Lock()
		delete(j.background, job.Pgid)
		reporting := j.reporting
		j.mu.Unlock()

		if reporting {
			select {
			case j.done <- job.Pgid:
			default:
				// Queue full; drop the notice rather than block the reaper.
			}
		}
	}()
}

// Reap drains completed background jobs without blocking, invoking report
// for each in the order the OS reported their termination.
func (j *Jobs) Reap(report func(pgid int)) {
	for {
		select {
		case pgid := <-j.done:
			report(pgid)
		default:
			return
		}
	}
}

// Shutdown stops completion reporting, terminates every live background
// process group and waits for the monitors to reap them. Called by the exit
// builtin and on end-of-input.
func (j *Jobs) Shutdown() {
	j.mu.Lock()
	j.reporting = false
	live := make([]*Job, 0, len(j.background))
	for _, job := range j.background {
		live = append(live, job)
	}
	j.mu.Unlock()

	for _, job := range live {
		_ = job.Signal(unix.SIGTERM)
	}
	j.wg.Wait()
}
