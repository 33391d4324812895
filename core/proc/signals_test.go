package proc

import (
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterruptIdle(t *testing.T) {
	jobs := NewJobs()
	c := NewCoordinator(jobs)

	interrupted := false
	c.Interrupt = func() { interrupted = true }
	c.Forwarded = func() { t.Error("nothing to forward while idle") }
	c.Shutdown = func() { t.Error("unexpected shutdown") }

	c.handle(syscall.SIGINT)
	assert.True(t, interrupted)
}

func TestInterruptForwardsToForegroundGroup(t *testing.T) {
	executor, _ := testExecutor(t)
	jobs := NewJobs()
	c := NewCoordinator(jobs)
	c.Interrupt = func() { t.Error("interrupt must target the job, not the prompt") }
	forwarded := false
	c.Forwarded = func() { forwarded = true }

	job, err := executor.Start(mustParse(t, "sleep 60"))
	require.NoError(t, err)
	jobs.SetForeground(job)

	done := make(chan int, 1)
	go func() { done <- job.Wait() }()

	c.handle(syscall.SIGINT)

	select {
	case status := <-done:
		assert.NotEqual(t, 0, status)
	case <-time.After(5 * time.Second):
		t.Fatal("foreground job survived the forwarded interrupt")
	}
	assert.True(t, forwarded)
	jobs.ClearForeground()
}

func TestTerminateIdle(t *testing.T) {
	jobs := NewJobs()
	c := NewCoordinator(jobs)

	shutdown := false
	c.Shutdown = func() { shutdown = true }

	c.handle(syscall.SIGTERM)
	assert.True(t, shutdown)
}

func TestTerminateIgnoredWhileForegroundActive(t *testing.T) {
	jobs := NewJobs()
	jobs.SetForeground(&Job{Pgid: 1})

	c := NewCoordinator(jobs)
	c.Shutdown = func() { t.Error("must not shut down while a job is active") }

	c.handle(syscall.SIGTERM)
}
