// The MIT License (MIT)
//
// Copyright (c) 2017-2020 Uber Technologies Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package scheduler implements the single-threaded cooperative job executor
// dedicated to one connector instance: a single worker goroutine serializes
// arbitrary periodic and one-shot jobs, bounding each by an admin timeout.
package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/kafka-connect/mirror-connector/common/backoff"
	"github.com/kafka-connect/mirror-connector/common/log"
	"github.com/kafka-connect/mirror-connector/common/log/tag"
)

// jitterCoefficient staggers a repeating job's period by up to 10% so that
// several connector instances started at the same moment don't all hit the
// source/target admin API on the same tick.
const jitterCoefficient = 0.1

const (
	statusInitialized int32 = iota
	statusStarted
	statusStopped
)

// Job is a unit of scheduled work. The scheduler bounds every invocation by
// its admin timeout (see runBounded).
type Job func()

type scheduledJob struct {
	description string
	job         Job
	repeating   bool
	period      time.Duration
	timer       *time.Timer
}

// Scheduler serializes all jobs submitted to it onto one worker goroutine.
// No two jobs on the same Scheduler ever overlap; this is the only
// synchronization the reconciler relies on for its in-memory known-state.
type Scheduler struct {
	logger       log.Logger
	adminTimeout time.Duration

	status int32

	mu      sync.Mutex
	jobs    chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	closing int32
}

// New returns a Scheduler whose jobs are each bounded by adminTimeout.
func New(logger log.Logger, adminTimeout time.Duration) *Scheduler {
	s := &Scheduler{
		logger:       logger,
		adminTimeout: adminTimeout,
		status:       statusInitialized,
		jobs:         make(chan func(), 64),
		done:         make(chan struct{}),
	}
	return s
}

// Start launches the single worker goroutine. Calling Start more than once
// has no effect.
func (s *Scheduler) Start() {
	if !atomic.CompareAndSwapInt32(&s.status, statusInitialized, statusStarted) {
		return
	}
	s.wg.Add(1)
	go s.worker()
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	for {
		select {
		case fn := <-s.jobs:
			s.runBounded(fn)
		case <-s.done:
			// Drain whatever is already queued before exiting.
			for {
				select {
				case fn := <-s.jobs:
					s.runBounded(fn)
				default:
					return
				}
			}
		}
	}
}

func (s *Scheduler) runBounded(fn func()) {
	finished := make(chan struct{})
	go func() {
		fn()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(s.adminTimeout):
		s.logger.Warn("scheduled job exceeded admin timeout, abandoning", tag.Duration(s.adminTimeout))
	}
}

// Execute enqueues a one-shot job. It is a no-op once Close has begun.
func (s *Scheduler) Execute(job Job, description string) {
	if atomic.LoadInt32(&s.closing) == 1 {
		return
	}
	s.enqueue(job, description)
}

// ScheduleRepeating runs job once after period, then every period, until
// Close is called.
func (s *Scheduler) ScheduleRepeating(job Job, period time.Duration, description string) {
	s.scheduleRepeating(job, period, period, description)
}

// ScheduleRepeatingDelayed is identical to ScheduleRepeating except the
// initial delay equals period as well — same timing as the regular
// interval, spelled out separately to make call sites self-documenting.
func (s *Scheduler) ScheduleRepeatingDelayed(job Job, period time.Duration, description string) {
	s.scheduleRepeating(job, period, period, description)
}

func (s *Scheduler) scheduleRepeating(job Job, initialDelay, period time.Duration, description string) {
	var tick func()
	tick = func() {
		if atomic.LoadInt32(&s.closing) == 1 {
			return
		}
		s.enqueue(job, description)
		time.AfterFunc(backoff.JitDuration(period, jitterCoefficient), tick)
	}
	time.AfterFunc(initialDelay, tick)
}

func (s *Scheduler) enqueue(job Job, description string) {
	select {
	case s.jobs <- func() {
		s.logger.Debug("running scheduled job", tag.JobName(description))
		job()
	}:
	default:
		s.logger.Warn("scheduler queue full, dropping job", tag.JobName(description))
	}
}

// Close stops accepting new work, drains in-flight and already-queued jobs
// up to the admin timeout, then returns.
func (s *Scheduler) Close() {
	if !atomic.CompareAndSwapInt32(&s.closing, 0, 1) {
		return
	}
	close(s.done)
	waited := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(s.adminTimeout):
		s.logger.Warn("scheduler close timed out waiting for in-flight jobs")
	}
}
