/*
 * This file is part of ccmd.
 *
 * Copyright (c) 2025 Guilherme Silva Sousa
 *
 * Licensed under the MIT License
 * See LICENSE file in the project root for full license information.
 */

// Package progress implements the install engine's append-only progress
// sink: one channel per dependency task, fanned into a single ordered
// stream by one reader goroutine.
package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// State names a per-dependency state-machine transition or outcome.
type State string

const (
	StateChecking  State = "checking"
	StateSkipped   State = "skipped"
	StateTampered  State = "failed-integrity"
	StateFetching  State = "fetching"
	StateExtracted State = "extracted"
	StateSubdeps   State = "subdeps"
	StateVerified  State = "verified"
	StateFailed    State = "failed"
)

// Event is one progress notification for a single dependency task.
type Event struct {
	Task    string
	State   State
	Message string
}

// Sink fans out one send-only channel per named task and merges all of
// them into a single ordered Events() stream. The set of tasks is fixed
// at construction time; no further synchronization is required.
type Sink struct {
	channels map[string]chan Event
	out      chan Event
	wg       sync.WaitGroup
}

// NewSink creates a Sink with one buffered channel per name in tasks.
func NewSink(tasks []string) *Sink {
	s := &Sink{
		channels: make(map[string]chan Event, len(tasks)),
		out:      make(chan Event, len(tasks)*8),
	}
	for _, name := range tasks {
		ch := make(chan Event, 8)
		s.channels[name] = ch
		s.wg.Add(1)
		go func(c chan Event) {
			defer s.wg.Done()
			for ev := range c {
				s.out <- ev
			}
		}(ch)
	}
	go func() {
		s.wg.Wait()
		close(s.out)
	}()
	return s
}

// Task returns the send-only channel handle for name. Callers own this
// handle exclusively for the lifetime of their task.
func (s *Sink) Task(name string) chan<- Event {
	return s.channels[name]
}

// Done closes name's channel, signaling that task has finished sending.
// Every task obtained via Task must eventually call Done exactly once.
func (s *Sink) Done(name string) {
	close(s.channels[name])
}

// Events returns the merged, ordered stream of every task's events. It
// closes once every task has called Done.
func (s *Sink) Events() <-chan Event {
	return s.out
}

// Printer drains a Sink's Events() and writes one colored line per event,
// mirroring the teacher's internal/output color conventions.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorInfo    = color.New(color.FgBlue).SprintFunc()
)

// Run consumes events until the channel closes, printing one line each.
func (p *Printer) Run(events <-chan Event) {
	for ev := range events {
		p.print(ev)
	}
}

func (p *Printer) print(ev Event) {
	label := fmt.Sprintf("[%s]", ev.Task)
	switch ev.State {
	case StateVerified, StateSkipped:
		fmt.Fprintf(p.w, "%s %s %s\n", colorSuccess(label), ev.State, ev.Message)
	case StateFailed:
		fmt.Fprintf(p.w, "%s %s %s\n", colorError(label), ev.State, ev.Message)
	case StateTampered:
		fmt.Fprintf(p.w, "%s %s %s\n", colorWarn(label), ev.State, ev.Message)
	default:
		fmt.Fprintf(p.w, "%s %s %s\n", colorInfo(label), ev.State, ev.Message)
	}
}
