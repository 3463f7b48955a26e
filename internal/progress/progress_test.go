// Copyright (c) 2025 Guilherme Silva Sousa
// Licensed under the MIT License
// See LICENSE file in the project root for full license information.
package progress

import (
	"bytes"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink_FansInAllTasksThenCloses(t *testing.T) {
	sink := NewSink([]string{"a", "b", "c"})

	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			sink.Task(n) <- Event{Task: n, State: StateChecking}
			sink.Task(n) <- Event{Task: n, State: StateVerified}
			sink.Done(n)
		}(name)
	}

	var got []Event
	for ev := range sink.Events() {
		got = append(got, ev)
	}
	wg.Wait()

	require.Len(t, got, 6)
	byTask := map[string]int{}
	for _, ev := range got {
		byTask[ev.Task]++
	}
	assert.Equal(t, map[string]int{"a": 2, "b": 2, "c": 2}, byTask)
}

func TestSink_PerTaskOrderPreserved(t *testing.T) {
	sink := NewSink([]string{"only"})

	ch := sink.Task("only")
	ch <- Event{Task: "only", State: StateChecking}
	ch <- Event{Task: "only", State: StateFetching}
	ch <- Event{Task: "only", State: StateVerified}
	sink.Done("only")

	var states []State
	for ev := range sink.Events() {
		states = append(states, ev.State)
	}
	assert.Equal(t, []State{StateChecking, StateFetching, StateVerified}, states)
}

func TestPrinter_PrintsOneLinePerEvent(t *testing.T) {
	sink := NewSink([]string{"x", "y"})
	sink.Task("x") <- Event{Task: "x", State: StateVerified, Message: "ok"}
	sink.Done("x")
	sink.Task("y") <- Event{Task: "y", State: StateFailed, Message: "boom"}
	sink.Done("y")

	var buf bytes.Buffer
	NewPrinter(&buf).Run(sink.Events())

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 2)

	sorted := make([]string, len(lines))
	for i, l := range lines {
		sorted[i] = string(l)
	}
	sort.Strings(sorted)
	assert.Contains(t, sorted[0], "x")
	assert.Contains(t, sorted[1], "y")
}
