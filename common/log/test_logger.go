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

package log

import (
	"strings"
	"sync"

	"github.com/kafka-connect/mirror-connector/common/log/tag"
)

// Entry is one recorded log line captured by a TestLogger.
type Entry struct {
	Level string
	Msg   string
}

// TestLogger is an in-memory Logger used by unit tests to assert on log
// counts and messages, e.g. the ACL authorizer-disabled warn-once invariant.
type TestLogger struct {
	mu      sync.Mutex
	entries *[]Entry
}

// NewTestLogger returns a fresh recording logger.
func NewTestLogger() *TestLogger {
	return &TestLogger{entries: &[]Entry{}}
}

func (l *TestLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, Entry{Level: level, Msg: msg})
}

func (l *TestLogger) Debug(msg string, tags ...tag.Tag) { l.record("debug", msg) }
func (l *TestLogger) Info(msg string, tags ...tag.Tag)  { l.record("info", msg) }
func (l *TestLogger) Warn(msg string, tags ...tag.Tag)  { l.record("warn", msg) }
func (l *TestLogger) Error(msg string, tags ...tag.Tag) { l.record("error", msg) }

// WithTags returns a logger sharing the same underlying entry slice so the
// test can assert across a component's whole tag hierarchy at once.
func (l *TestLogger) WithTags(tags ...tag.Tag) Logger {
	return &TestLogger{entries: l.entries}
}

// Entries returns a snapshot of everything logged so far.
func (l *TestLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(*l.entries))
	copy(out, *l.entries)
	return out
}

// CountContaining returns how many recorded messages contain substr.
func (l *TestLogger) CountContaining(substr string) int {
	n := 0
	for _, e := range l.Entries() {
		if strings.Contains(e.Msg, substr) {
			n++
		}
	}
	return n
}
