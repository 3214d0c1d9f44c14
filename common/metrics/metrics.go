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

// Package metrics wraps a tally.Scope behind a small reporting-agnostic
// interface: components ask for a named, tagged scope and emit
// counters/timers/gauges against it without knowing the reporter.
package metrics

import (
	"time"

	"github.com/uber-go/tally"
)

// Scope emits counters, timers and gauges for one logical operation.
type Scope interface {
	IncCounter(name string)
	AddCounter(name string, delta int64)
	RecordTimer(name string, d time.Duration)
	UpdateGauge(name string, value float64)
}

// Client is the root metrics capability handed to every connector component.
type Client interface {
	Scope(name string, tags ...Tag) Scope
}

// Tag is a single metrics dimension, e.g. TargetClusterTag("aws").
type Tag struct {
	Key, Value string
}

// TargetClusterTag tags a metric with the remote cluster alias it concerns.
func TargetClusterTag(cluster string) Tag { return Tag{Key: "target_cluster", Value: cluster} }

// SourceClusterTag tags a metric with the source cluster alias.
func SourceClusterTag(cluster string) Tag { return Tag{Key: "source_cluster", Value: cluster} }

type tallyClient struct {
	root tally.Scope
}

// NewTallyClient adapts a tally.Scope root into a metrics.Client.
func NewTallyClient(root tally.Scope) Client {
	return &tallyClient{root: root}
}

func (c *tallyClient) Scope(name string, tags ...Tag) Scope {
	tagMap := make(map[string]string, len(tags))
	for _, t := range tags {
		tagMap[t.Key] = t.Value
	}
	return &tallyScope{s: c.root.Tagged(tagMap).SubScope(name)}
}

type tallyScope struct {
	s tally.Scope
}

func (s *tallyScope) IncCounter(name string)                     { s.s.Counter(name).Inc(1) }
func (s *tallyScope) AddCounter(name string, delta int64)        { s.s.Counter(name).Inc(delta) }
func (s *tallyScope) RecordTimer(name string, d time.Duration)   { s.s.Timer(name).Record(d) }
func (s *tallyScope) UpdateGauge(name string, value float64)     { s.s.Gauge(name).Update(value) }

// NoopClient returns a Client that discards everything, used where a test or
// a standalone run doesn't wire a real reporter.
func NoopClient() Client {
	return NewTallyClient(tally.NoopScope)
}
