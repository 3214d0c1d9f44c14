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

// Package groups implements the checkpoint connector's consumer-group
// discovery loop: an analogue of the topic/partition reconciler (C6) over a
// different unit type, with the same republish-wholesale discipline.
package groups

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/kafka-connect/mirror-connector/client/admin"
	"github.com/kafka-connect/mirror-connector/common/log"
	"github.com/kafka-connect/mirror-connector/common/log/tag"
)

// ShouldReplicateGroup decides whether a consumer group on the source is in
// scope for checkpoint emission (name filter composed by the caller).
type ShouldReplicateGroup func(group string) bool

// checkpointGroupPrefix marks a consumer group id as produced by a
// checkpoint connector itself, analogous to isInternalTopic for topics.
const checkpointGroupPrefix = "__checkpoint-"

// IsCheckpointInternalGroup reports whether group was itself created by a
// checkpoint connector, so it must never become a discovery target.
func IsCheckpointInternalGroup(group string) bool {
	return strings.HasPrefix(group, checkpointGroupPrefix)
}

// Discoverer finds the source consumer groups a checkpoint connector should
// assign to tasks, and republishes the result atomically after each tick.
type Discoverer struct {
	sourceAdmin          admin.Client
	shouldReplicateGroup ShouldReplicateGroup
	logger               log.Logger

	known atomic.Pointer[[]string]
}

// New returns a Discoverer backed by sourceAdmin.
func New(sourceAdmin admin.Client, shouldReplicateGroup ShouldReplicateGroup, logger log.Logger) *Discoverer {
	return &Discoverer{sourceAdmin: sourceAdmin, shouldReplicateGroup: shouldReplicateGroup, logger: logger}
}

// KnownConsumerGroups returns the groups found as of the last successful
// tick, in discovery order (stable, not re-sorted across ticks).
func (d *Discoverer) KnownConsumerGroups() []string {
	var known []string
	if p := d.known.Load(); p != nil {
		known = *p
	}
	out := make([]string, len(known))
	copy(out, known)
	return out
}

// Tick lists consumer groups on the source, filters them, and republishes
// the result, preserving the relative order of groups already known and
// appending newly discovered ones at the end.
func (d *Discoverer) Tick(ctx context.Context) {
	found, err := d.findSourceConsumerGroups(ctx)
	if err != nil {
		d.logger.Error("failed to list source consumer groups", tag.Error(err))
		return
	}

	foundSet := make(map[string]struct{}, len(found))
	for _, g := range found {
		foundSet[g] = struct{}{}
	}

	next := make([]string, 0, len(found))
	seen := make(map[string]struct{}, len(found))
	for _, g := range d.KnownConsumerGroups() {
		if _, ok := foundSet[g]; ok {
			next = append(next, g)
			seen[g] = struct{}{}
		}
	}
	sort.Strings(found)
	for _, g := range found {
		if _, ok := seen[g]; !ok {
			next = append(next, g)
		}
	}

	d.known.Store(&next)
}

func (d *Discoverer) findSourceConsumerGroups(ctx context.Context) ([]string, error) {
	groups, err := d.sourceAdmin.ListConsumerGroups(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if IsCheckpointInternalGroup(g) {
			continue
		}
		if !d.shouldReplicateGroup(g) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}
