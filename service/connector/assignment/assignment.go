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

// Package assignment implements round-robin task assignment, shared by the
// source connector (over topic-partitions) and the checkpoint connector
// (over consumer-group ids).
package assignment

import (
	"fmt"
	"strings"

	"github.com/kafka-connect/mirror-connector/common/kafka/model"
)

// Unit is one assignable replication unit, rendered into a task config by
// its String form: "topic-partition" for a topic-partition, the id itself
// for a consumer group.
type Unit interface {
	String() string
}

// stringUnit adapts a plain string (a consumer-group id) into a Unit.
type stringUnit string

func (s stringUnit) String() string { return string(s) }

// TopicPartitionUnits adapts a stable-ordered slice of topic-partitions into
// assignable Units.
func TopicPartitionUnits(tps []model.TopicPartition) []Unit {
	out := make([]Unit, len(tps))
	for i, tp := range tps {
		out[i] = tp
	}
	return out
}

// StringUnits adapts a stable-ordered slice of names (consumer-group ids)
// into assignable Units.
func StringUnits(names []string) []Unit {
	out := make([]Unit, len(names))
	for i, n := range names {
		out[i] = stringUnit(n)
	}
	return out
}

// Assign distributes units round-robin by stable input order into
// min(maxTasks, len(units)) buckets: unit i goes to bucket i mod numTasks.
// Each returned string is the comma-separated "topic-partition" encoding of
// one task's assigned units, preserving input order within the bucket.
func Assign(units []Unit, maxTasks int) []string {
	if len(units) == 0 || maxTasks <= 0 {
		return nil
	}
	numTasks := maxTasks
	if len(units) < numTasks {
		numTasks = len(units)
	}
	buckets := make([][]string, numTasks)
	for i, u := range units {
		b := i % numTasks
		buckets[b] = append(buckets[b], u.String())
	}
	configs := make([]string, numTasks)
	for i, b := range buckets {
		configs[i] = strings.Join(b, ",")
	}
	return configs
}

// ParseTaskConfig splits a task's comma-separated unit list back into
// topic-partition pairs, the inverse of TopicPartitionUnits+Assign for the
// source connector's task startup path.
func ParseTaskConfig(csv string) ([]model.TopicPartition, error) {
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	out := make([]model.TopicPartition, 0, len(parts))
	for _, p := range parts {
		idx := strings.LastIndex(p, "-")
		if idx <= 0 {
			return nil, fmt.Errorf("malformed task config unit %q", p)
		}
		topic := p[:idx]
		var partition int32
		if _, err := fmt.Sscanf(p[idx+1:], "%d", &partition); err != nil {
			return nil, fmt.Errorf("malformed task config unit %q: %w", p, err)
		}
		out = append(out, model.TopicPartition{Topic: topic, Partition: partition})
	}
	return out, nil
}
