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

// Package tag defines the structured-logging fields used across the connector.
package tag

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Tag is a structured logging field. It mirrors zap.Field so that the
// production logger can forward tags directly without a conversion pass.
type Tag = zapcore.Field

// Error tags an error value.
func Error(err error) Tag {
	return zap.Error(err)
}

// SourceCluster tags the alias of the source cluster of a replication operation.
func SourceCluster(name string) Tag {
	return zap.String("source-cluster", name)
}

// TargetCluster tags the alias of the target cluster of a replication operation.
func TargetCluster(name string) Tag {
	return zap.String("target-cluster", name)
}

// Topic tags a topic name.
func Topic(name string) Tag {
	return zap.String("topic", name)
}

// Partition tags a partition number.
func Partition(n int32) Tag {
	return zap.Int32("partition", n)
}

// ConsumerGroup tags a consumer group id.
func ConsumerGroup(name string) Tag {
	return zap.String("consumer-group", name)
}

// Principal tags an ACL principal.
func Principal(name string) Tag {
	return zap.String("principal", name)
}

// Counter tags a generic count.
func Counter(n int) Tag {
	return zap.Int("count", n)
}

// ComponentName tags the connector component emitting the log line.
func ComponentName(name string) Tag {
	return zap.String("component", name)
}

// JobName tags the scheduler job description.
func JobName(name string) Tag {
	return zap.String("job", name)
}

// Key tags a configuration property name.
func Key(name string) Tag {
	return zap.String("config-key", name)
}

// Value tags a configuration property value.
func Value(v interface{}) Tag {
	return zap.Any("config-value", v)
}

// Duration tags a duration value, e.g. a scheduler period.
func Duration(d time.Duration) Tag {
	return zap.Duration("duration", d)
}

// Bool tags a boolean flag.
func Bool(name string, v bool) Tag {
	return zap.Bool(name, v)
}

// RunID tags the correlation id of one process-host run.
func RunID(id string) Tag {
	return zap.String("run-id", id)
}
