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

// Package reconciler implements the topic/partition reconciliation tick:
// diffing source and target topic-partitions, creating missing mirrored
// topics and widening under-provisioned ones. Ticks run on the single
// scheduler worker goroutine, so no locking is used here — the scheduler is
// the sole synchronization between ticks. KnownState is published through
// an atomic pointer swap, so readers on other goroutines (task assignment)
// always see a whole snapshot.
package reconciler

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/kafka-connect/mirror-connector/client/admin"
	"github.com/kafka-connect/mirror-connector/common/backoff"
	"github.com/kafka-connect/mirror-connector/common/kafka/model"
	"github.com/kafka-connect/mirror-connector/common/kafka/policy"
	"github.com/kafka-connect/mirror-connector/common/log"
	"github.com/kafka-connect/mirror-connector/common/log/tag"
	"github.com/kafka-connect/mirror-connector/common/metrics"
	"github.com/kafka-connect/mirror-connector/service/connector/topicconfig"
)

// createRetryPolicy governs in-tick retries of a single CreateTopic or
// CreatePartitions call against a transient admin error (e.g. not-controller
// during a broker election). It gives up quickly: a stuck tick still needs
// to return so the scheduler's admin timeout race in runBounded stays
// meaningful, and an unresolved create is simply retried on the next tick
// via hasPendingCreation.
var createRetryPolicy = func() backoff.RetryPolicy {
	p := backoff.NewExponentialRetryPolicy(50 * time.Millisecond)
	p.SetMaximumInterval(time.Second)
	p.SetExpirationInterval(3 * time.Second)
	return p
}()

// ShouldReplicateTopic decides whether a source topic is in scope for
// mirroring. It composes the name filter, the heartbeat bypass and the
// cycle check the way spec.md's shouldReplicateTopic does.
type ShouldReplicateTopic func(topic string) bool

// KnownState is the reconciler's in-memory view of the source cluster,
// republished wholesale after each successful tick rather than mutated in
// place, so a tick either fully lands or is discarded.
type KnownState struct {
	SourceTopicPartitions map[model.TopicPartition]struct{}
}

// Reconciler runs the periodic topic/partition reconciliation tick.
type Reconciler struct {
	source string
	target string

	sourceAdmin admin.Client
	targetAdmin admin.Client

	policy               policy.ReplicationPolicy
	shouldReplicateTopic ShouldReplicateTopic
	configResolver       *topicconfig.Resolver

	logger log.Logger
	scope  metrics.Scope

	// requestReconfiguration asks the connector host to re-derive task
	// configs, e.g. because new topic-partitions appeared.
	requestReconfiguration func()

	known atomic.Pointer[KnownState]
}

// New returns a Reconciler for one source/target pair.
func New(
	source, target string,
	sourceAdmin, targetAdmin admin.Client,
	p policy.ReplicationPolicy,
	shouldReplicateTopic ShouldReplicateTopic,
	configResolver *topicconfig.Resolver,
	logger log.Logger,
	scope metrics.Scope,
	requestReconfiguration func(),
) *Reconciler {
	r := &Reconciler{
		source:                  source,
		target:                  target,
		sourceAdmin:             sourceAdmin,
		targetAdmin:             targetAdmin,
		policy:                  p,
		shouldReplicateTopic:    shouldReplicateTopic,
		configResolver:          configResolver,
		logger:                  logger,
		scope:                   scope,
		requestReconfiguration:  requestReconfiguration,
	}
	r.known.Store(&KnownState{SourceTopicPartitions: map[model.TopicPartition]struct{}{}})
	return r
}

// KnownSourceTopicPartitions returns the last successfully published set of
// source topic-partitions, used by task assignment (C7).
func (r *Reconciler) KnownSourceTopicPartitions() []model.TopicPartition {
	known := r.known.Load()
	out := make([]model.TopicPartition, 0, len(known.SourceTopicPartitions))
	for tp := range known.SourceTopicPartitions {
		out = append(out, tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Topic != out[j].Topic {
			return out[i].Topic < out[j].Topic
		}
		return out[i].Partition < out[j].Partition
	})
	return out
}

// Tick runs one reconciliation pass.
func (r *Reconciler) Tick(ctx context.Context) {
	source, err := r.findSourceTopicPartitions(ctx)
	if err != nil {
		r.logger.Error("failed to list source topics", tag.Error(err))
		return
	}

	target, err := r.findTargetTopicPartitions(ctx)
	if err != nil {
		r.logger.Error("failed to list target topics", tag.Error(err))
		return
	}

	changed := !sameTopicPartitionSet(source, r.known.Load().SourceTopicPartitions)
	pendingCreation := r.hasPendingCreation(source, target)
	if !changed && !pendingCreation {
		return
	}

	toCreateTopics, toAddPartitions, err := r.computeDiffs(ctx, source, target)
	if err != nil {
		r.logger.Error("failed to compute reconciliation diff", tag.Error(err))
		return
	}

	createdOrWidened := false

	for _, nt := range toCreateTopics {
		nt := nt
		err := backoff.Retry(func() error {
			return r.targetAdmin.CreateTopic(ctx, nt)
		}, createRetryPolicy, admin.IsTransient)
		if err != nil {
			if admin.IsAlreadyExists(err) {
				r.logger.Debug("target topic already exists", tag.Topic(nt.Name))
				continue
			}
			r.logger.Error("failed to create target topic", tag.Topic(nt.Name), tag.Error(err))
			continue
		}
		createdOrWidened = true
	}

	for tp, newTotal := range toAddPartitions {
		tp, newTotal := tp, newTotal
		err := backoff.Retry(func() error {
			return r.targetAdmin.CreatePartitions(ctx, tp, newTotal)
		}, createRetryPolicy, admin.IsTransient)
		if err != nil {
			if admin.IsAlreadyExists(err) {
				continue
			}
			r.logger.Error("failed to add partitions", tag.Topic(tp), tag.Error(err))
			continue
		}
		createdOrWidened = true
	}

	r.known.Store(&KnownState{SourceTopicPartitions: source})

	if createdOrWidened && r.requestReconfiguration != nil {
		r.requestReconfiguration()
	}
}

// hasPendingCreation reports whether a source topic that should already be
// mirrored has not yet materialized on the target, or is mirrored with
// fewer partitions than the source has, so a tick is still worth running
// even though S itself has not changed.
func (r *Reconciler) hasPendingCreation(source, target map[model.TopicPartition]struct{}) bool {
	targetCounts := partitionCounts(target)
	for t, srcCount := range partitionCounts(source) {
		mirrored := r.policy.FormatRemote(r.source, t)
		if targetCounts[mirrored] < srcCount {
			return true
		}
	}
	return false
}

func (r *Reconciler) findTargetByName(target map[model.TopicPartition]struct{}, name string) (model.TopicPartition, bool) {
	for tp := range target {
		if tp.Topic == name {
			return tp, true
		}
	}
	return model.TopicPartition{}, false
}

func (r *Reconciler) findSourceTopicPartitions(ctx context.Context) (map[model.TopicPartition]struct{}, error) {
	topics, err := r.sourceAdmin.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[model.TopicPartition]struct{})
	for name, detail := range topics {
		if !r.shouldReplicateTopic(name) {
			continue
		}
		for p := int32(0); p < detail.NumPartitions; p++ {
			out[model.TopicPartition{Topic: name, Partition: p}] = struct{}{}
		}
	}
	return out, nil
}

// findTargetTopicPartitions returns every partition on the target whose
// topic name corresponds to a mirrored name, i.e. upstreamTopic succeeds.
func (r *Reconciler) findTargetTopicPartitions(ctx context.Context) (map[model.TopicPartition]struct{}, error) {
	topics, err := r.targetAdmin.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[model.TopicPartition]struct{})
	for name, detail := range topics {
		if _, ok := r.policy.UpstreamTopic(name); !ok {
			continue
		}
		for p := int32(0); p < detail.NumPartitions; p++ {
			out[model.TopicPartition{Topic: name, Partition: p}] = struct{}{}
		}
	}
	return out, nil
}

func (r *Reconciler) computeDiffs(ctx context.Context, source, target map[model.TopicPartition]struct{}) ([]model.NewTopic, map[string]int32, error) {
	sourceCounts := partitionCounts(source)
	targetCounts := partitionCounts(target)

	var toCreateTopics []model.NewTopic
	toAddPartitions := make(map[string]int32)

	topics := make([]string, 0, len(sourceCounts))
	for t := range sourceCounts {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	for _, t := range topics {
		mirrored := r.policy.FormatRemote(r.source, t)
		srcCount := sourceCounts[t]
		tgtCount, exists := targetCounts[mirrored]
		if !exists {
			configs, err := r.resolveTargetConfig(ctx, t)
			if err != nil {
				return nil, nil, err
			}
			toCreateTopics = append(toCreateTopics, model.NewTopic{
				Name:              mirrored,
				PartitionCount:    srcCount,
				ReplicationFactor: -1,
				Configs:           configs,
			})
			continue
		}
		if tgtCount < srcCount {
			toAddPartitions[mirrored] = srcCount
		}
	}
	return toCreateTopics, toAddPartitions, nil
}

func (r *Reconciler) resolveTargetConfig(ctx context.Context, topic string) (map[string]string, error) {
	described, err := r.configResolver.DescribeTopicConfigs(ctx, []string{topic})
	if err != nil {
		return nil, err
	}
	tc, ok := described[topic]
	if !ok {
		return map[string]string{}, nil
	}
	return r.configResolver.TargetConfig(tc), nil
}

func topicsOf(tps map[model.TopicPartition]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for tp := range tps {
		out[tp.Topic] = struct{}{}
	}
	return out
}

func partitionCounts(tps map[model.TopicPartition]struct{}) map[string]int32 {
	out := make(map[string]int32)
	for tp := range tps {
		if tp.Partition+1 > out[tp.Topic] {
			out[tp.Topic] = tp.Partition + 1
		}
	}
	return out
}

func sameTopicPartitionSet(a, b map[model.TopicPartition]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for tp := range a {
		if _, ok := b[tp]; !ok {
			return false
		}
	}
	return true
}
