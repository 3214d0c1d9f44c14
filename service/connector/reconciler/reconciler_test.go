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

package reconciler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafka-connect/mirror-connector/client/admin"
	"github.com/kafka-connect/mirror-connector/common/kafka/filter"
	"github.com/kafka-connect/mirror-connector/common/kafka/model"
	"github.com/kafka-connect/mirror-connector/common/kafka/policy"
	"github.com/kafka-connect/mirror-connector/common/log"
	"github.com/kafka-connect/mirror-connector/common/metrics"
	"github.com/kafka-connect/mirror-connector/service/connector/topicconfig"
)

func newTestReconciler(t *testing.T, source, target *admin.FakeClient) (*Reconciler, *int) {
	t.Helper()
	p := policy.NewDefaultReplicationPolicy()
	nameFilter, err := filter.NewNamePattern(nil, nil)
	require.NoError(t, err)
	propFilter, err := filter.NewConfigPropertyFilter(nil, nil)
	require.NoError(t, err)
	shouldReplicate := func(topic string) bool {
		return policy.ShouldReplicateTopic(p, "target-cluster", nameFilter.Matches, topic)
	}
	resolver := topicconfig.NewResolver(source, propFilter)
	reconfigureCalls := 0
	r := New("source-cluster", "target-cluster", source, target, p, shouldReplicate, resolver,
		log.NewTestLogger(), metrics.NoopClient().Scope("test"),
		func() { reconfigureCalls++ },
	)
	return r, &reconfigureCalls
}

func TestReconciler_ReEntryUntilTopicAppears(t *testing.T) {
	source := admin.NewFakeClient()
	source.Topics["orders"] = model.TopicDetail{Name: "orders", NumPartitions: 1}
	target := admin.NewFakeClient()

	r, reconfigured := newTestReconciler(t, source, target)

	r.Tick(context.Background())
	assert.Contains(t, target.Topics, "source-cluster.orders")
	assert.Equal(t, 1, *reconfigured)

	// Second tick: S unchanged, but target topic already materialized, so no
	// further creation attempt and no additional reconfiguration request.
	r.Tick(context.Background())
	assert.Equal(t, 1, *reconfigured)
}

func TestReconciler_PendingCreationRetriedAcrossTicks(t *testing.T) {
	source := admin.NewFakeClient()
	source.Topics["orders"] = model.TopicDetail{Name: "orders", NumPartitions: 1}
	target := admin.NewFakeClient()
	target.CreateTopicErr = assertError{"transient failure"}

	r, reconfigured := newTestReconciler(t, source, target)

	r.Tick(context.Background())
	assert.NotContains(t, target.Topics, "source-cluster.orders")
	assert.Equal(t, 0, *reconfigured)

	target.CreateTopicErr = nil
	r.Tick(context.Background())
	assert.Contains(t, target.Topics, "source-cluster.orders")
	assert.Equal(t, 1, *reconfigured)

	r.Tick(context.Background())
	assert.Equal(t, 1, *reconfigured)
}

func TestReconciler_TargetFirstSuppression(t *testing.T) {
	source := admin.NewFakeClient()
	target := admin.NewFakeClient()
	target.Topics["source-cluster.orders"] = model.TopicDetail{Name: "source-cluster.orders", NumPartitions: 1}

	r, reconfigured := newTestReconciler(t, source, target)

	r.Tick(context.Background())
	assert.Equal(t, 0, *reconfigured)

	source.Topics["orders"] = model.TopicDetail{Name: "orders", NumPartitions: 2}
	r.Tick(context.Background())
	assert.Equal(t, 1, *reconfigured)

	detail := target.Topics["source-cluster.orders"]
	assert.Equal(t, int32(2), detail.NumPartitions)

	r.Tick(context.Background())
	assert.Equal(t, 1, *reconfigured)
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }
