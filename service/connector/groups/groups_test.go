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

package groups

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafka-connect/mirror-connector/client/admin"
	"github.com/kafka-connect/mirror-connector/common/kafka/model"
	"github.com/kafka-connect/mirror-connector/common/log"
)

func allowAll(string) bool { return true }

func TestIsCheckpointInternalGroup(t *testing.T) {
	assert.True(t, IsCheckpointInternalGroup("__checkpoint-us-east"))
	assert.False(t, IsCheckpointInternalGroup("my-app-group"))
}

func TestDiscoverer_FiltersInternalGroups(t *testing.T) {
	source := admin.NewFakeClient()
	source.ConsumerGroups["app-group"] = map[model.TopicPartition]int64{}
	source.ConsumerGroups["__checkpoint-us-east"] = map[model.TopicPartition]int64{}

	d := New(source, allowAll, log.NewTestLogger())
	d.Tick(context.Background())

	require.Equal(t, []string{"app-group"}, d.KnownConsumerGroups())
}

func TestDiscoverer_StableOrderAcrossTicks(t *testing.T) {
	source := admin.NewFakeClient()
	source.ConsumerGroups["group-b"] = map[model.TopicPartition]int64{}
	source.ConsumerGroups["group-a"] = map[model.TopicPartition]int64{}

	d := New(source, allowAll, log.NewTestLogger())
	d.Tick(context.Background())
	first := d.KnownConsumerGroups()
	require.Len(t, first, 2)

	// A later tick must preserve the relative order already established,
	// appending newly discovered groups (sorted) at the end rather than
	// re-sorting the whole set.
	source.ConsumerGroups["group-c"] = map[model.TopicPartition]int64{}
	d.Tick(context.Background())
	second := d.KnownConsumerGroups()

	require.Len(t, second, 3)
	assert.Equal(t, first[0], second[0])
	assert.Equal(t, first[1], second[1])
	assert.Equal(t, "group-c", second[2])
}

func TestDiscoverer_DroppedGroupRemovedOnNextTick(t *testing.T) {
	source := admin.NewFakeClient()
	source.ConsumerGroups["group-a"] = map[model.TopicPartition]int64{}
	source.ConsumerGroups["group-b"] = map[model.TopicPartition]int64{}

	d := New(source, allowAll, log.NewTestLogger())
	d.Tick(context.Background())
	require.Len(t, d.KnownConsumerGroups(), 2)

	delete(source.ConsumerGroups, "group-a")
	d.Tick(context.Background())
	assert.Equal(t, []string{"group-b"}, d.KnownConsumerGroups())
}
