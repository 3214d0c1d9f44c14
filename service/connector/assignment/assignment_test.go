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

package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafka-connect/mirror-connector/common/kafka/model"
)

func TestAssign_RoundRobinWorkedExample(t *testing.T) {
	input := []model.TopicPartition{
		{Topic: "t0", Partition: 0}, {Topic: "t0", Partition: 1},
		{Topic: "t0", Partition: 2}, {Topic: "t0", Partition: 3},
		{Topic: "t0", Partition: 4}, {Topic: "t0", Partition: 5},
		{Topic: "t0", Partition: 6}, {Topic: "t0", Partition: 7},
		{Topic: "t1", Partition: 0}, {Topic: "t1", Partition: 1},
		{Topic: "t2", Partition: 0}, {Topic: "t2", Partition: 1},
	}
	result := Assign(TopicPartitionUnits(input), 3)
	require.Len(t, result, 3)
	assert.Equal(t, "t0-0,t0-3,t0-6,t1-1", result[0])
	assert.Equal(t, "t0-1,t0-4,t0-7,t2-0", result[1])
	assert.Equal(t, "t0-2,t0-5,t1-0,t2-1", result[2])
}

func TestAssign_EmptyUnits(t *testing.T) {
	assert.Nil(t, Assign(nil, 3))
}

func TestAssign_FewerUnitsThanTasks(t *testing.T) {
	input := []model.TopicPartition{{Topic: "t0", Partition: 0}}
	result := Assign(TopicPartitionUnits(input), 3)
	require.Len(t, result, 1)
	assert.Equal(t, "t0-0", result[0])
}

func TestAssign_StringUnits(t *testing.T) {
	result := Assign(StringUnits([]string{"g0", "g1", "g2"}), 2)
	require.Len(t, result, 2)
	assert.Equal(t, "g0,g2", result[0])
	assert.Equal(t, "g1", result[1])
}

func TestParseTaskConfig_RoundTrip(t *testing.T) {
	tps, err := ParseTaskConfig("t0-0,t0-3,t0-6,t1-1")
	require.NoError(t, err)
	assert.Equal(t, []model.TopicPartition{
		{Topic: "t0", Partition: 0},
		{Topic: "t0", Partition: 3},
		{Topic: "t0", Partition: 6},
		{Topic: "t1", Partition: 1},
	}, tps)
}

func TestParseTaskConfig_Empty(t *testing.T) {
	tps, err := ParseTaskConfig("")
	require.NoError(t, err)
	assert.Nil(t, tps)
}
