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

package connectorcfg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseProps() map[string]string {
	return map[string]string{
		keySourceCluster: "us-east",
		keyTargetCluster: "us-west",
		keySourceBrokers: "broker-a:9092,broker-b:9092",
		keyTargetBrokers: "broker-c:9092",
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(baseProps())
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, ".", cfg.Separator)
	assert.Equal(t, []string{"broker-a:9092", "broker-b:9092"}, cfg.SourceBrokers)
	assert.Equal(t, defaultTasksMax, cfg.TasksMax)
	assert.Equal(t, defaultCheckpointsInterval, cfg.CheckpointsInterval)
}

func TestParse_MissingRequiredField(t *testing.T) {
	props := baseProps()
	delete(props, keySourceCluster)
	_, err := Parse(props)
	assert.Error(t, err)
}

func TestParse_NegativeCheckpointsIntervalAllowed(t *testing.T) {
	props := baseProps()
	props[keyCheckpointsIntervalSeconds] = "-1"
	cfg, err := Parse(props)
	require.NoError(t, err)
	assert.Equal(t, -time.Second, cfg.CheckpointsInterval)
}

func TestParse_NegativeRefreshIntervalRejected(t *testing.T) {
	props := baseProps()
	props[keyRefreshTopicsIntervalSeconds] = "-5"
	_, err := Parse(props)
	assert.Error(t, err)
}

func TestParse_TopicListsSplitAndTrimmed(t *testing.T) {
	props := baseProps()
	props[keyTopicsInclude] = "orders, payments , shipments"
	cfg, err := Parse(props)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "payments", "shipments"}, cfg.TopicsInclude)
}
