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

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_FormatRemoteAndUpstream(t *testing.T) {
	p := NewDefaultReplicationPolicy()
	remote := p.FormatRemote("us-west", "orders")
	assert.Equal(t, "us-west.orders", remote)

	upstream, ok := p.UpstreamTopic(remote)
	require.True(t, ok)
	assert.Equal(t, "orders", upstream)
}

func TestDefaultPolicy_UpstreamTopic_NoPrefix(t *testing.T) {
	p := NewDefaultReplicationPolicy()
	_, ok := p.UpstreamTopic("orders")
	assert.False(t, ok)
}

func TestDefaultPolicy_OriginalTopic_StripsChain(t *testing.T) {
	p := NewDefaultReplicationPolicy()
	assert.Equal(t, "orders", p.OriginalTopic("us-east.us-west.orders"))
}

func TestIsCycle_DefaultPolicy(t *testing.T) {
	p := NewDefaultReplicationPolicy()
	// A topic mirrored from target back onto itself is a cycle.
	assert.True(t, IsCycle(p, "us-east", "us-east.orders"))
	assert.False(t, IsCycle(p, "us-east", "us-west.orders"))
	assert.False(t, IsCycle(p, "us-east", "orders"))
}

func TestIsCycle_NonDefaultSeparator(t *testing.T) {
	p := &DefaultReplicationPolicy{Separator: "_"}
	remote := p.FormatRemote("us-east", "orders")
	require.Equal(t, "us-east_orders", remote)
	assert.True(t, IsCycle(p, "us-east", remote))
	assert.False(t, IsCycle(p, "us-west", remote))
}

func TestIsCycle_NullSafe(t *testing.T) {
	p := &nullUpstreamPolicy{}
	assert.False(t, IsCycle(p, "us-east", ".b"))
}

func TestShouldReplicateTopic_HeartbeatBypass(t *testing.T) {
	p := NewDefaultReplicationPolicy()
	rejectEverything := func(string) bool { return false }
	assert.True(t, ShouldReplicateTopic(p, "us-east", rejectEverything, "heartbeats"))
	assert.True(t, ShouldReplicateTopic(p, "us-east", rejectEverything, "us-west.heartbeats"))
}

func TestShouldReplicateTopic_CycleRejected(t *testing.T) {
	p := NewDefaultReplicationPolicy()
	acceptEverything := func(string) bool { return true }
	assert.False(t, ShouldReplicateTopic(p, "us-east", acceptEverything, "us-east.orders"))
	assert.True(t, ShouldReplicateTopic(p, "us-east", acceptEverything, "us-west.orders"))
}

func TestIdentityPolicy_OrdinaryCyclesAllowed(t *testing.T) {
	p := NewIdentityReplicationPolicy()
	assert.Equal(t, "orders", p.FormatRemote("us-east", "orders"))
	assert.False(t, IsCycle(p, "us-east", "orders"))
}

func TestIdentityPolicy_HeartbeatCycleStillRejected(t *testing.T) {
	p := NewIdentityReplicationPolicy()
	assert.True(t, IsCycle(p, "us-east", "us-east.heartbeats"))
	assert.False(t, IsCycle(p, "us-east", "us-west.heartbeats"))
}

func TestIsInternalTopic(t *testing.T) {
	p := NewDefaultReplicationPolicy()
	assert.True(t, p.IsInternalTopic("heartbeats"))
	assert.True(t, p.IsInternalTopic("us-west.heartbeats"))
	assert.False(t, p.IsInternalTopic("orders"))
}

// nullUpstreamPolicy is a pathological policy whose UpstreamTopic never
// recognizes a prefix (it returns ok=false for every name, including names
// starting with a literal "."), exercising IsCycle's null-safety when the
// walk cannot resolve an upstream name.
type nullUpstreamPolicy struct{}

func (nullUpstreamPolicy) FormatRemote(source, topic string) string { return source + "." + topic }

func (nullUpstreamPolicy) UpstreamTopic(topic string) (string, bool) {
	if len(topic) > 0 && topic[0] == '.' {
		return "", false
	}
	return "", false
}

func (nullUpstreamPolicy) IsInternalTopic(topic string) bool { return false }

func (nullUpstreamPolicy) OriginalTopic(topic string) string { return topic }

func (nullUpstreamPolicy) aliasSeparator() string { return "." }
