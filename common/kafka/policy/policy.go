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

// Package policy implements the replication naming policy (mirrored-topic
// name mapping) and the cycle-detection predicate built on top of it. A
// ReplicationPolicy is modeled as a small interface carrying pure functions
// rather than an inheritance hierarchy, so Default and Identity variants
// can be swapped without touching callers.
package policy

import "strings"

// HeartbeatsTopicName is the well-known internal liveness topic name.
const HeartbeatsTopicName = "heartbeats"

// ReplicationPolicy maps a source topic name onto its mirrored name on the
// target cluster, and back. Implementations must satisfy
// upstreamTopic(formatRemote(s, t)) == t, and must be null-safe: UpstreamTopic
// returning ok=false at any step must not fault IsCycle.
type ReplicationPolicy interface {
	FormatRemote(source, topic string) string
	// UpstreamTopic returns the un-prefixed topic name and true if topic
	// carries a recognizable upstream prefix, or ("", false) otherwise.
	UpstreamTopic(topic string) (string, bool)
	IsInternalTopic(topic string) bool
	// OriginalTopic iteratively strips upstream prefixes until fixed point.
	OriginalTopic(topic string) string
	// aliasSeparator is the literal separator FormatRemote joins the alias
	// and topic with, used by aliasPrefix to recover the alias segment
	// UpstreamTopic's suffix leaves behind. It is independent of the
	// separator chosen for user-topic naming when a policy always forms a
	// fixed-shape name, as IdentityReplicationPolicy does for heartbeats.
	aliasSeparator() string
}

// DefaultReplicationPolicy concatenates "source.topic" with a configurable
// separator, defaulting to ".".
type DefaultReplicationPolicy struct {
	Separator string
}

// NewDefaultReplicationPolicy returns the default "." separated policy.
func NewDefaultReplicationPolicy() *DefaultReplicationPolicy {
	return &DefaultReplicationPolicy{Separator: "."}
}

func (p *DefaultReplicationPolicy) sep() string {
	if p.Separator == "" {
		return "."
	}
	return p.Separator
}

func (p *DefaultReplicationPolicy) aliasSeparator() string { return p.sep() }

// FormatRemote implements ReplicationPolicy.
func (p *DefaultReplicationPolicy) FormatRemote(source, topic string) string {
	return source + p.sep() + topic
}

// UpstreamTopic implements ReplicationPolicy.
func (p *DefaultReplicationPolicy) UpstreamTopic(topic string) (string, bool) {
	idx := strings.Index(topic, p.sep())
	if idx <= 0 {
		return "", false
	}
	return topic[idx+len(p.sep()):], true
}

// IsInternalTopic implements ReplicationPolicy.
func (p *DefaultReplicationPolicy) IsInternalTopic(topic string) bool {
	return isHeartbeatTopic(topic, p)
}

// OriginalTopic implements ReplicationPolicy.
func (p *DefaultReplicationPolicy) OriginalTopic(topic string) string {
	return originalTopic(topic, p)
}

// IdentityReplicationPolicy leaves topic names unchanged on the target.
// Under it ordinary-topic cycles are not structurally detectable (there is
// no prefix to read back), but heartbeat cycles remain detectable because
// heartbeat topic names are still formed as "<cluster>.heartbeats" by
// convention, independent of the name-mapping policy applied to user topics.
type IdentityReplicationPolicy struct{}

// NewIdentityReplicationPolicy returns the identity (no-op) policy.
func NewIdentityReplicationPolicy() *IdentityReplicationPolicy {
	return &IdentityReplicationPolicy{}
}

func (p *IdentityReplicationPolicy) FormatRemote(source, topic string) string {
	return topic
}

func (p *IdentityReplicationPolicy) UpstreamTopic(topic string) (string, bool) {
	// Ordinary topics carry no recognizable prefix under identity naming.
	// Heartbeat names keep the "<cluster>.heartbeats" shape so cycles
	// through them remain detectable.
	if strings.HasSuffix(topic, "."+HeartbeatsTopicName) {
		idx := strings.Index(topic, ".")
		return topic[idx+1:], true
	}
	return "", false
}

func (p *IdentityReplicationPolicy) IsInternalTopic(topic string) bool {
	return isHeartbeatTopic(topic, p)
}

func (p *IdentityReplicationPolicy) OriginalTopic(topic string) string {
	return originalTopic(topic, p)
}

// aliasSeparator is fixed at "." because UpstreamTopic only ever recognizes
// the "<cluster>.heartbeats" shape, regardless of any configured separator.
func (p *IdentityReplicationPolicy) aliasSeparator() string { return "." }

func isHeartbeatTopic(topic string, p ReplicationPolicy) bool {
	if topic == HeartbeatsTopicName {
		return true
	}
	u, ok := p.UpstreamTopic(topic)
	if !ok {
		return false
	}
	return isHeartbeatTopic(u, p)
}

func originalTopic(topic string, p ReplicationPolicy) string {
	for {
		u, ok := p.UpstreamTopic(topic)
		if !ok {
			return topic
		}
		topic = u
	}
}

// IsCycle reports whether topic, considered as a candidate name on the
// target cluster alias, would route replication traffic back to target. It
// walks the upstream-prefix chain one hop at a time and is null-safe: an
// UpstreamTopic that returns ok=false at any step terminates the walk with
// false rather than faulting.
func IsCycle(p ReplicationPolicy, target string, topic string) bool {
	for {
		u, ok := p.UpstreamTopic(topic)
		if !ok {
			return false
		}
		upstreamAlias := aliasPrefix(p, topic, u)
		if upstreamAlias == target {
			return true
		}
		topic = u
	}
}

// NameFilter is the minimal predicate ShouldReplicateTopic composes with the
// policy; common/kafka/filter.NamePattern.Matches satisfies it directly.
type NameFilter func(name string) bool

// ShouldReplicateTopic decides whether topic is in scope for mirroring:
// it must pass the user filter (or be an internal heartbeat topic, which
// bypasses the filter), and must not reveal a cycle back through target.
func ShouldReplicateTopic(p ReplicationPolicy, target string, userFilter NameFilter, topic string) bool {
	internal := p.IsInternalTopic(topic)
	if !internal && !userFilter(topic) {
		return false
	}
	return !IsCycle(p, target, topic)
}

// aliasPrefix recovers the alias segment that FormatRemote would have
// prepended to produce topic from its upstream name u: strip the suffix u
// leaves behind, then trim the one trailing separator FormatRemote joined
// it with, per p.aliasSeparator() rather than a hardcoded ".".
func aliasPrefix(p ReplicationPolicy, topic, upstream string) string {
	if len(topic) <= len(upstream) {
		return ""
	}
	prefix := topic[:len(topic)-len(upstream)]
	return strings.TrimSuffix(prefix, p.aliasSeparator())
}
