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

// Package model holds the wire-independent data types shared by every
// connector component: topic-partitions, ACL bindings, topic configs and
// the cluster-pair identity the policy and filters are scoped to.
package model

import "fmt"

// SourceAndTarget is the immutable pair of cluster aliases a connector
// instance replicates between.
type SourceAndTarget struct {
	Source string
	Target string
}

func (st SourceAndTarget) String() string {
	return fmt.Sprintf("%s->%s", st.Source, st.Target)
}

// TopicPartition is a value-typed, hashable (topic, partition) pair.
type TopicPartition struct {
	Topic     string
	Partition int32
}

func (tp TopicPartition) String() string {
	return fmt.Sprintf("%s-%d", tp.Topic, tp.Partition)
}

// ResourceType mirrors the Kafka ACL resource type enum, restricted to the
// values this connector's ACL sync ever sees.
type ResourceType int

const (
	ResourceTypeUnknown ResourceType = iota
	ResourceTypeTopic
	ResourceTypeGroup
	ResourceTypeCluster
)

// PatternType mirrors the Kafka ACL resource pattern-type enum.
type PatternType int

const (
	PatternTypeUnknown PatternType = iota
	PatternTypeLiteral
	PatternTypePrefixed
)

// Operation mirrors the Kafka ACL operation enum.
type Operation int

const (
	OpUnknown Operation = iota
	OpAll
	OpRead
	OpWrite
	OpCreate
	OpDelete
	OpAlter
	OpDescribe
)

func (o Operation) String() string {
	switch o {
	case OpAll:
		return "ALL"
	case OpRead:
		return "READ"
	case OpWrite:
		return "WRITE"
	case OpCreate:
		return "CREATE"
	case OpDelete:
		return "DELETE"
	case OpAlter:
		return "ALTER"
	case OpDescribe:
		return "DESCRIBE"
	default:
		return "UNKNOWN"
	}
}

// Permission mirrors the Kafka ACL permission enum.
type Permission int

const (
	PermissionUnknown Permission = iota
	PermissionAllow
	PermissionDeny
)

func (p Permission) String() string {
	switch p {
	case PermissionAllow:
		return "ALLOW"
	case PermissionDeny:
		return "DENY"
	default:
		return "UNKNOWN"
	}
}

// AclResource identifies the resource an ACL binding is scoped to.
type AclResource struct {
	Type        ResourceType
	Name        string
	PatternType PatternType
}

// AclEntry is the principal/host/operation/permission tuple of a binding.
type AclEntry struct {
	Principal  string
	Host       string
	Operation  Operation
	Permission Permission
}

// AclBinding pairs a resource with an entry, exactly as consumed from and
// written to the broker's ACL admin API.
type AclBinding struct {
	Resource AclResource
	Entry    AclEntry
}

// AclFilter selects which bindings DescribeACLs should return. The ACL sync
// engine only ever asks for "any TOPIC + LITERAL pattern + ALLOW".
type AclFilter struct {
	ResourceType ResourceType
	PatternType  PatternType
	Permission   Permission
}

// ConfigSource tags the provenance of a config entry, matching Kafka's
// describe-configs response semantics.
type ConfigSource int

const (
	ConfigSourceUnknown ConfigSource = iota
	ConfigSourceDefault
	ConfigSourceStaticBroker
	ConfigSourceDynamicTopic
	ConfigSourceDynamicBroker
)

// IsExplicit reports whether this entry was explicitly set on the topic,
// as opposed to inherited from a broker or cluster default.
func (s ConfigSource) IsExplicit() bool {
	return s == ConfigSourceDynamicTopic
}

// ConfigEntry is one (name, value, source) triple of a topic's configuration.
type ConfigEntry struct {
	Name   string
	Value  string
	Source ConfigSource
}

// TopicConfig is the ordered list of config entries describeConfigs returned
// for one topic, in the order the broker returned them. NewTopic.Configs is
// a map, so that order is not carried into a create or alter request.
type TopicConfig struct {
	Topic   string
	Entries []ConfigEntry
}

// NewTopic is the request shape for creating a topic on the target cluster.
type NewTopic struct {
	Name              string
	PartitionCount    int32
	ReplicationFactor int16 // -1 means broker default
	Configs           map[string]string
}

// TopicDetail is what the admin's ListTopics returns about
// one topic: its current partition count (and, where available, the
// replication factor), independent of any broker-native wire format.
type TopicDetail struct {
	Name              string
	NumPartitions     int32
	ReplicationFactor int16
}
