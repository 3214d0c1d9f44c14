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

package admin

import (
	"context"
	"sync"

	"github.com/kafka-connect/mirror-connector/common/kafka/model"
)

// FakeClient is an in-memory Client used by component tests in place of a
// real broker connection. It is safe for concurrent use by the scheduler's
// single worker and the test goroutine asserting on it.
type FakeClient struct {
	mu sync.Mutex

	Topics         map[string]model.TopicDetail
	TopicConfigs   map[string]model.TopicConfig
	Acls           []model.AclBinding
	ConsumerGroups map[string]map[model.TopicPartition]int64

	AuthDisabled bool

	CreateTopicErr      error
	CreatePartitionsErr error
}

// NewFakeClient returns an empty FakeClient ready for use.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		Topics:         make(map[string]model.TopicDetail),
		TopicConfigs:   make(map[string]model.TopicConfig),
		ConsumerGroups: make(map[string]map[model.TopicPartition]int64),
	}
}

func (f *FakeClient) ListTopics(ctx context.Context) (map[string]model.TopicDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]model.TopicDetail, len(f.Topics))
	for k, v := range f.Topics {
		out[k] = v
	}
	return out, nil
}

func (f *FakeClient) CreateTopic(ctx context.Context, topic model.NewTopic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateTopicErr != nil {
		return f.CreateTopicErr
	}
	if _, exists := f.Topics[topic.Name]; exists {
		return &Error{Kind: ErrorKindAlreadyExists, Cause: errAlreadyExists(topic.Name)}
	}
	f.Topics[topic.Name] = model.TopicDetail{
		Name:              topic.Name,
		NumPartitions:     topic.PartitionCount,
		ReplicationFactor: topic.ReplicationFactor,
	}
	entries := make([]model.ConfigEntry, 0, len(topic.Configs))
	for k, v := range topic.Configs {
		entries = append(entries, model.ConfigEntry{Name: k, Value: v, Source: model.ConfigSourceDynamicTopic})
	}
	f.TopicConfigs[topic.Name] = model.TopicConfig{Topic: topic.Name, Entries: entries}
	return nil
}

func (f *FakeClient) CreatePartitions(ctx context.Context, topic string, newTotal int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreatePartitionsErr != nil {
		return f.CreatePartitionsErr
	}
	detail, ok := f.Topics[topic]
	if !ok {
		return &Error{Kind: ErrorKindFatal, Cause: errUnknownTopic(topic)}
	}
	detail.NumPartitions = newTotal
	f.Topics[topic] = detail
	return nil
}

func (f *FakeClient) DescribeTopicConfigs(ctx context.Context, topics []string) (map[string]model.TopicConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]model.TopicConfig, len(topics))
	for _, t := range topics {
		out[t] = f.TopicConfigs[t]
	}
	return out, nil
}

func (f *FakeClient) AlterTopicConfig(ctx context.Context, topic string, configs map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := make([]model.ConfigEntry, 0, len(configs))
	for k, v := range configs {
		entries = append(entries, model.ConfigEntry{Name: k, Value: v, Source: model.ConfigSourceDynamicTopic})
	}
	f.TopicConfigs[topic] = model.TopicConfig{Topic: topic, Entries: entries}
	return nil
}

// DescribeACLs filters by resource type and pattern type but, like a real
// broker's ACL filter in practice, does not reliably exclude non-matching
// permission types: callers (acl.Syncer) must defensively handle a DENY
// binding slipping through a describe filter requesting ALLOW only.
func (f *FakeClient) DescribeACLs(ctx context.Context, filter model.AclFilter) ([]model.AclBinding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AuthDisabled {
		return nil, &Error{Kind: ErrorKindAuthDisabled, Cause: errAuthDisabled()}
	}
	var out []model.AclBinding
	for _, b := range f.Acls {
		if filter.ResourceType != model.ResourceTypeUnknown && b.Resource.Type != filter.ResourceType {
			continue
		}
		if filter.PatternType != model.PatternTypeUnknown && b.Resource.PatternType != filter.PatternType {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *FakeClient) CreateACLs(ctx context.Context, bindings []model.AclBinding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AuthDisabled {
		return &Error{Kind: ErrorKindAuthDisabled, Cause: errAuthDisabled()}
	}
	f.Acls = append(f.Acls, bindings...)
	return nil
}

func (f *FakeClient) ListConsumerGroups(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.ConsumerGroups))
	for name := range f.ConsumerGroups {
		names = append(names, name)
	}
	return names, nil
}

func (f *FakeClient) ListConsumerGroupOffsets(ctx context.Context, group string) (map[model.TopicPartition]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[model.TopicPartition]int64, len(f.ConsumerGroups[group]))
	for k, v := range f.ConsumerGroups[group] {
		out[k] = v
	}
	return out, nil
}

func (f *FakeClient) Close() error { return nil }

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

func errAlreadyExists(topic string) error { return fakeErr("topic already exists: " + topic) }
func errUnknownTopic(topic string) error  { return fakeErr("unknown topic: " + topic) }
func errAuthDisabled() error              { return fakeErr("authorizer disabled") }
