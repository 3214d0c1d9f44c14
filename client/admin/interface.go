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

// Package admin defines the Kafka broker administrative capability every
// connector component talks to, and translates transport-specific errors
// (sarama's in the concrete client) into the connector's own AdminError
// classification so that core components never need to import sarama.
package admin

import (
	"context"

	"github.com/kafka-connect/mirror-connector/common/kafka/model"
)

// Client is the administrative surface the connector needs against one
// Kafka cluster: topic and partition management, config introspection, ACL
// sync, and consumer-group/offset discovery for the checkpoint connector.
type Client interface {
	ListTopics(ctx context.Context) (map[string]model.TopicDetail, error)
	CreateTopic(ctx context.Context, topic model.NewTopic) error
	CreatePartitions(ctx context.Context, topic string, newTotal int32) error
	DescribeTopicConfigs(ctx context.Context, topics []string) (map[string]model.TopicConfig, error)
	AlterTopicConfig(ctx context.Context, topic string, configs map[string]string) error

	DescribeACLs(ctx context.Context, filter model.AclFilter) ([]model.AclBinding, error)
	CreateACLs(ctx context.Context, bindings []model.AclBinding) error

	ListConsumerGroups(ctx context.Context) ([]string, error)
	ListConsumerGroupOffsets(ctx context.Context, group string) (map[model.TopicPartition]int64, error)

	Close() error
}
