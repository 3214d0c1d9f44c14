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

// Package topicconfig filters a source topic's describe-configs response
// down to the entries that should be propagated to its mirrored topic.
package topicconfig

import (
	"context"

	"github.com/kafka-connect/mirror-connector/client/admin"
	"github.com/kafka-connect/mirror-connector/common/kafka/filter"
	"github.com/kafka-connect/mirror-connector/common/kafka/model"
)

// Resolver derives the config map to apply to a mirrored topic from the
// source topic's current configuration.
type Resolver struct {
	sourceAdmin    admin.Client
	propertyFilter *filter.ConfigPropertyFilter
}

// NewResolver returns a Resolver backed by sourceAdmin and propertyFilter.
func NewResolver(sourceAdmin admin.Client, propertyFilter *filter.ConfigPropertyFilter) *Resolver {
	return &Resolver{sourceAdmin: sourceAdmin, propertyFilter: propertyFilter}
}

// DescribeTopicConfigs pulls raw configs for names from the source admin.
func (r *Resolver) DescribeTopicConfigs(ctx context.Context, names []string) (map[string]model.TopicConfig, error) {
	return r.sourceAdmin.DescribeTopicConfigs(ctx, names)
}

// TargetConfig retains only explicitly-set entries that pass the property
// filter, as a name->value map ready to hand to NewTopic.Configs or
// AlterTopicConfig. The map does not keep the order DescribeTopicConfigs
// returned the entries in.
func (r *Resolver) TargetConfig(topicConfig model.TopicConfig) map[string]string {
	out := make(map[string]string)
	for _, e := range topicConfig.Entries {
		if !e.Source.IsExplicit() {
			continue
		}
		if !r.propertyFilter.Matches(e.Name) {
			continue
		}
		out[e.Name] = e.Value
	}
	return out
}
