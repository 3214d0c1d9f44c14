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
	"errors"

	"github.com/Shopify/sarama"

	"github.com/kafka-connect/mirror-connector/common/kafka/model"
)

// saramaClient adapts sarama's synchronous, non-context ClusterAdmin onto
// Client, classifying every returned error once at this boundary so the
// rest of the connector never imports sarama.
type saramaClient struct {
	admin  sarama.ClusterAdmin
	client sarama.Client
}

// NewSaramaClient dials brokerAddrs and returns a Client backed by
// sarama.ClusterAdmin. The caller owns the returned Client's lifetime and
// must call Close when done with it.
func NewSaramaClient(brokerAddrs []string, conf *sarama.Config) (Client, error) {
	client, err := sarama.NewClient(brokerAddrs, conf)
	if err != nil {
		return nil, toAdminError(err)
	}
	admin, err := sarama.NewClusterAdminFromClient(client)
	if err != nil {
		client.Close()
		return nil, toAdminError(err)
	}
	return &saramaClient{admin: admin, client: client}, nil
}

func (c *saramaClient) ListTopics(ctx context.Context) (map[string]model.TopicDetail, error) {
	topics, err := c.admin.ListTopics()
	if err != nil {
		return nil, toAdminError(err)
	}
	result := make(map[string]model.TopicDetail, len(topics))
	for name, detail := range topics {
		result[name] = model.TopicDetail{
			Name:              name,
			NumPartitions:     detail.NumPartitions,
			ReplicationFactor: detail.ReplicationFactor,
		}
	}
	return result, nil
}

func (c *saramaClient) CreateTopic(ctx context.Context, topic model.NewTopic) error {
	detail := &sarama.TopicDetail{
		NumPartitions:     topic.PartitionCount,
		ReplicationFactor: topic.ReplicationFactor,
		ConfigEntries:     stringPtrMap(topic.Configs),
	}
	err := c.admin.CreateTopic(topic.Name, detail, false)
	if err != nil {
		return toAdminError(err)
	}
	return nil
}

func (c *saramaClient) CreatePartitions(ctx context.Context, topic string, newTotal int32) error {
	err := c.admin.CreatePartitions(topic, newTotal, nil, false)
	if err != nil {
		return toAdminError(err)
	}
	return nil
}

func (c *saramaClient) DescribeTopicConfigs(ctx context.Context, topics []string) (map[string]model.TopicConfig, error) {
	result := make(map[string]model.TopicConfig, len(topics))
	for _, topic := range topics {
		entries, err := c.admin.DescribeConfig(sarama.ConfigResource{
			Type: sarama.TopicResource,
			Name: topic,
		})
		if err != nil {
			return nil, toAdminError(err)
		}
		tc := model.TopicConfig{Topic: topic}
		for _, e := range entries {
			tc.Entries = append(tc.Entries, model.ConfigEntry{
				Name:   e.Name,
				Value:  e.Value,
				Source: toConfigSource(e.Source),
			})
		}
		result[topic] = tc
	}
	return result, nil
}

func (c *saramaClient) AlterTopicConfig(ctx context.Context, topic string, configs map[string]string) error {
	err := c.admin.AlterConfig(sarama.TopicResource, topic, stringPtrMap(configs), false)
	if err != nil {
		return toAdminError(err)
	}
	return nil
}

func (c *saramaClient) DescribeACLs(ctx context.Context, filter model.AclFilter) ([]model.AclBinding, error) {
	resourceACLs, err := c.admin.ListAcls(sarama.AclFilter{
		ResourceType:              toSaramaResourceType(filter.ResourceType),
		ResourcePatternTypeFilter: toSaramaPatternType(filter.PatternType),
		Permission:                toSaramaPermission(filter.Permission),
	})
	if err != nil {
		return nil, toAdminError(err)
	}
	var bindings []model.AclBinding
	for _, ra := range resourceACLs {
		for _, a := range ra.Acls {
			bindings = append(bindings, model.AclBinding{
				Resource: model.AclResource{
					Type:        fromSaramaResourceType(ra.Resource.ResourceType),
					Name:        ra.Resource.ResourceName,
					PatternType: fromSaramaPatternType(ra.Resource.ResourcePatternType),
				},
				Entry: model.AclEntry{
					Principal:  a.Principal,
					Host:       a.Host,
					Operation:  fromSaramaOperation(a.Operation),
					Permission: fromSaramaPermission(a.PermissionType),
				},
			})
		}
	}
	return bindings, nil
}

func (c *saramaClient) CreateACLs(ctx context.Context, bindings []model.AclBinding) error {
	resourceACLs := make([]*sarama.ResourceAcls, 0, len(bindings))
	for _, b := range bindings {
		resourceACLs = append(resourceACLs, &sarama.ResourceAcls{
			Resource: sarama.Resource{
				ResourceType:        toSaramaResourceType(b.Resource.Type),
				ResourceName:        b.Resource.Name,
				ResourcePatternType: toSaramaPatternType(b.Resource.PatternType),
			},
			Acls: []*sarama.Acl{{
				Principal:      b.Entry.Principal,
				Host:           b.Entry.Host,
				Operation:      toSaramaOperation(b.Entry.Operation),
				PermissionType: toSaramaPermission(b.Entry.Permission),
			}},
		})
	}
	if err := c.admin.CreateACLs(resourceACLs); err != nil {
		return toAdminError(err)
	}
	return nil
}

func (c *saramaClient) ListConsumerGroups(ctx context.Context) ([]string, error) {
	groups, err := c.admin.ListConsumerGroups()
	if err != nil {
		return nil, toAdminError(err)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	return names, nil
}

func (c *saramaClient) ListConsumerGroupOffsets(ctx context.Context, group string) (map[model.TopicPartition]int64, error) {
	resp, err := c.admin.ListConsumerGroupOffsets(group, nil)
	if err != nil {
		return nil, toAdminError(err)
	}
	result := make(map[model.TopicPartition]int64)
	for topic, partitions := range resp.Blocks {
		for partition, block := range partitions {
			if block.Offset < 0 {
				continue
			}
			result[model.TopicPartition{Topic: topic, Partition: partition}] = block.Offset
		}
	}
	return result, nil
}

func (c *saramaClient) Close() error {
	closeErr := c.admin.Close()
	if c.client != nil && !c.client.Closed() {
		if err := c.client.Close(); err != nil && closeErr == nil {
			closeErr = err
		}
	}
	return closeErr
}

func stringPtrMap(m map[string]string) map[string]*string {
	if m == nil {
		return nil
	}
	out := make(map[string]*string, len(m))
	for k, v := range m {
		v := v
		out[k] = &v
	}
	return out
}

func toConfigSource(s sarama.ConfigSource) model.ConfigSource {
	switch s {
	case sarama.SourceTopic:
		return model.ConfigSourceDynamicTopic
	case sarama.SourceStaticBroker:
		return model.ConfigSourceStaticBroker
	case sarama.SourceDynamicBroker:
		return model.ConfigSourceDynamicBroker
	case sarama.SourceDefault:
		return model.ConfigSourceDefault
	default:
		return model.ConfigSourceUnknown
	}
}

func toSaramaResourceType(t model.ResourceType) sarama.AclResourceType {
	switch t {
	case model.ResourceTypeTopic:
		return sarama.AclResourceTopic
	case model.ResourceTypeGroup:
		return sarama.AclResourceGroup
	case model.ResourceTypeCluster:
		return sarama.AclResourceCluster
	default:
		return sarama.AclResourceUnknown
	}
}

func fromSaramaResourceType(t sarama.AclResourceType) model.ResourceType {
	switch t {
	case sarama.AclResourceTopic:
		return model.ResourceTypeTopic
	case sarama.AclResourceGroup:
		return model.ResourceTypeGroup
	case sarama.AclResourceCluster:
		return model.ResourceTypeCluster
	default:
		return model.ResourceTypeUnknown
	}
}

func toSaramaPatternType(t model.PatternType) sarama.AclResourcePatternType {
	switch t {
	case model.PatternTypeLiteral:
		return sarama.AclPatternLiteral
	case model.PatternTypePrefixed:
		return sarama.AclPatternPrefixed
	default:
		return sarama.AclPatternAny
	}
}

func fromSaramaPatternType(t sarama.AclResourcePatternType) model.PatternType {
	switch t {
	case sarama.AclPatternLiteral:
		return model.PatternTypeLiteral
	case sarama.AclPatternPrefixed:
		return model.PatternTypePrefixed
	default:
		return model.PatternTypeUnknown
	}
}

func toSaramaOperation(o model.Operation) sarama.AclOperation {
	switch o {
	case model.OpAll:
		return sarama.AclOperationAll
	case model.OpRead:
		return sarama.AclOperationRead
	case model.OpWrite:
		return sarama.AclOperationWrite
	case model.OpCreate:
		return sarama.AclOperationCreate
	case model.OpDelete:
		return sarama.AclOperationDelete
	case model.OpAlter:
		return sarama.AclOperationAlter
	case model.OpDescribe:
		return sarama.AclOperationDescribe
	default:
		return sarama.AclOperationUnknown
	}
}

func fromSaramaOperation(o sarama.AclOperation) model.Operation {
	switch o {
	case sarama.AclOperationAll:
		return model.OpAll
	case sarama.AclOperationRead:
		return model.OpRead
	case sarama.AclOperationWrite:
		return model.OpWrite
	case sarama.AclOperationCreate:
		return model.OpCreate
	case sarama.AclOperationDelete:
		return model.OpDelete
	case sarama.AclOperationAlter:
		return model.OpAlter
	case sarama.AclOperationDescribe:
		return model.OpDescribe
	default:
		return model.OpUnknown
	}
}

func toSaramaPermission(p model.Permission) sarama.AclPermissionType {
	switch p {
	case model.PermissionAllow:
		return sarama.AclPermissionAllow
	case model.PermissionDeny:
		return sarama.AclPermissionDeny
	default:
		return sarama.AclPermissionAny
	}
}

func fromSaramaPermission(p sarama.AclPermissionType) model.Permission {
	switch p {
	case sarama.AclPermissionAllow:
		return model.PermissionAllow
	case sarama.AclPermissionDeny:
		return model.PermissionDeny
	default:
		return model.PermissionUnknown
	}
}

// toAdminError classifies a raw sarama/transport error into the connector's
// AdminError sum type. Topic/partition "already exists" and broker
// "security disabled" conditions are recognized by sarama's own KError
// codes; everything else that looks like a network or leadership hiccup is
// treated as transient, and the remainder is fatal.
func toAdminError(err error) error {
	if err == nil {
		return nil
	}
	var kerr sarama.KError
	if errors.As(err, &kerr) {
		switch kerr {
		case sarama.ErrTopicAlreadyExists, sarama.ErrInvalidPartitions:
			return &Error{Kind: ErrorKindAlreadyExists, Cause: err}
		case sarama.ErrSecurityDisabled:
			return &Error{Kind: ErrorKindAuthDisabled, Cause: err}
		case sarama.ErrNotController, sarama.ErrNotCoordinatorForConsumer,
			sarama.ErrRequestTimedOut, sarama.ErrLeaderNotAvailable,
			sarama.ErrControllerNotAvailable, sarama.ErrNotEnoughReplicas:
			return &Error{Kind: ErrorKindTransient, Cause: err}
		}
		return &Error{Kind: ErrorKindFatal, Cause: err}
	}
	if errors.Is(err, sarama.ErrOutOfBrokers) || errors.Is(err, sarama.ErrClosedClient) {
		return &Error{Kind: ErrorKindTransient, Cause: err}
	}
	return &Error{Kind: ErrorKindFatal, Cause: err}
}
