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

// Package acl implements topic ACL replication: reading ALLOW bindings from
// the source cluster, transforming them for the mirrored topic name, and
// upserting them on the target, including the authorizer-disabled
// degenerate path that must warn exactly once.
package acl

import (
	"context"
	"sync/atomic"

	"github.com/kafka-connect/mirror-connector/client/admin"
	"github.com/kafka-connect/mirror-connector/common/kafka/model"
	"github.com/kafka-connect/mirror-connector/common/kafka/policy"
	"github.com/kafka-connect/mirror-connector/common/log"
	"github.com/kafka-connect/mirror-connector/common/log/tag"
	"github.com/kafka-connect/mirror-connector/common/metrics"
)

// Syncer replicates topic ACLs from a source cluster to a target cluster.
type Syncer struct {
	source string
	policy policy.ReplicationPolicy
	logger log.Logger
	scope  metrics.Scope

	sourceAdmin admin.Client
	targetAdmin admin.Client

	// authDisabled latches once the source authorizer is discovered to be
	// off; it is only ever reset by process restart.
	authDisabled int32
}

// NewSyncer returns an ACL Syncer for one source/target admin pair.
func NewSyncer(source string, p policy.ReplicationPolicy, sourceAdmin, targetAdmin admin.Client, logger log.Logger, scope metrics.Scope) *Syncer {
	return &Syncer{
		source:      source,
		policy:      p,
		sourceAdmin: sourceAdmin,
		targetAdmin: targetAdmin,
		logger:      logger,
		scope:       scope,
	}
}

// SyncTopicAcls describes ALLOW, TOPIC-scoped, LITERAL-pattern bindings on
// the source, transforms them for the target topic names, and upserts them.
func (s *Syncer) SyncTopicAcls(ctx context.Context) error {
	if atomic.LoadInt32(&s.authDisabled) == 1 {
		s.logger.Debug("skipping topic ACL sync, authorizer previously found disabled")
		return nil
	}

	bindings, err := s.sourceAdmin.DescribeACLs(ctx, model.AclFilter{
		ResourceType: model.ResourceTypeTopic,
		PatternType:  model.PatternTypeLiteral,
		Permission:   model.PermissionAllow,
	})
	if err != nil {
		if admin.IsAuthDisabled(err) {
			if atomic.CompareAndSwapInt32(&s.authDisabled, 0, 1) {
				s.logger.Warn("source cluster authorizer appears disabled; consider disabling topic ACL syncing", tag.Error(err))
			}
			return nil
		}
		return err
	}

	transformed := make([]model.AclBinding, 0, len(bindings))
	for _, b := range bindings {
		if b.Entry.Operation == model.OpWrite {
			continue
		}
		transformed = append(transformed, transformBinding(s.policy, s.source, b))
	}

	if len(transformed) == 0 {
		return nil
	}

	if err := s.targetAdmin.CreateACLs(ctx, transformed); err != nil {
		s.logger.Error("failed to upsert mirrored topic ACLs", tag.Error(err))
		return err
	}
	s.scope.AddCounter("acl_bindings_synced", int64(len(transformed)))
	return nil
}

// transformBinding rewrites resource.name for the target topic, downgrades
// ALL/ALLOW to READ/ALLOW (only mirrored consumer-style access is granted),
// and leaves every other binding (including any ALL/DENY) unchanged.
func transformBinding(p policy.ReplicationPolicy, source string, b model.AclBinding) model.AclBinding {
	out := b
	out.Resource.Name = p.FormatRemote(source, b.Resource.Name)
	if b.Entry.Operation == model.OpAll && b.Entry.Permission == model.PermissionAllow {
		out.Entry.Operation = model.OpRead
	}
	return out
}
