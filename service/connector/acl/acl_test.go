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

package acl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafka-connect/mirror-connector/client/admin"
	"github.com/kafka-connect/mirror-connector/common/kafka/model"
	"github.com/kafka-connect/mirror-connector/common/kafka/policy"
	"github.com/kafka-connect/mirror-connector/common/log"
	"github.com/kafka-connect/mirror-connector/common/metrics"
)

func TestSyncTopicAcls_TransformTable(t *testing.T) {
	source := admin.NewFakeClient()
	target := admin.NewFakeClient()
	source.Acls = []model.AclBinding{
		{
			Resource: model.AclResource{Type: model.ResourceTypeTopic, Name: "orders", PatternType: model.PatternTypeLiteral},
			Entry:    model.AclEntry{Principal: "User:alice", Host: "*", Operation: model.OpAll, Permission: model.PermissionAllow},
		},
		{
			Resource: model.AclResource{Type: model.ResourceTypeTopic, Name: "orders", PatternType: model.PatternTypeLiteral},
			Entry:    model.AclEntry{Principal: "User:bob", Host: "*", Operation: model.OpWrite, Permission: model.PermissionAllow},
		},
	}

	syncer := NewSyncer("us-east", policy.NewDefaultReplicationPolicy(), source, target, log.NewTestLogger(), metrics.NoopClient().Scope("test"))
	require.NoError(t, syncer.SyncTopicAcls(context.Background()))

	require.Len(t, target.Acls, 1)
	assert.Equal(t, "us-east.orders", target.Acls[0].Resource.Name)
	assert.Equal(t, model.OpRead, target.Acls[0].Entry.Operation)
	assert.Equal(t, model.PermissionAllow, target.Acls[0].Entry.Permission)
}

// TestSyncTopicAcls_AllDenyPreserved exercises the "DENY+ALL slipped
// through" defensive case: the describe filter asks for ALLOW only, but
// FakeClient.DescribeACLs (like a real broker in practice) does not
// reliably exclude other permission types, so SyncTopicAcls must not choke
// on a DENY binding reaching transformBinding.
func TestSyncTopicAcls_AllDenyPreserved(t *testing.T) {
	source := admin.NewFakeClient()
	target := admin.NewFakeClient()
	source.Acls = []model.AclBinding{
		{
			Resource: model.AclResource{Type: model.ResourceTypeTopic, Name: "orders", PatternType: model.PatternTypeLiteral},
			Entry:    model.AclEntry{Principal: "User:mallory", Host: "*", Operation: model.OpAll, Permission: model.PermissionDeny},
		},
	}

	syncer := NewSyncer("us-east", policy.NewDefaultReplicationPolicy(), source, target, log.NewTestLogger(), metrics.NoopClient().Scope("test"))
	require.NoError(t, syncer.SyncTopicAcls(context.Background()))

	require.Len(t, target.Acls, 1)
	assert.Equal(t, "us-east.orders", target.Acls[0].Resource.Name)
	assert.Equal(t, model.OpAll, target.Acls[0].Entry.Operation)
	assert.Equal(t, model.PermissionDeny, target.Acls[0].Entry.Permission)
}

func TestSyncTopicAcls_AuthDisabledWarnOncePattern(t *testing.T) {
	source := admin.NewFakeClient()
	source.AuthDisabled = true
	target := admin.NewFakeClient()
	testLogger := log.NewTestLogger()

	syncer := NewSyncer("us-east", policy.NewDefaultReplicationPolicy(), source, target, testLogger, metrics.NoopClient().Scope("test"))

	for i := 0; i < 3; i++ {
		require.NoError(t, syncer.SyncTopicAcls(context.Background()))
	}

	assert.Equal(t, 1, testLogger.CountContaining("consider disabling topic ACL syncing"))
	assert.Equal(t, 2, testLogger.CountContaining("skipping topic ACL sync, authorizer"))
	assert.Empty(t, target.Acls)
}
