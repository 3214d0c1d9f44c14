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

// Package connector wires the capability objects (policy, filters,
// scheduler, ACL sync, config sync, reconciler) into the source connector's
// start/stop/taskConfigs/refresh lifecycle, and its companion checkpoint
// connector.
package connector

import (
	"context"
	"sync"

	"go.uber.org/multierr"

	"github.com/kafka-connect/mirror-connector/client/admin"
	"github.com/kafka-connect/mirror-connector/common/kafka/filter"
	"github.com/kafka-connect/mirror-connector/common/kafka/model"
	"github.com/kafka-connect/mirror-connector/common/kafka/policy"
	"github.com/kafka-connect/mirror-connector/common/log"
	"github.com/kafka-connect/mirror-connector/common/log/tag"
	"github.com/kafka-connect/mirror-connector/common/metrics"
	"github.com/kafka-connect/mirror-connector/common/service/dynamicconfig"
	"github.com/kafka-connect/mirror-connector/internal/connectorcfg"
	"github.com/kafka-connect/mirror-connector/service/connector/acl"
	"github.com/kafka-connect/mirror-connector/service/connector/assignment"
	"github.com/kafka-connect/mirror-connector/service/connector/reconciler"
	"github.com/kafka-connect/mirror-connector/service/connector/scheduler"
	"github.com/kafka-connect/mirror-connector/service/connector/topicconfig"
)

// AdminDialer dials an admin.Client for a set of broker addresses. Production
// wires client/admin.NewSaramaClient; tests wire a constructor returning a
// shared admin.FakeClient.
type AdminDialer func(brokerAddrs []string) (admin.Client, error)

// HostRuntime is the capability the connector host provides back to a
// running connector instance.
type HostRuntime interface {
	RequestTaskReconfiguration()
}

// Connector implements the source-side mirror connector lifecycle.
type Connector struct {
	logger        log.Logger
	metricsClient metrics.Client
	dialAdmin     AdminDialer
	host          HostRuntime

	mu          sync.Mutex
	cfg         *connectorcfg.Config
	sourceAdmin admin.Client
	targetAdmin admin.Client
	scheduler   *scheduler.Scheduler
	replPolicy  policy.ReplicationPolicy
	topicFilter *filter.NamePattern
	reconciler  *reconciler.Reconciler
	aclSyncer   *acl.Syncer
	tasksMax    dynamicconfig.IntPropertyFn
	started     bool
}

// New returns an unstarted Connector.
func New(logger log.Logger, metricsClient metrics.Client, dialAdmin AdminDialer, host HostRuntime) *Connector {
	return &Connector{logger: logger, metricsClient: metricsClient, dialAdmin: dialAdmin, host: host}
}

// Start parses props, wires every capability, and schedules the connector's
// periodic jobs. A configuration error, or a failure to dial either
// cluster's admin client, is returned to the host; every other failure mode
// is handled by the scheduled jobs themselves.
func (c *Connector) Start(props map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg, err := connectorcfg.Parse(props)
	if err != nil {
		return err
	}
	if !cfg.Enabled {
		c.logger.Info("connector disabled, not starting", tag.SourceCluster(cfg.SourceCluster), tag.TargetCluster(cfg.TargetCluster))
		return nil
	}

	sourceAdmin, err := c.dialAdmin(cfg.SourceBrokers)
	if err != nil {
		return err
	}
	targetAdmin, err := c.dialAdmin(cfg.TargetBrokers)
	if err != nil {
		sourceAdmin.Close()
		return err
	}

	topicFilter, err := filter.NewNamePattern(cfg.TopicsInclude, cfg.TopicsExclude)
	if err != nil {
		sourceAdmin.Close()
		targetAdmin.Close()
		return err
	}
	propertyFilter, err := filter.NewConfigPropertyFilter(cfg.ConfigPropertiesInclude, cfg.ConfigPropertiesExclude)
	if err != nil {
		sourceAdmin.Close()
		targetAdmin.Close()
		return err
	}

	var replPolicy policy.ReplicationPolicy
	if cfg.IdentityPolicy {
		replPolicy = policy.NewIdentityReplicationPolicy()
	} else {
		replPolicy = &policy.DefaultReplicationPolicy{Separator: cfg.Separator}
	}

	sched := scheduler.New(c.logger, cfg.AdminTimeout)

	scope := c.metricsClient.Scope("connector", metrics.SourceClusterTag(cfg.SourceCluster), metrics.TargetClusterTag(cfg.TargetCluster))

	aclSyncer := acl.NewSyncer(cfg.SourceCluster, replPolicy, sourceAdmin, targetAdmin, c.logger, scope)
	configResolver := topicconfig.NewResolver(sourceAdmin, propertyFilter)

	shouldReplicateTopic := func(topic string) bool {
		return policy.ShouldReplicateTopic(replPolicy, cfg.TargetCluster, topicFilter.Matches, topic)
	}

	rec := reconciler.New(
		cfg.SourceCluster, cfg.TargetCluster,
		sourceAdmin, targetAdmin,
		replPolicy, shouldReplicateTopic, configResolver,
		c.logger, scope,
		c.host.RequestTaskReconfiguration,
	)

	c.cfg = cfg
	c.sourceAdmin = sourceAdmin
	c.targetAdmin = targetAdmin
	c.scheduler = sched
	c.replPolicy = replPolicy
	c.topicFilter = topicFilter
	c.reconciler = rec
	c.aclSyncer = aclSyncer
	c.tasksMax = dynamicconfig.StaticInt(cfg.TasksMax)
	c.started = true

	sched.Start()
	sched.Execute(func() {
		createInternalTopics(context.Background(), c.logger, sourceAdmin, targetAdmin)
	}, "createInternalTopics")
	sched.Execute(func() { rec.Tick(context.Background()) }, "initialRefreshTopicPartitions")
	sched.ScheduleRepeating(func() { rec.Tick(context.Background()) }, cfg.RefreshTopicsInterval, "refreshTopicPartitions")
	sched.ScheduleRepeating(func() { aclSyncer.SyncTopicAcls(context.Background()) }, cfg.SyncAclsInterval, "syncTopicAcls")
	sched.ScheduleRepeating(func() { c.syncTopicConfigs(context.Background(), configResolver) }, cfg.SyncConfigsInterval, "syncTopicConfigs")

	return nil
}

// syncTopicConfigs re-describes every currently-known source topic's config
// and alters the mirrored topic's config to the entries resolver.TargetConfig
// keeps (explicitly set and passing the property filter), per spec's ordering
// guarantee (config describe precedes topic creation is handled inside the
// reconciler; this job only maintains already-existing mirrored topics).
func (c *Connector) syncTopicConfigs(ctx context.Context, resolver *topicconfig.Resolver) {
	c.mu.Lock()
	rec := c.reconciler
	sourceAdmin := c.sourceAdmin
	targetAdmin := c.targetAdmin
	replPolicy := c.replPolicy
	source := c.cfg.SourceCluster
	c.mu.Unlock()

	tps := rec.KnownSourceTopicPartitions()
	topics := make(map[string]struct{})
	for _, tp := range tps {
		topics[tp.Topic] = struct{}{}
	}
	names := make([]string, 0, len(topics))
	for t := range topics {
		names = append(names, t)
	}
	if len(names) == 0 {
		return
	}
	described, err := sourceAdmin.DescribeTopicConfigs(ctx, names)
	if err != nil {
		c.logger.Error("failed to describe source topic configs", tag.Error(err))
		return
	}
	for topic, tc := range described {
		configs := resolver.TargetConfig(tc)
		if len(configs) == 0 {
			continue
		}
		mirrored := replPolicy.FormatRemote(source, topic)
		if err := targetAdmin.AlterTopicConfig(ctx, mirrored, configs); err != nil {
			c.logger.Error("failed to alter mirrored topic config", tag.Topic(mirrored), tag.Error(err))
		}
	}
}

// TaskConfigs returns up to maxTasks task configuration maps, each
// encoding its assigned topic-partitions as a CSV under
// task.assigned.partitions.
func (c *Connector) TaskConfigs(maxTasks int) []map[string]string {
	c.mu.Lock()
	rec := c.reconciler
	started := c.started
	tasksMax := c.tasksMax
	c.mu.Unlock()
	if !started {
		return nil
	}
	if configured := tasksMax(); configured > 0 && configured < maxTasks {
		maxTasks = configured
	}
	tps := rec.KnownSourceTopicPartitions()
	csvs := assignment.Assign(assignment.TopicPartitionUnits(tps), maxTasks)
	out := make([]map[string]string, len(csvs))
	for i, csv := range csvs {
		out[i] = map[string]string{"task.assigned.partitions": csv}
	}
	return out
}

// Refresh enqueues an out-of-band reconciliation tick on the connector's
// scheduler, used by the host to force a resync outside the normal
// schedule. The tick runs serialized with the scheduled jobs; Refresh does
// not wait for it to finish.
func (c *Connector) Refresh(ctx context.Context) {
	c.mu.Lock()
	rec := c.reconciler
	sched := c.scheduler
	c.mu.Unlock()
	if rec != nil && sched != nil {
		sched.Execute(func() { rec.Tick(ctx) }, "refreshTopicPartitions")
	}
}

// Stop closes the scheduler, then the admin clients, each independently
// swallowing errors into an aggregate returned to the caller for logging.
func (c *Connector) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return nil
	}
	c.started = false

	var errs error
	if c.scheduler != nil {
		c.scheduler.Close()
	}
	if c.sourceAdmin != nil {
		errs = multierr.Append(errs, c.sourceAdmin.Close())
	}
	if c.targetAdmin != nil {
		errs = multierr.Append(errs, c.targetAdmin.Close())
	}
	return errs
}

func createInternalTopics(ctx context.Context, logger log.Logger, sourceAdmin, targetAdmin admin.Client) {
	for _, a := range []admin.Client{sourceAdmin, targetAdmin} {
		name := policy.HeartbeatsTopicName
		err := a.CreateTopic(ctx, model.NewTopic{Name: name, PartitionCount: 1, ReplicationFactor: -1})
		if err != nil && !admin.IsAlreadyExists(err) {
			logger.Warn("failed to create internal heartbeats topic", tag.Topic(name), tag.Error(err))
		}
	}
}
