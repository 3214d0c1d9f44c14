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

package connector

import (
	"context"
	"sync"

	"github.com/kafka-connect/mirror-connector/client/admin"
	"github.com/kafka-connect/mirror-connector/common/kafka/filter"
	"github.com/kafka-connect/mirror-connector/common/log"
	"github.com/kafka-connect/mirror-connector/common/log/tag"
	"github.com/kafka-connect/mirror-connector/common/service/dynamicconfig"
	"github.com/kafka-connect/mirror-connector/internal/connectorcfg"
	"github.com/kafka-connect/mirror-connector/service/connector/assignment"
	"github.com/kafka-connect/mirror-connector/service/connector/groups"
	"github.com/kafka-connect/mirror-connector/service/connector/scheduler"
)

// CheckpointConnector discovers source consumer groups in scope for
// checkpoint emission; the analogue of Connector over group ids instead of
// topic-partitions, per the discovery loop spelled out in its package doc.
type CheckpointConnector struct {
	logger    log.Logger
	dialAdmin AdminDialer

	mu          sync.Mutex
	cfg         *connectorcfg.Config
	sourceAdmin admin.Client
	scheduler   *scheduler.Scheduler
	discoverer  *groups.Discoverer
	tasksMax    dynamicconfig.IntPropertyFn
	started     bool
	disabled    bool
}

// NewCheckpointConnector returns an unstarted CheckpointConnector.
func NewCheckpointConnector(logger log.Logger, dialAdmin AdminDialer) *CheckpointConnector {
	return &CheckpointConnector{logger: logger, dialAdmin: dialAdmin}
}

// Start parses props and, unless checkpoints are disabled (negative
// interval), schedules the consumer-group discovery loop.
func (c *CheckpointConnector) Start(props map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg, err := connectorcfg.Parse(props)
	if err != nil {
		return err
	}
	if !cfg.Enabled {
		return nil
	}

	sourceAdmin, err := c.dialAdmin(cfg.SourceBrokers)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.sourceAdmin = sourceAdmin
	c.tasksMax = dynamicconfig.StaticInt(cfg.TasksMax)
	c.started = true

	if cfg.CheckpointsInterval < 0 {
		c.disabled = true
		c.logger.Info("checkpoints interval negative, discovery loop not scheduled", tag.SourceCluster(cfg.SourceCluster))
		return nil
	}

	groupFilter, err := filter.NewNamePattern(cfg.GroupsInclude, cfg.GroupsExclude)
	if err != nil {
		sourceAdmin.Close()
		return err
	}
	shouldReplicateGroup := func(group string) bool { return groupFilter.Matches(group) }

	c.discoverer = groups.New(sourceAdmin, shouldReplicateGroup, c.logger)

	sched := scheduler.New(c.logger, cfg.AdminTimeout)
	c.scheduler = sched
	sched.Start()
	sched.Execute(func() { c.discoverer.Tick(context.Background()) }, "initialRefreshConsumerGroups")
	sched.ScheduleRepeating(func() { c.discoverer.Tick(context.Background()) }, cfg.RefreshGroupsInterval, "refreshConsumerGroups")

	return nil
}

// TaskConfigs returns up to maxTasks task configuration maps, each
// encoding its assigned consumer-group ids as a CSV. Returns the empty list
// if the connector is disabled or checkpoints were turned off at start.
func (c *CheckpointConnector) TaskConfigs(maxTasks int) []map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started || c.disabled || c.discoverer == nil {
		return nil
	}
	if configured := c.tasksMax(); configured > 0 && configured < maxTasks {
		maxTasks = configured
	}
	groupIDs := c.discoverer.KnownConsumerGroups()
	csvs := assignment.Assign(assignment.StringUnits(groupIDs), maxTasks)
	out := make([]map[string]string, len(csvs))
	for i, csv := range csvs {
		out[i] = map[string]string{"task.assigned.groups": csv}
	}
	return out
}

// Stop closes the scheduler then the admin client, swallowing errors.
func (c *CheckpointConnector) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return nil
	}
	c.started = false
	if c.scheduler != nil {
		c.scheduler.Close()
	}
	if c.sourceAdmin != nil {
		return c.sourceAdmin.Close()
	}
	return nil
}
