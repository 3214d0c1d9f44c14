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

// Package connectorcfg parses the map[string]string properties a connect
// runtime hands to start(props) into a typed, validated Config. These
// values are fixed for one start/stop cycle: Config is parsed once and
// handed to dynamicconfig.StaticXxx closures at construction.
package connectorcfg

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	keySourceCluster = "source.cluster.alias"
	keyTargetCluster = "target.cluster.alias"
	keySourceBrokers = "source.bootstrap.servers"
	keyTargetBrokers = "target.bootstrap.servers"
	keyEnabled       = "enabled"
	keyIdentityPolicy = "replication.policy.identity"
	keySeparator     = "replication.policy.separator"

	keyTopicsInclude  = "topics"
	keyTopicsExclude  = "topics.exclude"
	keyGroupsInclude  = "groups"
	keyGroupsExclude  = "groups.exclude"
	keyConfigPropertiesInclude = "config.properties"
	keyConfigPropertiesExclude = "config.properties.exclude"

	keyRefreshTopicsIntervalSeconds  = "refresh.topics.interval.seconds"
	keyRefreshGroupsIntervalSeconds  = "refresh.groups.interval.seconds"
	keySyncAclsIntervalSeconds       = "sync.topic.acls.interval.seconds"
	keySyncConfigsIntervalSeconds    = "sync.topic.configs.interval.seconds"
	keyCheckpointsIntervalSeconds    = "checkpoints.interval.seconds"
	keyAdminTimeoutSeconds           = "admin.timeout.seconds"
	keyTasksMax                      = "tasks.max"

	defaultRefreshTopicsInterval = 5 * time.Minute
	defaultRefreshGroupsInterval = 5 * time.Minute
	defaultSyncAclsInterval      = 5 * time.Minute
	defaultSyncConfigsInterval   = 5 * time.Minute
	defaultCheckpointsInterval   = time.Minute
	defaultAdminTimeout          = 30 * time.Second
	defaultTasksMax              = 1
)

// Config is the parsed, typed form of the properties map a connect runtime
// hands to start(props).
type Config struct {
	SourceCluster string
	TargetCluster string
	SourceBrokers []string
	TargetBrokers []string

	Enabled        bool
	IdentityPolicy bool
	Separator      string

	TopicsInclude  []string
	TopicsExclude  []string
	GroupsInclude  []string
	GroupsExclude  []string

	ConfigPropertiesInclude []string
	ConfigPropertiesExclude []string

	RefreshTopicsInterval  time.Duration
	RefreshGroupsInterval  time.Duration
	SyncAclsInterval       time.Duration
	SyncConfigsInterval    time.Duration
	CheckpointsInterval    time.Duration
	AdminTimeout           time.Duration
	TasksMax               int
}

// Parse validates and converts props into a Config. A missing or malformed
// required field is a configuration error: fatal, per the error taxonomy —
// start must refuse to run rather than retry.
func Parse(props map[string]string) (*Config, error) {
	cfg := &Config{
		Enabled:               true,
		Separator:             ".",
		RefreshTopicsInterval: defaultRefreshTopicsInterval,
		RefreshGroupsInterval: defaultRefreshGroupsInterval,
		SyncAclsInterval:      defaultSyncAclsInterval,
		SyncConfigsInterval:   defaultSyncConfigsInterval,
		CheckpointsInterval:   defaultCheckpointsInterval,
		AdminTimeout:          defaultAdminTimeout,
		TasksMax:              defaultTasksMax,
	}

	cfg.SourceCluster = props[keySourceCluster]
	cfg.TargetCluster = props[keyTargetCluster]
	if cfg.SourceCluster == "" {
		return nil, fmt.Errorf("%s is required", keySourceCluster)
	}
	if cfg.TargetCluster == "" {
		return nil, fmt.Errorf("%s is required", keyTargetCluster)
	}

	var err error
	if cfg.SourceBrokers, err = requiredList(props, keySourceBrokers); err != nil {
		return nil, err
	}
	if cfg.TargetBrokers, err = requiredList(props, keyTargetBrokers); err != nil {
		return nil, err
	}

	if v, ok := props[keyEnabled]; ok {
		if cfg.Enabled, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("%s: %w", keyEnabled, err)
		}
	}
	if v, ok := props[keyIdentityPolicy]; ok {
		if cfg.IdentityPolicy, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("%s: %w", keyIdentityPolicy, err)
		}
	}
	if v, ok := props[keySeparator]; ok && v != "" {
		cfg.Separator = v
	}

	cfg.TopicsInclude = optionalList(props, keyTopicsInclude)
	cfg.TopicsExclude = optionalList(props, keyTopicsExclude)
	cfg.GroupsInclude = optionalList(props, keyGroupsInclude)
	cfg.GroupsExclude = optionalList(props, keyGroupsExclude)
	cfg.ConfigPropertiesInclude = optionalList(props, keyConfigPropertiesInclude)
	cfg.ConfigPropertiesExclude = optionalList(props, keyConfigPropertiesExclude)

	if cfg.RefreshTopicsInterval, err = durationSeconds(props, keyRefreshTopicsIntervalSeconds, cfg.RefreshTopicsInterval); err != nil {
		return nil, err
	}
	if cfg.RefreshGroupsInterval, err = durationSeconds(props, keyRefreshGroupsIntervalSeconds, cfg.RefreshGroupsInterval); err != nil {
		return nil, err
	}
	if cfg.SyncAclsInterval, err = durationSeconds(props, keySyncAclsIntervalSeconds, cfg.SyncAclsInterval); err != nil {
		return nil, err
	}
	if cfg.SyncConfigsInterval, err = durationSeconds(props, keySyncConfigsIntervalSeconds, cfg.SyncConfigsInterval); err != nil {
		return nil, err
	}
	if cfg.CheckpointsInterval, err = durationSecondsSigned(props, keyCheckpointsIntervalSeconds, cfg.CheckpointsInterval); err != nil {
		return nil, err
	}
	if cfg.AdminTimeout, err = durationSeconds(props, keyAdminTimeoutSeconds, cfg.AdminTimeout); err != nil {
		return nil, err
	}
	if v, ok := props[keyTasksMax]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", keyTasksMax)
		}
		cfg.TasksMax = n
	}

	return cfg, nil
}

func requiredList(props map[string]string, key string) ([]string, error) {
	list := optionalList(props, key)
	if len(list) == 0 {
		return nil, fmt.Errorf("%s is required", key)
	}
	return list, nil
}

func optionalList(props map[string]string, key string) []string {
	v, ok := props[key]
	if !ok || v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func durationSeconds(props map[string]string, key string, fallback time.Duration) (time.Duration, error) {
	v, ok := props[key]
	if !ok || v == "" {
		return fallback, nil
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer number of seconds", key)
	}
	return time.Duration(seconds) * time.Second, nil
}

// durationSecondsSigned allows a negative value, used for
// checkpoints.interval.seconds whose negative-value edge case disables the
// checkpoint discovery loop entirely.
func durationSecondsSigned(props map[string]string, key string, fallback time.Duration) (time.Duration, error) {
	v, ok := props[key]
	if !ok || v == "" {
		return fallback, nil
	}
	seconds, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer number of seconds", key)
	}
	return time.Duration(seconds) * time.Second, nil
}
