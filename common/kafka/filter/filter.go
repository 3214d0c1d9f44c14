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

// Package filter implements the anchored-regex include/exclude predicates
// applied to topic names, group names and topic config property names.
package filter

import (
	"fmt"
	"regexp"
)

// baselineExcludedConfigProperties are never propagated to a mirrored topic
// regardless of user configuration, because they describe source-cluster-local
// operational state (throttling progress, broker-local timestamp/ISR policy)
// that has no correct translation to the target cluster.
var baselineExcludedConfigProperties = []string{
	"follower.replication.throttled.replicas",
	"leader.replication.throttled.replicas",
	"message.timestamp.difference.max.ms",
	"message.timestamp.type",
	"unclean.leader.election.enable",
	"min.insync.replicas",
}

// NamePattern is a compiled include/exclude regex pair applied to a single
// name (a topic name or a consumer group name). Every pattern is anchored
// with ^...$ so that "foo" never matches "foobar". Exclude wins over
// include when both match.
type NamePattern struct {
	include *regexp.Regexp
	exclude *regexp.Regexp
}

// NewNamePattern compiles includeExprs and excludeExprs into a NamePattern.
// An empty includeExprs means "include everything by default".
func NewNamePattern(includeExprs, excludeExprs []string) (*NamePattern, error) {
	inc, err := compileAnchoredAlternation(includeExprs)
	if err != nil {
		return nil, fmt.Errorf("compiling include patterns: %w", err)
	}
	exc, err := compileAnchoredAlternation(excludeExprs)
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}
	return &NamePattern{include: inc, exclude: exc}, nil
}

// Matches reports whether name should be selected: included (or no include
// patterns were given) and not excluded.
func (p *NamePattern) Matches(name string) bool {
	if p.exclude != nil && p.exclude.MatchString(name) {
		return false
	}
	if p.include == nil {
		return true
	}
	return p.include.MatchString(name)
}

// ConfigPropertyFilter selects which topic config entries get propagated to
// the mirrored topic. The baseline excluded list is always applied in
// addition to any user-supplied excludes.
type ConfigPropertyFilter struct {
	pattern *NamePattern
}

// NewConfigPropertyFilter compiles includeExprs/excludeExprs for config
// property names, folding in the fixed baseline exclude list.
func NewConfigPropertyFilter(includeExprs, excludeExprs []string) (*ConfigPropertyFilter, error) {
	allExcludes := make([]string, 0, len(excludeExprs)+len(baselineExcludedConfigProperties))
	allExcludes = append(allExcludes, excludeExprs...)
	allExcludes = append(allExcludes, baselineExcludedConfigProperties...)
	pattern, err := NewNamePattern(includeExprs, allExcludes)
	if err != nil {
		return nil, err
	}
	return &ConfigPropertyFilter{pattern: pattern}, nil
}

// Matches reports whether propertyName should be propagated.
func (f *ConfigPropertyFilter) Matches(propertyName string) bool {
	return f.pattern.Matches(propertyName)
}

// compileAnchoredAlternation joins exprs into a single ^(?:e1|e2|...)$
// regex. A nil/empty exprs yields a nil *regexp.Regexp (meaning "no
// constraint"), distinguishing "no patterns given" from "patterns given
// that match nothing".
func compileAnchoredAlternation(exprs []string) (*regexp.Regexp, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	joined := "^(?:"
	for i, e := range exprs {
		if i > 0 {
			joined += "|"
		}
		joined += "(?:" + e + ")"
	}
	joined += ")$"
	return regexp.Compile(joined)
}
