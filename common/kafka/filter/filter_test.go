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

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamePattern_IncludeExclude(t *testing.T) {
	p, err := NewNamePattern([]string{"orders.*"}, []string{"orders.internal.*"})
	require.NoError(t, err)
	assert.True(t, p.Matches("orders.created"))
	assert.False(t, p.Matches("orders.internal.retry"))
	assert.False(t, p.Matches("payments.created"))
}

func TestNamePattern_NoIncludeMeansIncludeAll(t *testing.T) {
	p, err := NewNamePattern(nil, []string{"internal.*"})
	require.NoError(t, err)
	assert.True(t, p.Matches("orders"))
	assert.False(t, p.Matches("internal.topic"))
}

func TestNamePattern_AnchoredMatch(t *testing.T) {
	p, err := NewNamePattern([]string{"orders"}, nil)
	require.NoError(t, err)
	assert.True(t, p.Matches("orders"))
	assert.False(t, p.Matches("orders-extra"))
	assert.False(t, p.Matches("prefix-orders"))
}

func TestConfigPropertyFilter_BaselineExcluded(t *testing.T) {
	f, err := NewConfigPropertyFilter(nil, nil)
	require.NoError(t, err)
	for _, name := range baselineExcludedConfigProperties {
		assert.False(t, f.Matches(name), "expected %s to be baseline-excluded", name)
	}
	assert.True(t, f.Matches("retention.ms"))
}

func TestConfigPropertyFilter_UserExcludeExtendsBaseline(t *testing.T) {
	f, err := NewConfigPropertyFilter(nil, []string{"exclude_param.*"})
	require.NoError(t, err)
	assert.False(t, f.Matches("exclude_param.param1"))
	assert.False(t, f.Matches("min.insync.replicas"))
	assert.True(t, f.Matches("retention.ms"))
}
