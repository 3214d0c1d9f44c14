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

// Package dynamicconfig defines the PropertyFn closures read by connector
// components. This connector's configuration is fixed for the lifetime of
// one start/stop cycle, so these closures just close over a value parsed
// once at start. Keeping the closure shape (rather than plain fields) means
// call sites read config uniformly whether or not a future version wires a
// live config source behind it.
package dynamicconfig

import "time"

// IntPropertyFn returns an int property.
type IntPropertyFn func() int

// DurationPropertyFn returns a duration property.
type DurationPropertyFn func() time.Duration

// BoolPropertyFn returns a bool property.
type BoolPropertyFn func() bool

// StringPropertyFn returns a string property.
type StringPropertyFn func() string

// StringListPropertyFn returns a list-valued string property.
type StringListPropertyFn func() []string

// StaticInt closes over a fixed int value.
func StaticInt(v int) IntPropertyFn { return func() int { return v } }

// StaticDuration closes over a fixed duration value.
func StaticDuration(v time.Duration) DurationPropertyFn { return func() time.Duration { return v } }

// StaticBool closes over a fixed bool value.
func StaticBool(v bool) BoolPropertyFn { return func() bool { return v } }

// StaticString closes over a fixed string value.
func StaticString(v string) StringPropertyFn { return func() string { return v } }

// StaticStringList closes over a fixed string-list value.
func StaticStringList(v []string) StringListPropertyFn { return func() []string { return v } }
