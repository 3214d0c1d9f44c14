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

package log

import (
	"go.uber.org/zap"

	"github.com/kafka-connect/mirror-connector/common/log/tag"
)

type zapLogger struct {
	zl *zap.Logger
}

// NewZapLogger wraps a *zap.Logger as a Logger.
func NewZapLogger(zl *zap.Logger) Logger {
	return &zapLogger{zl: zl}
}

// NewProductionLogger builds the default JSON production logger.
func NewProductionLogger() (Logger, error) {
	zl, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(zl), nil
}

func (l *zapLogger) Debug(msg string, tags ...tag.Tag) {
	l.zl.Debug(msg, tags...)
}

func (l *zapLogger) Info(msg string, tags ...tag.Tag) {
	l.zl.Info(msg, tags...)
}

func (l *zapLogger) Warn(msg string, tags ...tag.Tag) {
	l.zl.Warn(msg, tags...)
}

func (l *zapLogger) Error(msg string, tags ...tag.Tag) {
	l.zl.Error(msg, tags...)
}

func (l *zapLogger) WithTags(tags ...tag.Tag) Logger {
	return &zapLogger{zl: l.zl.With(tags...)}
}
