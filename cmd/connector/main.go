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

// Command connector is a minimal standalone host for the mirror connector,
// standing in for a full Kafka Connect worker runtime: it parses flags into
// connector properties, starts a source connector and its companion
// checkpoint connector, and stops them on SIGINT/SIGTERM.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shopify/sarama"
	"github.com/google/uuid"

	"github.com/kafka-connect/mirror-connector/client/admin"
	"github.com/kafka-connect/mirror-connector/common/log"
	"github.com/kafka-connect/mirror-connector/common/log/tag"
	"github.com/kafka-connect/mirror-connector/common/metrics"
	"github.com/kafka-connect/mirror-connector/service/connector"
)

type noopHost struct{ logger log.Logger }

func (h noopHost) RequestTaskReconfiguration() {
	h.logger.Debug("task reconfiguration requested")
}

func main() {
	var (
		sourceCluster = flag.String("source-cluster", "", "source cluster alias")
		targetCluster = flag.String("target-cluster", "", "target cluster alias")
		sourceBrokers = flag.String("source-brokers", "", "comma-separated source broker addresses")
		targetBrokers = flag.String("target-brokers", "", "comma-separated target broker addresses")
		topics        = flag.String("topics", ".*", "comma-separated topic include patterns")
		tasksMax      = flag.String("tasks-max", "1", "maximum number of tasks to assign")
	)
	flag.Parse()

	logger, err := log.NewProductionLogger()
	if err != nil {
		os.Exit(1)
	}

	runID := uuid.New().String()
	logger = logger.WithTags(tag.RunID(runID))

	props := map[string]string{
		"source.cluster.alias":    *sourceCluster,
		"target.cluster.alias":    *targetCluster,
		"source.bootstrap.servers": *sourceBrokers,
		"target.bootstrap.servers": *targetBrokers,
		"topics":                  *topics,
		"tasks.max":                *tasksMax,
	}

	dialAdmin := func(brokerAddrs []string) (admin.Client, error) {
		return admin.NewSaramaClient(brokerAddrs, sarama.NewConfig())
	}

	host := noopHost{logger: logger}
	metricsClient := metrics.NoopClient()

	source := connector.New(logger, metricsClient, dialAdmin, host)
	checkpoint := connector.NewCheckpointConnector(logger, dialAdmin)

	if err := source.Start(props); err != nil {
		logger.Error("failed to start source connector", tag.Error(err))
		os.Exit(1)
	}
	if err := checkpoint.Start(props); err != nil {
		logger.Error("failed to start checkpoint connector", tag.Error(err))
		source.Stop()
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	if err := checkpoint.Stop(); err != nil {
		logger.Warn("checkpoint connector stop reported errors", tag.Error(err))
	}
	if err := source.Stop(); err != nil {
		logger.Warn("source connector stop reported errors", tag.Error(err))
	}
}
