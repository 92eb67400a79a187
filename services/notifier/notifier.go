// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package notifier

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/orbs-proxy-go/config"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/logfields"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/metric"
	"github.com/orbs-network/scribe/log"
	"sync"
)

var LogTag = log.Service("notifier")

type metrics struct {
	delivered   *metric.Gauge
	dropped     *metric.Gauge
	subscribers *metric.Gauge
}

func newMetrics(m metric.Factory) *metrics {
	return &metrics{
		delivered:   m.NewGauge("Notifier.Delivered.Count"),
		dropped:     m.NewGauge("Notifier.Dropped.Count"),
		subscribers: m.NewGauge("Notifier.Subscribers.Count"),
	}
}

type subscription struct {
	ch        chan *ethtypes.Log
	addresses map[common.Address]bool
}

func (s *subscription) wants(l *ethtypes.Log) bool {
	return len(s.addresses) == 0 || s.addresses[l.Address]
}

// Notifier fans committed logs out to named subscribers on a supervised goroutine.
// A subscriber that falls more than the buffer size behind loses logs, it never slows down commits.
type Notifier struct {
	govnr.TreeSupervisor

	logger     log.Logger
	metrics    *metrics
	bufferSize int
	incoming   chan []*ethtypes.Log
	shutdown   <-chan struct{}

	mu struct {
		sync.Mutex
		closed        bool
		subscriptions map[string]*subscription
	}
}

func NewNotifier(ctx context.Context, cfg config.NotifierConfig, parentLogger log.Logger, metricFactory metric.Factory) *Notifier {
	n := &Notifier{
		logger:     parentLogger.WithTags(LogTag),
		metrics:    newMetrics(metricFactory),
		bufferSize: int(cfg.NotifierBufferSize()),
		incoming:   make(chan []*ethtypes.Log, cfg.NotifierBufferSize()),
		shutdown:   ctx.Done(),
	}
	n.mu.subscriptions = make(map[string]*subscription)

	n.Supervise(govnr.Forever(ctx, "notifier fan-out", logfields.GovnrErrorer(n.logger), func() {
		n.run(ctx)
	}))
	return n
}

// Subscribe returns the channel of committed logs for name, optionally limited to logs emitted by addresses.
// Subscribing again under the same name replaces the previous subscription.
func (n *Notifier) Subscribe(name string, addresses ...common.Address) <-chan *ethtypes.Log {
	s := &subscription{
		ch:        make(chan *ethtypes.Log, n.bufferSize),
		addresses: make(map[common.Address]bool),
	}
	for _, address := range addresses {
		s.addresses[address] = true
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.mu.closed {
		close(s.ch)
		return s.ch
	}
	if previous, found := n.mu.subscriptions[name]; found {
		close(previous.ch)
	} else {
		n.metrics.subscribers.Inc()
	}
	n.mu.subscriptions[name] = s

	n.logger.Info("subscriber added", log.String("subscriber", name), log.Int("addresses", len(addresses)))
	return s.ch
}

func (n *Notifier) Unsubscribe(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if s, found := n.mu.subscriptions[name]; found {
		close(s.ch)
		delete(n.mu.subscriptions, name)
		n.metrics.subscribers.Dec()
	}
}

// HandleCommittedLogs queues logs for delivery, it blocks only while the queue is full.
// Once the notifier is shut down logs are discarded.
func (n *Notifier) HandleCommittedLogs(ctx context.Context, logs []*ethtypes.Log) {
	if len(logs) == 0 {
		return
	}
	select {
	case <-n.shutdown:
		n.logger.Info("committed logs discarded, notifier is shut down", log.Int("logs", len(logs)))
		return
	default:
	}
	select {
	case n.incoming <- logs:
	case <-n.shutdown:
		n.logger.Info("committed logs discarded, notifier is shut down", log.Int("logs", len(logs)))
	case <-ctx.Done():
		n.logger.Info("committed logs not queued, context done", log.Int("logs", len(logs)), log.Error(ctx.Err()))
	}
}

func (n *Notifier) run(ctx context.Context) {
	for {
		select {
		case logs := <-n.incoming:
			n.deliver(logs)
		case <-ctx.Done():
			n.closeAll()
			return
		}
	}
}

func (n *Notifier) deliver(logs []*ethtypes.Log) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, l := range logs {
		for name, s := range n.mu.subscriptions {
			if !s.wants(l) {
				continue
			}
			select {
			case s.ch <- l:
				n.metrics.delivered.Inc()
			default:
				n.metrics.dropped.Inc()
				n.logger.Info("subscriber is full, log dropped", log.String("subscriber", name), logfields.Address("emitter", l.Address), log.Uint64("log-index", uint64(l.Index)))
			}
		}
	}
}

func (n *Notifier) closeAll() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.mu.closed = true
	for name, s := range n.mu.subscriptions {
		close(s.ch)
		delete(n.mu.subscriptions, name)
	}
	n.metrics.subscribers.Update(0)
}
