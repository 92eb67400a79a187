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
	"github.com/orbs-network/orbs-proxy-go/config"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/metric"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

var emitterA = common.HexToAddress("0x00000000000000000000000000000000000000a1")
var emitterB = common.HexToAddress("0x00000000000000000000000000000000000000b2")

func newNotifier(t *testing.T, bufferSize uint32) (*Notifier, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := config.ForTests().SetUint32(config.NOTIFIER_BUFFER_SIZE, bufferSize)
	return NewNotifier(ctx, cfg, log.DefaultTestingLogger(t), metric.NewRegistry()), cancel
}

func receive(t *testing.T, ch <-chan *ethtypes.Log) *ethtypes.Log {
	select {
	case l, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return l
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a log")
		return nil
	}
}

func requireNothingPending(t *testing.T, ch <-chan *ethtypes.Log) {
	select {
	case l := <-ch:
		t.Fatalf("unexpected log from %s", l.Address.Hex())
	case <-time.After(20 * time.Millisecond):
	}
}

func TestNotifierDeliversLogsInOrder(t *testing.T) {
	n, cancel := newNotifier(t, 10)
	defer cancel()
	ch := n.Subscribe("all")

	first := &ethtypes.Log{Address: emitterA, Index: 0}
	second := &ethtypes.Log{Address: emitterB, Index: 1}
	n.HandleCommittedLogs(context.Background(), []*ethtypes.Log{first, second})

	require.Equal(t, first, receive(t, ch))
	require.Equal(t, second, receive(t, ch))
}

func TestNotifierFiltersByEmitter(t *testing.T) {
	n, cancel := newNotifier(t, 10)
	defer cancel()
	onlyB := n.Subscribe("only-b", emitterB)

	n.HandleCommittedLogs(context.Background(), []*ethtypes.Log{{Address: emitterA}, {Address: emitterB, Index: 1}})

	require.Equal(t, emitterB, receive(t, onlyB).Address)
	requireNothingPending(t, onlyB)
}

func TestNotifierDropsWhenSubscriberIsFull(t *testing.T) {
	registry := metric.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n := NewNotifier(ctx, config.ForTests().SetUint32(config.NOTIFIER_BUFFER_SIZE, 1), log.DefaultTestingLogger(t), registry)
	ch := n.Subscribe("slow")

	n.HandleCommittedLogs(context.Background(), []*ethtypes.Log{{Address: emitterA, Index: 0}, {Address: emitterA, Index: 1}})

	require.Eventually(t, func() bool {
		return registry.Get("Notifier.Dropped.Count").(*metric.Gauge).Value() == 1
	}, time.Second, 5*time.Millisecond, "second log should be dropped")
	require.EqualValues(t, 0, receive(t, ch).Index)
}

func TestNotifierClosesSubscriptionsOnShutdown(t *testing.T) {
	n, cancel := newNotifier(t, 10)
	ch := n.Subscribe("all")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	n.WaitUntilShutdown(shutdownCtx)
	require.NoError(t, shutdownCtx.Err(), "notifier did not shut down in time")

	_, ok := <-ch
	require.False(t, ok, "subscription should be closed")

	_, ok = <-n.Subscribe("late")
	require.False(t, ok, "subscribing after shutdown returns a closed channel")
}

func TestResubscribeReplacesPreviousChannel(t *testing.T) {
	n, cancel := newNotifier(t, 10)
	defer cancel()
	old := n.Subscribe("name")
	current := n.Subscribe("name")

	_, ok := <-old
	require.False(t, ok, "replaced subscription should be closed")

	n.HandleCommittedLogs(context.Background(), []*ethtypes.Log{{Address: emitterA}})
	require.Equal(t, emitterA, receive(t, current).Address)

	n.Unsubscribe("name")
	_, ok = <-current
	require.False(t, ok)
}

func TestHandleCommittedLogsDoesNotBlockAfterShutdown(t *testing.T) {
	n, cancel := newNotifier(t, 1)
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	n.WaitUntilShutdown(shutdownCtx)

	handled := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			n.HandleCommittedLogs(context.Background(), []*ethtypes.Log{{Address: emitterA, Index: uint(i)}})
		}
		close(handled)
	}()

	select {
	case <-handled:
	case <-time.After(time.Second):
		t.Fatal("committing logs blocked after the notifier shut down")
	}
}
