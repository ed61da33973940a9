package metrics

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/busytime/core/metrics"
	"github.com/kilianp07/busytime/core/model"
	"github.com/kilianp07/busytime/test/util"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestStartPromServer(t *testing.T) {
	sink, err := NewPromSink()
	require.NoError(t, err)
	require.NoError(t, sink.RecordSolve(coremetrics.SolveEvent{Outcome: model.OutcomeSolved, Cost: 3}))

	addr := freeAddr(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- StartPromServer(ctx, addr) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), util.MetricTimeout)
	defer waitCancel()
	require.NoError(t, util.WaitForMetric(waitCtx, "http://"+addr+"/metrics", `busytime_instances_total{outcome="solved"}`))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
