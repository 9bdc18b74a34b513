package pool_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/leasepool/pkg/pool"
)

func TestMetricsCollector(t *testing.T) {
	p := newTestPool(t, pool.Options[*resource]{})
	require.NoError(t, p.Add(newResources(3)...))

	lease, ok := p.Get()
	require.True(t, ok)

	registry := prometheus.NewPedanticRegistry()
	require.NoError(t, registry.Register(pool.NewMetricsCollector("test", p)))

	expected := `
# HELP leasepool_borrows_total Total number of successful Get calls
# TYPE leasepool_borrows_total counter
leasepool_borrows_total{pool="test"} 1
# HELP leasepool_instances Number of pool instances by state
# TYPE leasepool_instances gauge
leasepool_instances{pool="test",state="available"} 2
leasepool_instances{pool="test",state="busy"} 1
# HELP leasepool_size Total number of instances managed by the pool
# TYPE leasepool_size gauge
leasepool_size{pool="test"} 3
`
	err := testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"leasepool_size", "leasepool_instances", "leasepool_borrows_total")
	require.NoError(t, err)

	runtime.KeepAlive(lease)
}
