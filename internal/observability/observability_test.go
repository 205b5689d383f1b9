package observability

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/entries", "200", time.Millisecond)
	m.ObserveEntryWrite("create", nil)
	m.SSEClientConnected()
	m.TokensPurged(3)
	var buf bytes.Buffer
	require.NoError(t, m.WritePrometheus(&buf))
	assert.Empty(t, buf.String())
}

func TestMetricsWritePrometheus(t *testing.T) {
	m := newMetrics()
	m.ObserveAPI("GET", "/api/entries", "200", 20*time.Millisecond)
	m.ObserveAPI("POST", "/api/entries", "503", 20*time.Millisecond)
	m.ObserveEntryWrite("create", nil)
	m.ObserveEntryWrite("create", errors.New("boom"))
	m.ObserveReflection("generated", nil, time.Second)
	m.SSEClientConnected()
	m.SSEClientConnected()
	m.SSEClientDisconnected()
	m.TokensPurged(2)

	var buf bytes.Buffer
	require.NoError(t, m.WritePrometheus(&buf))
	out := buf.String()
	assert.Contains(t, out, `moodly_api_requests_total{method="GET",route="/api/entries",status="200"} 1.000000`)
	assert.Contains(t, out, "moodly_api_requests_error_total 1.000000")
	assert.Contains(t, out, `moodly_entry_writes_total{op="create",status="error"} 1.000000`)
	assert.Contains(t, out, `moodly_entry_writes_total{op="create",status="ok"} 1.000000`)
	assert.Contains(t, out, `moodly_reflection_generate_seconds_bucket{status="ok",le="1"} 1`)
	assert.Contains(t, out, "moodly_sse_clients 1.000000")
	assert.Contains(t, out, "moodly_expired_tokens_purged_total 2.000000")

	var again bytes.Buffer
	require.NoError(t, m.WritePrometheus(&again))
	assert.Equal(t, out, again.String())
}

func TestParseHeaders(t *testing.T) {
	assert.Nil(t, ParseHeaders(""))
	assert.Nil(t, ParseHeaders("broken, =x"))
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, ParseHeaders(" a=1 ,b = 2,c"))
}
