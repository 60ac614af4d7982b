package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveAuth(t *testing.T) {
	m := New()
	m.ObserveAuth("login", nil)
	m.ObserveAuth("login", domain.NotFoundError("User not found"))
	m.ObserveAuth("login", errors.New("db down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.authTotal.WithLabelValues("login", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authTotal.WithLabelValues("login", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authTotal.WithLabelValues("login", "internal")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAuth("login", nil)
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	})
	assert.Nil(t, m.Registry())
}
