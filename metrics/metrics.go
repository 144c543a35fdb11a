package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "license"

// Metrics 라이선스 서버 카운터 묶음. nil 이면 아무것도 기록하지 않는다.
type Metrics struct {
	registry *prometheus.Registry

	validations       *prometheus.CounterVec
	issued            *prometheus.CounterVec
	issuanceExhausted prometheus.Counter
	keyCollisions     prometheus.Counter
	resets            *prometheus.CounterVec
	revocations       *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
}

// New 독립 레지스트리에 카운터를 등록한다
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "License validation outcomes by reason.",
		}, []string{"reason"}),
		issued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issued_total",
			Help:      "Licenses issued by source.",
		}, []string{"kind"}),
		issuanceExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issuance_exhausted_total",
			Help:      "Issuances that ran out of key generation attempts.",
		}),
		keyCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "key_collisions_total",
			Help:      "Generated license keys that collided with an existing key.",
		}),
		resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Owner reset attempts by outcome.",
		}, []string{"outcome"}),
		revocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revocations_total",
			Help:      "Identity revocations by outcome.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.validations,
		m.issued,
		m.issuanceExhausted,
		m.keyCollisions,
		m.resets,
		m.revocations,
		m.httpRequests,
	)
	return m
}

// Handler /metrics 핸들러
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry 테스트에서 값을 읽을 때 사용
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveValidation(reason string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveIssued(kind string) {
	if m == nil {
		return
	}
	m.issued.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveIssuanceExhausted() {
	if m == nil {
		return
	}
	m.issuanceExhausted.Inc()
}

func (m *Metrics) ObserveKeyCollision() {
	if m == nil {
		return
	}
	m.keyCollisions.Inc()
}

func (m *Metrics) ObserveReset(outcome string) {
	if m == nil {
		return
	}
	m.resets.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRevocation(outcome string) {
	if m == nil {
		return
	}
	m.revocations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveHTTPRequest(method string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}
