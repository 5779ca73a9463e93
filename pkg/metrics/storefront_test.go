package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStorefrontMetricsExportCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorefront(reg)

	m.IncAnalyticsEvent("add_to_cart")
	m.IncAnalyticsEvent("add_to_cart")
	m.IncSinkFailure("pubsub")
	m.IncAnalyticsDropped("search")
	m.IncCartMutation("add")
	m.IncOrder("placed")
	m.IncOrder("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	cases := []struct {
		name, label, value string
		want               float64
	}{
		{"analytics_events_total", "event", "add_to_cart", 2},
		{"analytics_sink_failures_total", "sink", "pubsub", 1},
		{"analytics_events_dropped_total", "event", "search", 1},
		{"cart_mutations_total", "op", "add", 1},
		{"checkout_orders_total", "outcome", "placed", 1},
		{"checkout_orders_total", "outcome", "unknown", 1},
	}
	for _, tc := range cases {
		got, err := fetchCounterValue(mfs, tc.name, tc.label, tc.value)
		if err != nil {
			t.Fatalf("fetch %s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s{%s=%s}: expected %v, got %v", tc.name, tc.label, tc.value, tc.want, got)
		}
	}
}

func TestStorefrontMetricsObserveHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorefront(reg)

	m.ObserveCatalogFetch(120*time.Millisecond, nil)
	m.ObserveCatalogFetch(30*time.Millisecond, errors.New("down"))
	m.ObserveHTTPRequest("GET", "/api/v1/cart", "200", 5*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchHistogramSum(mfs, "catalog_fetch_duration_seconds", "outcome", "ok"); err != nil || got <= 0 {
		t.Fatalf("expected ok fetch sum > 0, got %v (%v)", got, err)
	}
	if got, err := fetchHistogramSum(mfs, "catalog_fetch_duration_seconds", "outcome", "error"); err != nil || got <= 0 {
		t.Fatalf("expected error fetch sum > 0, got %v (%v)", got, err)
	}
	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/v1/cart"); err != nil || got <= 0 {
		t.Fatalf("expected http sum > 0, got %v (%v)", got, err)
	}
}

func TestNilStorefrontIsNoop(t *testing.T) {
	var m *Storefront
	m.IncAnalyticsEvent("x")
	m.IncSinkFailure("x")
	m.IncAnalyticsDropped("x")
	m.IncCartMutation("x")
	m.IncOrder("x")
	m.ObserveCatalogFetch(time.Second, nil)
	m.ObserveHTTPRequest("GET", "/", "200", time.Second)

	unregistered := NewStorefront(nil)
	unregistered.IncAnalyticsEvent("x")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
