package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			if matchLabels(m, labels) {
				if c := m.GetCounter(); c != nil {
					return c.GetValue()
				}
				return m.GetGauge().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(m *dto.Metric, labels map[string]string) bool {
	for _, lp := range m.GetLabel() {
		if labels[lp.GetName()] != lp.GetValue() {
			return false
		}
	}
	return len(m.GetLabel()) == len(labels)
}

// TestMetricsRecord ensures each recorder updates its collector.
func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Mutation("add_topic", 3)
	m.Mutation("add_topic", 4)
	m.PersistError()
	m.AnswerChecked(true)
	m.AnswerChecked(false)
	m.AnswerChecked(false)
	m.Upload("rejected")

	if v := gatherValue(t, reg, "teachme_store_mutations_total", map[string]string{"op": "add_topic"}); v != 2 {
		t.Fatalf("mutations = %v, want 2", v)
	}
	if v := gatherValue(t, reg, "teachme_topics", nil); v != 4 {
		t.Fatalf("topics = %v, want 4", v)
	}
	if v := gatherValue(t, reg, "teachme_store_persist_errors_total", nil); v != 1 {
		t.Fatalf("persist errors = %v, want 1", v)
	}
	if v := gatherValue(t, reg, "teachme_answers_checked_total", map[string]string{"result": "incorrect"}); v != 2 {
		t.Fatalf("incorrect answers = %v, want 2", v)
	}
	if v := gatherValue(t, reg, "teachme_image_uploads_total", map[string]string{"result": "rejected"}); v != 1 {
		t.Fatalf("rejected uploads = %v, want 1", v)
	}
}

// TestNilMetricsIsNoop ensures callers can skip metrics entirely.
func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Mutation("clear_all", 0)
	m.Topics(2)
	m.PersistError()
	m.AnswerChecked(true)
	m.Upload("accepted")
}
