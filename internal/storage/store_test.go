// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// STORE TESTS
// =============================================================================

func openMemory(t *testing.T) *Store {
	t.Helper()
	st, err := OpenSeeded(context.Background(), MemoryDSN, "")
	if err != nil {
		t.Fatalf("OpenSeeded failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStore_DefaultSeed(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	metrics, err := st.Metrics(ctx)
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}

	want := []struct{ title, display string }{
		{"Clientes", "2,431"},
		{"Projetos", "18"},
		{"Receita", "R$ 15,489"},
		{"Ativo", "3"},
	}
	if len(metrics) != len(want) {
		t.Fatalf("got %d metrics, want %d", len(metrics), len(want))
	}
	for i, w := range want {
		if metrics[i].Title != w.title {
			t.Errorf("metrics[%d].Title = %q, want %q", i, metrics[i].Title, w.title)
		}
		if got := metrics[i].Display(); got != w.display {
			t.Errorf("metrics[%d].Display() = %q, want %q", i, got, w.display)
		}
	}
}

func TestStore_Chart(t *testing.T) {
	st := openMemory(t)

	chart, err := st.Chart(context.Background())
	if err != nil {
		t.Fatalf("Chart failed: %v", err)
	}
	if chart.Title != "Análise de Clientes e Receita" {
		t.Errorf("Title = %q", chart.Title)
	}

	labels := []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul"}
	customers := []int64{400, 300, 200, 278, 189, 239, 349}
	revenue := []int64{2400, 1398, 9800, 3908, 4800, 3800, 4300}
	if len(chart.Points) != len(labels) {
		t.Fatalf("got %d points, want %d", len(chart.Points), len(labels))
	}
	for i, p := range chart.Points {
		if p.Label != labels[i] || p.Customers != customers[i] || p.Revenue != revenue[i] {
			t.Errorf("point %d = %+v", i, p)
		}
	}
	if chart.MaxCustomers() != 400 {
		t.Errorf("MaxCustomers = %d, want 400", chart.MaxCustomers())
	}
	if chart.MaxRevenue() != 9800 {
		t.Errorf("MaxRevenue = %d, want 9800", chart.MaxRevenue())
	}
}

func TestStore_MetricNotFound(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	m, err := st.Metric(ctx, "revenue")
	if err != nil {
		t.Fatalf("Metric failed: %v", err)
	}
	if m.Value != 15489 {
		t.Errorf("revenue = %d, want 15489", m.Value)
	}

	if _, err := st.Metric(ctx, "churn"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := st.SetMetric(ctx, "churn", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetMetric: expected ErrNotFound, got %v", err)
	}
}

func TestStore_SetMetric(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	if err := st.SetMetric(ctx, "active", 7); err != nil {
		t.Fatalf("SetMetric failed: %v", err)
	}
	m, err := st.Metric(ctx, "active")
	if err != nil {
		t.Fatalf("Metric failed: %v", err)
	}
	if m.Value != 7 {
		t.Errorf("active = %d, want 7", m.Value)
	}
}

func TestStore_LoadReplaces(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	seed := &Seed{
		Metrics: []Metric{{Key: "leads", Title: "Leads", Value: 12}},
		Chart:   Chart{Title: "Leads", Points: []Point{{Label: "Q1", Customers: 5, Revenue: 100}}},
	}
	if err := st.Load(ctx, seed); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	dash, err := st.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if len(dash.Metrics) != 1 || dash.Metrics[0].Key != "leads" {
		t.Errorf("metrics = %+v", dash.Metrics)
	}
	if dash.Chart.Title != "Leads" || len(dash.Chart.Points) != 1 {
		t.Errorf("chart = %+v", dash.Chart)
	}
}

func TestStore_LoadInvalidSeedKeepsData(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()

	bad := &Seed{Metrics: []Metric{{Key: "a"}, {Key: "a"}}}
	if err := st.Load(ctx, bad); !errors.Is(err, ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed, got %v", err)
	}
	if err := st.Load(ctx, nil); !errors.Is(err, ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed for nil, got %v", err)
	}

	metrics, err := st.Metrics(ctx)
	if err != nil {
		t.Fatalf("Metrics failed: %v", err)
	}
	if len(metrics) != 4 {
		t.Errorf("default data lost: %d metrics", len(metrics))
	}
}

func TestStore_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "dashboard.db")
	ctx := context.Background()

	st, err := OpenSeeded(ctx, path, "")
	if err != nil {
		t.Fatalf("OpenSeeded failed: %v", err)
	}
	if err := st.SetMetric(ctx, "projects", 21); err != nil {
		t.Fatalf("SetMetric failed: %v", err)
	}
	st.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close()

	m, err := reopened.Metric(ctx, "projects")
	if err != nil {
		t.Fatalf("Metric failed: %v", err)
	}
	if m.Value != 21 {
		t.Errorf("projects = %d, want 21", m.Value)
	}
}

// =============================================================================
// SEED TESTS
// =============================================================================

func TestLoadSeed_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	doc := `
metrics:
  - key: customers
    title: Clientes
    value: 100
    accent: blue
  - key: revenue
    title: Receita
    value: 1234567
    prefix: "R$ "
chart:
  title: Trimestre
  points:
    - {label: Jan, customers: 10, revenue: 200}
    - {label: Fev, customers: 20, revenue: 300}
`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}

	st, err := OpenSeeded(context.Background(), MemoryDSN, path)
	if err != nil {
		t.Fatalf("OpenSeeded failed: %v", err)
	}
	defer st.Close()

	m, err := st.Metric(context.Background(), "revenue")
	if err != nil {
		t.Fatalf("Metric failed: %v", err)
	}
	if got := m.Display(); got != "R$ 1,234,567" {
		t.Errorf("Display() = %q", got)
	}
}

func TestParseSeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing key", "metrics:\n  - title: X\n    value: 1\n"},
		{"negative value", "metrics:\n  - key: x\n    value: -1\n"},
		{"unlabeled point", "chart:\n  points:\n    - {customers: 1, revenue: 1}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSeed([]byte(tt.doc)); !errors.Is(err, ErrInvalidSeed) {
				t.Errorf("expected ErrInvalidSeed, got %v", err)
			}
		})
	}

	if _, err := ParseSeed([]byte("metrics: [")); err == nil {
		t.Error("expected decode error")
	}
	if _, err := LoadSeed(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected read error")
	}
}
