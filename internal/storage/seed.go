// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DASHBOARD TYPES
// =============================================================================

// Metric is one headline card on the dashboard.
type Metric struct {
	Key    string `yaml:"key" json:"key"`
	Title  string `yaml:"title" json:"title"`
	Value  int64  `yaml:"value" json:"value"`
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	// Accent names the card color: blue, green, purple or orange.
	Accent string `yaml:"accent,omitempty" json:"accent,omitempty"`
}

// numberPrinter groups thousands with commas ("2,431").
var numberPrinter = message.NewPrinter(language.English)

// Display formats the value for a card, e.g. "R$ 15,489".
func (m Metric) Display() string {
	return m.Prefix + numberPrinter.Sprintf("%d", m.Value)
}

// Point is one month of the customers/revenue chart.
type Point struct {
	Label     string `yaml:"label" json:"label"`
	Customers int64  `yaml:"customers" json:"customers"`
	Revenue   int64  `yaml:"revenue" json:"revenue"`
}

// Chart is the monthly series shown beside the chat.
type Chart struct {
	Title  string  `yaml:"title" json:"title"`
	Points []Point `yaml:"points" json:"points"`
}

// MaxCustomers returns the largest customers value, or 0 for an empty chart.
func (c Chart) MaxCustomers() int64 {
	var max int64
	for _, p := range c.Points {
		if p.Customers > max {
			max = p.Customers
		}
	}
	return max
}

// MaxRevenue returns the largest revenue value, or 0 for an empty chart.
func (c Chart) MaxRevenue() int64 {
	var max int64
	for _, p := range c.Points {
		if p.Revenue > max {
			max = p.Revenue
		}
	}
	return max
}

// Dashboard is everything the metric panels render.
type Dashboard struct {
	Metrics []Metric `json:"metrics"`
	Chart   Chart    `json:"chart"`
}

// =============================================================================
// SEED DATA
// =============================================================================

// Seed is the YAML document that populates a store.
//
//	metrics:
//	  - key: customers
//	    title: Clientes
//	    value: 2431
//	    accent: blue
//	chart:
//	  title: Análise de Clientes e Receita
//	  points:
//	    - {label: Jan, customers: 400, revenue: 2400}
type Seed struct {
	Metrics []Metric `yaml:"metrics"`
	Chart   Chart    `yaml:"chart"`
}

// DefaultSeed returns the built-in sample data.
func DefaultSeed() *Seed {
	return &Seed{
		Metrics: []Metric{
			{Key: "customers", Title: "Clientes", Value: 2431, Accent: "blue"},
			{Key: "projects", Title: "Projetos", Value: 18, Accent: "green"},
			{Key: "revenue", Title: "Receita", Value: 15489, Prefix: "R$ ", Accent: "purple"},
			{Key: "active", Title: "Ativo", Value: 3, Accent: "orange"},
		},
		Chart: Chart{
			Title: "Análise de Clientes e Receita",
			Points: []Point{
				{Label: "Jan", Customers: 400, Revenue: 2400},
				{Label: "Fev", Customers: 300, Revenue: 1398},
				{Label: "Mar", Customers: 200, Revenue: 9800},
				{Label: "Abr", Customers: 278, Revenue: 3908},
				{Label: "Mai", Customers: 189, Revenue: 4800},
				{Label: "Jun", Customers: 239, Revenue: 3800},
				{Label: "Jul", Customers: 349, Revenue: 4300},
			},
		},
	}
}

// LoadSeed reads and validates a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates a YAML seed document.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// Validate checks that metric keys are present and unique and that values
// are not negative.
func (s *Seed) Validate() error {
	seen := make(map[string]bool, len(s.Metrics))
	for i, m := range s.Metrics {
		key := strings.TrimSpace(m.Key)
		if key == "" {
			return fmt.Errorf("%w: metric %d has no key", ErrInvalidSeed, i)
		}
		if seen[key] {
			return fmt.Errorf("%w: duplicate metric key %q", ErrInvalidSeed, key)
		}
		seen[key] = true
		if m.Value < 0 {
			return fmt.Errorf("%w: metric %q is negative", ErrInvalidSeed, key)
		}
	}
	for i, p := range s.Chart.Points {
		if strings.TrimSpace(p.Label) == "" {
			return fmt.Errorf("%w: chart point %d has no label", ErrInvalidSeed, i)
		}
		if p.Customers < 0 || p.Revenue < 0 {
			return fmt.Errorf("%w: chart point %q is negative", ErrInvalidSeed, p.Label)
		}
	}
	return nil
}
