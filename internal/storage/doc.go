// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the dashboard metrics store for aicrm.
//
// The metric cards and the monthly customers/revenue chart are kept in an
// embedded SQLite database (modernc.org/sqlite, no cgo). The store is seeded
// at startup from the built-in sample data or from a YAML seed file.
//
// # Key Types
//
//   - Store: SQLite-backed read model
//   - Seed: YAML document with metrics and chart points
//   - Metric, Chart, Point: what the dashboard panels render
//
// # Usage
//
//	st, err := storage.OpenSeeded(ctx, storage.MemoryDSN, "")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	dash, err := st.Dashboard(ctx)
package storage
