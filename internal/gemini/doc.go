// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the generateContent endpoint.
//
// The client sends a single prompt per call and never returns an error to
// its caller. Every outcome is reduced to displayable text:
//
//   - 2xx with candidates[0].content.parts[0].text: that text
//   - 2xx without it (or with an unparseable body): FallbackNoResponse
//   - non-2xx, network failure, timeout: FallbackError, Result.Failed set
//
// # Key Types
//
//   - Client: issues generateContent calls
//   - ClientConfig: base URL, model, API key and timeout
//   - Result: text plus failure flag, classified error, usage and latency
//   - ClientError: failure classification for logs
//
// # Usage
//
//	client := gemini.NewClient(&gemini.ClientConfig{
//	    Model:  "gemini-2.5-flash",
//	    APIKey: os.Getenv("GEMINI_API_KEY"),
//	}, gemini.WithLogger(log))
//
//	r := client.Generate(ctx, "Quantos clientes temos?")
//	if r.Failed {
//	    showBanner(r.Text)
//	}
package gemini
