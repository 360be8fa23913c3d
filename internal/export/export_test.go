// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/aicrm-tui/internal/model"
	"github.com/jeranaias/aicrm-tui/internal/session"
)

func sampleSnapshot() session.Snapshot {
	at := time.Date(2025, 5, 20, 14, 30, 0, 0, time.UTC)
	user := model.NewUserMessage("Quantos clientes ativos?")
	user.Timestamp = at
	reply := model.NewAssistantMessage("Temos **3** clientes ativos.")
	reply.Timestamp = at.Add(2 * time.Second)
	return session.Snapshot{
		ConversationID: "conv-1",
		Messages:       []model.Message{user, reply},
		State:          session.StateIdle,
		StateName:      session.StateIdle.String(),
	}
}

func TestFromSnapshot(t *testing.T) {
	tr := FromSnapshot(sampleSnapshot(), "gemini-2.5-flash")

	assert.Equal(t, "conv-1", tr.ID)
	assert.Equal(t, "Quantos clientes ativos?", tr.Title)
	assert.Equal(t, "gemini-2.5-flash", tr.Model)
	assert.Equal(t, tr.Messages[0].Timestamp, tr.StartedAt)
	assert.Equal(t, 2, tr.Len())

	empty := FromSnapshot(session.Snapshot{}, "")
	assert.Equal(t, "New conversation", empty.Title)
	assert.Equal(t, empty.ExportedAt, empty.StartedAt)
}

func TestFromSnapshot_MultilineTitle(t *testing.T) {
	snap := session.Snapshot{Messages: []model.Message{model.NewUserMessage("linha um\nlinha dois")}}
	assert.Equal(t, "linha um linha dois", FromSnapshot(snap, "").Title)
}

func TestMarkdownExporter(t *testing.T) {
	tr := FromSnapshot(sampleSnapshot(), "gemini-2.5-flash")
	out, err := NewMarkdownExporter(nil).Export(tr)
	require.NoError(t, err)
	md := string(out)

	require.True(t, strings.HasPrefix(md, "---\n"))
	assert.Contains(t, md, "# Quantos clientes ativos?\n")
	assert.Contains(t, md, "### Usuário <sub>14:30:00</sub>")
	assert.Contains(t, md, "### Assistente <sub>14:30:02</sub>")
	assert.Contains(t, md, "Temos **3** clientes ativos.")
	assert.Contains(t, md, "*Exported from aicrm on")
	assert.Less(t, strings.Index(md, "Usuário"), strings.Index(md, "Assistente"))
}

func TestMarkdownExporter_FrontmatterIsValidYAML(t *testing.T) {
	snap := sampleSnapshot()
	snap.Messages[0].Content = "title: injected\n# not a heading"
	tr := FromSnapshot(snap, "m")

	out, err := NewMarkdownExporter(nil).Export(tr)
	require.NoError(t, err)

	parts := strings.SplitN(string(out), "---\n", 3)
	require.Len(t, parts, 3)

	var fm map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "title: injected # not a heading", fm["title"])
	assert.Equal(t, 2, fm["messages"])
	assert.Equal(t, "aicrm", fm["generator"])
}

func TestMarkdownExporter_NoMetadata(t *testing.T) {
	tr := FromSnapshot(sampleSnapshot(), "m")
	out, err := NewMarkdownExporter(&Options{}).Export(tr)
	require.NoError(t, err)

	md := string(out)
	assert.True(t, strings.HasPrefix(md, "# "))
	assert.Contains(t, md, "### Usuário\n")
	assert.NotContains(t, md, "<sub>")
}

func TestMarkdownExporter_Empty(t *testing.T) {
	_, err := NewMarkdownExporter(nil).Export(FromSnapshot(session.Snapshot{}, ""))
	assert.True(t, errors.Is(err, ErrEmptyTranscript))

	_, err = NewMarkdownExporter(nil).Export(nil)
	assert.Error(t, err)
}

func TestJSONExporter(t *testing.T) {
	tr := FromSnapshot(sampleSnapshot(), "m")
	out, err := NewJSONExporter().Export(tr)
	require.NoError(t, err)

	var decoded Transcript
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Len(t, decoded.Messages, 2)
	assert.Equal(t, model.RoleUser, decoded.Messages[0].Role)
	assert.Equal(t, tr.Messages[1].Content, decoded.Messages[1].Content)

	_, err = NewJSONExporter().Export(nil)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"Markdown", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"html", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExport_GeneratedName(t *testing.T) {
	dir := t.TempDir()
	tr := FromSnapshot(sampleSnapshot(), "m")

	path, err := Export(tr, "md", &Options{OutputDir: dir, IncludeMetadata: true})
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "conversa_Quantos_clientes_ativos_"))
	assert.Equal(t, ".md", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Temos **3** clientes ativos.")
}

func TestExport_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "chat.json")
	tr := FromSnapshot(sampleSnapshot(), "m")

	got, err := Export(tr, "json", &Options{Path: path})
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestExport_Errors(t *testing.T) {
	tr := FromSnapshot(sampleSnapshot(), "m")
	_, err := Export(tr, "pdf", nil)
	assert.ErrorContains(t, err, "unsupported export format")

	_, err = Export(FromSnapshot(session.Snapshot{}, ""), "md", &Options{OutputDir: t.TempDir()})
	assert.True(t, errors.Is(err, ErrEmptyTranscript))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello world", "hello_world"},
		{"a/b:c*d", "a-b-c-d"},
		{"", "conversa"},
		{"???", "conversa"},
		{strings.Repeat("x", 60), strings.Repeat("x", 40)},
		{"Relatórios", "Relatórios"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), "input %q", tt.in)
	}
}
