package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iksnae/resume-session/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	record := internal.CreateTestRecordWithMessages("jsonl1", []internal.RawMessage{
		{Role: "user", Content: "legacy question"},
		{Type: "ai", Content: "current answer"},
		{Actor: "human", Content: "canonical follow-up"},
	})

	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(record, &buf); err != nil {
		t.Fatalf("JSONLExporter.Export() error = %v", err)
	}

	var got []internal.Message
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var msg internal.Message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			t.Fatalf("line %q is not valid JSON: %v", scanner.Text(), err)
		}
		got = append(got, msg)
	}

	want := []internal.Message{
		{Role: internal.RoleHuman, Content: "legacy question"},
		{Role: internal.RoleAssistant, Content: "current answer"},
		{Role: internal.RoleHuman, Content: "canonical follow-up"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestJSONLExporter_EmptySession(t *testing.T) {
	var buf bytes.Buffer
	record := internal.CreateTestRecordWithMessages("empty", nil)
	if err := (&JSONLExporter{}).Export(record, &buf); err != nil {
		t.Fatalf("JSONLExporter.Export() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Export() wrote %q for an empty session, want nothing", buf.String())
	}
}
