package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		out = append(out, m)
	}
	return out
}

func TestWithContextLiftsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, "user-1")
	log.WithContext(ctx).HTTPRequest("GET", "/api/v1/leads", 200, 1.5, "192.0.2.1")
	log.WithContext(context.Background()).Info("bare")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("lines = %d", len(lines))
	}
	if lines[0]["request_id"] != "req-1" || lines[0]["user_id"] != "user-1" || lines[0]["status"] != float64(200) {
		t.Fatalf("first line = %v", lines[0])
	}
	if _, ok := lines[1]["request_id"]; ok {
		t.Fatalf("bare line carries request_id: %v", lines[1])
	}
}

func TestDomainHelperLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.AuthEvent("login", "owner@example.com", true, "")
	log.AuthEvent("login", "owner@example.com", false, "invalid_credentials")
	log.MutationRejected("leads.advance", "actor-1", errors.New("not allowed"))
	log.StageChanged("lead-1", "proposal", "negotiation", "actor-1")

	want := []struct{ msg, level string }{
		{"auth_event", "INFO"},
		{"auth_event", "WARN"},
		{"mutation_rejected", "WARN"},
		{"lead_stage_changed", "INFO"},
	}
	lines := decodeLines(t, &buf)
	if len(lines) != len(want) {
		t.Fatalf("lines = %d", len(lines))
	}
	for i, w := range want {
		if lines[i]["msg"] != w.msg || lines[i]["level"] != w.level {
			t.Fatalf("line %d = %v, want %s at %s", i, lines[i], w.msg, w.level)
		}
	}
	if lines[1]["reason"] != "invalid_credentials" {
		t.Fatalf("failure reason missing: %v", lines[1])
	}
}
