package protocol

import "testing"

func TestClassify_ThreadStarted(t *testing.T) {
	msg := Message{"type": "thread/started", "thread_id": "t1"}
	ev := Classify(msg)
	if ev.Kind != ThreadStarted || ev.ThreadID != "t1" {
		t.Errorf("got = %+v", ev)
	}
}

func TestClassify_ApprovalRequest_NormalizesUnknownCategory(t *testing.T) {
	msg := Message{"type": "approval/request", "approval_id": "a1", "category": "spawn_universe"}
	ev := Classify(msg)
	if ev.Kind != ApprovalRequest || ev.Category != CategoryOther {
		t.Errorf("got = %+v", ev)
	}
}

func TestClassify_ItemDelta_DirectTextField(t *testing.T) {
	msg := Message{"type": "item/delta", "text": "hello"}
	ev := Classify(msg)
	if ev.DeltaText != "hello" {
		t.Errorf("DeltaText = %q", ev.DeltaText)
	}
}

func TestClassify_ItemCompleted_ContentArray(t *testing.T) {
	msg := Message{
		"type": "item/completed",
		"content": []any{
			map[string]any{"type": "text", "text": "part one "},
			map[string]any{"type": "image", "url": "x"},
			map[string]any{"type": "text", "text": "part two"},
		},
	}
	ev := Classify(msg)
	if ev.ItemText != "part one part two" {
		t.Errorf("ItemText = %q", ev.ItemText)
	}
}

func TestClassify_ItemCompleted_SummaryFallback(t *testing.T) {
	msg := Message{"type": "item/completed", "summary": "a short summary"}
	ev := Classify(msg)
	if ev.ItemText != "a short summary" {
		t.Errorf("ItemText = %q", ev.ItemText)
	}
}

func TestClassify_TurnCompleted_DetectsUsage(t *testing.T) {
	msg := Message{"type": "turn/completed", "usage": map[string]any{"tokens": 10}}
	ev := Classify(msg)
	if ev.Kind != TurnCompleted || !ev.UsagePresent {
		t.Errorf("got = %+v", ev)
	}
}

func TestClassify_UnknownTypeIsIgnored(t *testing.T) {
	msg := Message{"type": "something/else"}
	ev := Classify(msg)
	if ev.Kind != Ignored {
		t.Errorf("Kind = %v, want Ignored", ev.Kind)
	}
}

func TestDecodeEncode_RoundTrip(t *testing.T) {
	msg := Initialize("orcctl", "1")
	line, err := Encode(msg)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	decoded, err := Decode(line)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if decoded["type"] != "initialize" {
		t.Errorf("type = %v", decoded["type"])
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Error("expected decode error")
	}
}
