// Package protocol defines the newline-delimited JSON wire vocabulary spoken
// with an assistant app-server subprocess, and classifies inbound messages
// into the small tagged set the rest of the orchestrator understands.
package protocol

import "encoding/json"

// Message is one decoded line of the wire protocol, in either direction.
// Field names are exactly what the assistant binary expects; no other
// component in this module inspects them directly.
type Message map[string]any

// Outbound message constructors. Each returns a Message ready for
// transport.Send.

// Initialize builds the handshake request sent once per transport lifetime.
func Initialize(clientName, clientVersion string) Message {
	return Message{
		"type": "initialize",
		"client": Message{
			"name":    clientName,
			"version": clientVersion,
		},
	}
}

// TurnStart builds the request that begins one turn.
func TurnStart(threadID, prompt, model, reasoningEffort string, flags map[string]bool) Message {
	return Message{
		"type":             "turn/start",
		"thread_id":        threadID,
		"prompt":           prompt,
		"model":            model,
		"reasoning_effort": reasoningEffort,
		"flags":            flags,
	}
}

// ApprovalDecision is the outcome of an approval policy check.
type ApprovalDecision string

const (
	Approve ApprovalDecision = "approve"
	Deny    ApprovalDecision = "deny"
)

// ApprovalReply builds the reply to an approval/request message.
func ApprovalReply(approvalID string, decision ApprovalDecision) Message {
	return Message{
		"type":        "approval/reply",
		"approval_id": approvalID,
		"decision":    string(decision),
	}
}

// Shutdown builds the optional graceful-shutdown notice.
func Shutdown() Message {
	return Message{"type": "shutdown"}
}

// EventKind is the closed set of inbound message classifications.
type EventKind int

const (
	Ignored EventKind = iota
	ThreadStarted
	ApprovalRequest
	ItemDelta
	ItemCompleted
	TurnCompleted
)

func (k EventKind) String() string {
	switch k {
	case ThreadStarted:
		return "thread_started"
	case ApprovalRequest:
		return "approval_request"
	case ItemDelta:
		return "item_delta"
	case ItemCompleted:
		return "item_completed"
	case TurnCompleted:
		return "turn_completed"
	default:
		return "ignored"
	}
}

// ApprovalCategory is the requested action class carried by an
// approval/request message.
type ApprovalCategory string

const (
	CategoryExec  ApprovalCategory = "exec"
	CategoryWrite ApprovalCategory = "write"
	CategoryRead  ApprovalCategory = "read"
	CategoryPatch ApprovalCategory = "patch"
	CategoryOther ApprovalCategory = "other"
)

// Event is the normalized result of classifying one inbound Message.
type Event struct {
	Kind EventKind

	ThreadID     string
	ApprovalID   string
	Category     ApprovalCategory
	DeltaText    string
	ItemText     string
	UsagePresent bool
}

// Classify is the single place that knows the assistant's wire vocabulary.
// No other component inspects raw message field names.
func Classify(msg Message) Event {
	t, _ := msg["type"].(string)
	switch t {
	case "thread/started":
		id, _ := msg["thread_id"].(string)
		return Event{Kind: ThreadStarted, ThreadID: id}
	case "approval/request":
		id, _ := msg["approval_id"].(string)
		cat, _ := msg["category"].(string)
		return Event{Kind: ApprovalRequest, ApprovalID: id, Category: normalizeCategory(cat)}
	case "item/delta":
		return Event{Kind: ItemDelta, DeltaText: extractText(msg)}
	case "item/completed":
		return Event{Kind: ItemCompleted, ItemText: extractText(msg)}
	case "turn/completed":
		_, hasUsage := msg["usage"]
		return Event{Kind: TurnCompleted, UsagePresent: hasUsage}
	default:
		return Event{Kind: Ignored}
	}
}

func normalizeCategory(raw string) ApprovalCategory {
	switch raw {
	case "exec", "write", "read", "patch":
		return ApprovalCategory(raw)
	default:
		return CategoryOther
	}
}

// extractText pulls textual content out of the variant item shapes the
// assistant emits: a direct "text" field, a "content" array of typed
// blocks, or a "summary" fallback.
func extractText(msg Message) string {
	if text, ok := msg["text"].(string); ok && text != "" {
		return text
	}
	if content, ok := msg["content"].([]any); ok {
		var out string
		for _, entry := range content {
			block, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if block["type"] == "text" {
				if s, ok := block["text"].(string); ok {
					out += s
				}
			}
		}
		if out != "" {
			return out
		}
	}
	if summary, ok := msg["summary"].(string); ok {
		return summary
	}
	return ""
}

// Decode parses one wire line into a Message. A line that does not parse as
// JSON is not a protocol error upstream of this call — callers discard it
// with a warning and never pass it to Classify.
func Decode(line []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(line, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Encode serializes a Message into one wire line without a trailing
// newline; the caller appends "\n".
func Encode(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
