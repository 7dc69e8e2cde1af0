// Package turnrunner drives one request/response turn through a role's
// transport: initialise thread, send prompt, consume events, enforce idle
// timeout, aggregate assistant text.
package turnrunner

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jbarreto/orcctl/internal/protocol"
	"github.com/jbarreto/orcctl/internal/rolecatalog"
	"github.com/jbarreto/orcctl/internal/timeoutresolver"
	"github.com/jbarreto/orcctl/internal/transport"
)

// CompletionReason is the closed set of ways a turn can end.
type CompletionReason string

const (
	ReasonNormal          CompletionReason = "normal"
	ReasonIdleTimeout     CompletionReason = "idle_timeout"
	ReasonOverallTimeout  CompletionReason = "overall_timeout"
	ReasonTransportClosed CompletionReason = "transport_closed"
	ReasonCancelled       CompletionReason = "cancelled"
)

// TurnResult is the internal return of run_turn.
type TurnResult struct {
	AssistantText    string
	DeltaText        string
	ItemTexts        []string
	CompletionReason CompletionReason
}

// RoleBinding pairs a role's catalogue spec with its live transport
// handle.
type RoleBinding struct {
	Name      string
	Spec      rolecatalog.RoleSpec
	Transport *transport.Transport
}

// ClientIdentity names this orchestrator in the initialize handshake.
type ClientIdentity struct {
	Name    string
	Version string
}

// Run drives one turn to completion. ctx carries the run-wide cancellation
// token, checked before each blocking Transport.Next call.
func Run(ctx context.Context, binding *RoleBinding, prompt string, timeouts timeoutresolver.Timeouts, client ClientIdentity) TurnResult {
	if ctx.Err() != nil {
		return TurnResult{CompletionReason: ReasonCancelled}
	}

	if !binding.Transport.HasThread() {
		threadID, reason := handshake(ctx, binding.Transport, timeouts.Handshake)
		if reason != "" {
			return TurnResult{CompletionReason: reason}
		}
		binding.Transport.SetThreadID(threadID)
		binding.Transport.MarkThreadStarted()
	}

	flags := map[string]bool{
		"allow_tools":            binding.Spec.PromptFlags.AllowTools,
		"allow_read":             binding.Spec.PromptFlags.AllowRead,
		"allow_write":            binding.Spec.PromptFlags.AllowWrite,
		"allow_file_suggestions": binding.Spec.PromptFlags.AllowFileSuggestions,
	}
	sendErr := binding.Transport.Send(protocol.TurnStart(binding.Transport.ThreadID(), prompt, binding.Spec.Model, binding.Spec.ReasoningEffort, flags))
	if sendErr != nil {
		return TurnResult{CompletionReason: ReasonTransportClosed}
	}

	return collect(ctx, binding, timeouts)
}

// handshake sends initialize and waits for thread_started within
// handshakeTimeout. An empty reason string signals success.
func handshake(ctx context.Context, t *transport.Transport, handshakeTimeout time.Duration) (string, CompletionReason) {
	if ctx.Err() != nil {
		return "", ReasonCancelled
	}
	if err := t.Send(protocol.Initialize("orcctl", "1")); err != nil {
		return "", ReasonTransportClosed
	}

	deadline := time.Now().Add(handshakeTimeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return "", ReasonTransportClosed
		}
		if ctx.Err() != nil {
			return "", ReasonCancelled
		}
		msg, err := t.Next(remaining)
		if err != nil {
			if errors.Is(err, transport.ErrTimedOut) {
				return "", ReasonTransportClosed
			}
			return "", ReasonTransportClosed
		}
		event := protocol.Classify(msg)
		if event.Kind == protocol.ThreadStarted {
			return event.ThreadID, ""
		}
		// Anything else during the handshake is ignored; the handshake
		// only completes on thread_started.
	}
}

// collect runs the S2 dispatch loop: repeatedly call Transport.Next,
// classify, and act until turn_completed, a timeout fires, or the
// transport closes.
func collect(ctx context.Context, binding *RoleBinding, timeouts timeoutresolver.Timeouts) TurnResult {
	var result TurnResult
	idleDeadline := time.Now().Add(timeouts.Idle)
	overallDeadline := time.Now().Add(timeouts.Overall)

	for {
		if ctx.Err() != nil {
			result.CompletionReason = ReasonCancelled
			return finalize(result)
		}

		now := time.Now()
		if now.After(overallDeadline) {
			result.CompletionReason = ReasonOverallTimeout
			return finalize(result)
		}
		waitFor := minDuration(timeouts.Idle, overallDeadline.Sub(now))

		msg, err := binding.Transport.Next(waitFor)
		if err != nil {
			if errors.Is(err, transport.ErrTimedOut) {
				if time.Now().After(idleDeadline) {
					result.CompletionReason = ReasonIdleTimeout
					return finalize(result)
				}
				continue
			}
			result.CompletionReason = ReasonTransportClosed
			return finalize(result)
		}

		event := protocol.Classify(msg)
		switch event.Kind {
		case protocol.ThreadStarted:
			// Already handshaked; ignore.
		case protocol.ApprovalRequest:
			decision := decideApproval(binding.Spec.PromptFlags, event.Category)
			_ = binding.Transport.Send(protocol.ApprovalReply(event.ApprovalID, decision))
			// Approval does not reset the idle timer.
		case protocol.ItemDelta:
			result.DeltaText += event.DeltaText
			idleDeadline = time.Now().Add(timeouts.Idle)
		case protocol.ItemCompleted:
			result.ItemTexts = append(result.ItemTexts, event.ItemText)
			idleDeadline = time.Now().Add(timeouts.Idle)
		case protocol.TurnCompleted:
			result.CompletionReason = ReasonNormal
			return finalize(result)
		case protocol.Ignored:
			// Do not reset the idle timer.
		}
	}
}

// decideApproval grants iff the requested category is allowed by the
// role's prompt flags.
func decideApproval(flags rolecatalog.PromptFlags, category protocol.ApprovalCategory) protocol.ApprovalDecision {
	var allowed bool
	switch category {
	case protocol.CategoryExec:
		allowed = flags.AllowTools
	case protocol.CategoryWrite, protocol.CategoryPatch:
		allowed = flags.AllowWrite
	case protocol.CategoryRead:
		allowed = flags.AllowRead
	default:
		allowed = false
	}
	if allowed {
		return protocol.Approve
	}
	return protocol.Deny
}

// finalize computes assistant_text: the item_texts joined by "\n", falling
// back to delta_text when no items completed.
func finalize(result TurnResult) TurnResult {
	if len(result.ItemTexts) > 0 {
		result.AssistantText = strings.Join(result.ItemTexts, "\n")
	} else {
		result.AssistantText = result.DeltaText
	}
	return result
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
