// Package promptassembler builds the prompt string sent to a role's
// subprocess for one turn. Construction is pure: no I/O, no randomness.
package promptassembler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jbarreto/orcctl/internal/rolecatalog"
)

// DefaultPayloadCapBytes is the default truncation cap for the rendered
// incoming-payload section (open question (c) in the design notes: a
// tuning knob, not normative).
const DefaultPayloadCapBytes = 64 * 1024

// Input is everything Assemble needs to build one prompt.
type Input struct {
	RoleName        string
	Spec            rolecatalog.RoleSpec
	Goal            string
	CycleIndex      int
	IncomingPayload map[string]any
	IsRepair        bool
	PayloadCapBytes int
}

const repairInstruction = "Return ONLY the JSON object matching the previous request. No prose, no code fence, no commentary — just the object."

const jsonContract = "Respond with exactly one JSON object. Do not wrap it in a code fence. Do not include any text before or after the object."

// Assemble renders the ordered sections: role header, system instructions,
// skill references, goal, incoming payload, rules block, JSON contract,
// schema hint, and — if IsRepair — the repair instruction.
func Assemble(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Role: %s (cycle %d)\n\n", in.RoleName, in.CycleIndex)

	if in.Spec.SystemInstructions != "" {
		b.WriteString(in.Spec.SystemInstructions)
		b.WriteString("\n\n")
	}

	if len(in.Spec.Skills) > 0 {
		b.WriteString("## Skills\n")
		for _, skill := range in.Spec.Skills {
			fmt.Fprintf(&b, "- %s\n", skill)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Goal\n")
	b.WriteString(in.Goal)
	b.WriteString("\n\n")

	b.WriteString("## Incoming payload\n")
	b.WriteString(renderPayload(in.IncomingPayload, capOrDefault(in.PayloadCapBytes)))
	b.WriteString("\n\n")

	b.WriteString("## Rules\n")
	b.WriteString(renderRules(in.Spec))
	b.WriteString("\n")

	b.WriteString("## JSON contract\n")
	b.WriteString(jsonContract)
	b.WriteString("\n\n")

	if in.Spec.SchemaHint != "" {
		b.WriteString("## Schema hint\n")
		b.WriteString(in.Spec.SchemaHint)
		b.WriteString("\n\n")
	}

	if in.IsRepair {
		b.WriteString("## Repair\n")
		b.WriteString(repairInstruction)
		b.WriteString("\n")
	}

	return b.String()
}

func capOrDefault(cap int) int {
	if cap <= 0 {
		return DefaultPayloadCapBytes
	}
	return cap
}

func renderPayload(payload map[string]any, cap int) string {
	if payload == nil {
		payload = map[string]any{}
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "{}"
	}
	if len(data) > cap {
		data = append(data[:cap], []byte("\n...(truncated)")...)
	}
	return string(data)
}

func renderRules(spec rolecatalog.RoleSpec) string {
	var lines []string
	if spec.PromptFlags.AllowTools {
		lines = append(lines, "- You may invoke tools that execute commands.")
	} else {
		lines = append(lines, "- Do not invoke tools that execute commands.")
	}
	if spec.PromptFlags.AllowWrite {
		lines = append(lines, "- You may propose file writes.")
	} else {
		lines = append(lines, "- Do not propose file writes.")
	}
	if spec.PromptFlags.AllowRead {
		lines = append(lines, "- You may request to read files.")
	}
	if !spec.PromptFlags.AllowFileSuggestions {
		lines = append(lines, "- Do not include a \"files\" array in your response.")
	}
	return strings.Join(lines, "\n")
}
