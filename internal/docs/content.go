package docs

var topics = []Topic{
	{
		Name:    "quickstart",
		Title:   "Quick Start",
		Summary: "Getting started with orcctl",
		Content: topicQuickstart,
	},
	{
		Name:    "config",
		Title:   "Role Catalogue Reference",
		Summary: "Config file schema, role fields, and defaults",
		Content: topicConfig,
	},
	{
		Name:    "protocol",
		Title:   "Assistant Wire Protocol",
		Summary: "The newline-delimited JSON messages exchanged with the assistant subprocess",
		Content: topicProtocol,
	},
	{
		Name:    "timeouts",
		Title:   "Timeout Policy",
		Summary: "Handshake, idle, and overall timeouts, and the planner/default split",
		Content: topicTimeouts,
	},
	{
		Name:    "cycles",
		Title:   "Cycles and Roles",
		Summary: "How a run sequences roles across cycles and decides when to stop",
		Content: topicCycles,
	},
	{
		Name:    "artifacts",
		Title:   "Run Directory",
		Summary: "Structure of <runs-root>/<run-id>/ and what gets saved per turn",
		Content: topicArtifacts,
	},
}

const topicQuickstart = `# Quick Start

1. Run 'orcctl init' in your project to create a .orcctl/ directory with an
   example role catalogue (config.yaml) and per-role instruction files.

2. Edit .orcctl/config.yaml: set the goal, the number of cycles, and the
   role bindings you want to drive. Each role binding names an assistant
   thread and the behaviors (timeout policy, file-apply, can-finish) that
   govern it.

3. Run 'orcctl run .orcctl/config.yaml'. orcctl spawns one assistant
   subprocess per role, sequences them through the configured number of
   cycles, and writes every turn's artifacts under .orcctl/runs/<run-id>/.

4. Run 'orcctl status .orcctl/runs <run-id>' at any time to see per-role
   history, or 'orcctl doctor .orcctl/runs <run-id>' to get an AI diagnosis of the most recent
   failed turn.
`

const topicConfig = `# Role Catalogue Reference

Top-level fields:

  goal                       (string, required)  the objective handed to every role
  cycles                     (int, default 1)     how many times to sequence all roles
  repair-attempts            (int, default 1)     extra JSON-repair retries per turn
  run-tests                  (bool, default false) run test-command after files are applied
  test-command               ([]string)           argv, required if run-tests is true
  workspace-root             (string, default ".") root that file proposals are resolved against
  runs-root                  (string, default "./.runs") where run directories are created
  allowed-file-extensions    ([]string)            extensions FileApplicator accepts
  assistant-binary.name      (string, required)   the subprocess binary to launch per role
  assistant-binary.fallback-paths ([]string)       searched if the binary is not on PATH
  handshake-timeout-s        (float, default 15)  time allowed for the initialize handshake
  idle-timeout-default-s     (float, default 30)
  overall-timeout-default-s  (float, default 300)
  idle-timeout-planner-s     (float, default 60)
  overall-timeout-planner-s  (float, default 600)
  role-bindings              ([]RoleBinding, required)

Each entry under role-bindings has a unique name and a spec:

  system-instructions        (string)   inline instructions text
  system-instructions-file   (string)   path (relative to the catalogue file) to load instead
  model                      (string)   overrides the catalogue default for this role
  model-env                  (string)   environment variable checked before model/catalogue
  reasoning-effort           (string)
  schema-hint                (string)   prose guidance, or a JSON-schema document to validate against
  skills                     ([]string) skill names rendered into the prompt
  prompt-flags:
    allow-tools               (bool) grants exec-category approval requests
    allow-read                (bool) grants read-category approval requests
    allow-write               (bool) grants write/patch-category approval requests
    allow-file-suggestions    (bool) tells the role it may include a "files" array
  behaviors:
    timeout-policy            ("planner" | "default" | "")  selects the planner or default timeout tuple
    apply-files                (bool) inspect this role's "files" array through FileApplicator
    can-finish                 (bool) honor this role's status=="DONE" as a stop signal
`

const topicProtocol = `# Assistant Wire Protocol

orcctl speaks newline-delimited JSON with each role's assistant subprocess
over its stdin/stdout. Every line is one JSON object.

Outbound (orcctl -> assistant):

  {"type": "initialize", "client": {"name": "orcctl", "version": "1"}}
  {"type": "turn/start", "thread_id": "", "prompt": "...", "model": "...",
   "reasoning_effort": "...", "flags": {"allow_tools": true, ...}}
  {"type": "approval/reply", "approval_id": "...", "decision": "approve"|"deny"}
  {"type": "shutdown"}

Inbound (assistant -> orcctl), classified into a closed set:

  thread/started     {"type": "thread/started", "thread_id": "..."}
  approval/request    {"type": "approval/request", "approval_id": "...", "category": "exec"|"write"|"read"|"patch"}
  item/delta          {"type": "item/delta", "text": "..."}        (or "content" array, or "summary")
  item/completed      {"type": "item/completed", "text": "..."}
  turn/completed       {"type": "turn/completed", "usage": {...}}

Any other "type" value, or a line that fails to parse as JSON, is ignored
without resetting the idle timer.
`

const topicTimeouts = `# Timeout Policy

Every turn has three independent clocks:

  handshake  bounds how long "initialize" may take to receive "thread/started".
             Applies once per transport lifetime, not per turn.

  idle       reset on every item/delta and item/completed; fires when the
             assistant goes silent for longer than the idle bound.

  overall    an independent deadline from the start of the turn; fires
             regardless of activity once the turn has run too long.

A role's behaviors.timeout-policy selects which named tuple (idle, overall)
applies: "planner" picks idle-timeout-planner-s/overall-timeout-planner-s;
anything else (including unset) picks the *-default-s pair. Bounds are
validated on load: 1s <= idle <= overall <= 3600s.
`

const topicCycles = `# Cycles and Roles

A run executes role-bindings in declaration order, repeated for up to
"cycles" cycles. Each role's turn:

  1. builds a prompt from the goal, the incoming payload (the previous
     role's reduced output, or {"goal": ...} for the very first turn),
     and the role's own instructions/flags/schema-hint;
  2. drives one turn through that role's transport;
  3. extracts a JSON object from the assistant's text, retrying with a
     repair prompt (same thread) up to repair-attempts additional times;
  4. if behaviors.apply-files is set, inspects a "files" array in the
     extracted payload and writes each proposal through FileApplicator;
  5. if run-tests is set and files were applied, runs test-command;
  6. persists every artifact from this turn and rewrites the run's
     controller_state.json in full.

A transport or timeout failure on the *first* role of a cycle aborts the
whole run; the same failure on a later role aborts only that cycle (the
next cycle still starts). A role's payload with status=="DONE" only ends
the run if that role's behaviors.can-finish is true.
`

const topicArtifacts = `# Run Directory

Every run creates <runs-root>/<run-id>/ immediately, before any turn
starts. Its layout:

  <run-id>/
    controller_state.json         rewritten in full after every turn
    cycles/
      <cycle-index>/
        <role-name>/
          prompt.txt
          assistant_text.txt
          delta_text.txt
          items_text.md
          handoff.json             the payload forwarded to the next role
          analysis.md               present iff the payload carried analysis_md
          applied_files.json        present iff any files were applied
          rejected_files.json       present iff any files were rejected
          test_result.json          present iff tests ran for this turn

controller_state.json and handoff.json are written through RFC 8785
canonical JSON serialization, so re-running with identical inputs produces
byte-identical files.
`
