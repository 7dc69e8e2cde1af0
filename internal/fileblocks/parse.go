// Package fileblocks extracts file=-annotated fenced code blocks from an
// assistant's free-form turn text — a fallback source of file proposals
// for roles that describe a file inline instead of populating the JSON
// files[] array.
package fileblocks

import (
	"regexp"
	"strings"
)

// FileBlock is one file proposal recovered from a fenced code block.
type FileBlock struct {
	Path    string // relative path named on the opening fence
	Content string // content between the fences
}

var fenceOpenRe = regexp.MustCompile("^```\\w*\\s*file=(\\S+)")

// Parse extracts fenced code blocks annotated with file= from text.
// It recognizes opening fences like:
//
//	```go file=internal/widget/widget.go
//	```file=README.md
//	```markdown file=.orcctl/roles/planner.md
//
// A block whose fence names an empty or whitespace-only path is skipped.
// An opening fence with no matching closing fence before the end of text
// is dropped, since its content cannot be known to be complete.
// Returns blocks in order of appearance.
func Parse(text string) []FileBlock {
	lines := strings.Split(text, "\n")
	var blocks []FileBlock
	var current *FileBlock
	var buf strings.Builder

	for _, line := range lines {
		if current != nil {
			trimmed := strings.TrimSpace(line)
			if trimmed == "```" {
				current.Content = buf.String()
				blocks = append(blocks, *current)
				current = nil
				buf.Reset()
				continue
			}
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(line)
			continue
		}

		m := fenceOpenRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		path := strings.TrimSpace(m[1])
		if path == "" {
			continue
		}
		current = &FileBlock{Path: path}
		buf.Reset()
	}

	return blocks
}
