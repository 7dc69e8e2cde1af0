// Package fileapply validates and writes proposed files under a workspace
// root, rejecting path traversal, symlink escapes, and disallowed
// extensions.
package fileapply

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Proposal is one file an assistant role wants materialized.
type Proposal struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// AppliedFile records a successfully written proposal.
type AppliedFile struct {
	Path   string `json:"path"`
	Bytes  int    `json:"bytes"`
	SHA256 string `json:"sha256"`
}

// RejectedFile records a proposal that failed validation.
type RejectedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Result is the outcome of applying one batch of proposals.
type Result struct {
	Applied  []AppliedFile
	Rejected []RejectedFile
}

// AllRejected reports whether every proposal in the batch was rejected —
// the signal the scheduler uses to mark a turn json_failed rather than ok.
func (r Result) AllRejected() bool {
	return len(r.Applied) == 0 && len(r.Rejected) > 0
}

// Apply validates and writes each proposal under workspaceRoot. Allowed
// extensions, when non-empty, restrict which files may be written; an
// empty list permits any extension.
func Apply(workspaceRoot string, proposals []Proposal, allowedExtensions []string) (Result, error) {
	absRoot, err := filepath.Abs(workspaceRoot)
	if err != nil {
		return Result{}, fmt.Errorf("fileapply: resolve workspace root: %w", err)
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return Result{}, fmt.Errorf("fileapply: resolve workspace root symlinks: %w", err)
	}

	var result Result
	for _, p := range proposals {
		target, err := validate(absRoot, p, allowedExtensions)
		if err != nil {
			result.Rejected = append(result.Rejected, RejectedFile{Path: p.Path, Reason: err.Error()})
			continue
		}

		if err := writeAtomic(target, []byte(p.Content)); err != nil {
			result.Rejected = append(result.Rejected, RejectedFile{Path: p.Path, Reason: err.Error()})
			continue
		}

		sum := sha256.Sum256([]byte(p.Content))
		result.Applied = append(result.Applied, AppliedFile{
			Path:   p.Path,
			Bytes:  len(p.Content),
			SHA256: hex.EncodeToString(sum[:]),
		})
	}
	return result, nil
}

// validate enforces every FileProposal invariant and returns the resolved
// absolute target path when the proposal is acceptable.
func validate(absRoot string, p Proposal, allowedExtensions []string) (string, error) {
	if p.Path == "" {
		return "", fmt.Errorf("path is empty")
	}
	cleaned := filepath.ToSlash(filepath.Clean(strings.ReplaceAll(p.Path, "\\", "/")))
	if filepath.IsAbs(p.Path) || strings.HasPrefix(cleaned, "/") {
		return "", fmt.Errorf("path must be relative")
	}
	if hasDotDotSegment(cleaned) {
		return "", fmt.Errorf("path must not contain '..' segments")
	}

	target := filepath.Join(absRoot, filepath.FromSlash(cleaned))
	if !isUnderRoot(absRoot, target) {
		return "", fmt.Errorf("path escapes workspace root")
	}

	if err := rejectSymlinkEscape(absRoot, target); err != nil {
		return "", err
	}

	if len(allowedExtensions) > 0 {
		ext := filepath.Ext(target)
		if !extensionAllowed(ext, allowedExtensions) {
			return "", fmt.Errorf("extension %q is not in the allow-list", ext)
		}
	}

	return target, nil
}

// hasDotDotSegment checks path-traversal regardless of case, trailing
// slashes, or mixed separators — the cleaned, slash-normalized form is
// checked segment-by-segment.
func hasDotDotSegment(cleanedSlash string) bool {
	for _, seg := range strings.Split(cleanedSlash, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

func isUnderRoot(absRoot, target string) bool {
	rel, err := filepath.Rel(absRoot, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// rejectSymlinkEscape walks each existing ancestor directory of target
// (from the root down) and rejects if any segment is a symlink resolving
// outside absRoot. The final component itself, if it already exists as a
// symlink, is also checked.
func rejectSymlinkEscape(absRoot, target string) error {
	rel, err := filepath.Rel(absRoot, target)
	if err != nil {
		return fmt.Errorf("path escapes workspace root")
	}
	parts := strings.Split(rel, string(filepath.Separator))
	current := absRoot
	for _, part := range parts {
		current = filepath.Join(current, part)
		info, err := os.Lstat(current)
		if err != nil {
			// Not created yet; nothing to resolve.
			continue
		}
		if info.Mode()&os.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(current)
			if err != nil {
				return fmt.Errorf("path resolves through a broken symlink")
			}
			if !isUnderRoot(absRoot, resolved) && resolved != absRoot {
				return fmt.Errorf("path resolves through a symlink outside the workspace root")
			}
		}
	}
	return nil
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(ext, a) {
			return true
		}
	}
	return false
}

// writeAtomic writes data to path via temp-file-plus-rename on the same
// filesystem, syncing before the rename so a crash never leaves a partial
// file at path.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
