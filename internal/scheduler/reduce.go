package scheduler

// reduceResult is the payload forwarded to the next role, plus the
// sidecar content that must be written alongside it when analysis_md was
// present.
type reduceResult struct {
	Reduced      map[string]any
	AnalysisMD   string
	HasAnalysis  bool
	FileProposal []map[string]any
	HasFiles     bool
}

// reducePayload strips known oversize fields before forwarding a role's
// output to the next role: analysis_md is replaced by analysis_md_path
// (written by the caller as a sidecar), and files arrays are dropped
// entirely (the files are already on disk by the time reduction runs).
func reducePayload(payload map[string]any) reduceResult {
	reduced := make(map[string]any, len(payload))
	for k, v := range payload {
		reduced[k] = v
	}

	var result reduceResult
	if analysis, ok := reduced["analysis_md"].(string); ok {
		result.AnalysisMD = analysis
		result.HasAnalysis = true
		delete(reduced, "analysis_md")
		reduced["analysis_md_path"] = "analysis.md"
	}

	if files, ok := reduced["files"].([]any); ok {
		result.HasFiles = true
		for _, f := range files {
			if m, ok := f.(map[string]any); ok {
				result.FileProposal = append(result.FileProposal, m)
			}
		}
		delete(reduced, "files")
	}

	result.Reduced = reduced
	return result
}

// payloadStatus reads the free-form "status" string key with a defensive
// default, per the dynamic-payload-schema design note.
func payloadStatus(payload map[string]any) string {
	if s, ok := payload["status"].(string); ok {
		return s
	}
	return ""
}
