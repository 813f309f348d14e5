package changeset

import (
	"github.com/halvard/wayfare/internal/identity"
	"github.com/halvard/wayfare/internal/models"
)

// Distill normalizes newDistilledData into the canonical map form keyed by
// attachment id. The input is either an array of {attachmentId, summary}
// entries or already a map of id to {extractedInfo}; applying Distill to
// the map form is a no-op. Array entries missing either attachmentId or
// summary are dropped.
func Distill(v any) map[string]models.AttachmentSummary {
	switch data := v.(type) {
	case []any:
		out := make(map[string]models.AttachmentSummary)
		for _, e := range data {
			obj, ok := e.(map[string]any)
			if !ok {
				continue
			}
			id := identity.Normalize(obj["attachmentId"])
			summary, _ := obj["summary"].(string)
			if id == "" || summary == "" {
				continue
			}
			out[id] = models.AttachmentSummary{ExtractedInfo: summary}
		}
		return out
	case map[string]any:
		out := make(map[string]models.AttachmentSummary, len(data))
		for id, e := range data {
			if obj, ok := e.(map[string]any); ok {
				if info, ok := obj["extractedInfo"].(string); ok {
					out[id] = models.AttachmentSummary{ExtractedInfo: info}
				}
			}
		}
		return out
	}
	return nil
}
