package entities

import (
	"sort"
	"strings"
)

// TranscriptSegment is the transcription result for one chunk in one
// language. A failed or missing chunk still yields a segment (empty text,
// Succeeded=false) so that assembly never silently skips a time range.
type TranscriptSegment struct {
	ChunkIndex   int    `json:"chunk_index"`
	LanguageCode string `json:"language_code"`
	Text         string `json:"text"`
	Succeeded    bool   `json:"succeeded"`
}

// Transcript is the per-language concatenation of segment texts in chunk
// order. Partial is true when any contributing segment failed.
type Transcript struct {
	LanguageCode string              `json:"language_code"`
	Text         string              `json:"text"`
	Partial      bool                `json:"partial"`
	Segments     []TranscriptSegment `json:"segments,omitempty"`
}

// AssembleTranscript joins segments in chunk-index order with single spaces,
// regardless of the order they were produced in. Empty texts are skipped in
// the joined string but still counted for the partial flag.
func AssembleTranscript(language string, segments []TranscriptSegment) Transcript {
	ordered := make([]TranscriptSegment, len(segments))
	copy(ordered, segments)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ChunkIndex < ordered[j].ChunkIndex
	})

	partial := false
	parts := make([]string, 0, len(ordered))
	for _, seg := range ordered {
		if !seg.Succeeded {
			partial = true
		}
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}

	return Transcript{
		LanguageCode: language,
		Text:         strings.Join(parts, " "),
		Partial:      partial,
		Segments:     ordered,
	}
}
