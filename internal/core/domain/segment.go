package domain

// TextSegment is a single searchable unit of the corpus.
// Segments are immutable once fetched; identity is ID.
type TextSegment struct {
	// ID uniquely identifies the segment.
	ID string `json:"id"`

	// Content is the segment text.
	Content string `json:"content"`

	// SourceFile is the processed file the segment came from.
	SourceFile string `json:"source_file"`

	// ChapterTitle is the title of the enclosing chapter.
	ChapterTitle string `json:"chapter_title"`

	// SceneIndex is the scene number within the chapter.
	SceneIndex int `json:"scene_index"`

	// ParagraphIndex is the paragraph number within the scene.
	ParagraphIndex int `json:"paragraph_index"`

	// LocationName is where the scene takes place, nil when unknown.
	LocationName *string `json:"location_name"`

	// PrimaryCharacters lists the characters present, in order, without duplicates.
	PrimaryCharacters []string `json:"primary_characters"`

	// Tags is the set of topic tags attached to the segment.
	Tags []string `json:"tags"`
}

// Location returns the location name or empty string when unknown.
func (s *TextSegment) Location() string {
	if s.LocationName == nil {
		return ""
	}
	return *s.LocationName
}

// HasLocation reports whether the segment has a non-empty location.
func (s *TextSegment) HasLocation() bool {
	return s.Location() != ""
}

// UniqueStrings returns values with duplicates removed, keeping the first
// occurrence of each. Empty strings are dropped.
func UniqueStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
