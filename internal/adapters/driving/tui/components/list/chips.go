package list

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/corpus-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// Summary returns the "Showing N of M segments" line.
func Summary(shown, total int) string {
	return fmt.Sprintf("Showing %d of %d segments", shown, total)
}

// Chips returns the plain-text metadata chips of a segment in display order:
// chapter, scene, location, characters, tags and id. Empty parts are skipped.
func Chips(seg *domain.TextSegment) []string {
	chips := make([]string, 0, 4+len(seg.PrimaryCharacters)+len(seg.Tags))
	if seg.ChapterTitle != "" {
		chips = append(chips, seg.ChapterTitle)
	}
	chips = append(chips, fmt.Sprintf("Scene %d", seg.SceneIndex))
	if seg.HasLocation() {
		chips = append(chips, "@ "+seg.Location())
	}
	chips = append(chips, seg.PrimaryCharacters...)
	for _, tag := range seg.Tags {
		chips = append(chips, "#"+tag)
	}
	if seg.ID != "" {
		chips = append(chips, seg.ID)
	}
	return chips
}

// RenderChips renders the metadata chips of a segment with styles.
func RenderChips(s *styles.Styles, seg *domain.TextSegment) string {
	parts := make([]string, 0, 4+len(seg.PrimaryCharacters)+len(seg.Tags))
	if seg.ChapterTitle != "" {
		parts = append(parts, s.Chip.Render(seg.ChapterTitle))
	}
	parts = append(parts, s.Chip.Render(fmt.Sprintf("Scene %d", seg.SceneIndex)))
	if seg.HasLocation() {
		parts = append(parts, s.ChipLocation.Render("@ "+seg.Location()))
	}
	for _, c := range seg.PrimaryCharacters {
		parts = append(parts, s.ChipCharacter.Render(c))
	}
	for _, tag := range seg.Tags {
		parts = append(parts, s.ChipTag.Render("#"+tag))
	}
	if seg.ID != "" {
		parts = append(parts, s.ChipID.Render(seg.ID))
	}
	return strings.Join(parts, " ")
}

// Flatten collapses runs of whitespace, including newlines, to single spaces.
func Flatten(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens text to at most maxRunes runes, ending in "...".
func Truncate(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	if maxRunes <= 3 {
		return string([]rune(text)[:maxRunes])
	}
	return string([]rune(text)[:maxRunes-3]) + "..."
}
