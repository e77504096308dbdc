package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewCorpus, "corpus"},
		{ViewSegment, "segment"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestMessages(t *testing.T) {
	loc := "Frozen Lake"
	selected := SegmentSelected{Segment: domain.TextSegment{ID: "a", LocationName: &loc}}
	assert.Equal(t, "Frozen Lake", selected.Segment.Location())

	errMsg := ErrorOccurred{Query: domain.NewQuery("ice"), Err: errors.New("boom")}
	assert.Equal(t, "ice", errMsg.Query.Text)
	assert.EqualError(t, errMsg.Err, "boom")

	reloaded := ConfigReloaded{Settings: domain.DefaultSettings()}
	assert.NoError(t, reloaded.Err)
	assert.Equal(t, domain.DefaultDebounceDelay, reloaded.Settings.DebounceDelay)
}
