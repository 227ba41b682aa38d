package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/toolbench/internal/pdfops"
)

func TestSplitSpans(t *testing.T) {
	spans, err := splitSpans([]string{"1-3", "4-9"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []pdfops.Span{{Start: 1, End: 3}, {Start: 4, End: 9}}, spans)
}

func TestSplitSpansClampsToDocument(t *testing.T) {
	spans, err := splitSpans([]string{"8-99"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []pdfops.Span{{Start: 8, End: 10}}, spans)
}

func TestSplitSpansRejectsGaps(t *testing.T) {
	// "1,5" must not widen into pages 2-4
	_, err := splitSpans([]string{"1,5"}, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not contiguous")
}

func TestSplitSpansSkipsEmptyRanges(t *testing.T) {
	spans, err := splitSpans([]string{"", "abc", "2-4"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []pdfops.Span{{Start: 2, End: 4}}, spans)

	spans, err = splitSpans([]string{"abc"}, 10)
	require.NoError(t, err)
	assert.Empty(t, spans)
}
