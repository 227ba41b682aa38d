package textcheck

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDoc struct {
	pages []string
}

func (d *fakeDoc) NumPage() int { return len(d.pages) }
func (d *fakeDoc) PageText(i int) (string, error) {
	if i < 0 || i >= len(d.pages) {
		return "", fmt.Errorf("page %d out of range", i)
	}
	return d.pages[i], nil
}
func (d *fakeDoc) Close() error { return nil }

type fakeOpener struct{ doc *fakeDoc }

func (o fakeOpener) Open(string) (Doc, error) { return o.doc, nil }

func withFakeOpener(t *testing.T, doc *fakeDoc) {
	t.Helper()
	prev := defaultOpener
	setDefaultOpener(fakeOpener{doc: doc})
	t.Cleanup(func() { setDefaultOpener(prev) })
}

func TestCheckSearchableDocument(t *testing.T) {
	withFakeOpener(t, &fakeDoc{pages: []string{
		strings.Repeat("lorem ipsum ", 40),
		strings.Repeat("dolor sit ", 40),
	}})

	ok, rep, err := Check("doc.pdf", 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, rep.Searchable)
	assert.Equal(t, 2, rep.TotalPages)
	assert.Equal(t, DefaultThreshold, rep.Threshold)
	assert.GreaterOrEqual(t, rep.CharsFound, DefaultThreshold)
}

func TestCheckScannedDocument(t *testing.T) {
	// image-only pages extract no text
	withFakeOpener(t, &fakeDoc{pages: []string{"", "  ", "\n\t"}})

	ok, rep, err := Check("scan.pdf", 0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, rep.CharsFound)
	assert.Len(t, rep.Samples, 3)
}

func TestCheckEmptyDocument(t *testing.T) {
	withFakeOpener(t, &fakeDoc{})

	ok, rep, err := Check("empty.pdf", 50)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, rep.TotalPages)
	assert.Empty(t, rep.SampledPages)
}

func TestCheckStopsEarlyOnceThresholdMet(t *testing.T) {
	withFakeOpener(t, &fakeDoc{pages: []string{
		strings.Repeat("x", 500), "second", "third",
	}})

	ok, rep, err := Check("doc.pdf", 100)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, rep.Samples, 1, "first page alone crosses the threshold")
}

func TestSampleIndices(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, sampleIndices(3))
	assert.Empty(t, sampleIndices(0))

	got := sampleIndices(100)
	assert.Len(t, got, 5)
	assert.Contains(t, got, 0)
	assert.Contains(t, got, 50)
	assert.Contains(t, got, 99)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
}
