package pdfops

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/toolbench/internal/pages"
)

// writeSamplePDF assembles a minimal PDF at path with one page per width
// (heights fixed at 400). Distinct MediaBox widths make pages identifiable
// after reordering.
func writeSamplePDF(t *testing.T, path string, widths ...float64) {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	kids := make([]string, len(widths))
	for i := range widths {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(widths)))
	for _, w := range widths {
		writeObj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g 400] /Resources << >> >>", w))
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefPos)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func pageWidths(t *testing.T, path string) []float64 {
	t.Helper()
	dims, err := api.PageDimsFile(path)
	require.NoError(t, err)
	out := make([]float64, len(dims))
	for i, d := range dims {
		out[i] = d.Width
	}
	return out
}

func TestExtractPagesKeepsOrderAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	out := filepath.Join(dir, "out.pdf")
	writeSamplePDF(t, in, 100, 200, 300)

	require.NoError(t, ExtractPages(in, out, []int{3, 1, 3}))
	assert.Equal(t, []float64{300, 100, 300}, pageWidths(t, out))
}

func TestReverseTwiceRestoresOrder(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	once := filepath.Join(dir, "once.pdf")
	twice := filepath.Join(dir, "twice.pdf")
	writeSamplePDF(t, in, 100, 200, 300)

	require.NoError(t, ReversePages(in, once))
	assert.Equal(t, []float64{300, 200, 100}, pageWidths(t, once))

	require.NoError(t, ReversePages(once, twice))
	assert.Equal(t, []float64{100, 200, 300}, pageWidths(t, twice))
}

func TestRemoveMatchesComplementExtract(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	removed := filepath.Join(dir, "removed.pdf")
	kept := filepath.Join(dir, "kept.pdf")
	writeSamplePDF(t, in, 100, 200, 300)

	require.NoError(t, RemovePages(in, removed, []int{2}))
	require.NoError(t, ExtractPages(in, kept, pages.Complement([]int{2}, 3)))
	assert.Equal(t, pageWidths(t, kept), pageWidths(t, removed))
	assert.Equal(t, []float64{100, 300}, pageWidths(t, removed))
}

func TestValidatePageNumbers(t *testing.T) {
	assert.NoError(t, validatePageNumbers([]int{1, 3, 5}, 5))
	assert.NoError(t, validatePageNumbers(nil, 0))

	err := validatePageNumbers([]int{1, 6}, 5)
	require.Error(t, err)
	var ipn *InvalidPageNumberError
	require.ErrorAs(t, err, &ipn)
	assert.Equal(t, 6, ipn.PageNumber)
	assert.Equal(t, 5, ipn.TotalPages)

	err = validatePageNumbers([]int{0}, 5)
	require.ErrorAs(t, err, &ipn)
	assert.Equal(t, 0, ipn.PageNumber)
}

func TestInvalidPageNumberErrorMessage(t *testing.T) {
	err := &InvalidPageNumberError{PageNumber: 9, TotalPages: 4}
	assert.Equal(t, "invalid page number 9: document has 4 pages", err.Error())
}

func TestRemovalPlanDescending(t *testing.T) {
	// deletion must run highest page first so index shifts from earlier
	// deletions never hit later targets
	assert.Equal(t, []int{4, 2}, removalPlan([]int{2, 4}))
	assert.Equal(t, []int{9, 5, 1}, removalPlan([]int{5, 1, 9, 5, 1}))
	assert.Empty(t, removalPlan(nil))
}

func TestPageSelectionKeepsOrderAndDuplicates(t *testing.T) {
	assert.Equal(t, []string{"3", "1", "3", "2"}, pageSelection([]int{3, 1, 3, 2}))
}
