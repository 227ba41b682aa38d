// Package pdfops implements the PDF page tools (extract, remove, organize,
// reverse, split) on top of pdfcpu. All operations work file-to-file on the
// scratch directory; page numbers are 1-based.
package pdfops

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog/log"

	"github.com/local/toolbench/internal/pages"
)

// Span is an inclusive 1-based page range, used by the split tool.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("pdf page count failed: %w", err)
	}
	return n, nil
}

// Validate runs pdfcpu validation against the PDF at path.
func Validate(path string) error {
	if err := api.ValidateFile(path, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("pdf validation failed: %w", err)
	}
	return nil
}

// ExtractPages writes a new document to outFile containing exactly the given
// pages in exactly the given order. Duplicates are preserved; the organize
// flow deliberately allows repeating a page. Every index must lie within
// [1, totalPages] or the call fails with InvalidPageNumberError.
func ExtractPages(inFile, outFile string, pageNumbers []int) error {
	total, err := PageCount(inFile)
	if err != nil {
		return err
	}
	if err := validatePageNumbers(pageNumbers, total); err != nil {
		return err
	}
	if len(pageNumbers) == 0 {
		return fmt.Errorf("no pages selected")
	}

	log.Debug().Str("in", inFile).Str("out", outFile).Ints("pages", pageNumbers).Msg("extracting pages")
	if err := api.CollectFile(inFile, outFile, pageSelection(pageNumbers), model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("pdf extract failed: %w", err)
	}
	return nil
}

// RemovePages writes a new document to outFile with the given pages deleted.
// The deletion plan is ordered highest index first so that removing an early
// page can never shift the index of a later target.
func RemovePages(inFile, outFile string, pageNumbers []int) error {
	total, err := PageCount(inFile)
	if err != nil {
		return err
	}
	if err := validatePageNumbers(pageNumbers, total); err != nil {
		return err
	}
	plan := removalPlan(pageNumbers)
	if len(plan) == 0 {
		return fmt.Errorf("no pages selected")
	}
	if len(plan) >= total {
		return fmt.Errorf("cannot remove all %d pages", total)
	}

	log.Debug().Str("in", inFile).Str("out", outFile).Ints("plan", plan).Msg("removing pages")
	if err := api.RemovePagesFile(inFile, outFile, pageSelection(plan), model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("pdf remove failed: %w", err)
	}
	return nil
}

// ReversePages writes outFile with the page order of inFile reversed.
// Reversing twice restores the original order.
func ReversePages(inFile, outFile string) error {
	total, err := PageCount(inFile)
	if err != nil {
		return err
	}
	return ExtractPages(inFile, outFile, pages.Reversed(total))
}

// Split extracts each span into its own document under outDir, named
// <base>_<start>-<end>.pdf, and returns the written paths. Split is repeated
// extraction; each span is validated against the page count first.
func Split(inFile, outDir, base string, spans []Span) ([]string, error) {
	total, err := PageCount(inFile)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, fmt.Errorf("no page ranges specified")
	}
	for _, s := range spans {
		if s.Start < 1 || s.Start > total {
			return nil, &InvalidPageNumberError{PageNumber: s.Start, TotalPages: total}
		}
		if s.End < s.Start || s.End > total {
			return nil, &InvalidPageNumberError{PageNumber: s.End, TotalPages: total}
		}
	}

	out := make([]string, 0, len(spans))
	for _, s := range spans {
		nums := make([]int, 0, s.End-s.Start+1)
		for p := s.Start; p <= s.End; p++ {
			nums = append(nums, p)
		}
		dst := filepath.Join(outDir, fmt.Sprintf("%s_%d-%d.pdf", base, s.Start, s.End))
		if err := api.CollectFile(inFile, dst, pageSelection(nums), model.NewDefaultConfiguration()); err != nil {
			return nil, fmt.Errorf("pdf split range %d-%d failed: %w", s.Start, s.End, err)
		}
		out = append(out, dst)
	}
	return out, nil
}

// validatePageNumbers checks every index against [1, total].
func validatePageNumbers(pageNumbers []int, total int) error {
	for _, p := range pageNumbers {
		if p < 1 || p > total {
			return &InvalidPageNumberError{PageNumber: p, TotalPages: total}
		}
	}
	return nil
}

// removalPlan deduplicates the target pages and orders them for deletion,
// highest first.
func removalPlan(pageNumbers []int) []int {
	seen := make(map[int]struct{}, len(pageNumbers))
	uniq := make([]int, 0, len(pageNumbers))
	for _, p := range pageNumbers {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		uniq = append(uniq, p)
	}
	return pages.Descending(uniq)
}

// pageSelection renders page numbers as a pdfcpu selection, one token per
// page so order and duplicates survive.
func pageSelection(pageNumbers []int) []string {
	sel := make([]string, len(pageNumbers))
	for i, p := range pageNumbers {
		sel[i] = strconv.Itoa(p)
	}
	return sel
}
