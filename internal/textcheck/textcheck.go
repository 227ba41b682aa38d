// Package textcheck answers "is this PDF searchable, or does it need OCR?"
// by sampling pages and counting extractable characters.
package textcheck

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"time"
)

// DefaultThreshold is the character count at which a document counts as
// searchable; used when a non-positive threshold is passed in.
const DefaultThreshold = 300

var whitespaceRe = regexp.MustCompile(`\s+`)

// PageSample captures the probe result for one sampled page (0-based index).
type PageSample struct {
	PageIndex int    `json:"page_index"`
	CharCount int    `json:"char_count"`
	Err       string `json:"err,omitempty"`
}

// Report details the searchability check for one document.
type Report struct {
	TotalPages   int          `json:"total_pages"`
	SampledPages []int        `json:"sampled_pages"`
	CharsFound   int          `json:"chars_found"`
	Threshold    int          `json:"threshold"`
	Samples      []PageSample `json:"samples"`
	Searchable   bool         `json:"searchable"`
	DurationMs   int64        `json:"duration_ms"`
}

// Doc abstracts an open PDF document for text extraction.
type Doc interface {
	NumPage() int
	PageText(i int) (string, error)
	Close() error
}

// Opener abstracts opening a PDF path into a Doc. The default is the go-fitz
// backend in fitz.go; tests swap in fakes.
type Opener interface {
	Open(path string) (Doc, error)
}

var defaultOpener Opener

func setDefaultOpener(o Opener) { defaultOpener = o }

// Check samples pages of the PDF at path and reports whether at least
// threshold characters of text are extractable.
func Check(path string, threshold int) (bool, *Report, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if defaultOpener == nil {
		return false, nil, errors.New("no PDF opener configured")
	}

	start := time.Now()
	d, err := defaultOpener.Open(path)
	if err != nil {
		return false, nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer d.Close()

	total := d.NumPage()
	if total <= 0 {
		return false, &Report{
			TotalPages:   total,
			SampledPages: []int{},
			Threshold:    threshold,
			DurationMs:   time.Since(start).Milliseconds(),
		}, nil
	}

	sampled := sampleIndices(total)
	samples := make([]PageSample, 0, len(sampled))
	found := 0

	for _, idx := range sampled {
		sample := PageSample{PageIndex: idx}
		text, terr := d.PageText(idx)
		if terr != nil {
			sample.Err = terr.Error()
			samples = append(samples, sample)
			continue
		}
		// count runes after stripping whitespace, Unicode-aware
		count := len([]rune(whitespaceRe.ReplaceAllString(text, "")))
		sample.CharCount = count
		found += count
		samples = append(samples, sample)
		if found >= threshold {
			break
		}
	}

	rep := &Report{
		TotalPages:   total,
		SampledPages: sampled,
		CharsFound:   found,
		Threshold:    threshold,
		Samples:      samples,
		Searchable:   found >= threshold,
		DurationMs:   time.Since(start).Milliseconds(),
	}
	return rep.Searchable, rep, nil
}

// sampleIndices picks up to 5 pages: all of them for short documents,
// otherwise first, middle, last plus random distinct fills.
func sampleIndices(total int) []int {
	if total <= 0 {
		return []int{}
	}
	if total <= 5 {
		idx := make([]int, total)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}

	picked := map[int]struct{}{0: {}, total / 2: {}, total - 1: {}}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	for len(picked) < 5 {
		picked[rnd.Intn(total)] = struct{}{}
	}

	out := make([]int, 0, len(picked))
	for i := range picked {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
