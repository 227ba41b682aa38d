// Package pages resolves user-entered page specifications ("1,3,5-7") into
// validated page number sequences for the PDF tools.
package pages

import (
	"sort"
	"strconv"
	"strings"
)

// Resolve parses a free-text page spec against a document of totalPages pages.
// Tokens are comma-separated; a token with a hyphen is an inclusive range.
// Ranges are clamped to [1, totalPages]. Malformed or out-of-range tokens
// contribute nothing; this is free-text user input, partial results beat
// hard failure. The result is deduplicated and sorted ascending.
func Resolve(spec string, totalPages int) []int {
	seen := make(map[int]struct{})

	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if strings.Contains(token, "-") {
			parts := strings.SplitN(token, "-", 2)
			start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
			end, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err1 != nil || err2 != nil {
				continue
			}
			if start < 1 {
				start = 1
			}
			if end > totalPages {
				end = totalPages
			}
			for p := start; p <= end; p++ {
				seen[p] = struct{}{}
			}
			continue
		}
		p, err := strconv.Atoi(token)
		if err != nil || p < 1 || p > totalPages {
			continue
		}
		seen[p] = struct{}{}
	}

	out := make([]int, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// Complement returns the pages of [1, totalPages] not present in pageNumbers,
// sorted ascending. Used by the remove tool: removing a set keeps its
// complement.
func Complement(pageNumbers []int, totalPages int) []int {
	drop := make(map[int]struct{}, len(pageNumbers))
	for _, p := range pageNumbers {
		drop[p] = struct{}{}
	}
	out := make([]int, 0, totalPages)
	for p := 1; p <= totalPages; p++ {
		if _, ok := drop[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// Reversed returns [totalPages, totalPages-1, ..., 1].
func Reversed(totalPages int) []int {
	out := make([]int, 0, totalPages)
	for p := totalPages; p >= 1; p-- {
		out = append(out, p)
	}
	return out
}

// Descending returns a copy of pageNumbers sorted highest first. Deletions
// over a mutable page list must happen in this order so earlier deletions
// never shift the indices of later ones.
func Descending(pageNumbers []int) []int {
	out := make([]int, len(pageNumbers))
	copy(out, pageNumbers)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
