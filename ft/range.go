// Package ft implements the file-transfer reassembly engine layered over DLT
// verbose messages: package classification (FLST/FLDA/FLFI/FLIF/FLER), the
// per-transfer FT Buffer, and the FT Pool that demultiplexes many concurrent
// transfers by (channel, file serial number).
package ft

import "sort"

// Range is a half-open byte range [Start, End) within a transfer's data.
type Range struct {
	Start uint64
	End   uint64
}

func (r Range) overlapsOrAdjoins(o Range) bool {
	return r.Start <= o.End && o.Start <= r.End
}

// mergeInto inserts r into sections, merging it with any range it overlaps
// or is adjacent to, and returns the canonicalized, sorted, pairwise
// disjoint and non-adjacent result.
func mergeInto(sections []Range, r Range) []Range {
	merged := make([]Range, 0, len(sections)+1)

	for _, s := range sections {
		if s.overlapsOrAdjoins(r) {
			if s.Start < r.Start {
				r.Start = s.Start
			}

			if s.End > r.End {
				r.End = s.End
			}

			continue
		}

		merged = append(merged, s)
	}

	merged = append(merged, r)

	sort.Slice(merged, func(i, j int) bool { return merged[i].Start < merged[j].Start })

	// A single mergeInto call may still leave two previously-disjoint ranges
	// adjacent to the new range on both sides; fold any such chain in one pass.
	out := merged[:0:0]
	for _, s := range merged {
		if len(out) > 0 && out[len(out)-1].overlapsOrAdjoins(s) {
			last := &out[len(out)-1]
			if s.Start < last.Start {
				last.Start = s.Start
			}

			if s.End > last.End {
				last.End = s.End
			}

			continue
		}

		out = append(out, s)
	}

	return out
}

// coversWholeFile reports whether sections is exactly {[0, fileSize)}. A
// zero-length file is trivially covered by no sections at all.
func coversWholeFile(sections []Range, fileSize uint64) bool {
	if fileSize == 0 {
		return len(sections) == 0
	}

	return len(sections) == 1 && sections[0].Start == 0 && sections[0].End == fileSize
}
