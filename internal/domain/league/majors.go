package league

import "sort"

const (
	FirstYear = 2014
	LastYear  = 2025
)

// era is a contiguous span of years that shares one set of major leagues.
// An era applies to every year strictly below Before; the last era has Before=0.
type era struct {
	Before int
	Majors []Code
}

var majorEras = []era{
	{Before: 2019, Majors: []Code{LCK, LPL, EULCS, NALCS}},
	{Before: 2025, Majors: []Code{LCK, LPL, LEC, LCS}},
	{Before: 0, Majors: []Code{LCK, LPL, LEC, LTAN, LTAS, LCP}},
}

// DefaultYears is the reporting range used when a request names no year.
func DefaultYears() []int {
	out := make([]int, 0, LastYear-FirstYear+1)
	for year := FirstYear; year <= LastYear; year++ {
		out = append(out, year)
	}
	return out
}

// MajorFor returns the major leagues of the given year.
func MajorFor(year int) []Code {
	for _, e := range majorEras {
		if e.Before == 0 || year < e.Before {
			return append([]Code(nil), e.Majors...)
		}
	}
	return nil
}

// AllMajor is the union of every era's majors, in first-seen order.
func AllMajor() []Code {
	seen := make(map[Code]struct{})
	out := make([]Code, 0, 12)
	for _, e := range majorEras {
		for _, code := range e.Majors {
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			out = append(out, code)
		}
	}
	return out
}

// Expand replaces Major with the majors of year and removes duplicates.
// A year of 0 expands Major to AllMajor.
func Expand(codes []Code, year int) []Code {
	seen := make(map[Code]struct{}, len(codes))
	out := make([]Code, 0, len(codes))
	add := func(code Code) {
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}

	for _, code := range codes {
		if code != Major {
			add(code)
			continue
		}
		majors := AllMajor()
		if year != 0 {
			majors = MajorFor(year)
		}
		for _, m := range majors {
			add(m)
		}
	}
	return out
}

// Sorted returns a sorted copy, used where a stable key is needed.
func Sorted(codes []Code) []Code {
	out := append([]Code(nil), codes...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
