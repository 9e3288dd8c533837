package engine

import (
	"strings"

	"golang.org/x/text/cases"
)

const (
	RaceBlack = "B"
	RaceWhite = "W"

	GenderFemale = "F"
	GenderMale   = "M"

	// genderBiasWeight halves each within-race share.
	genderBiasWeight = 0.5
)

// Boroughs is the closed set recognised by the borough queries, in tie-break order.
var Boroughs = [5]string{"Brooklyn", "Manhattan", "Bronx", "Queens", "Staten Island"}

// foldedBorough maps case-folded borough names to their Boroughs index.
var foldedBorough = func() map[string]int {
	fold := cases.Fold()
	m := make(map[string]int, len(Boroughs))
	for i, b := range Boroughs {
		m[fold.String(b)] = i
	}
	return m
}()

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// PopulationStopped returns the records of year whose race equals race exactly,
// in input order.
func (s *Store) PopulationStopped(year int, race string) []Record {
	out := make([]Record, 0)
	for _, r := range s.records(year) {
		if r.race == race {
			out = append(out, r)
		}
	}
	return out
}

// FriskedVsArrested returns the share of year's stops that were frisked and,
// independently, the share that ended in arrest. Both are 0 for an empty year.
func (s *Store) FriskedVsArrested(year int) (frisked, arrested float64) {
	recs := s.records(year)
	var f, a int
	for _, r := range recs {
		if r.frisked {
			f++
		}
		if r.arrested {
			a++
		}
	}
	return percent(f, len(recs)), percent(a, len(recs))
}

// GenderTable rows are female, male; columns are Black, White, Black+White.
type GenderTable [2][3]float64

const (
	RowFemale = 0
	RowMale   = 1

	ColBlack    = 0
	ColWhite    = 1
	ColCombined = 2
)

// GenderBias weighs each gender's share within the Black and White stops of
// year by 0.5. The combined column is the plain sum of the two race columns.
// Other races are ignored.
func (s *Store) GenderBias(year int) GenderTable {
	var (
		counts [2][2]int // [gender row][race col]
		totals [2]int
	)
	for _, r := range s.records(year) {
		var col int
		switch r.race {
		case RaceBlack:
			col = ColBlack
		case RaceWhite:
			col = ColWhite
		default:
			continue
		}
		totals[col]++
		switch r.gender {
		case GenderFemale:
			counts[RowFemale][col]++
		case GenderMale:
			counts[RowMale][col]++
		}
	}

	var t GenderTable
	for row := range counts {
		for col := range totals {
			if totals[col] > 0 {
				t[row][col] = float64(counts[row][col]) / float64(totals[col]) * genderBiasWeight * 100
			}
		}
		t[row][ColCombined] = t[row][ColBlack] + t[row][ColWhite]
	}
	return t
}

func (s *Store) descriptionShare(substr string, year int) float64 {
	recs := s.records(year)
	n := 0
	for _, r := range recs {
		if strings.Contains(r.description, substr) {
			n++
		}
	}
	return percent(n, len(recs))
}

// CrimeIncrease is the share of year2 stops whose description contains substr
// minus the same share for year1, in percentage points. Years are not reordered.
func (s *Store) CrimeIncrease(substr string, year1, year2 int) float64 {
	return s.descriptionShare(substr, year2) - s.descriptionShare(substr, year1)
}

// BoroughCounts holds per-borough stop counts indexed like Boroughs.
type BoroughCounts [len(Boroughs)]int

func (c BoroughCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Top returns the borough with the strictly greatest count, ties going to the
// earlier borough. All-zero counts yield Boroughs[0].
func (c BoroughCounts) Top() string {
	best := 0
	for i := 1; i < len(c); i++ {
		if c[i] > c[best] {
			best = i
		}
	}
	return Boroughs[best]
}

// BoroughCounts tallies year's stops by borough, matching location names
// case-insensitively. Unknown locations are not counted.
func (s *Store) BoroughCounts(year int) BoroughCounts {
	var c BoroughCounts
	fold := cases.Fold() // a Caser is stateful, so one per call
	for _, r := range s.records(year) {
		if i, ok := foldedBorough[fold.String(r.location)]; ok {
			c[i]++
		}
	}
	return c
}

// MostCommonBorough returns the borough with the most stops in year. A year
// with no recognised locations returns "Brooklyn"; use BoroughCounts to tell
// that case apart from a real result.
func (s *Store) MostCommonBorough(year int) string {
	return s.BoroughCounts(year).Top()
}
