package engine

import (
	"math"
	"strings"
	"testing"
)

func loadRows(t *testing.T, rows ...string) *Store {
	t.Helper()
	store := NewStore()
	if _, err := store.Load(strings.NewReader(csvOf(rows...)), WithLogger(quietLogger())); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return store
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// Scenario:
// 2010: Black female frisked not arrested, White male arrested not frisked
// 2011: Black male frisked and arrested
func scenarioStore(t *testing.T) *Store {
	return loadRows(t,
		row("2010", "ROBBERY", "N", "Y", "F", "B", "Brooklyn"),
		row("2010", "ASSAULT 3", "Y", "N", "M", "W", "Bronx"),
		row("2011", "ROBBERY", "Y", "Y", "M", "B", "bronx"),
	)
}

func TestFriskedVsArrested(t *testing.T) {
	store := scenarioStore(t)

	if f, a := store.FriskedVsArrested(2010); f != 50.0 || a != 50.0 {
		t.Errorf("2010: expected (50, 50), got (%v, %v)", f, a)
	}
	if f, a := store.FriskedVsArrested(2011); f != 100.0 || a != 100.0 {
		t.Errorf("2011: expected (100, 100), got (%v, %v)", f, a)
	}
	if f, a := store.FriskedVsArrested(1990); f != 0 || a != 0 {
		t.Errorf("absent year: expected (0, 0), got (%v, %v)", f, a)
	}
}

func TestPopulationStopped(t *testing.T) {
	store := scenarioStore(t)

	black := store.PopulationStopped(2010, "B")
	if len(black) != 1 || black[0].Description() != "ROBBERY" || black[0].Race() != "B" {
		t.Fatalf("expected the one Black 2010 record, got %+v", black)
	}

	if got := store.PopulationStopped(2010, "b"); len(got) != 0 {
		t.Errorf("race match must be case-sensitive, got %d records", len(got))
	}
	if got := store.PopulationStopped(1990, "B"); got == nil || len(got) != 0 {
		t.Errorf("absent year should give an empty, non-nil slice, got %v", got)
	}
}

func TestPopulationStoppedOrderAndCount(t *testing.T) {
	store := loadRows(t,
		row("2012", "first", "N", "N", "F", "W", "Queens"),
		row("2012", "skip", "N", "N", "F", "B", "Queens"),
		row("2012", "second", "N", "N", "M", "W", "Queens"),
		row("2012", "third", "N", "N", "", "W", "Queens"),
	)

	white := store.PopulationStopped(2012, "W")
	if len(white) != 3 {
		t.Fatalf("expected 3 White records, got %d", len(white))
	}
	for i, want := range []string{"first", "second", "third"} {
		if white[i].Description() != want {
			t.Errorf("record %d: expected %q, got %q", i, want, white[i].Description())
		}
	}

	// The population size is the race total used by GenderBias:
	// 1 female of 3 White stops -> 1/3 * 0.5 * 100.
	table := store.GenderBias(2012)
	if !almostEqual(table[RowFemale][ColWhite], 1.0/float64(len(white))*50) {
		t.Errorf("gender bias denominator mismatch: %v", table)
	}
}

func TestGenderBias(t *testing.T) {
	store := scenarioStore(t)

	want := GenderTable{
		{50.0, 0.0, 50.0},
		{0.0, 50.0, 50.0},
	}
	if got := store.GenderBias(2010); got != want {
		t.Errorf("2010: expected %v, got %v", want, got)
	}

	if got := store.GenderBias(1990); got != (GenderTable{}) {
		t.Errorf("absent year: expected zero table, got %v", got)
	}
}

func TestGenderBiasMixed(t *testing.T) {
	store := loadRows(t,
		row("2014", "x", "N", "N", "F", "B", "Queens"),
		row("2014", "x", "N", "N", "M", "B", "Queens"),
		row("2014", "x", "N", "N", "M", "B", "Queens"),
		row("2014", "x", "N", "N", "Z", "B", "Queens"),
		row("2014", "x", "N", "N", "F", "Q", "Queens"), // other race ignored
		row("2014", "x", "N", "N", "M", "A", "Queens"),
	)

	got := store.GenderBias(2014)
	if got[RowFemale][ColBlack] != 12.5 || got[RowMale][ColBlack] != 25.0 {
		t.Errorf("unexpected Black column: %v", got)
	}
	if got[RowFemale][ColWhite] != 0 || got[RowMale][ColWhite] != 0 {
		t.Errorf("no White stops should give zero White column: %v", got)
	}
	for r := range got {
		if got[r][ColCombined] != got[r][ColBlack]+got[r][ColWhite] {
			t.Errorf("row %d: combined column is not the sum: %v", r, got[r])
		}
	}
}

func TestCrimeIncrease(t *testing.T) {
	store := loadRows(t,
		row("2009", "ROBBERY", "N", "N", "M", "B", "Queens"),
		row("2009", "ASSAULT", "N", "N", "M", "B", "Queens"),
		row("2009", "CPW", "N", "N", "M", "B", "Queens"),
		row("2009", "CPW", "N", "N", "M", "B", "Queens"),
		row("2010", "ROBBERY 1", "N", "N", "M", "B", "Queens"),
		row("2010", "ARMED ROBBERY", "N", "N", "M", "B", "Queens"),
	)

	if got := store.CrimeIncrease("ROBBERY", 2009, 2010); got != 75.0 {
		t.Errorf("expected +75 points, got %v", got)
	}
	if got := store.CrimeIncrease("ROBBERY", 2010, 2009); got != -75.0 {
		t.Errorf("years must not be reordered, expected -75, got %v", got)
	}
	if got := store.CrimeIncrease("robbery", 2009, 2010); got != 0 {
		t.Errorf("substring match is case-sensitive, got %v", got)
	}
	if got := store.CrimeIncrease("Assault", 2009, 2010); got != 0 {
		t.Errorf("no matching descriptions, expected 0, got %v", got)
	}
	if got := store.CrimeIncrease("ROBBERY", 2009, 1990); got != -25.0 {
		t.Errorf("absent year2 counts as 0%%, expected -25, got %v", got)
	}
	for _, y := range []int{2009, 2010, 1990} {
		if got := store.CrimeIncrease("CPW", y, y); got != 0 {
			t.Errorf("same year %d should cancel, got %v", y, got)
		}
	}
}

func TestMostCommonBorough(t *testing.T) {
	store := loadRows(t,
		row("2010", "x", "N", "N", "M", "B", "Brooklyn"),
		row("2010", "x", "N", "N", "M", "B", "QUEENS"),
		row("2010", "x", "N", "N", "M", "B", "queens"),
		row("2010", "x", "N", "N", "M", "B", "Jersey City"),
		row("2010", "x", "N", "N", "M", "B", "Jersey City"),
		row("2010", "x", "N", "N", "M", "B", "Jersey City"),
		// Tie between Manhattan and Staten Island resolves to Manhattan.
		row("2011", "x", "N", "N", "M", "B", "staten island"),
		row("2011", "x", "N", "N", "M", "B", "Manhattan"),
		row("2012", "x", "N", "N", "M", "B", "Newark"),
	)

	if got := store.MostCommonBorough(2010); got != "Queens" {
		t.Errorf("2010: expected Queens, got %s", got)
	}
	if got := store.MostCommonBorough(2011); got != "Manhattan" {
		t.Errorf("2011: expected tie to go to Manhattan, got %s", got)
	}

	counts := store.BoroughCounts(2010)
	if counts != (BoroughCounts{1, 0, 0, 2, 0}) || counts.Total() != 3 {
		t.Errorf("2010 counts: %v", counts)
	}
}

func TestMostCommonBoroughNoData(t *testing.T) {
	store := loadRows(t, row("2012", "x", "N", "N", "M", "B", "Newark"))

	// No recognised borough falls through to the first one.
	for _, y := range []int{2012, 1990} {
		if got := store.MostCommonBorough(y); got != "Brooklyn" {
			t.Errorf("year %d: expected fall-through Brooklyn, got %s", y, got)
		}
		if total := store.BoroughCounts(y).Total(); total != 0 {
			t.Errorf("year %d: expected no counted stops, got %d", y, total)
		}
	}
}

func TestMostCommonBoroughInSet(t *testing.T) {
	store := scenarioStore(t)
	for _, y := range []int{2010, 2011, 1990} {
		got := store.MostCommonBorough(y)
		found := false
		for _, b := range Boroughs {
			if b == got {
				found = true
			}
		}
		if !found {
			t.Errorf("year %d: %q is not a known borough", y, got)
		}
	}
}
