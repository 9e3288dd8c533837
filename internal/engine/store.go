package engine

// Record is one stop event. Fields are fixed at decode time.
type Record struct {
	description string
	arrested    bool
	frisked     bool
	gender      string
	race        string
	location    string
}

func NewRecord(description string, arrested, frisked bool, gender, race, location string) Record {
	return Record{
		description: description,
		arrested:    arrested,
		frisked:     frisked,
		gender:      gender,
		race:        race,
		location:    location,
	}
}

func (r Record) Description() string { return r.description }
func (r Record) Arrested() bool      { return r.arrested }
func (r Record) Frisked() bool       { return r.frisked }
func (r Record) Gender() string      { return r.gender }
func (r Record) Race() string        { return r.race }
func (r Record) Location() string    { return r.location }

// YearGroup holds every record of one calendar year in input order.
type YearGroup struct {
	year    int
	records []Record
}

func newYearGroup(year int) *YearGroup {
	return &YearGroup{year: year}
}

func (g *YearGroup) Year() int { return g.year }

func (g *YearGroup) Len() int { return len(g.records) }

// Records returns the group's backing slice. Callers must not modify it.
func (g *YearGroup) Records() []Record { return g.records }

func (g *YearGroup) add(r Record) {
	g.records = append(g.records, r)
}

// Store keeps one YearGroup per year, in the order years first appear in the input.
type Store struct {
	groups []*YearGroup
	index  map[int]int // year -> position in groups
}

func NewStore() *Store {
	return &Store{index: make(map[int]int)}
}

// Group returns the YearGroup for year, if any record of that year was loaded.
func (s *Store) Group(year int) (*YearGroup, bool) {
	i, ok := s.index[year]
	if !ok {
		return nil, false
	}
	return s.groups[i], true
}

// Years lists loaded years in first-seen order.
func (s *Store) Years() []int {
	years := make([]int, len(s.groups))
	for i, g := range s.groups {
		years[i] = g.year
	}
	return years
}

// Len is the total number of records across all years.
func (s *Store) Len() int {
	n := 0
	for _, g := range s.groups {
		n += len(g.records)
	}
	return n
}

func (s *Store) insert(year int, r Record) {
	if i, ok := s.index[year]; ok {
		s.groups[i].add(r)
		return
	}
	g := newYearGroup(year)
	g.add(r)
	s.index[year] = len(s.groups)
	s.groups = append(s.groups, g)
}

// merge appends o's records to s, keeping o's year order for years s lacks.
func (s *Store) merge(o *Store) {
	if len(s.groups) == 0 {
		s.groups, s.index = o.groups, o.index
		return
	}
	for _, g := range o.groups {
		for _, r := range g.records {
			s.insert(g.year, r)
		}
	}
}

// records is the query helper: the year's records, or nil when the year is absent.
func (s *Store) records(year int) []Record {
	if g, ok := s.Group(year); ok {
		return g.records
	}
	return nil
}
