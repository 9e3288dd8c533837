package models

type Status struct {
	Ready    bool   `json:"ready"`
	Rows     int    `json:"rows"`
	Skipped  int    `json:"skipped"`
	Years    int    `json:"years"`
	Checksum string `json:"checksum,omitempty"`
	LoadTime string `json:"load_time,omitempty"`
}

type YearSummary struct {
	Year    int `json:"year"`
	Records int `json:"records"`
}

type StopRecord struct {
	Description string `json:"description"`
	Arrested    bool   `json:"arrested"`
	Frisked     bool   `json:"frisked"`
	Gender      string `json:"gender"`
	Race        string `json:"race"`
	Location    string `json:"location"`
}

type Population struct {
	Year    int          `json:"year"`
	Race    string       `json:"race"`
	Total   int          `json:"total"`
	Limit   int          `json:"limit"`
	Offset  int          `json:"offset"`
	Records []StopRecord `json:"records"`
}

type Outcomes struct {
	Year            int     `json:"year"`
	FriskedPercent  float64 `json:"frisked_percent"`
	ArrestedPercent float64 `json:"arrested_percent"`
}

// GenderBias rows are female then male; columns are Black, White, combined.
type GenderBias struct {
	Year  int           `json:"year"`
	Table [2][3]float64 `json:"table"`
}

type CrimeIncrease struct {
	Description string  `json:"description"`
	From        int     `json:"from"`
	To          int     `json:"to"`
	Delta       float64 `json:"delta_points"`
}

type BoroughCount struct {
	Borough string `json:"borough"`
	Stops   int    `json:"stops"`
}

type Borough struct {
	Year       int            `json:"year"`
	MostCommon string         `json:"most_common"`
	HasData    bool           `json:"has_data"`
	Counts     []BoroughCount `json:"counts"`
}
