package api

import (
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"

	"stopfrisk/internal/engine"
	"stopfrisk/internal/models"

	"github.com/labstack/echo/v4"
)

type dataset struct {
	store *engine.Store
	stats engine.LoadStats
}

// Handler serves queries over a fully loaded store. Until SetData is called
// every query route answers 503.
type Handler struct {
	data atomic.Pointer[dataset]
}

func NewHandler(store *engine.Store) *Handler {
	h := &Handler{}
	if store != nil {
		h.SetData(store, engine.LoadStats{Rows: store.Len(), Years: len(store.Years())})
	}
	return h
}

// SetData publishes a store whose Load has returned.
func (h *Handler) SetData(store *engine.Store, stats engine.LoadStats) {
	h.data.Store(&dataset{store: store, stats: stats})
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/status", h.GetStatus)
	api.GET("/years", h.GetYears)
	api.GET("/years/:year/population", h.GetPopulation)
	api.GET("/years/:year/outcomes", h.GetOutcomes)
	api.GET("/years/:year/gender-bias", h.GetGenderBias)
	api.GET("/years/:year/borough", h.GetBorough)
	api.GET("/years/:year/export.arrow", h.ExportArrow)
	api.GET("/crime-increase", h.GetCrimeIncrease)
}

// --- HELPERS ---

func (h *Handler) loaded() (*dataset, error) {
	d := h.data.Load()
	if d == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "data is still loading")
	}
	return d, nil
}

func intParam(name, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}

func yearParam(c echo.Context) (int, error) {
	return intParam("year", c.Param("year"))
}

func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func toStopRecord(r engine.Record) models.StopRecord {
	return models.StopRecord{
		Description: r.Description(),
		Arrested:    r.Arrested(),
		Frisked:     r.Frisked(),
		Gender:      r.Gender(),
		Race:        r.Race(),
		Location:    r.Location(),
	}
}

// --- HANDLERS ---

func (h *Handler) GetStatus(c echo.Context) error {
	d := h.data.Load()
	if d == nil {
		return c.JSON(http.StatusOK, models.Status{Ready: false})
	}
	st := models.Status{
		Ready:   true,
		Rows:    d.stats.Rows,
		Skipped: d.stats.Skipped,
		Years:   d.stats.Years,
	}
	if d.stats.Checksum != 0 {
		st.Checksum = strconv.FormatUint(d.stats.Checksum, 16)
	}
	if d.stats.Elapsed > 0 {
		st.LoadTime = d.stats.Elapsed.String()
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) GetYears(c echo.Context) error {
	d, err := h.loaded()
	if err != nil {
		return err
	}
	years := d.store.Years()
	out := make([]models.YearSummary, 0, len(years))
	for _, y := range years {
		g, _ := d.store.Group(y)
		out = append(out, models.YearSummary{Year: y, Records: g.Len()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetPopulation(c echo.Context) error {
	d, err := h.loaded()
	if err != nil {
		return err
	}
	year, err := yearParam(c)
	if err != nil {
		return err
	}
	race := c.QueryParam("race")
	if race == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "race is required")
	}

	recs := d.store.PopulationStopped(year, race)
	total := len(recs)
	limit, offset := getPaginationParams(c, total)

	page := models.Population{
		Year:    year,
		Race:    race,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		Records: []models.StopRecord{},
	}
	if offset < total {
		// compare against the remainder so a huge limit cannot overflow
		end := total
		if limit < total-offset {
			end = offset + limit
		}
		page.Records = make([]models.StopRecord, 0, end-offset)
		for _, r := range recs[offset:end] {
			page.Records = append(page.Records, toStopRecord(r))
		}
	}
	return c.JSON(http.StatusOK, page)
}

func (h *Handler) GetOutcomes(c echo.Context) error {
	d, err := h.loaded()
	if err != nil {
		return err
	}
	year, err := yearParam(c)
	if err != nil {
		return err
	}
	frisked, arrested := d.store.FriskedVsArrested(year)
	return c.JSON(http.StatusOK, models.Outcomes{
		Year:            year,
		FriskedPercent:  frisked,
		ArrestedPercent: arrested,
	})
}

func (h *Handler) GetGenderBias(c echo.Context) error {
	d, err := h.loaded()
	if err != nil {
		return err
	}
	year, err := yearParam(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.GenderBias{
		Year:  year,
		Table: d.store.GenderBias(year),
	})
}

func (h *Handler) GetCrimeIncrease(c echo.Context) error {
	d, err := h.loaded()
	if err != nil {
		return err
	}
	from, err := intParam("from", c.QueryParam("from"))
	if err != nil {
		return err
	}
	to, err := intParam("to", c.QueryParam("to"))
	if err != nil {
		return err
	}
	desc := c.QueryParam("description")
	return c.JSON(http.StatusOK, models.CrimeIncrease{
		Description: desc,
		From:        from,
		To:          to,
		Delta:       d.store.CrimeIncrease(desc, from, to),
	})
}

func (h *Handler) GetBorough(c echo.Context) error {
	d, err := h.loaded()
	if err != nil {
		return err
	}
	year, err := yearParam(c)
	if err != nil {
		return err
	}
	counts := d.store.BoroughCounts(year)
	out := models.Borough{
		Year:       year,
		MostCommon: counts.Top(),
		HasData:    counts.Total() > 0,
		Counts:     make([]models.BoroughCount, 0, len(counts)),
	}
	for i, n := range counts {
		out.Counts = append(out.Counts, models.BoroughCount{Borough: engine.Boroughs[i], Stops: n})
	}
	return c.JSON(http.StatusOK, out)
}

// ExportArrow streams one year's records as an Arrow IPC stream.
func (h *Handler) ExportArrow(c echo.Context) error {
	d, err := h.loaded()
	if err != nil {
		return err
	}
	year, err := yearParam(c)
	if err != nil {
		return err
	}
	g, ok := d.store.Group(year)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no records for %d", year))
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/vnd.apache.arrow.stream")
	res.WriteHeader(http.StatusOK)
	return engine.WriteArrow(res, g, nil)
}
