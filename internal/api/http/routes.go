package httpapi

import (
	"bytes"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/bike-sharing-dashboard/internal/common"
	"github.com/i474232898/bike-sharing-dashboard/internal/render"
	"github.com/i474232898/bike-sharing-dashboard/internal/rental"
	"github.com/i474232898/bike-sharing-dashboard/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *rental.Service) {
	// The date-range form submits here; every request re-runs the pipeline.
	app.Get("/", func(c *fiber.Ctx) error {
		d, err := dashboard(c, service)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := render.Page(&buf, d); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render dashboard")
		}

		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	})

	v1 := app.Group("/api/v1")

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		d, err := dashboard(c, service)
		if err != nil {
			return err
		}
		return c.JSON(d)
	})

	v1.Get("/charts/:name", func(c *fiber.Ctx) error {
		name := c.Params("name")
		if !isChartName(name) {
			return fiber.NewError(fiber.StatusNotFound, "unknown chart "+name)
		}

		d, err := dashboard(c, service)
		if err != nil {
			return err
		}

		png, err := render.Chart(name, d)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render chart")
		}

		c.Type("png")
		return c.Send(png)
	})

	v1.Get("/dataset", func(c *fiber.Ctx) error {
		t, err := service.Dataset()
		if err != nil {
			return storeError(err)
		}

		snapshots := service.History()
		history := make([]datasetVersion, len(snapshots))
		for i, snap := range snapshots {
			history[i] = newDatasetVersion(snap.Table, snap.StoredAt)
		}

		current := newDatasetVersion(t, t.LoadedAt())
		if n := len(snapshots); n > 0 {
			current.StoredAt = snapshots[n-1].StoredAt
		}

		return c.JSON(fiber.Map{
			"current": current,
			"history": history,
		})
	})
}

// datasetVersion describes one loaded copy of the dataset.
type datasetVersion struct {
	Source   string           `json:"source"`
	StoredAt time.Time        `json:"storedAt"`
	Rows     int              `json:"rows"`
	Bounds   rental.DateRange `json:"bounds"`
}

func newDatasetVersion(t *rental.Table, storedAt time.Time) datasetVersion {
	bounds, _ := t.Bounds()
	return datasetVersion{
		Source:   t.Source(),
		StoredAt: storedAt,
		Rows:     t.Len(),
		Bounds:   bounds,
	}
}

func dashboard(c *fiber.Ctx, service *rental.Service) (rental.Dashboard, error) {
	var q rangeQuery
	if err := q.bind(c); err != nil {
		return rental.Dashboard{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	d, err := service.Dashboard(q.Start, q.End)
	if err != nil {
		return rental.Dashboard{}, storeError(err)
	}
	return d, nil
}

func storeError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusServiceUnavailable, "dataset not loaded")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to read dataset")
}

func isChartName(name string) bool {
	for _, n := range render.ChartNames {
		if n == name {
			return true
		}
	}
	return false
}

// rangeQuery holds the date-range control's query parameters. Either end may
// be omitted; start after end is accepted and selects nothing.
type rangeQuery struct {
	RawStart string `validate:"omitempty,max=64"`
	RawEnd   string `validate:"omitempty,max=64"`

	Start time.Time
	End   time.Time
}

func (q *rangeQuery) bind(c *fiber.Ctx) error {
	q.RawStart = c.Query("start")
	q.RawEnd = c.Query("end")

	if err := validate.Struct(q); err != nil {
		return err
	}

	var err error
	if q.RawStart != "" {
		if q.Start, err = common.ParseDay(q.RawStart); err != nil {
			return errors.New("invalid start date; use YYYY-MM-DD")
		}
	}
	if q.RawEnd != "" {
		if q.End, err = common.ParseDay(q.RawEnd); err != nil {
			return errors.New("invalid end date; use YYYY-MM-DD")
		}
	}
	return nil
}
