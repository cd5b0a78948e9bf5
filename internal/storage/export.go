package storage

import (
	"encoding/json"
	"io"
	"time"

	"github.com/san-kum/driftfield/internal/export"
	"github.com/san-kum/driftfield/internal/field"
)

type ExportData struct {
	Seed       int64            `json:"seed"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Duration   float64          `json:"duration"`
	Frames     int              `json:"frames"`
	Links      int              `json:"links"`
	FrameTimes []float64        `json:"frame_times_ms"`
	Particles  []field.Particle `json:"particles"`
}

// ExportJSON writes the final state of a headless run as indented JSON.
func ExportJSON(w io.Writer, seed int64, duration time.Duration, res *export.Result) error {
	data := ExportData{
		Seed:       seed,
		Width:      res.Width,
		Height:     res.Height,
		Duration:   duration.Seconds(),
		Frames:     res.Frames,
		Links:      res.Stats.Links,
		FrameTimes: res.Stats.FrameTimes,
		Particles:  res.Particles,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
