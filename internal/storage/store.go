package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/export"
	"github.com/san-kum/driftfield/internal/field"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile  = "metadata.json"
	particlesFile = "particles.csv"
	framesFile    = "frames.gif"
	snapshotFile  = "snapshot.svg"
)

var particleHeader = []string{"x", "y", "vx", "vy", "radius", "color", "opacity", "interactive"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

type RunMetadata struct {
	ID        string         `json:"id"`
	Preset    string         `json:"preset"`
	Timestamp time.Time      `json:"timestamp"`
	Seed      int64          `json:"seed"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Duration  float64        `json:"duration"`
	Frames    int            `json:"frames"`
	Captured  int            `json:"captured"`
	Particles int            `json:"particles"`
	Links     int            `json:"links"`
	HasGIF    bool           `json:"has_gif"`
	HasSVG    bool           `json:"has_svg"`
	Config    *config.Config `json:"config"`
}

// Recording is everything a finished headless run leaves behind. Raster and
// Snapshot are optional.
type Recording struct {
	Preset   string
	Seed     int64
	Duration time.Duration
	Config   *config.Config
	Result   *export.Result
	Raster   *export.Raster
	Snapshot *export.SVG
	Delay    int
}

func (s *Store) Save(rec Recording) (string, error) {
	if rec.Result == nil {
		return "", fmt.Errorf("storage: recording has no result")
	}
	preset := rec.Preset
	if preset == "" {
		preset = "custom"
	}
	runID := fmt.Sprintf("%s_%s", preset, uuid.NewString()[:8])
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	res := rec.Result
	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		Timestamp: time.Now(),
		Seed:      rec.Seed,
		Width:     res.Width,
		Height:    res.Height,
		Duration:  rec.Duration.Seconds(),
		Frames:    res.Frames,
		Captured:  res.Captured,
		Particles: len(res.Particles),
		Links:     res.Stats.Links,
		Config:    rec.Config,
	}

	if err := writeParticles(filepath.Join(runDir, particlesFile), res.Particles); err != nil {
		return "", err
	}

	if rec.Raster != nil && rec.Raster.Frames() > 0 {
		delay := rec.Delay
		if delay <= 0 {
			delay = 2
		}
		if err := writeFile(filepath.Join(runDir, framesFile), func(w io.Writer) error {
			return rec.Raster.WriteGIF(w, delay)
		}); err != nil {
			return "", err
		}
		meta.HasGIF = true
	}

	if rec.Snapshot != nil {
		if err := writeFile(filepath.Join(runDir, snapshotFile), func(w io.Writer) error {
			_, err := rec.Snapshot.WriteTo(w)
			return err
		}); err != nil {
			return "", err
		}
		meta.HasSVG = true
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	return runID, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeParticles(path string, particles []field.Particle) error {
	return writeFile(path, func(out io.Writer) error {
		w := csv.NewWriter(out)
		if err := w.Write(particleHeader); err != nil {
			return err
		}
		for _, p := range particles {
			row := []string{
				formatFloat(p.X),
				formatFloat(p.Y),
				formatFloat(p.VX),
				formatFloat(p.VY),
				formatFloat(p.Radius),
				strconv.Itoa(p.Color),
				formatFloat(p.Opacity),
				strconv.FormatBool(p.Interactive),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(runID), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadParticles reads the final particle state of a run. Rows that do not
// parse are skipped.
func (s *Store) LoadParticles(runID string) ([]field.Particle, error) {
	file, err := os.Open(filepath.Join(s.Dir(runID), particlesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []field.Particle{}, nil
	}

	particles := make([]field.Particle, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(particleHeader) {
			continue
		}
		var vals [5]float64
		ok := true
		for i := range vals {
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		color, err := strconv.Atoi(record[5])
		if err != nil {
			ok = false
		}
		opacity, err := strconv.ParseFloat(record[6], 64)
		if err != nil {
			ok = false
		}
		interactive, _ := strconv.ParseBool(record[7])
		if !ok {
			continue
		}
		particles = append(particles, field.Particle{
			X: vals[0], Y: vals[1], VX: vals[2], VY: vals[3],
			Radius:      vals[4],
			Color:       color,
			Opacity:     opacity,
			Interactive: interactive,
		})
	}

	return particles, nil
}

// Delete removes a run and everything it recorded.
func (s *Store) Delete(runID string) error {
	dir := s.Dir(runID)
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err != nil {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return os.RemoveAll(dir)
}
