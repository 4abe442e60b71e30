package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/vincenzocorso/forest-fire-simulation/internal/factors"
)

// File names inside a scenario directory.
const (
	ManifestFile       = "scenario.toml"
	SpreadFile         = "spread_component.csv"
	ElevationFile      = "elevation.csv"
	BurnedFile         = "burned_mask.csv"
	WindFile           = "wind.csv"
	StartingPointsFile = "starting_points.csv"
	StartingDayFile    = "starting_day.csv"
	RainDir            = "rain"
)

// Manifest is the optional scenario.toml. Values present there win over the
// legacy starting_day.csv and starting_points.csv files.
type Manifest struct {
	Name        string     `toml:"name"`
	StartDay    *int       `toml:"start_day"`
	StepsPerDay int        `toml:"steps_per_day"`
	Ignitions   []Ignition `toml:"ignition"`
}

// Loader reads a scenario directory.
type Loader struct {
	Dir string
	Log logrus.FieldLogger
}

// NewLoader returns a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir, Log: logrus.StandardLogger()}
}

func (l *Loader) path(parts ...string) string {
	return filepath.Join(append([]string{l.Dir}, parts...)...)
}

// Load reads every static input of the scenario.
func (l *Loader) Load() (*Scenario, error) {
	man, err := l.manifest()
	if err != nil {
		return nil, err
	}
	sc := &Scenario{
		Name:        man.Name,
		StepsPerDay: man.StepsPerDay,
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(l.Dir)
	}
	if sc.StepsPerDay <= 0 {
		sc.StepsPerDay = DefaultStepsPerDay
	}

	if sc.RateOfSpread, err = ReadMatrixFile(l.path(SpreadFile)); err != nil {
		return nil, err
	}
	sc.Height, sc.Width = sc.RateOfSpread.Dims()

	if sc.Elevation, err = ReadMatrixFile(l.path(ElevationFile)); err != nil {
		return nil, err
	}
	if err := sameShape(ElevationFile, sc.Elevation, sc.Height, sc.Width); err != nil {
		return nil, err
	}

	burned, err := ReadMatrixFile(l.path(BurnedFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		l.Log.WithField("scenario", sc.Name).Debug("no burned mask; scoring disabled")
	case err != nil:
		return nil, err
	default:
		if err := sameShape(BurnedFile, burned, sc.Height, sc.Width); err != nil {
			return nil, err
		}
		sc.Burned = burned
	}

	if sc.Weather, err = l.weather(); err != nil {
		return nil, err
	}

	if man.StartDay != nil {
		sc.StartDay = *man.StartDay
	} else if sc.StartDay, err = l.startingDay(); err != nil {
		return nil, err
	}

	sc.Ignitions = man.Ignitions
	if len(sc.Ignitions) == 0 {
		if sc.Ignitions, err = l.startingPoints(); err != nil {
			return nil, err
		}
	}

	l.Log.WithFields(logrus.Fields{
		"scenario":  sc.Name,
		"width":     sc.Width,
		"height":    sc.Height,
		"start_day": sc.StartDay,
		"ignitions": len(sc.Ignitions),
		"weather":   len(sc.Weather),
	}).Info("scenario loaded")
	return sc, nil
}

// HasRain reports whether the scenario carries a rain directory.
func (l *Loader) HasRain() bool {
	fi, err := os.Stat(l.path(RainDir))
	return err == nil && fi.IsDir()
}

// LoadRain reads rain/rain<day>.csv.
func (l *Loader) LoadRain(day int) (mat.Matrix, error) {
	m, err := ReadMatrixFile(l.path(RainDir, fmt.Sprintf("rain%d.csv", day)))
	if err != nil {
		return nil, err
	}
	l.Log.WithField("day", day).Debug("rain loaded")
	return m, nil
}

func (l *Loader) manifest() (Manifest, error) {
	var man Manifest
	_, err := toml.DecodeFile(l.path(ManifestFile), &man)
	if errors.Is(err, fs.ErrNotExist) {
		return man, nil
	}
	if err != nil {
		return man, fmt.Errorf("data: reading %s: %w", ManifestFile, err)
	}
	return man, nil
}

func (l *Loader) weather() ([]factors.WeatherRow, error) {
	m, err := ReadMatrixFile(l.path(WindFile))
	if err != nil {
		return nil, err
	}
	rows, cols := m.Dims()
	if cols < 3 {
		return nil, fmt.Errorf("data: %s needs gust,sustained,angle columns, got %d", WindFile, cols)
	}
	out := make([]factors.WeatherRow, rows)
	for i := range out {
		out[i] = factors.WeatherRow{GustKmh: m.At(i, 0), SustainedKmh: m.At(i, 1), AngleDeg: m.At(i, 2)}
	}
	return out, nil
}

func (l *Loader) startingDay() (int, error) {
	b, err := os.ReadFile(l.path(StartingDayFile))
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	day, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("data: %s: %w", StartingDayFile, err)
	}
	return day, nil
}

func (l *Loader) startingPoints() ([]Ignition, error) {
	f, err := os.Open(l.path(StartingPointsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadIgnitions(f)
}

// ReadIgnitions parses x,y,radius,name records.
func ReadIgnitions(r io.Reader) ([]Ignition, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	var out []Ignition
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("data: starting points line %d: %w", line, err)
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("data: starting points line %d: want x,y,radius[,name], got %d fields", line, len(rec))
		}
		var ig Ignition
		vals := []*float64{&ig.X, &ig.Y, &ig.Radius}
		for i, p := range vals {
			if *p, err = strconv.ParseFloat(strings.TrimSpace(rec[i]), 64); err != nil {
				return nil, fmt.Errorf("data: starting points line %d field %d: %w", line, i+1, err)
			}
		}
		if len(rec) > 3 {
			ig.Name = strings.TrimSpace(rec[3])
		}
		out = append(out, ig)
	}
}

// ReadMatrixFile reads a comma separated numeric matrix from path.
func ReadMatrixFile(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ReadMatrix(f)
	if err != nil {
		return nil, fmt.Errorf("data: %s: %w", filepath.Base(path), err)
	}
	return m, nil
}

// ReadMatrix parses a rectangular comma separated numeric matrix.
func ReadMatrix(r io.Reader) (*mat.Dense, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	var vals []float64
	rows, cols := 0, 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			cols = len(rec)
		}
		for i, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", rows+1, i+1, err)
			}
			vals = append(vals, v)
		}
		rows++
	}
	if rows == 0 || cols == 0 {
		return nil, errors.New("empty matrix")
	}
	return mat.NewDense(rows, cols, vals), nil
}

func sameShape(name string, m mat.Matrix, rows, cols int) error {
	r, c := m.Dims()
	if r != rows || c != cols {
		return fmt.Errorf("data: %s is %dx%d, want %dx%d", name, r, c, rows, cols)
	}
	return nil
}
