package orrery

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"gopkg.in/yaml.v3"
)

// ExportFormat defines an enum of frame output formats.
type ExportFormat uint8

const (
	// CSV writes one row per body and frame.
	CSV ExportFormat = iota + 1
	// JSON writes one object per body and frame, one per line.
	JSON
	// YAML writes one document per frame.
	YAML
)

func (f ExportFormat) String() string {
	switch f {
	case CSV:
		return "csv"
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	}
	return "unknown(" + strconv.Itoa(int(f)) + ")"
}

// ExportFormatFromString returns the format from its name.
func ExportFormatFromString(name string) (ExportFormat, error) {
	switch strings.ToLower(name) {
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return 0, fmt.Errorf("unknown export format '%s'", name)
	}
}

// Record is the exported state of one body at one epoch. Distances, the body radius
// included, are multiplied by the exporter's scale. Positions are absolute while the
// curve fields describe the orbit around the parent.
type Record struct {
	Name        string    `json:"name" yaml:"name"`
	Parent      string    `json:"parent,omitempty" yaml:"parent,omitempty"`
	Radius      float64   `json:"radius" yaml:"radius"`
	Epoch       float64   `json:"epoch" yaml:"epoch"`
	JDE         float64   `json:"jde" yaml:"jde"`
	Date        time.Time `json:"date" yaml:"date"`
	Position    []float64 `json:"position,omitempty" yaml:"position,omitempty"`
	Center      float64   `json:"center" yaml:"center"`
	Major       float64   `json:"major" yaml:"major"`
	Minor       float64   `json:"minor" yaml:"minor"`
	Inclination float64   `json:"inclination" yaml:"inclination"`
	Node        float64   `json:"node" yaml:"node"`
	ArgPer      float64   `json:"argPeriapsis" yaml:"argPeriapsis"`
	Samples     int       `json:"samples" yaml:"samples"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
}

var csvHeader = []string{"name", "epoch", "jde", "date", "x", "y", "z", "center", "major", "minor", "inclination", "node", "argPeriapsis", "samples", "parent", "radius", "error"}

// Exporter writes frames to an io.Writer.
type Exporter struct {
	format      ExportFormat
	scale       float64
	csv         *csv.Writer
	json        *json.Encoder
	yaml        *yaml.Encoder
	wroteHeader bool
}

// NewExporter returns an exporter writing to w. A non positive scale is treated as 1.
func NewExporter(w io.Writer, format ExportFormat, scale float64) (*Exporter, error) {
	if !(scale > 0) {
		scale = 1
	}
	e := &Exporter{format: format, scale: scale}
	switch format {
	case CSV:
		e.csv = csv.NewWriter(w)
	case JSON:
		e.json = json.NewEncoder(w)
	case YAML:
		e.yaml = yaml.NewEncoder(w)
	default:
		return nil, fmt.Errorf("cannot export to %s", format)
	}
	return e, nil
}

// Records converts a frame into scaled records. Bodies which failed only carry their
// name, epoch and error.
func (e *Exporter) Records(f Frame) []Record {
	jde := J2000 + f.Epoch/DaysToCenturies
	dt := julian.JDToTime(jde).UTC()
	records := make([]Record, len(f.Bodies))
	for i, b := range f.Bodies {
		r := Record{Name: b.Name, Parent: b.Parent, Radius: b.Radius * e.scale, Epoch: f.Epoch, JDE: jde, Date: dt}
		if b.Err != nil {
			// The curve of a body which failed may hold NaNs, which JSON cannot encode.
			r.Error = b.Err.Error()
			records[i] = r
			continue
		}
		p := b.Position.Scale(e.scale)
		r.Position = p[:]
		r.Center = b.Curve.CenterOffset * e.scale
		r.Major = b.Curve.MajorRadius * e.scale
		r.Minor = b.Curve.MinorRadius * e.scale
		r.Inclination = b.Curve.Inclination
		r.Node = b.Curve.Node
		r.ArgPer = b.Curve.ArgPer
		r.Samples = b.Curve.SampleCount
		records[i] = r
	}
	return records
}

// Write exports one frame.
func (e *Exporter) Write(f Frame) error {
	records := e.Records(f)
	switch e.format {
	case JSON:
		for _, r := range records {
			if err := e.json.Encode(r); err != nil {
				return err
			}
		}
		return nil
	case YAML:
		return e.yaml.Encode(records)
	}
	if !e.wroteHeader {
		if err := e.csv.Write(csvHeader); err != nil {
			return err
		}
		e.wroteHeader = true
	}
	for _, r := range records {
		if err := e.csv.Write(r.csvRow()); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data and returns the first write error.
func (e *Exporter) Flush() error {
	switch e.format {
	case CSV:
		e.csv.Flush()
		return e.csv.Error()
	case YAML:
		return e.yaml.Close()
	}
	return nil
}

func (r Record) csvRow() []string {
	f := func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	x, y, z := "", "", ""
	if len(r.Position) == 3 {
		x, y, z = f(r.Position[0]), f(r.Position[1]), f(r.Position[2])
	}
	return []string{r.Name, f(r.Epoch), f(r.JDE), r.Date.Format(time.RFC3339), x, y, z,
		f(r.Center), f(r.Major), f(r.Minor), f(r.Inclination), f(r.Node), f(r.ArgPer),
		strconv.Itoa(r.Samples), r.Parent, f(r.Radius), r.Error}
}
