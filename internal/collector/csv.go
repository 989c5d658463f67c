package collector

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"RiskSentinel/internal/model"
)

// CSVSource replays samples from a timestamp,price,volume file. The header
// row is optional. Timestamps are RFC3339 or unix seconds.
type CSVSource struct {
	path    string
	samples []model.PatternSample
	i       int
}

// NewCSVSource reads the whole file up front.
func NewCSVSource(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open series csv: %w", err)
	}
	defer f.Close()

	samples, err := ReadSamples(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &CSVSource{path: path, samples: samples}, nil
}

func (c *CSVSource) Name() string { return "csv:" + c.path }

func (c *CSVSource) Next(ctx context.Context) (model.PatternSample, error) {
	if err := ctx.Err(); err != nil {
		return model.PatternSample{}, err
	}
	if c.i >= len(c.samples) {
		return model.PatternSample{}, io.EOF
	}
	s := c.samples[c.i]
	c.i++
	return s, nil
}

// ReadSamples parses timestamp,price,volume rows.
func ReadSamples(r io.Reader) ([]model.PatternSample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	var out []model.PatternSample
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && strings.EqualFold(rec[0], "timestamp") {
			continue
		}
		s, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, s)
	}
}

func parseRecord(rec []string) (model.PatternSample, error) {
	ts, err := parseTimestamp(rec[0])
	if err != nil {
		return model.PatternSample{}, err
	}
	price, err := strconv.ParseFloat(rec[1], 64)
	if err != nil {
		return model.PatternSample{}, fmt.Errorf("price: %w", err)
	}
	volume, err := strconv.ParseFloat(rec[2], 64)
	if err != nil {
		return model.PatternSample{}, fmt.Errorf("volume: %w", err)
	}
	return model.PatternSample{Timestamp: ts, Price: price, Volume: volume}, nil
}

func parseTimestamp(v string) (time.Time, error) {
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", v, err)
	}
	return ts, nil
}
