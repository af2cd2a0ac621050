package timedataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingColumn = errors.New("column not found in header")
	ErrNoCSVData     = errors.New("no parseable rows in csv input")
)

// CSVOptions configures how tabular input is mapped into a TimeDataset.
type CSVOptions struct {
	TimeColumn  string
	ValueColumn string
	KeyColumn   string
	TimeFormat  string
	Comma       rune

	// MissingMarkers are cell values treated as explicit NaN observations,
	// e.g. "NA" or an empty cell.
	MissingMarkers []string
}

// NewDefaultCSVOptions returns the options used when none are provided.
func NewDefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		TimeColumn:     "ds",
		ValueColumn:    "y",
		KeyColumn:      "",
		TimeFormat:     "2006-01-02",
		Comma:          ',',
		MissingMarkers: []string{"", "NA", "NaN", "null"},
	}
}

func (o *CSVOptions) isMissing(cell string) bool {
	for _, marker := range o.MissingMarkers {
		if cell == marker {
			return true
		}
	}
	return false
}

// LoadCSV reads a headered csv file into a single TimeDataset.
func LoadCSV(path string, opt *CSVOptions) (*TimeDataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadCSVFromReader(file, opt)
}

// LoadCSVFromReader reads headered csv content into a single TimeDataset.
func LoadCSVFromReader(r io.Reader, opt *CSVOptions) (*TimeDataset, error) {
	collection, err := loadCSV(r, opt, false)
	if err != nil {
		return nil, err
	}
	return collection.datasets[""], nil
}

// LoadGroupedCSV reads a headered csv file into a Collection keyed by the
// configured key column.
func LoadGroupedCSV(path string, opt *CSVOptions) (*Collection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadGroupedCSVFromReader(file, opt)
}

// LoadGroupedCSVFromReader reads headered csv content into a Collection.
func LoadGroupedCSVFromReader(r io.Reader, opt *CSVOptions) (*Collection, error) {
	return loadCSV(r, opt, true)
}

func loadCSV(r io.Reader, opt *CSVOptions, grouped bool) (*Collection, error) {
	if opt == nil {
		opt = NewDefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	if opt.Comma != 0 {
		reader.Comma = opt.Comma
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to read csv header, %w", err)
	}

	timeIdx, valueIdx, keyIdx := -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case opt.TimeColumn:
			timeIdx = i
		case opt.ValueColumn:
			valueIdx = i
		case opt.KeyColumn:
			if opt.KeyColumn != "" {
				keyIdx = i
			}
		}
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("time column %q, %w", opt.TimeColumn, ErrMissingColumn)
	}
	if valueIdx < 0 {
		return nil, fmt.Errorf("value column %q, %w", opt.ValueColumn, ErrMissingColumn)
	}
	if grouped && keyIdx < 0 {
		return nil, fmt.Errorf("key column %q, %w", opt.KeyColumn, ErrMissingColumn)
	}

	tByKey := make(map[string][]time.Time)
	yByKey := make(map[string][]float64)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to read csv row, %w", err)
		}

		var key string
		if keyIdx >= 0 {
			key = strings.TrimSpace(record[keyIdx])
		}

		ts, err := time.Parse(opt.TimeFormat, strings.TrimSpace(record[timeIdx]))
		if err != nil {
			return nil, fmt.Errorf("unable to parse time %q, %w", record[timeIdx], err)
		}

		cell := strings.TrimSpace(record[valueIdx])
		val := math.NaN()
		if !opt.isMissing(cell) {
			val, err = strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("unable to parse value %q, %w", cell, err)
			}
		}

		tByKey[key] = append(tByKey[key], ts)
		yByKey[key] = append(yByKey[key], val)
	}
	if len(tByKey) == 0 {
		return nil, ErrNoCSVData
	}

	collection := NewCollection()
	for key, t := range tByKey {
		td, err := NewUnivariateDataset(t, yByKey[key])
		if err != nil {
			return nil, fmt.Errorf("invalid series for key %q, %w", key, err)
		}
		collection.Set(key, td)
	}
	return collection, nil
}

// SaveCSV writes the dataset as a two column headered csv file.
func (td *TimeDataset) SaveCSV(path string, opt *CSVOptions) error {
	if opt == nil {
		opt = NewDefaultCSVOptions()
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if opt.Comma != 0 {
		w.Comma = opt.Comma
	}
	if err := w.Write([]string{opt.TimeColumn, opt.ValueColumn}); err != nil {
		return err
	}
	for i := 0; i < td.Len(); i++ {
		val := strconv.FormatFloat(td.Y[i], 'f', -1, 64)
		if math.IsNaN(td.Y[i]) {
			val = "NA"
		}
		if err := w.Write([]string{td.T[i].Format(opt.TimeFormat), val}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
