package repository

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"cityaqi/internal/modules/aqi/transform"
	"cityaqi/internal/modules/aqi/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var ErrEmptyFile = errors.New("empty data file")

// ReadTable reads the raw wide table from r without modifying any cell.
// Rows shorter than the header are padded with empty cells; longer rows are
// an error. A header-only file yields a table with zero rows.
func ReadTable(r io.Reader) (dataframe.DataFrame, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return dataframe.DataFrame{}, err
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("read csv: %w", ErrEmptyFile)
	}

	header := records[0]
	for i := 1; i < len(records); i++ {
		n := len(records[i])
		if n > len(header) {
			return dataframe.DataFrame{}, fmt.Errorf("read csv: row %d: %d fields, header has %d", i, n, len(header))
		}
		for ; n < len(header); n++ {
			records[i] = append(records[i], "")
		}
	}
	if len(records) == 1 {
		return emptyTable(header)
	}

	df := dataframe.LoadRecords(records, transform.TableOptions()...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv: %w", df.Err)
	}
	return df, nil
}

func emptyTable(header []string) (dataframe.DataFrame, error) {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv: %w", df.Err)
	}
	return df, nil
}

// LoadFile reads the CSV at path and runs the transform pipeline over it.
func LoadFile(path string) (*types.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("close data file", "path", path, "error", err)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}

	raw, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	readings, err := transform.Readings(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &types.Dataset{
		Source:   path,
		ModTime:  info.ModTime(),
		LoadedAt: time.Now().UTC(),
		Readings: readings,
		Cities:   transform.Cities(readings),
	}, nil
}
