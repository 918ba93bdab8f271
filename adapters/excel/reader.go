package excel

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"hypotest/domain/core"
	"hypotest/domain/stats"
	"hypotest/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader reads a baseline column and an enhanced column from CSV,
// whitespace-separated text or an Excel workbook.
type DataReader struct {
	config ReaderConfig
	logger *internal.Logger
	stdin  io.Reader
}

// NewDataReader creates a reader for the given config
func NewDataReader(config ReaderConfig) *DataReader {
	if config.Format == "" {
		config.Format = FormatFromPath(config.FilePath)
	}
	logger := config.Logger
	if logger == nil {
		logger = internal.NewDiscardLogger()
	}
	return &DataReader{config: config, logger: logger, stdin: os.Stdin}
}

// ReadSamples implements ports.SampleReader
func (r *DataReader) ReadSamples(ctx context.Context) (stats.SamplePair, error) {
	if err := ctx.Err(); err != nil {
		return stats.SamplePair{}, err
	}

	src, closeFn, err := r.open()
	if err != nil {
		return stats.SamplePair{}, err
	}
	defer closeFn()

	startTime := time.Now()
	var rows [][]string
	switch r.config.Format {
	case FormatCSV:
		rows, err = readCSVRows(src)
	case FormatLines:
		rows, err = readLineRows(src)
	case FormatXLSX:
		rows, err = r.readExcelRows(src)
	default:
		return stats.SamplePair{}, fmt.Errorf("unsupported file type: %s", r.config.Format)
	}
	if err != nil {
		return stats.SamplePair{}, err
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d rows)", r.config.FilePath,
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	pair, err := processRows(rows)
	if err != nil {
		return stats.SamplePair{}, fmt.Errorf("%s: %w", r.config.FilePath, err)
	}
	pair.Name = r.config.Name
	if pair.Name == "" {
		pair.Name = r.config.FilePath
	}
	return pair, nil
}

func (r *DataReader) open() (io.Reader, func(), error) {
	if r.config.FilePath == "-" {
		return r.stdin, func() {}, nil
	}
	file, err := os.Open(r.config.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(string(r.config.Format)), r.config.FilePath)
		}
		return nil, nil, fmt.Errorf("failed to open %s: %w", r.config.FilePath, err)
	}
	return file, func() { file.Close() }, nil
}

func readCSVRows(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed CSV: %v", core.ErrInvalidInput, err)
	}
	return rows, nil
}

// readLineRows splits each line on whitespace. A "-" field stands for a
// blank cell so the shorter column can end early.
func readLineRows(src io.Reader) ([][]string, error) {
	var rows [][]string
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		for i, f := range fields {
			if f == blankCell {
				fields[i] = ""
			}
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}
	return rows, nil
}

// readExcelRows reads the configured sheet, or the first one
func (r *DataReader) readExcelRows(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrInvalidInput)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// processRows converts raw rows into two columns. The first row is a header
// when neither of its first two cells is numeric. Each column may end early,
// but a value after a blank cell in the same column is rejected.
func processRows(rows [][]string) (stats.SamplePair, error) {
	var pair stats.SamplePair
	if len(rows) == 0 {
		return pair, fmt.Errorf("%w: no rows", core.ErrInvalidInput)
	}

	start := 0
	if isHeader(rows[0]) {
		start = 1
	}

	columns := [2]*[]float64{&pair.Baseline, &pair.Enhanced}
	ended := [2]int{}
	for i := start; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1
		if blankRow(row) {
			continue
		}
		for c := 0; c < 2; c++ {
			cell := ""
			if c < len(row) {
				cell = strings.TrimSpace(row[c])
			}
			if cell == "" {
				if ended[c] == 0 {
					ended[c] = rowNum
				}
				continue
			}
			if ended[c] != 0 {
				return pair, core.NewInvalidInputError(cellName(rowNum, c),
					fmt.Sprintf("value %q follows a blank cell at row %d", cell, ended[c]))
			}
			v, err := parseCell(cell)
			if err != nil {
				return pair, core.NewInvalidInputError(cellName(rowNum, c), err.Error())
			}
			*columns[c] = append(*columns[c], v)
		}
	}
	return pair, nil
}

func parseCell(cell string) (float64, error) {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-numeric value %q", cell)
	}
	return v, nil
}

func isHeader(row []string) bool {
	numeric := 0
	for c := 0; c < 2 && c < len(row); c++ {
		if _, err := parseCell(strings.TrimSpace(row[c])); err == nil {
			numeric++
		}
	}
	return numeric == 0 && !blankRow(row)
}

func blankRow(row []string) bool {
	for c := 0; c < 2 && c < len(row); c++ {
		if strings.TrimSpace(row[c]) != "" {
			return false
		}
	}
	return true
}

func cellName(row, col int) string {
	return fmt.Sprintf("row %d column %d", row, col+1)
}
