package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// evalLog appends one row per evaluation to optimize_log.csv. The columns
// depend on the tuned parameters and the seed list, so rows are built by
// hand instead of from a tagged struct.
type evalLog struct {
	file *os.File
	w    *csv.Writer
}

func newEvalLog(path string, params *ParamVector, seeds []int64) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}

	header := []string{"eval", "fitness", "quality", "mean_survival_ticks"}
	for _, seed := range seeds {
		header = append(header, fmt.Sprintf("survival_seed_%d", seed))
	}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}

	l := &evalLog{file: f, w: csv.NewWriter(f)}
	if err := l.write(header); err != nil {
		f.Close()
		return nil, err
	}
	return l, nil
}

// Append records evaluation n with the clamped parameter values it ran with.
func (l *evalLog) Append(n int, e Evaluation, values []float64) error {
	row := []string{
		strconv.Itoa(n),
		strconv.FormatFloat(e.Fitness, 'f', 3, 64),
		strconv.FormatFloat(e.Quality, 'f', 4, 64),
		strconv.FormatFloat(e.MeanSurvivalTicks(), 'f', 1, 64),
	}
	for _, s := range e.Seeds {
		row = append(row, strconv.FormatUint(s.SurvivalTicks, 10))
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'g', 8, 64))
	}
	return l.write(row)
}

func (l *evalLog) write(row []string) error {
	if err := l.w.Write(row); err != nil {
		return err
	}
	// Flushed per row so a long run can be followed with tail.
	l.w.Flush()
	return l.w.Error()
}

func (l *evalLog) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}
