// Package ephem reads target ephemerides from whitespace-delimited text.
package ephem

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/star/quadplan/internal/apperr"
)

// fieldCount is the number of columns in a row: target_id epoch period duration.
const fieldCount = 4

// Parse reads one target per line from r.
// Blank lines and lines starting with '#' are skipped. Any other malformed row
// aborts the parse with an error wrapping apperr.ErrInvalidEphemeris.
func Parse(r io.Reader, logger *slog.Logger) ([]Target, error) {
	scanner := bufio.NewScanner(r)

	var targets []Target
	seen := make(map[string]int)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		target, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if prev, ok := seen[target.ID]; ok {
			logger.Warn("duplicate target id", "id", target.ID, "line", lineNo, "first_line", prev)
		} else {
			seen[target.ID] = lineNo
		}
		targets = append(targets, target)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ephemeris data: %w", err)
	}

	logger.Debug("parsed ephemerides", "targets", len(targets), "lines", lineNo)
	return targets, nil
}

// ReadFile opens path and parses it with Parse.
func ReadFile(path string, logger *slog.Logger) ([]Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ephemeris file: %w", err)
	}
	defer f.Close()

	targets, err := Parse(f, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return targets, nil
}

func parseRow(line string) (Target, error) {
	fields := strings.Fields(line)
	if len(fields) != fieldCount {
		return Target{}, fmt.Errorf("%w: expected %d fields, got %d", apperr.ErrInvalidEphemeris, fieldCount, len(fields))
	}

	var nums [fieldCount - 1]float64
	for i, name := range []string{"epoch", "period", "duration"} {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return Target{}, fmt.Errorf("%w: invalid %s %q", apperr.ErrInvalidEphemeris, name, fields[i+1])
		}
		nums[i] = v
	}

	t := Target{
		ID:       fields[0],
		Epoch:    nums[0],
		Period:   nums[1],
		Duration: nums[2],
	}
	if err := t.Validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}
