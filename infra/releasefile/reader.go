package releasefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/kilianp07/releaseplan/core/model"
)

var linePattern = regexp.MustCompile(`^\d+ \d+$`)

// Parse reads one release per line. Each line holds the start day and the
// length separated by a single space, both in [1, model.Horizon]. Releases
// are returned in file order.
func Parse(r io.Reader) ([]model.Release, error) {
	var res []model.Release
	scanner := bufio.NewScanner(r)
	n := 0
	for ; scanner.Scan(); n++ {
		rel, err := parseLine(n, scanner.Text())
		if err != nil {
			return nil, err
		}
		res = append(res, rel)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ValidationError{Line: n, Value: "", Reason: "each line should contain two integers"}
		}
		return nil, err
	}
	return res, nil
}

func parseLine(n int, line string) (model.Release, error) {
	if !linePattern.MatchString(line) {
		return model.Release{}, &ValidationError{Line: n, Value: line, Reason: "each line should contain two integers"}
	}
	dayStr, lengthStr, _ := strings.Cut(line, " ")
	day, err := inRange(dayStr)
	if err != nil {
		return model.Release{}, &ValidationError{Line: n, Value: dayStr, Reason: fmt.Sprintf("the day of a sprint should be in the range 1..%d", model.Horizon)}
	}
	length, err := inRange(lengthStr)
	if err != nil {
		return model.Release{}, &ValidationError{Line: n, Value: lengthStr, Reason: fmt.Sprintf("the release length should be in the range 1..%d", model.Horizon)}
	}
	return model.Release{Day: day, Length: length}, nil
}

func inRange(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 1 || v > model.Horizon {
		return 0, fmt.Errorf("%d out of range", v)
	}
	return v, nil
}

// ReadFile parses the release file at path.
func ReadFile(path string) ([]model.Release, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open releases: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}
