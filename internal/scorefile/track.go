package scorefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Strand is the DNA strand a track was scored on.
type Strand string

const (
	Forward Strand = "forward"
	Reverse Strand = "reverse"
)

// StrandOf classifies a file name: anything mentioning "forward" is the
// forward strand, everything else is reverse.
func StrandOf(name string) Strand {
	if strings.Contains(name, string(Forward)) {
		return Forward
	}
	return Reverse
}

// Track is a dense score sequence starting at Start.
type Track struct {
	Chromosome string
	Score      string
	Strand     Strand
	Start      int
	Values     []float64
	// Source is the file the track was read from, if any.
	Source string
}

// Len returns the number of samples.
func (t *Track) Len() int {
	return len(t.Values)
}

// End returns the position one past the last sample.
func (t *Track) End() int {
	return t.Start + len(t.Values)
}

var chromPattern = regexp.MustCompile(`([cC]hr\d+)`)

const (
	chromosomePrefix = "Chromosome:"
	scorePrefix      = "Score:"
	strandPrefix     = "Strand:"
	columnHeader     = "Position\tScore"
)

// ReadTrackFile opens path and parses it with ReadTrack.
func ReadTrackFile(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scorefile: open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTrack(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Source = path
	return t, nil
}

// ReadTrack parses a score track. Metadata lines are recognised by prefix
// anywhere before the first data row; a data row is any line starting with
// a digit. Positions must be consecutive.
func ReadTrack(r io.Reader) (*Track, error) {
	t := &Track{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")

		if line == "" || !isDigit(line[0]) {
			if len(t.Values) == 0 {
				parseMeta(t, line)
			}
			continue
		}

		pos, val, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, lineNo, err)
		}
		if len(t.Values) == 0 {
			t.Start = pos
		} else if want := t.End(); pos != want {
			return nil, fmt.Errorf("%w: line %d: position %d, expected %d", ErrMalformed, lineNo, pos, want)
		}
		t.Values = append(t.Values, val)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scorefile: read: %w", err)
	}
	if len(t.Values) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrMalformed)
	}
	return t, nil
}

func parseMeta(t *Track, line string) {
	switch {
	case strings.HasPrefix(line, chromosomePrefix):
		rest := strings.TrimSpace(strings.TrimPrefix(line, chromosomePrefix))
		if m := chromPattern.FindString(rest); m != "" {
			t.Chromosome = m
		} else {
			t.Chromosome = rest
		}
	case strings.HasPrefix(line, scorePrefix):
		t.Score = strings.TrimSpace(strings.TrimPrefix(line, scorePrefix))
	case strings.HasPrefix(line, strandPrefix):
		t.Strand = Strand(strings.TrimSpace(strings.TrimPrefix(line, strandPrefix)))
	}
}

func parseRow(line string) (int, float64, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("want 2 columns, got %d", len(fields))
	}
	pos, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	val, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, err
	}
	return pos, val, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// WriteTrack writes t in score-file format, preceded by the preamble lines.
func WriteTrack(w io.Writer, t *Track, preamble ...string) error {
	bw := bufio.NewWriter(w)
	for _, p := range preamble {
		fmt.Fprintln(bw, p)
	}
	fmt.Fprintf(bw, "\n%s %s\n", chromosomePrefix, t.Chromosome)
	fmt.Fprintf(bw, "%s %s\n", scorePrefix, t.Score)
	fmt.Fprintf(bw, "%s %s\n", strandPrefix, t.Strand)
	fmt.Fprintf(bw, "\n%s\n", columnHeader)
	for i, v := range t.Values {
		writeRow(bw, t.Start+i, v)
	}
	return bw.Flush()
}

func writeRow(w *bufio.Writer, pos int, v float64) {
	w.WriteString(strconv.Itoa(pos))
	w.WriteByte('\t')
	w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	w.WriteByte('\n')
}
