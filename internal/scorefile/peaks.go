package scorefile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cwbudde/algo-sgpeak/dsp/peak"
)

// Header is the metadata block of a peak file.
type Header struct {
	// Provenance lines are written first, one per line.
	Provenance []string

	Chromosome string
	Score      string
	Strand     Strand

	Config peak.Config
}

// PeakFileName returns the output file name for a chromosome and strand.
func PeakFileName(chrom string, strand Strand) string {
	return fmt.Sprintf("%s_peak_%s.txt", chrom, strand)
}

// WritePeaks writes h followed by one row per peak.
func WritePeaks(w io.Writer, h Header, peaks []peak.Peak) error {
	bw := bufio.NewWriter(w)
	for _, p := range h.Provenance {
		fmt.Fprintln(bw, p)
	}
	fmt.Fprintf(bw, "\n%s %s\n", chromosomePrefix, h.Chromosome)
	fmt.Fprintf(bw, "%s %s\n", scorePrefix, h.Score)
	fmt.Fprintf(bw, "%s %s\n", strandPrefix, h.Strand)
	fmt.Fprintf(bw, "Window Size: %d\n", h.Config.Window)
	fmt.Fprintf(bw, "Degree: %d\n", h.Config.Degree)
	fmt.Fprintf(bw, "PRI threshold: %s\n", formatFloat(h.Config.PrimaryThreshold))
	fmt.Fprintf(bw, "IGI threshold: %s\n", formatFloat(h.Config.AuxThreshold))
	fmt.Fprintf(bw, "Peak Integration: %d\n", h.Config.MergeWindow)
	fmt.Fprintf(bw, "\n%s\n", columnHeader)
	for _, p := range peaks {
		writeRow(bw, p.Position, p.Value)
	}
	return bw.Flush()
}

// WritePeakFile writes a peak file to path. The content goes to a temporary
// file in the same directory that is renamed over path on success, so a
// failed run never leaves a truncated file behind.
func WritePeakFile(path string, h Header, peaks []peak.Peak) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("scorefile: create %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = WritePeaks(tmp, h, peaks); err != nil {
		return fmt.Errorf("scorefile: write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("scorefile: close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("scorefile: rename %s: %w", path, err)
	}
	return nil
}

// ReadPeaks parses the rows of a peak file written by WritePeaks.
func ReadPeaks(r io.Reader) ([]peak.Peak, error) {
	var out []peak.Peak
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" || !isDigit(line[0]) {
			continue
		}
		pos, val, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, lineNo, err)
		}
		out = append(out, peak.Peak{Position: pos, Value: val})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scorefile: read: %w", err)
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
