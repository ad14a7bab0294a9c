package scorefile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Triple is one PRI track with its two IGI companions on the same strand.
type Triple struct {
	Primary string
	Aux1    string
	Aux2    string
	Strand  Strand
}

// Name identifies the triple in logs and errors.
func (t Triple) Name() string {
	return filepath.Base(t.Primary)
}

// Files returns the three paths in PRI, IGI, IGI order.
func (t Triple) Files() []string {
	return []string{t.Primary, t.Aux1, t.Aux2}
}

// GroupTriples arranges input paths into triples. Files are classified by
// base name: "PRI" marks a primary track, otherwise "IGI" an auxiliary one;
// "forward" selects the forward strand, anything else the reverse strand.
// The k-th PRI file of a strand is paired with IGI files 2k and 2k+1 of the
// same strand, in argument order. Forward triples come first.
func GroupTriples(paths []string) ([]Triple, error) {
	if len(paths) == 0 || len(paths)%3 != 0 {
		return nil, fmt.Errorf("%w: need (one PRI file, two IGI files) * n, got %d files", ErrGrouping, len(paths))
	}

	pri := map[Strand][]string{}
	igi := map[Strand][]string{}
	for _, p := range paths {
		base := filepath.Base(p)
		strand := StrandOf(base)
		switch {
		case strings.Contains(base, "PRI"):
			pri[strand] = append(pri[strand], p)
		case strings.Contains(base, "IGI"):
			igi[strand] = append(igi[strand], p)
		default:
			return nil, fmt.Errorf("%w: %s is neither a PRI nor an IGI file", ErrGrouping, p)
		}
	}

	var out []Triple
	for _, strand := range []Strand{Forward, Reverse} {
		if len(igi[strand]) != 2*len(pri[strand]) {
			return nil, fmt.Errorf("%w: %s strand has %d PRI and %d IGI files",
				ErrGrouping, strand, len(pri[strand]), len(igi[strand]))
		}
		for k, p := range pri[strand] {
			out = append(out, Triple{
				Primary: p,
				Aux1:    igi[strand][2*k],
				Aux2:    igi[strand][2*k+1],
				Strand:  strand,
			})
		}
	}
	return out, nil
}
