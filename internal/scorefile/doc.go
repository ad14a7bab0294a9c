// Package scorefile reads per-position score tracks and writes peak files in
// the tab-separated text format produced by the chromosome scanner.
//
// A score track looks like:
//
//	<free-form preamble lines>
//
//	Chromosome: chr1
//	Score: PRI200_60-750_450
//	Strand: forward
//
//	Position	Score
//	1	0.25
//	2	0.31
//	...
//
// Peak files carry the same metadata plus the run parameters, followed by one
// "position<TAB>value" row per merged peak.
package scorefile
