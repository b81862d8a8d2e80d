// Package analysis reduces result sets to comparable metrics.
//
// This is the aggregation core of the study: given two result sources it
// computes detection and survival rates, the signed deltas between them,
// and the qualitative direction of the change. Three comparisons build on
// the same base:
//
//   - CompareRuns: any two rounds, metric deltas only
//   - CompareApproaches: a traditional tool round against a suggester
//     pass, including the fixed advantages/limitations study sections
//   - CompareRounds: two rounds of the same project, with per-mutant
//     diffing (newly detected, still surviving, introduced, resolved)
//
// All rates are fractions in [0, 1]; percent formatting belongs to the
// report writers.
package analysis
