// Package selector picks the release windows to ship in a sprint.
//
// Select runs an earliest-finish greedy pass over the candidates: releases
// that cannot fit in the sprint are dropped, the rest are sorted by finish
// day and placed one after the other, each pushed past the previously placed
// release when needed. Explain returns the same selection together with the
// decision taken for every candidate, and FixedOptimum reports the best count
// achievable when no release is moved from its requested day.
package selector
