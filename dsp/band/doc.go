// Package band maps equalizer bands given in Hz onto per-bin gains.
//
// A [Band] is a (MinHz, MaxHz, Gain) triple. [Mapper.Gains] turns an ordered
// set of bands into a gain vector for an N-point transform: every bin starts
// at 1, each band writes its gain into the bins it covers and into their
// mirror images above N/2, so the reconstructed signal stays real.
//
// Where bands overlap, the later band wins unless the mapper is built with
// [WithOverlapPolicy](OverlapMultiply). Bands whose range collapses after bin
// conversion are skipped and logged.
package band
