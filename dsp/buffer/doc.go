// Package buffer pools the fixed-size scratch frames used by framed
// spectral analysis, so repeated analyses of long signals do not allocate
// a transform buffer per worker and call.
package buffer
