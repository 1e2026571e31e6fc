// Package dither converts float samples to integer PCM for export, adding
// optional dither noise and first-order error-feedback noise shaping.
package dither
