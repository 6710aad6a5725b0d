// Package imaging converts raw browser screenshots into the compact form
// stored on disk: best-compression PNG, optionally downscaled to a
// maximum width.
package imaging
