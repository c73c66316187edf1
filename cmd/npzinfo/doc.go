// Command npzinfo inspects NumPy archives (.npz) and arrays (.npy).
//
// This tool prints the shape, dtype and element count of every array in an
// archive. It can also summarize the value distribution, plot an intensity
// histogram, or draw a quick braille preview of one slice straight into the
// terminal.
//
// Usage:
//
//	npzinfo [flags] <npz_file>
//
// Examples:
//
//	npzinfo samples.npz
//	npzinfo -stats samples.npz
//	npzinfo -hist hist.png samples.npz
//	npzinfo -preview 0 samples.npz
package main
