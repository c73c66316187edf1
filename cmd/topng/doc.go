// Command topng converts archived sample volumes (.npz) to grayscale PNG images.
//
// This tool loads a batch of samples of shape (N, H, W, 1) from a NumPy archive
// and renders every slice along the first axis as a grayscale image, numbered
// sample_1.png through sample_N.png. Values are normalized against the range
// of the whole volume, so flat slices keep their level relative to the rest
// of the batch.
//
// Usage:
//
//	topng [flags] [npz_file]
//
// The default input is data/samples.npz and the images land in a png_samples
// directory next to the archive. A YAML file given with -config sets the same
// parameters as the flags, with flags taking precedence.
package main
