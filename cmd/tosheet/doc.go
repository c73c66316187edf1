// Command tosheet tiles an archived sample volume (.npz) into one contact sheet.
//
// This tool loads a batch of samples of shape (N, H, W, 1) from a NumPy
// archive and renders every slice into a single grid image for quick visual
// inspection, row by row in batch order. Cells past the last sample stay
// black.
//
// Usage:
//
//	tosheet [flags] <npz_file>
//
// The output PNG file will be named <npz_file>.sheet.png unless -o says
// otherwise.
package main
