// Command toanim renders an archived sample volume (.npz) as a flipbook animation.
//
// This tool loads a batch of samples of shape (N, H, W, 1) from a NumPy
// archive and plays the slices back as frames. The container comes from the
// output file extension:
//
//	.gif  animated GIF (256 gray levels)
//	.png  animated PNG
//	.avi  motion JPEG
//
// Usage:
//
//	toanim [flags] <npz_file>
//
// The output file will be named <npz_file>.gif unless -o says otherwise.
package main
