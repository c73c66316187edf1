// Package raster renders numeric sample volumes as grayscale images.
//
// This package turns arrays of shape (N, H, W, 1), as produced by batch
// samplers and stored in .npz archives, into image files. It supports:
//   - Rendering each slice along the first axis as a grayscale PNG
//   - Contact sheets that tile every slice into one grid image
//   - Animations over the first axis (animated GIF, APNG, motion-JPEG AVI)
//   - Building sample volumes back from directories of ordinary images
package raster
