// Command tonpz packs a directory of images into a NumPy sample archive (.npz).
//
// This tool walks a directory tree, decodes every JPEG, PNG and GIF image it
// finds, crops each one square, resamples it to a common size and stores the
// grayscale result as a volume of shape (N, size, size, 1) under the arr_0
// key. With -gray=false the images keep their three RGB channels instead.
// With -class-cond the part of each file name before the first underscore
// becomes an integer class label stored under arr_1, and -low-res adds a
// downsampled copy of every sample under low_res, the convention used by
// super-resolution training data.
//
// Usage:
//
//	tonpz [flags] <image_dir>
//
// The output archive will be named <image_dir>.npz unless -o says otherwise.
package main
