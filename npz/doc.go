// Package npz reads and writes NumPy array files (.npy) and archives (.npz).
//
// This package implements the subset of the NPY format that batch-sample
// archives in practice contain. It supports:
//   - Reading .npz archives (ZIP containers of .npy members) and bare .npy files
//   - NPY header versions 1.0 and 2.0, C and Fortran element order
//   - Integer, float and bool dtypes, including half precision (f2)
//   - Writing archives stored (savez convention) or deflated (savez_compressed)
package npz
