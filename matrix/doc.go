// Package matrix provides uniform row-wise access to genes × cells
// expression matrices regardless of their backing store.
//
// Dense matrices are backed by a flat float64 slice and interoperate with
// gonum (Dense implements mat.Matrix). Sparse matrices wrap a CSR matrix
// from github.com/james-bowman/sparse; reads densify one row at a time.
//
// Readers hand out dense per-row buffers so that numeric code never needs
// to know whether the backing store is dense or sparse.
package matrix
