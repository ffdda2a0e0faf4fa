package utils

// BLASImplementation names the BLAS backing gonum's dense kernels; builds tagged netlib switch it to OpenBLAS.
var BLASImplementation = "gonum"
