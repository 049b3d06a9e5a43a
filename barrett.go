/*
Package barrett is a pure Go implementation of Barrett reduction modulo the ML-KEM/Kyber prime q = 3329.

The reduction itself lives in the ring package, which exposes a branch-free multiply-shift-subtract
primitive together with an optional canonicalization step. The harness package enumerates the full
non-negative 16-bit domain and compares the primitive against the true modulo operation.
*/
package barrett
