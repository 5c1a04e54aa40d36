//go:build !cgo

package backend

const cgoEnabled = false
