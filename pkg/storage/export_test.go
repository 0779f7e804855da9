package storage

import "io"

func SetWriteLabel(fn func(w io.Writer, data []byte) (int, error)) (restore func()) {
	previous := writeLabel
	writeLabel = fn

	return func() { writeLabel = previous }
}
