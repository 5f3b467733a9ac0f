package gochart

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// pngChart is an encoded PNG held in memory.
type pngChart struct {
	data []byte
}

func (c *pngChart) Save(path string) error {
	if err := os.WriteFile(path, c.data, 0o644); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

func (c *pngChart) WriteTo(w io.Writer) (int64, error) {
	return bytes.NewReader(c.data).WriteTo(w)
}

func (c *pngChart) ContentType() string { return "image/png" }
