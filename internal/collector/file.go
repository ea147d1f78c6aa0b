package collector

import (
	"context"
	"fmt"
	"os"
)

// FileFetcher reads the dataset CSV from local disk.
type FileFetcher struct {
	Path string
}

func NewFileFetcher(path string) *FileFetcher { return &FileFetcher{Path: path} }

func (f *FileFetcher) Name() string   { return "file" }
func (f *FileFetcher) Source() string { return f.Path }

func (f *FileFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}
	return data, nil
}
