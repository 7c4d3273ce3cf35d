// Package dataset reads package item datasets of the form {"items": [...]}.
//
// Decode materializes the whole dataset; Stream walks the items array one
// element at a time so that very large inputs never have to be held in
// memory at once.
package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzip"

	"docstats/internal/core"
)

const (
	bufferSize = 1 << 16
	// ctxCheckEvery controls how often Stream polls for cancellation.
	ctxCheckEvery = 4096
)

var (
	ErrMissingItems = errors.New(`dataset has no "items" field`)
	// ErrMalformed marks input that cannot be decoded as a dataset.
	ErrMalformed = errors.New("malformed dataset")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Open opens path for reading, gunzipping files that end in .gz.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(bufio.NewReaderSize(f, bufferSize))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip dataset: %w", err)
	}
	return &gzipFile{Reader: zr, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	zerr := g.Reader.Close()
	if err := g.f.Close(); err != nil {
		return err
	}
	return zerr
}

// Decode reads a whole dataset from r.
func Decode(r io.Reader) (core.Dataset, error) {
	var raw struct {
		Items *[]core.Item `json:"items"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return core.Dataset{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if raw.Items == nil {
		return core.Dataset{}, ErrMissingItems
	}
	return core.Dataset{Items: *raw.Items}, nil
}

// Load reads a whole dataset from the file at path.
func Load(path string) (core.Dataset, error) {
	rc, err := Open(path)
	if err != nil {
		return core.Dataset{}, err
	}
	defer rc.Close()
	return Decode(rc)
}

// Stream calls fn for every item in r, in input order, and returns the
// number of items handed to fn. Top-level fields other than "items" are
// skipped; a null "items" counts as missing. Decoding stops at the first error returned by fn.
func Stream(ctx context.Context, r io.Reader, fn func(core.Item) error) (int, error) {
	iter := jsoniter.Parse(json, r, bufferSize)

	var (
		n     int
		found bool
		stop  error
	)
	iter.ReadObjectCB(func(iter *jsoniter.Iterator, field string) bool {
		if field != "items" {
			iter.Skip()
			return true
		}
		if iter.WhatIsNext() == jsoniter.NilValue {
			iter.Skip()
			return true
		}
		found = true
		return iter.ReadArrayCB(func(iter *jsoniter.Iterator) bool {
			if n%ctxCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					stop = err
					return false
				}
			}
			var it core.Item
			iter.ReadVal(&it)
			if iter.Error != nil {
				return false
			}
			if err := fn(it); err != nil {
				stop = err
				return false
			}
			n++
			return true
		})
	})

	if stop != nil {
		return n, stop
	}
	if iter.Error != nil {
		err := iter.Error
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return n, fmt.Errorf("%w: item %d: %w", ErrMalformed, n, err)
	}
	if !found {
		return n, ErrMissingItems
	}
	return n, nil
}

// FileSource streams items from a dataset file.
type FileSource struct {
	Path string
}

func (s FileSource) Each(ctx context.Context, fn func(core.Item) error) (int, error) {
	rc, err := Open(s.Path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	return Stream(ctx, rc, fn)
}
