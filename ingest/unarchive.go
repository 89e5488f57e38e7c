package ingest

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
	"github.com/pivolan/go_utils"

	"github.com/pivolan/sales_insights/domain/models"
)

var archiveExtensions = []string{".zip", ".gz", ".lz4"}

// IsArchive reports whether path names a compressed source.
func IsArchive(path string) bool {
	return go_utils.InArray(strings.ToLower(filepath.Ext(path)), archiveExtensions)
}

// ReadFile reads a CSV file, unpacking .zip, .gz and .lz4 archives on the
// fly. A missing file is an I/O error; anything unreadable once opened is a
// DataFormatError.
func ReadFile(path string) (models.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r, err := unpack(f, path)
	if err != nil {
		return models.RawTable{}, err
	}
	defer r.Close()
	return ReadCSV(r, filepath.Base(path))
}

// unpack wraps r in the decompressor matching the extension of name.
func unpack(r io.Reader, name string) (io.ReadCloser, error) {
	if !IsArchive(name) {
		return io.NopCloser(r), nil
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, models.NewDataFormatError(filepath.Base(name), err, "bad gzip archive")
		}
		return gr, nil
	case ".lz4":
		return io.NopCloser(lz4.NewReader(r)), nil
	case ".zip":
		return unpackZip(r, name)
	}
	return io.NopCloser(r), nil
}

// unpackZip opens the largest file in a zip archive.
func unpackZip(r io.Reader, name string) (io.ReadCloser, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, models.NewDataFormatError(filepath.Base(name), err, "bad zip archive")
	}

	var largestFile *zip.File
	var largestSize uint64
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largestFile == nil || f.UncompressedSize64 > largestSize {
			largestFile = f
			largestSize = f.UncompressedSize64
		}
	}
	if largestFile == nil {
		return nil, models.NewDataFormatError(filepath.Base(name), nil, "zip archive has no files")
	}
	rc, err := largestFile.Open()
	if err != nil {
		return nil, models.NewDataFormatError(filepath.Base(name), err, "cannot open %s", largestFile.Name)
	}
	return rc, nil
}
