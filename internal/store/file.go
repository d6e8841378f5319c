// Package store persists the plate document as a YAML file.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"platenav/internal/plate"
)

// File keeps the live document in memory and rewrites the file whenever the
// navigator signals a change.
type File struct {
	path  string
	doc   *plate.Document
	saves int
}

// Open loads the document at path. A missing file is not an error: the
// document from fallback is used and written on the first change.
func Open(path string, fallback func() (*plate.Document, error)) (*File, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		doc, err := fallback()
		if err != nil {
			return nil, err
		}
		return &File{path: path, doc: doc}, nil
	case err != nil:
		return nil, err
	}
	var doc plate.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("store: parse %s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("store: %s: %w", path, err)
	}
	if len(doc.Wells) == 0 {
		doc.Wells = plate.NewWells(doc.Plate)
	}
	return &File{path: path, doc: &doc}, nil
}

// Document returns the live document. Callers mutate it in place and then
// call Changed.
func (f *File) Document() *plate.Document { return f.doc }

// Path is the backing file.
func (f *File) Path() string { return f.path }

// Saves counts successful writes.
func (f *File) Saves() int { return f.saves }

// Changed writes the document to disk through a temporary file so a crash
// never leaves a truncated document behind.
func (f *File) Changed() error {
	data, err := yaml.Marshal(f.doc)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".platenav-*.yaml")
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: %w", err)
	}
	f.saves++
	log.Printf("store: saved %d selected wells, %d sites to %s", len(f.doc.SelectedWells()), f.doc.Grid.SelectedCount(), f.path)
	return nil
}
