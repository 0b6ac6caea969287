package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"honnef.co/go/sym/problem"
)

func shortPath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(cwd, path); err == nil && len(rel) < len(path) {
		return rel
	}
	return path
}

type formatter interface {
	Format(file string, reports []problem.Report) error
}

type textFormatter struct {
	W io.Writer
	// Prefix prefixes every line with the name of the file.
	Prefix bool
}

func (o textFormatter) Format(file string, reports []problem.Report) error {
	for _, r := range reports {
		var err error
		if o.Prefix {
			_, err = fmt.Fprintf(o.W, "%s: %s\n", file, r)
		} else {
			_, err = fmt.Fprintln(o.W, r)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type jsonFormatter struct {
	W io.Writer
}

func (o jsonFormatter) Format(file string, reports []problem.Report) error {
	type report struct {
		File string `json:"file"`
		problem.Report
	}
	enc := json.NewEncoder(o.W)
	for _, r := range reports {
		if err := enc.Encode(report{File: file, Report: r}); err != nil {
			return err
		}
	}
	return nil
}
