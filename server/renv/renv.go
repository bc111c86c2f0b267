package renv

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var envMode = flag.String("envMode", "", "env mode")
var ParseAtLocationParam = flag.String("parse_at_location", "", "parse at location")

var ErrEnvFileNotFound = errors.New("missing env file")

// ParseCmd loads the env file selected by the command line flags and
// panics when it cannot.
func ParseCmd(v interface{}) {
	if err := Parse(*envMode, *ParseAtLocationParam, v); err != nil {
		panic(err)
	}
}

// FileName returns the env file name for a mode, ".env.local.yaml" by default
func FileName(mode string) string {
	if mode == "" {
		return ".env.local.yaml"
	}
	return fmt.Sprintf(".env.%s.yaml", mode)
}

func Parse(mode, parseAtLocation string, v interface{}) error {
	fileName := FileName(mode)

	if parseAtLocation != "" {
		foundPath := filepath.Join(parseAtLocation, fileName)
		if _, err := os.Stat(foundPath); err != nil {
			return fmt.Errorf("%w: %s", ErrEnvFileNotFound, foundPath)
		}
		return ParseAtLocation(foundPath, v)
	}

	searchPaths := []string{
		fileName,
		filepath.Join("server", fileName),
	}
	if execPath, err := os.Executable(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(filepath.Dir(execPath), fileName))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return ParseAtLocation(path, v)
		}
	}

	cwd, _ := os.Getwd()
	return fmt.Errorf("%w %s\nCurrent directory: %s\nSearched paths: %s\nTip: Run from project root or use -parse_at_location flag",
		ErrEnvFileNotFound, fileName, cwd, strings.Join(searchPaths, ", "))
}

func ParseAtLocation(fileName string, v interface{}) error {
	raw, err := os.ReadFile(fileName)
	if err != nil {
		return fmt.Errorf("failed to read env file: %w", err)
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse env file %s: %w", fileName, err)
	}
	return nil
}
