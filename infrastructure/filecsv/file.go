package filecsv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"comment-insight/domain/model"
	"comment-insight/infrastructure/logger"
)

func NewFile(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while open file")
		return nil, err
	}

	return file, nil
}

// ReadURLList returns every trimmed line starting with prefix, in file order.
// A missing file or a file without any matching line yields model.ErrInvalidInput.
func ReadURLList(path, prefix string) ([]string, error) {
	file, err := NewFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("url list %s not found: %w", path, model.ErrInvalidInput)
		}
		return nil, fmt.Errorf("open url list %s: %w", path, err)
	}
	defer file.Close()

	urls, err := ParseURLList(file, prefix)
	if err != nil {
		return nil, fmt.Errorf("read url list %s: %w", path, err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no urls with prefix %q in %s: %w", prefix, path, model.ErrInvalidInput)
	}
	return urls, nil
}

// ParseURLList reads one URL per line and keeps the trimmed lines that start with prefix
func ParseURLList(r io.Reader, prefix string) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var urls []string
	for first := true; scanner.Scan(); first = false {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		line = strings.TrimSpace(line)
		if line != "" && strings.HasPrefix(line, prefix) {
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}
