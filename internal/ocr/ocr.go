// Package ocr turns PDF tickets into text.
package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"

	appLog "traincal/internal/log"
)

// ErrEmptyText is returned when a ticket produced no text at all.
var ErrEmptyText = errors.New("ocr produced no text")

// Engine extracts the text of one PDF.
type Engine interface {
	Text(ctx context.Context, pdf []byte) (string, error)
}

// CommandOCR runs an external program over the PDF. Every "{}" in Argv is
// replaced by the path of a temporary copy of the PDF and stdout is taken
// as the text.
type CommandOCR struct {
	Argv []string
}

func (c CommandOCR) Text(ctx context.Context, pdf []byte) (string, error) {
	if len(c.Argv) == 0 {
		return "", errors.New("ocr command is empty")
	}

	f, err := os.CreateTemp("", "traincal-ticket-*.pdf")
	if err != nil {
		return "", errors.Wrap(err, "create temp pdf")
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(pdf); err != nil {
		f.Close()
		return "", errors.Wrap(err, "write temp pdf")
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(err, "close temp pdf")
	}

	args := make([]string, len(c.Argv))
	for i, a := range c.Argv {
		args[i] = strings.ReplaceAll(a, "{}", f.Name())
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "run %s: %s", args[0], strings.TrimSpace(stderr.String()))
	}

	text := stdout.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// Cache stores OCR results by key.
type Cache interface {
	OCRText(ctx context.Context, key string) (string, bool, error)
	PutOCRText(ctx context.Context, key, text string) error
}

// CachedOCR consults Cache before running Engine. Cache failures are
// logged and otherwise ignored.
type CachedOCR struct {
	Engine Engine
	Cache  Cache
}

func (c CachedOCR) Text(ctx context.Context, key string, pdf []byte) (string, error) {
	text, ok, err := c.Cache.OCRText(ctx, key)
	if err != nil {
		appLog.Warn("ocr cache read failed", "key", key, "reason", err.Error())
	}
	if ok {
		appLog.Debug("ocr cache hit", "key", key)
		return text, nil
	}

	text, err = c.Engine.Text(ctx, pdf)
	if err != nil {
		return "", errors.Wrapf(err, "ocr %s", key)
	}
	if err := c.Cache.PutOCRText(ctx, key, text); err != nil {
		appLog.Warn("ocr cache write failed", "key", key, "reason", err.Error())
	}
	return text, nil
}
