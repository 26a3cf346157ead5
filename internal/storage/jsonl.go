package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"liquidityLayer/internal/model"
)

// JsonlSink appends events and decode failures to two JSON-lines files.
type JsonlSink struct {
	path       string
	errorsPath string
	mu         sync.Mutex
}

// NewJsonlSink writes events to path. Decode failures go to errorsPath, or
// are dropped when it is empty.
func NewJsonlSink(path, errorsPath string) *JsonlSink {
	return &JsonlSink{path: path, errorsPath: errorsPath}
}

func (s *JsonlSink) PutEvents(ctx context.Context, events []model.TypedEvent) error {
	if len(events) == 0 {
		return nil
	}
	lines := make([]interface{}, 0, len(events))
	for _, event := range events {
		lines = append(lines, event)
	}
	return s.appendLines(s.path, lines)
}

func (s *JsonlSink) PutDecodeErrors(ctx context.Context, failures []model.DecodeError) error {
	if len(failures) == 0 || s.errorsPath == "" {
		return nil
	}
	lines := make([]interface{}, 0, len(failures))
	for _, failure := range failures {
		lines = append(lines, failure)
	}
	return s.appendLines(s.errorsPath, lines)
}

func (s *JsonlSink) Close() error {
	return nil
}

func (s *JsonlSink) appendLines(path string, records []interface{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := writer.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
