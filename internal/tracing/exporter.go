package tracing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanRecord is the JSON shape of one exported span. One record per line
// keeps the trace file greppable and jq-friendly.
type SpanRecord struct {
	TraceID      string         `json:"trace_id"`
	SpanID       string         `json:"span_id"`
	ParentSpanID string         `json:"parent_span_id,omitempty"`
	Name         string         `json:"name"`
	StartTime    string         `json:"start_time"`
	EndTime      string         `json:"end_time"`
	DurationMs   float64        `json:"duration_ms"`
	Status       string         `json:"status"`
	StatusMsg    string         `json:"status_message,omitempty"`
	Attributes   map[string]any `json:"attributes,omitempty"`
}

func newSpanRecord(span sdktrace.ReadOnlySpan) SpanRecord {
	sc := span.SpanContext()

	rec := SpanRecord{
		TraceID:   sc.TraceID().String(),
		SpanID:    sc.SpanID().String(),
		Name:      span.Name(),
		StartTime: span.StartTime().Format(time.RFC3339Nano),
		EndTime:   span.EndTime().Format(time.RFC3339Nano),
		Status:    "UNSET",
	}
	rec.DurationMs = float64(span.EndTime().Sub(span.StartTime()).Microseconds()) / 1000.0

	if parent := span.Parent(); parent.IsValid() {
		rec.ParentSpanID = parent.SpanID().String()
	}

	switch status := span.Status(); status.Code {
	case codes.Ok:
		rec.Status = "OK"
	case codes.Error:
		rec.Status = "ERROR"
		rec.StatusMsg = status.Description
	}

	if attrs := span.Attributes(); len(attrs) > 0 {
		rec.Attributes = make(map[string]any, len(attrs))
		for _, kv := range attrs {
			rec.Attributes[string(kv.Key)] = kv.Value.AsInterface()
		}
	}

	return rec
}

// FileExporter is a sdktrace.SpanExporter that appends spans to a JSONL
// file, so scan and render timings can be inspected without a collector.
type FileExporter struct {
	mu   sync.Mutex
	file *os.File
}

// NewFileExporter opens path for appending, creating parent directories
// as needed.
func NewFileExporter(path string) (*FileExporter, error) {
	cleanPath := filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(cleanPath), 0750); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}

	file, err := os.OpenFile(cleanPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600) // #nosec G304 -- path is cleaned above
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}

	return &FileExporter{file: file}, nil
}

// ExportSpans encodes the batch into a buffer and writes it with a single
// file write, so concurrent batches never interleave lines.
func (e *FileExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	if len(spans) == 0 {
		return nil
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, span := range spans {
		if err := encoder.Encode(newSpanRecord(span)); err != nil {
			return fmt.Errorf("encode span: %w", err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file == nil {
		return nil
	}
	if _, err := e.file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write spans: %w", err)
	}
	return nil
}

// Shutdown closes the trace file. Further calls are no-ops.
func (e *FileExporter) Shutdown(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.file == nil {
		return nil
	}
	err := e.file.Close()
	e.file = nil
	return err
}
