// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// Indent is the indentation used for pretty-printed response bodies.
const Indent = "    "

// Writer handles streaming NDJSON output to a file or io.Writer.
type Writer struct {
	mu        sync.Mutex
	output    io.Writer
	encoder   *json.Encoder
	count     int
	closeFunc func() error
}

// NewWriter creates a new NDJSON writer that writes to the specified output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		output:  w,
		encoder: json.NewEncoder(w),
	}
}

// NewFileWriter creates a new NDJSON writer that writes to a file.
// The caller must call Close() when done to ensure the file is properly closed.
func NewFileWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &Writer{
		output:    file,
		encoder:   json.NewEncoder(file),
		closeFunc: file.Close,
	}, nil
}

// Write writes a single record as NDJSON.
func (w *Writer) Write(record interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying writer if it's a file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}

// PrettyWriter prints response bodies as indented JSON.
type PrettyWriter struct {
	mu     sync.Mutex
	output io.Writer
}

// NewPrettyWriter creates a PrettyWriter writing to w.
func NewPrettyWriter(w io.Writer) *PrettyWriter {
	return &PrettyWriter{output: w}
}

// WriteBody writes body followed by a newline. JSON bodies are re-indented
// with Indent; anything else is written verbatim. An empty body writes
// nothing.
func (p *PrettyWriter) WriteBody(body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	var buf bytes.Buffer
	if json.Valid(trimmed) {
		if err := json.Indent(&buf, trimmed, "", Indent); err != nil {
			return fmt.Errorf("failed to indent body: %w", err)
		}
	} else {
		buf.Write(trimmed)
	}
	buf.WriteByte('\n')

	if _, err := p.output.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	return nil
}
