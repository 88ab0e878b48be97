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

package credential

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_SelectsProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "player-bannerrc")

	p, err := New(path, strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := p.(*PromptProvider); !ok {
		t.Errorf("missing file: got %T, want *PromptProvider", p)
	}

	if err := os.WriteFile(path, []byte("abc\n"), 0o600); err != nil {
		t.Fatalf("failed to write key file: %v", err)
	}
	p, err = New(path, strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := p.(*FileProvider); !ok {
		t.Errorf("existing file: got %T, want *FileProvider", p)
	}
}

func TestPromptThenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "player-bannerrc")
	ctx := context.Background()

	var prompt bytes.Buffer
	first, err := New(path, strings.NewReader("  s3cr3t-key  \n"), &prompt)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	key1, err := first.APIKey(ctx)
	if err != nil {
		t.Fatalf("prompt APIKey failed: %v", err)
	}
	if key1 != "s3cr3t-key" {
		t.Errorf("prompted key = %q, want s3cr3t-key", key1)
	}
	if prompt.String() != PromptText {
		t.Errorf("prompt = %q, want %q", prompt.String(), PromptText)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("key file not persisted: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("key file mode = %v, want 0600", perm)
	}

	var secondPrompt bytes.Buffer
	second, err := New(path, strings.NewReader("other\n"), &secondPrompt)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	key2, err := second.APIKey(ctx)
	if err != nil {
		t.Fatalf("file APIKey failed: %v", err)
	}
	if key2 != key1 {
		t.Errorf("second invocation key = %q, want %q", key2, key1)
	}
	if secondPrompt.Len() != 0 {
		t.Errorf("second invocation prompted: %q", secondPrompt.String())
	}
}

func TestPromptProvider_EmptyInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc")

	tests := []struct {
		name  string
		input string
	}{
		{"blank line", "\n"},
		{"whitespace", "   \n"},
		{"eof", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PromptProvider{Path: path, In: strings.NewReader(tt.input), Out: &bytes.Buffer{}}
			if _, err := p.APIKey(context.Background()); err == nil {
				t.Fatal("expected error for empty input")
			}
			if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("key file should not exist after empty input, stat err = %v", err)
			}
		})
	}
}

func TestPromptProvider_NoTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc")
	p := &PromptProvider{Path: path, In: strings.NewReader("key-without-newline")}

	key, err := p.APIKey(context.Background())
	if err != nil {
		t.Fatalf("APIKey failed: %v", err)
	}
	if key != "key-without-newline" {
		t.Errorf("key = %q", key)
	}
}

func TestPromptProvider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	p := &PromptProvider{Path: filepath.Join(t.TempDir(), "rc"), In: strings.NewReader("k\n"), Out: &out}
	if _, err := p.APIKey(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("no prompt expected after cancellation, got %q", out.String())
	}
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content *string
		want    string
		wantErr error
	}{
		{name: "trimmed", content: ptr("abc123\n"), want: "abc123"},
		{name: "empty", content: ptr("\n\n"), wantErr: ErrEmptyKey},
		{name: "missing", content: nil, wantErr: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0o600); err != nil {
					t.Fatalf("write failed: %v", err)
				}
			}

			got, err := (&FileProvider{Path: path}).APIKey(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("APIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSaveKey_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc")

	if err := SaveKey(path, "first"); err != nil {
		t.Fatalf("SaveKey failed: %v", err)
	}
	if err := SaveKey(path, "second"); err != nil {
		t.Fatalf("SaveKey failed: %v", err)
	}

	got, err := LoadKey(path)
	if err != nil {
		t.Fatalf("LoadKey failed: %v", err)
	}
	if got != "second" {
		t.Errorf("LoadKey() = %q, want second", got)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Error("temporary file left behind")
	}
}

func TestStore(t *testing.T) {
	tests := []struct {
		name       string
		stored     *string
		input      string
		reset      bool
		want       string
		wantPrompt bool
		wantErr    error
		wantFile   *string
	}{
		{name: "stored key", stored: ptr("old"), input: "typed\n", want: "old", wantFile: ptr("old")},
		{name: "no stored key", input: "typed\n", want: "typed", wantPrompt: true, wantFile: ptr("typed")},
		{name: "reset replaces", stored: ptr("old"), input: "typed\n", reset: true, want: "typed", wantPrompt: true, wantFile: ptr("typed")},
		{name: "reset without stored key", input: "typed\n", reset: true, want: "typed", wantPrompt: true, wantFile: ptr("typed")},
		{name: "reset with empty answer keeps old key", stored: ptr("old"), input: "\n", reset: true, wantPrompt: true, wantErr: ErrEmptyKey, wantFile: ptr("old")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rc")
			if tt.stored != nil {
				if err := SaveKey(path, *tt.stored); err != nil {
					t.Fatalf("SaveKey failed: %v", err)
				}
			}

			var prompt bytes.Buffer
			s := &Store{Path: path, In: strings.NewReader(tt.input), Out: &prompt, Reset: tt.reset}
			got, err := s.APIKey(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			} else if got != tt.want {
				t.Errorf("APIKey() = %q, want %q", got, tt.want)
			}

			if prompted := prompt.Len() > 0; prompted != tt.wantPrompt {
				t.Errorf("prompted = %v, want %v", prompted, tt.wantPrompt)
			}
			stored, err := LoadKey(path)
			if err != nil {
				t.Fatalf("LoadKey failed: %v", err)
			}
			if stored != *tt.wantFile {
				t.Errorf("stored key = %q, want %q", stored, *tt.wantFile)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")

	got := DefaultPath()
	if !strings.HasSuffix(got, filepath.Join("player-banner", "player-bannerrc")) {
		t.Errorf("DefaultPath() = %q", got)
	}
}

func ptr(s string) *string { return &s }
