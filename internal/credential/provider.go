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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/sirseerhq/player-banner/pkg/version"
)

// ErrEmptyKey is returned when the key file or the prompt yields no key.
var ErrEmptyKey = errors.New("empty API key")

// PromptText is written before reading a key interactively.
const PromptText = "speedrun.com API key: "

// Provider supplies the API key.
type Provider interface {
	APIKey(ctx context.Context) (string, error)
}

// DefaultPath returns the standard key file location:
// $XDG_CONFIG_HOME/player-banner/player-bannerrc, or ~/.config/... when the
// config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			home = "."
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, version.Product, version.Product+"rc")
}

// New returns a FileProvider when the key file exists and a PromptProvider
// that reads from in and writes the prompt to out otherwise.
func New(path string, in io.Reader, out io.Writer) (Provider, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return &FileProvider{Path: path}, nil
	case errors.Is(err, os.ErrNotExist):
		return &PromptProvider{Path: path, In: in, Out: out}, nil
	default:
		return nil, fmt.Errorf("failed to inspect key file %s: %w", path, err)
	}
}

// FileProvider reads the key from a file on every call.
type FileProvider struct {
	Path string
}

// APIKey implements Provider.
func (p *FileProvider) APIKey(ctx context.Context) (string, error) {
	return LoadKey(p.Path)
}

// PromptProvider asks for the key and persists the answer to Path.
type PromptProvider struct {
	Path string
	In   io.Reader
	Out  io.Writer
}

// APIKey implements Provider. A terminal on In gets hidden input.
func (p *PromptProvider) APIKey(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	out := p.Out
	if out == nil {
		out = io.Discard
	}
	if _, err := io.WriteString(out, PromptText); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	raw, err := p.readLine(out)
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	key := strings.TrimSpace(raw)
	if key == "" {
		return "", ErrEmptyKey
	}

	if err := SaveKey(p.Path, key); err != nil {
		return "", err
	}
	return key, nil
}

func (p *PromptProvider) readLine(out io.Writer) (string, error) {
	if f, ok := p.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		_, _ = io.WriteString(out, "\n")
		return string(secret), err
	}

	if p.In == nil {
		return "", io.ErrUnexpectedEOF
	}
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return line, nil
}

// Store picks its provider on the first APIKey call, so the key file is not
// touched until a key is needed. With Reset set it always prompts, and the
// answer replaces the stored key.
type Store struct {
	Path  string
	In    io.Reader
	Out   io.Writer
	Reset bool
}

// APIKey implements Provider.
func (s *Store) APIKey(ctx context.Context) (string, error) {
	if s.Reset {
		return (&PromptProvider{Path: s.Path, In: s.In, Out: s.Out}).APIKey(ctx)
	}
	p, err := New(s.Path, s.In, s.Out)
	if err != nil {
		return "", err
	}
	return p.APIKey(ctx)
}
