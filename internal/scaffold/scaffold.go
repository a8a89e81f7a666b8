// Package scaffold writes the starter files that hook frontbundle into a
// PlatformIO project.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed templates
var templates embed.FS

// Options fill the templates.
type Options struct {
	OutputDir      string
	PackageManager string
	// HookPath is where the PlatformIO script goes, relative to the project.
	HookPath string
	// Force overwrites existing files.
	Force bool
}

// DefaultHookPath is the PlatformIO script location used by init.
const DefaultHookPath = "scripts/frontbundle_hook.py"

// ErrExists is returned when a target file exists and Force is not set.
var ErrExists = errors.New("file already exists")

// Write renders the config file and the PlatformIO hook into projectDir and
// returns the paths written.
func Write(projectDir string, opts Options) ([]string, error) {
	if opts.HookPath == "" {
		opts.HookPath = DefaultHookPath
	}
	files := []struct{ tmpl, dst string }{
		{"templates/frontbundle.yaml", "frontbundle.yaml"},
		{"templates/frontbundle_hook.py", opts.HookPath},
	}

	// Check everything first so a refusal writes nothing.
	if !opts.Force {
		for _, f := range files {
			dst := filepath.Join(projectDir, f.dst)
			if _, err := os.Stat(dst); err == nil {
				return nil, fmt.Errorf("%w: %s", ErrExists, dst)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	var written []string
	for _, f := range files {
		data, err := render(f.tmpl, opts)
		if err != nil {
			return written, err
		}
		dst := filepath.Join(projectDir, f.dst)
		if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
			return written, fmt.Errorf("creating %q: %w", filepath.Dir(dst), err)
		}
		if err := os.WriteFile(dst, data, 0600); err != nil {
			return written, fmt.Errorf("writing %q: %w", dst, err)
		}
		written = append(written, dst)
	}
	return written, nil
}

func render(name string, opts Options) ([]byte, error) {
	raw, err := templates.ReadFile(name)
	if err != nil {
		return nil, err
	}
	t, err := template.New(filepath.Base(name)).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, opts); err != nil {
		return nil, fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
