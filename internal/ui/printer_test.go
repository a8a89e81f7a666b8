package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter_PlainOutput(t *testing.T) {
	tests := []struct {
		name  string
		print func(p *Printer)
		want  string
	}{
		{"step", func(p *Printer) { p.Step("Installing frontend dependencies...") }, "==> Installing frontend dependencies...\n"},
		{"success", func(p *Printer) { p.Success("copied %d files", 3) }, "ok  copied 3 files\n"},
		{"warn", func(p *Printer) { p.Warn("frontend directory %q not found", "frontend") }, "!!  frontend directory \"frontend\" not found\n"},
		{"error", func(p *Printer) { p.Error("build failed") }, "xx  build failed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(NewPrinter(&buf, false))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrinter_MultipleLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	p.Step("a")
	p.Success("b")
	assert.Equal(t, "==> a\nok  b\n", buf.String())
}
