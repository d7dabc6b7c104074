package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hcl/hclsyntax"
	"github.com/hashicorp/hcl2/hclparse"
	"golang.org/x/crypto/ssh/terminal"
)

// Ext is the extension of stack configuration files.
const Ext = ".hcl"

// A Loader reads stack configuration from a directory tree. The zero value
// is ready to use. The Loader remembers parsed files, so diagnostics can
// show source snippets.
type Loader struct {
	parser *hclparse.Parser
	files  []string
}

// Load parses every .hcl file under root and merges their bodies. Hidden
// directories, such as .meshstack, are skipped, and so are files without any
// attributes or blocks.
//
// Syntax errors in all files are reported, not just the first.
func (l *Loader) Load(root string) (hcl.Body, hcl.Diagnostics) {
	if l.parser == nil {
		l.parser = hclparse.NewParser()
	}
	paths, err := configFiles(root)
	if err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Cannot read configuration",
			Detail:   err.Error(),
		}}
	}

	var diags hcl.Diagnostics
	var files []*hcl.File
	for _, p := range paths {
		f, fdiags := l.parser.ParseHCLFile(p)
		diags = append(diags, fdiags...)
		if fdiags.HasErrors() || isEmpty(f) {
			continue
		}
		l.files = append(l.files, p)
		files = append(files, f)
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return hcl.MergeFiles(files), diags
}

// configFiles lists the configuration files under root in lexical order.
func configFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		switch {
		case err != nil:
			return err
		case info.IsDir() && path != root && strings.HasPrefix(info.Name(), "."):
			return filepath.SkipDir
		case !info.IsDir() && filepath.Ext(path) == Ext:
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func isEmpty(f *hcl.File) bool {
	if f == nil {
		return true
	}
	body, ok := f.Body.(*hclsyntax.Body)
	return ok && len(body.Attributes) == 0 && len(body.Blocks) == 0
}

// Files returns the loaded non-empty files, in load order.
func (l *Loader) Files() []string {
	return append([]string(nil), l.files...)
}

// WriteDiagnostics prints diagnostics for files read by the loader to w,
// with source snippets. Output to a terminal is colored and wrapped at its
// width; other output wraps at 78 columns.
func (l *Loader) WriteDiagnostics(w io.Writer, diags hcl.Diagnostics) {
	var files map[string]*hcl.File
	if l.parser != nil {
		files = l.parser.Files()
	}
	width := 78
	tty := terminal.IsTerminal(int(os.Stdout.Fd()))
	if tty {
		if cols, _, err := terminal.GetSize(int(os.Stdout.Fd())); err == nil {
			width = cols
		}
	}
	wr := hcl.NewDiagnosticTextWriter(w, files, uint(width), tty)
	if err := wr.WriteDiagnostics(diags); err != nil {
		fmt.Fprintln(w, err)
	}
}
