package config

import (
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/valyala/fasttemplate"
)

const (
	TMPL_NAME       = "name"
	TMPL_OUTPUT_DIR = "output_dir"
	TMPL_EXTENSION  = "extension"
)

var (
	urlTemplateTags  = []string{TMPL_NAME}
	pathTemplateTags = []string{TMPL_NAME, TMPL_OUTPUT_DIR, TMPL_EXTENSION}
)

func executeTemplate(tmpl string, values map[string]interface{}) string {
	return fasttemplate.New(tmpl, "{", "}").ExecuteString(values)
}

// checkTemplate parses tmpl and reports the first placeholder not in allowed.
func checkTemplate(tmpl string, allowed []string) error {
	t, err := fasttemplate.NewTemplate(tmpl, "{", "}")
	if err != nil {
		return err
	}

	var unknown string
	t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if unknown == "" && !containsString(allowed, tag) {
			unknown = tag
		}
		return 0, nil
	})
	if unknown != "" {
		return fmt.Errorf("unknown template variable {%s}", unknown)
	}
	return nil
}

// URL expands the URL template for list name. Empty templates yield "".
func (f *FormatDefinition) URL(name string) string {
	if f.URLTemplate == "" {
		return ""
	}
	return executeTemplate(f.URLTemplate, map[string]interface{}{
		TMPL_NAME: name,
	})
}

// RelativePath returns the output file of list name relative to the output directory.
func (f *FormatDefinition) RelativePath(name string) string {
	dir := f.OutputDir
	if dir == "" {
		dir = "."
	}

	if f.PathTemplate != "" {
		return filepath.FromSlash(path.Clean(executeTemplate(f.PathTemplate, map[string]interface{}{
			TMPL_NAME:       name,
			TMPL_OUTPUT_DIR: dir,
			TMPL_EXTENSION:  f.Extension,
		})))
	}

	if dir == "." {
		return name + f.Extension
	}
	return filepath.Join(dir, name+f.Extension)
}
