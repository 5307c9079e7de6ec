package main

import (
	"bytes"
	"fmt"
	"io/fs"

	"github.com/gomarkdown/markdown"
	mhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// helper function to render markdown into HTML content
func mdRender(md []byte) string {
	// create markdown parser with extensions
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	// create HTML renderer with extensions
	htmlFlags := mhtml.CommonFlags | mhtml.HrefTargetBlank
	opts := mhtml.RendererOptions{Flags: htmlFlags}
	renderer := mhtml.NewRenderer(opts)
	return string(markdown.Render(doc, renderer))
}

// helper function to parse given embedded markdown file and return HTML content
func mdToHTML(fname string) (string, error) {
	md, err := fs.ReadFile(StaticFs, "static/md/"+fname)
	if err != nil {
		return "", err
	}
	return mdRender(md), nil
}

// helper function to build markdown table of biomarkers
func biomarkersMarkdown() []byte {
	var buf bytes.Buffer
	buf.WriteString("| Key | Biomarker | Unit | Description |\n")
	buf.WriteString("|-----|-----------|------|-------------|\n")
	for _, info := range Biomarkers {
		unit := info.Unit
		if unit == "" {
			unit = "-"
		}
		buf.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s |\n", info.Key, info.Label, unit, info.Description))
	}
	return buf.Bytes()
}
