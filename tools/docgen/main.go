package main

import (
	"bytes"
	"flag"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Flyrell/punchclock/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Page is one generated reference page.
type Page struct {
	Name     string // file stem, e.g. punchclock_config_set
	Title    string
	Markdown string
}

// PageData is the template data for rendering a docs page.
type PageData struct {
	Title   string
	Sidebar template.HTML
	Content template.HTML
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} · punchclock</title>
</head>
<body>
<aside>{{.Sidebar}}</aside>
<main>{{.Content}}</main>
</body>
</html>
`))

func main() {
	outDir := flag.String("out", "docs/cli", "output directory")
	flag.Parse()

	pages := buildPages(cli.Root())
	md := newMarkdown()

	for _, page := range pages {
		mdFile := filepath.Join(*outDir, page.Name+".md")
		htmlFile := filepath.Join(*outDir, page.Name+".html")

		content, err := renderPage(md, pages, page)
		if err != nil {
			fatal("rendering %s: %v", page.Name, err)
		}

		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			fatal("creating %s: %v", *outDir, err)
		}
		if err := os.WriteFile(mdFile, []byte(page.Markdown), 0o644); err != nil {
			fatal("writing %s: %v", mdFile, err)
		}
		if err := os.WriteFile(htmlFile, content, 0o644); err != nil {
			fatal("writing %s: %v", htmlFile, err)
		}

		fmt.Printf("  generated %s\n", page.Name)
	}

	fmt.Printf("\n  %d pages generated\n", len(pages))
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Linkify,
			highlighting.NewHighlighting(
				highlighting.WithStyle("monokai"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// buildPages walks the command tree depth first, skipping help and hidden
// commands.
func buildPages(root *cobra.Command) []Page {
	var pages []Page
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		if cmd.Hidden || cmd.Name() == "help" || cmd.Name() == "completion" {
			return
		}
		pages = append(pages, Page{
			Name:     pageName(cmd),
			Title:    cmd.CommandPath(),
			Markdown: commandMarkdown(cmd),
		})

		subs := cmd.Commands()
		sort.Slice(subs, func(i, j int) bool { return subs[i].Name() < subs[j].Name() })
		for _, sub := range subs {
			walk(sub)
		}
	}
	walk(root)
	return pages
}

func pageName(cmd *cobra.Command) string {
	return strings.ReplaceAll(cmd.CommandPath(), " ", "_")
}

// commandMarkdown renders one command's reference page.
func commandMarkdown(cmd *cobra.Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", cmd.CommandPath())
	if cmd.Short != "" {
		fmt.Fprintf(&b, "%s\n\n", cmd.Short)
	}

	if cmd.Runnable() {
		fmt.Fprintf(&b, "## Usage\n\n```sh\n%s\n```\n\n", cmd.UseLine())
	}

	if cmd.Example != "" {
		fmt.Fprintf(&b, "## Examples\n\n```sh\n%s\n```\n\n", strings.TrimSpace(cmd.Example))
	}

	writeFlags(&b, "Flags", cmd.NonInheritedFlags())
	writeFlags(&b, "Global flags", cmd.InheritedFlags())

	var subs []*cobra.Command
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() && sub.Name() != "help" {
			subs = append(subs, sub)
		}
	}
	if len(subs) > 0 {
		sort.Slice(subs, func(i, j int) bool { return subs[i].Name() < subs[j].Name() })
		b.WriteString("## Commands\n\n")
		for _, sub := range subs {
			fmt.Fprintf(&b, "- [%s](%s.md): %s\n", sub.CommandPath(), pageName(sub), sub.Short)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeFlags(b *strings.Builder, heading string, flags *pflag.FlagSet) {
	var rows []string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		name := "`--" + f.Name + "`"
		if f.Shorthand != "" {
			name = "`-" + f.Shorthand + "`, " + name
		}
		def := ""
		if f.DefValue != "" && f.DefValue != "false" {
			def = "`" + f.DefValue + "`"
		}
		rows = append(rows, fmt.Sprintf("| %s | %s | %s |", name, f.Usage, def))
	})
	if len(rows) == 0 {
		return
	}

	fmt.Fprintf(b, "## %s\n\n| Flag | Description | Default |\n|---|---|---|\n", heading)
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n\n")
}

// renderPage converts page to a full HTML document with a sidebar listing
// every page.
func renderPage(md goldmark.Markdown, pages []Page, page Page) ([]byte, error) {
	var contentBuf bytes.Buffer
	if err := md.Convert([]byte(page.Markdown), &contentBuf); err != nil {
		return nil, err
	}

	data := PageData{
		Title:   page.Title,
		Sidebar: template.HTML(renderSidebar(pages, page.Name)),
		Content: template.HTML(rewriteLinks(contentBuf.String())),
	}

	var pageBuf bytes.Buffer
	if err := pageTmpl.Execute(&pageBuf, data); err != nil {
		return nil, err
	}
	return pageBuf.Bytes(), nil
}

// rewriteLinks points .md hrefs at the generated .html pages.
var linkHrefRe = regexp.MustCompile(`href="([^"]*)\.md(#[^"]*)?"`)

func rewriteLinks(htmlContent string) string {
	return linkHrefRe.ReplaceAllString(htmlContent, `href="$1.html$2"`)
}

func renderSidebar(pages []Page, current string) string {
	var b strings.Builder
	b.WriteString(`<nav class="sidebar-nav">` + "\n")
	for _, p := range pages {
		activeClass := ""
		if p.Name == current {
			activeClass = " active"
		}
		fmt.Fprintf(&b, `  <a href="%s.html" class="nav-link%s">%s</a>`+"\n",
			p.Name, activeClass, template.HTMLEscapeString(p.Title))
	}
	b.WriteString("</nav>\n")
	return b.String()
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "docgen: "+format+"\n", args...)
	os.Exit(1)
}
