package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strconv"
	"time"
)

const (
	sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNamespace   = "http://www.w3.org/1999/xhtml"
	DateLayout       = "2006-01-02"
)

type IndexEntry struct {
	Loc     string
	LastMod time.Time
}

// EncodeURLSet renders a complete <urlset> document for one file.
func EncodeURLSet(file File) []byte {
	var buf bytes.Buffer

	withAlternates := false
	for _, entry := range file.Entries {
		if len(entry.Alternates) > 0 {
			withAlternates = true
			break
		}
	}

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	if withAlternates {
		buf.WriteString(fmt.Sprintf(`<urlset xmlns="%s" xmlns:xhtml="%s">`, sitemapNamespace, xhtmlNamespace))
	} else {
		buf.WriteString(fmt.Sprintf(`<urlset xmlns="%s">`, sitemapNamespace))
	}
	buf.WriteString("\n")

	for _, entry := range file.Entries {
		writeURL(&buf, entry)
	}

	buf.WriteString("</urlset>\n")

	return buf.Bytes()
}

// EncodeIndex renders a <sitemapindex> document.
func EncodeIndex(entries []IndexEntry) []byte {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(fmt.Sprintf(`<sitemapindex xmlns="%s">`, sitemapNamespace))
	buf.WriteString("\n")

	for _, entry := range entries {
		buf.WriteString("  <sitemap>\n")
		writeElement(&buf, "loc", entry.Loc, 4)
		if !entry.LastMod.IsZero() {
			writeElement(&buf, "lastmod", entry.LastMod.Format(DateLayout), 4)
		}
		buf.WriteString("  </sitemap>\n")
	}

	buf.WriteString("</sitemapindex>\n")

	return buf.Bytes()
}

func writeURL(buf *bytes.Buffer, entry URLEntry) {
	buf.WriteString("  <url>\n")

	writeElement(buf, "loc", entry.Loc, 4)

	for _, alt := range entry.Alternates {
		buf.WriteString(fmt.Sprintf("    <xhtml:link rel=\"alternate\" hreflang=\"%s\" href=\"%s\" />\n",
			html.EscapeString(alt.Language),
			html.EscapeString(alt.Href)))
	}

	if !entry.LastMod.IsZero() {
		writeElement(buf, "lastmod", entry.LastMod.Format(DateLayout), 4)
	}
	writeElement(buf, "priority", strconv.FormatFloat(entry.Priority, 'f', 1, 64), 4)

	buf.WriteString("  </url>\n")
}

func writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
