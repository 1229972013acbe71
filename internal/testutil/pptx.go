// pptx.go - minimal pptx document builder for tests
package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// BuildPptx assembles a minimal valid pptx archive with one slide per entry
// of slideTexts. Each non-empty text becomes a single text run; empty strings
// produce slides without any text body.
func BuildPptx(slideTexts ...string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var sldIDs, rels strings.Builder
	for i := range slideTexts {
		n := i + 1
		fmt.Fprintf(&sldIDs, `<p:sldId id="%d" r:id="rId%d"/>`, 255+n, n)
		fmt.Fprintf(&rels, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, n, n)
	}

	addZipFile(zw, "ppt/presentation.xml", fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<p:sldIdLst>%s</p:sldIdLst>
</p:presentation>`, sldIDs.String()))

	addZipFile(zw, "ppt/_rels/presentation.xml.rels", fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">%s</Relationships>`, rels.String()))

	for i, text := range slideTexts {
		addZipFile(zw, fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slideXML(text))
	}

	zw.Close()
	return buf.Bytes()
}

func slideXML(text string) string {
	body := ""
	if text != "" {
		body = fmt.Sprintf(`<p:sp><p:txBody><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`, text)
	}
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
<p:cSld><p:spTree>%s</p:spTree></p:cSld>
</p:sld>`, body)
}

func addZipFile(zw *zip.Writer, name, content string) {
	w, err := zw.Create(name)
	if err != nil {
		panic(err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		panic(err)
	}
}
