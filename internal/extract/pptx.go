package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const drawingNS = "http://schemas.openxmlformats.org/drawingml/2006/main"

// runSeparator is appended after every text run on a slide.
const runSeparator = " ."

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// PptxExtractor reads PowerPoint documents. A pptx file is an OPC package: a
// zip archive with one XML part per slide under ppt/slides/, ordered by the
// sldIdLst of ppt/presentation.xml.
type PptxExtractor struct{}

func NewPptxExtractor() *PptxExtractor {
	return &PptxExtractor{}
}

func (e *PptxExtractor) Extract(r io.ReaderAt, size int64) ([]string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: opening pptx archive: %v", ErrBadDocument, err)
	}

	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	order, err := slideOrder(parts)
	if err != nil {
		return nil, err
	}

	slides := make([]string, 0, len(order))
	for _, name := range order {
		text, err := slideText(parts[name])
		if err != nil {
			return nil, fmt.Errorf("%w: slide part %s: %v", ErrBadDocument, name, err)
		}
		slides = append(slides, text)
	}
	return slides, nil
}

// slideOrder resolves presentation order from the sldIdLst and the package
// relationships. Packages missing either part fall back to the numeric order
// of the slide part names.
func slideOrder(parts map[string]*zip.File) ([]string, error) {
	numbered := make([]string, 0, len(parts))
	for name := range parts {
		if slidePartPattern.MatchString(name) {
			numbered = append(numbered, name)
		}
	}
	if len(numbered) == 0 {
		return nil, fmt.Errorf("%w: no slide parts in archive", ErrBadDocument)
	}
	sort.Slice(numbered, func(i, j int) bool {
		return slidePartNumber(numbered[i]) < slidePartNumber(numbered[j])
	})

	pres, okPres := parts["ppt/presentation.xml"]
	rels, okRels := parts["ppt/_rels/presentation.xml.rels"]
	if !okPres || !okRels {
		return numbered, nil
	}

	ordered, err := orderFromRelationships(pres, rels, parts)
	if err != nil || len(ordered) == 0 {
		return numbered, nil
	}
	return ordered, nil
}

func orderFromRelationships(pres, rels *zip.File, parts map[string]*zip.File) ([]string, error) {
	var relList struct {
		Relationships []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := decodePart(rels, &relList); err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(relList.Relationships))
	for _, rel := range relList.Relationships {
		targets[rel.ID] = path.Join("ppt", rel.Target)
	}

	var presentation struct {
		SlideIDs []struct {
			RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sldIdLst>sldId"`
	}
	if err := decodePart(pres, &presentation); err != nil {
		return nil, err
	}

	ordered := make([]string, 0, len(presentation.SlideIDs))
	for _, id := range presentation.SlideIDs {
		name, ok := targets[id.RID]
		if !ok {
			return nil, fmt.Errorf("unresolved slide relationship %s", id.RID)
		}
		if _, ok := parts[name]; !ok {
			return nil, fmt.Errorf("missing slide part %s", name)
		}
		ordered = append(ordered, name)
	}
	return ordered, nil
}

// slideText concatenates every drawingml text run on the slide, appending the
// run separator after each one. A slide with no runs yields "".
func slideText(part *zip.File) (string, error) {
	rc, err := part.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var b strings.Builder
	dec := xml.NewDecoder(rc)
	inRun := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == drawingNS && t.Name.Local == "t" {
				inRun = true
			}
		case xml.EndElement:
			if t.Name.Space == drawingNS && t.Name.Local == "t" {
				inRun = false
				b.WriteString(runSeparator)
			}
		case xml.CharData:
			if inRun {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

func slidePartNumber(name string) int {
	m := slidePartPattern.FindStringSubmatch(name)
	n, _ := strconv.Atoi(m[1])
	return n
}

func decodePart(part *zip.File, v any) error {
	rc, err := part.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}
