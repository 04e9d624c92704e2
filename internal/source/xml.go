package source

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nao1215/gallerygen/internal/model"
)

// workElement is the element name of one work record.
const workElement = "work"

// XMLSource reads work records from an XML export.
// Every <work> element is a record, wherever it appears in the document.
type XMLSource struct {
	path string
}

var _ Source = (*XMLSource)(nil)

// NewXMLSource creates a source reading the export at path.
func NewXMLSource(path string) *XMLSource {
	return &XMLSource{path: path}
}

// Name returns a short description for logging.
func (s *XMLSource) Name() string {
	return "xml:" + s.path
}

// Works reads every work record of the export.
func (s *XMLSource) Works(ctx context.Context) ([]model.Work, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	return DecodeWorks(ctx, f)
}

// DecodeWorks decodes every <work> element from r in document order.
func DecodeWorks(ctx context.Context, r io.Reader) ([]model.Work, error) {
	dec := xml.NewDecoder(r)
	works := make([]model.Work, 0)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return works, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse export: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != workElement {
			continue
		}

		var work model.Work
		if err := dec.DecodeElement(&work, &start); err != nil {
			return nil, fmt.Errorf("failed to decode work #%d: %w", len(works), err)
		}
		works = append(works, work)
	}
}
