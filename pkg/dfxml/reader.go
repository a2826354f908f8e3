package dfxml

import (
	"encoding/xml"
	"io"
)

// Report is the content of an unpack report.
type Report struct {
	Source  Source
	Creator Creator
	Objects []FileObject
}

// ReadReport parses the <source>, <creator> and <fileobject> elements from r.
func ReadReport(r io.Reader) (*Report, error) {
	dec := xml.NewDecoder(r)
	report := &Report{}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "source":
			err = dec.DecodeElement(&report.Source, &start)
		case "creator":
			err = dec.DecodeElement(&report.Creator, &start)
		case "fileobject":
			var fo FileObject
			if err = dec.DecodeElement(&fo, &start); err == nil {
				report.Objects = append(report.Objects, fo)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return report, nil
}
