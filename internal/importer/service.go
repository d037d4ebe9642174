package importer

import (
	"fmt"
	"io"
	"log/slog"
)

// LineParser turns an upload into draft rows.
type LineParser interface {
	Parse(r io.Reader) (*Result, error)
}

type Service struct {
	parser LineParser
}

func NewService() *Service {
	return &Service{
		parser: NewParser(),
	}
}

func (s *Service) Import(r io.Reader) (*Result, error) {
	res, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("import line items: %w", err)
	}

	slog.Info("line items imported", "profile", res.Profile, "charset", res.Charset, "rows", len(res.Lines))

	return res, nil
}
