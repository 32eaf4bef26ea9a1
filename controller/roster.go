package controller

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mistertach/tennis-ladder/model"
)

type rosterCSVReader struct {
	csvReader *csv.Reader
	nameIdx   int
	idIdx     int
	emailIdx  int
	levelIdx  int
}

// readRoster reads the players from a CSV file with a header row. NAME is the only
// required column, ID, EMAIL and LEVEL are optional and the order doesn't matter.
func readRoster(r io.Reader) ([]model.Player, error) {
	reader, err := newRosterCSVReader(r)
	if err != nil {
		return nil, err
	}

	players := make([]model.Player, 0, 16)
	for {
		p, err := reader.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if p == nil {
			continue
		}
		players = append(players, *p)
	}

	return players, nil
}

func newRosterCSVReader(r io.Reader) (*rosterCSVReader, error) {
	rr := &rosterCSVReader{
		csvReader: csv.NewReader(r),
		nameIdx:   -1,
		idIdx:     -1,
		emailIdx:  -1,
		levelIdx:  -1,
	}
	rr.csvReader.FieldsPerRecord = -1
	rr.csvReader.TrimLeadingSpace = true

	header, err := rr.csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading roster CSV file header: %v", err)
	}

	for i, h := range header {
		switch strings.ToUpper(strings.TrimSpace(h)) {
		case "NAME", "PLAYER NAME":
			rr.nameIdx = i
		case "ID":
			rr.idIdx = i
		case "EMAIL":
			rr.emailIdx = i
		case "LEVEL":
			rr.levelIdx = i
		}
	}

	if rr.nameIdx == -1 {
		return nil, errors.New("error finding required columns; name: -1")
	}

	return rr, nil
}

// readLine returns nil without an error for rows with an empty name.
func (rr *rosterCSVReader) readLine() (*model.Player, error) {
	record, err := rr.csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("error reading line in roster file (%v): %w", record, err)
	}

	p := model.Player{
		Name:  field(record, rr.nameIdx),
		ID:    field(record, rr.idIdx),
		Email: field(record, rr.emailIdx),
		Level: field(record, rr.levelIdx),
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, nil
	}
	return &p, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
