// Package seed registers leagues listed in a YAML file, so a fresh database can be
// brought up with its leagues in place.
//
//	leagues:
//	  - title: Tuesday Ladder
//	    startDate: 2024-09-03
//	    durationWeeks: 10
//	    gamesPerMatch: 8
//	    players:
//	      - name: Roger Federer
//	        email: roger@example.com
package seed

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mistertach/tennis-ladder/controller"
	"github.com/mistertach/tennis-ladder/model"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type File struct {
	Leagues []model.NewLeague `yaml:"leagues"`
}

// Parse decodes a seed file. Unknown keys are an error so typos don't go unnoticed.
func Parse(data []byte) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("seed file is empty")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("error decoding seed file: %w", err)
	}
	for i, l := range f.Leagues {
		if strings.TrimSpace(l.Title) == "" {
			return nil, fmt.Errorf("league %d of the seed file has no title", i+1)
		}
	}
	return &f, nil
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading seed file %s: %w", path, err)
	}
	return Parse(data)
}

// Apply creates every league of the file that doesn't exist yet, matching on title.
// Returns the number of leagues created.
func Apply(ctx context.Context, ctrl controller.C, f *File, log *logrus.Logger) (int, error) {
	existing, err := ctrl.ListLeagues(ctx)
	if err != nil {
		return 0, fmt.Errorf("error listing leagues: %w", err)
	}
	titles := make(map[string]bool, len(existing))
	for _, l := range existing {
		titles[strings.TrimSpace(l.Title)] = true
	}

	created := 0
	for _, nl := range f.Leagues {
		title := strings.TrimSpace(nl.Title)
		if titles[title] {
			log.WithField("title", title).Debug("seeded league already exists")
			continue
		}

		if _, err := ctrl.CreateLeague(ctx, nl); err != nil {
			return created, fmt.Errorf("error seeding league %s: %w", title, err)
		}
		titles[title] = true
		created++
	}
	return created, nil
}
