package technicians

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"repairshop/common"
)

// Technician is one assignable staff identity. ID is the email address
// stored on tickets.
type Technician struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

type file struct {
	Technicians []Technician `yaml:"technicians"`
}

// Directory is the read-only staff list loaded at startup.
type Directory struct {
	techs []Technician
	byID  map[string]Technician
}

// NewDirectory indexes techs by lowercased id, rejecting duplicates
func NewDirectory(techs []Technician) (*Directory, error) {
	d := &Directory{byID: make(map[string]Technician, len(techs))}
	for i, t := range techs {
		id := strings.ToLower(strings.TrimSpace(t.ID))
		if id == "" {
			return nil, fmt.Errorf("technician %d: missing id", i)
		}
		if _, dup := d.byID[id]; dup {
			return nil, fmt.Errorf("technician %d: duplicate id %s", i, id)
		}
		if t.Label == "" {
			t.Label = id
		}
		t.ID = id
		d.byID[id] = t
		d.techs = append(d.techs, t)
	}

	sort.Slice(d.techs, func(i, j int) bool {
		return d.techs[i].Label < d.techs[j].Label
	})
	return d, nil
}

// Load reads a YAML directory file. A missing file yields an empty directory.
func Load(path string) (*Directory, error) {
	if path == "" {
		return NewDirectory(nil)
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewDirectory(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("open technicians file: %w", err)
	}
	defer f.Close()

	var doc file
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode technicians file: %w", err)
	}
	return NewDirectory(doc.Technicians)
}

// List returns all technicians sorted by label.
func (d *Directory) List(ctx context.Context) ([]Technician, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Technician, len(d.techs))
	copy(out, d.techs)
	return out, nil
}

// Assignable reports whether email may be stored as a ticket tech. The
// new-ticket placeholder is always assignable.
func (d *Directory) Assignable(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == common.NewTicketTech {
		return true
	}
	_, ok := d.byID[email]
	return ok
}

func (d *Directory) Len() int {
	return len(d.techs)
}
