// Package seed loads the starter workspace: a few documents and a task
// database with table, board and calendar views.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	repos "github.com/dm0114/capacitor-push-prototype/internal/domain/repositories/workspace"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is a workspace snapshot in the fixture file format.
type Fixtures struct {
	CreatedAt time.Time         `yaml:"created_at"`
	Users     []userFixture     `yaml:"users"`
	Pages     []pageFixture     `yaml:"pages"`
	Databases []databaseFixture `yaml:"databases"`
}

type userFixture struct {
	ID    string `yaml:"id"`
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
}

type pageFixture struct {
	ID         string  `yaml:"id"`
	ParentID   *string `yaml:"parent_id"`
	DatabaseID *string `yaml:"database_id"`
	Title      string  `yaml:"title"`
	Icon       *string `yaml:"icon"`
	IsDatabase bool    `yaml:"is_database"`
	Position   string  `yaml:"position"`
	Blocks     []any   `yaml:"blocks"`
}

type databaseFixture struct {
	ID         string            `yaml:"id"`
	Properties []propertyFixture `yaml:"properties"`
	Views      []viewFixture     `yaml:"views"`
	Rows       []rowFixture      `yaml:"rows"`
}

type propertyFixture struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	Position string         `yaml:"position"`
	Config   map[string]any `yaml:"config"`
	Options  []struct {
		ID    string `yaml:"id"`
		Name  string `yaml:"name"`
		Color string `yaml:"color"`
	} `yaml:"options"`
}

type viewFixture struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	Position string         `yaml:"position"`
	Config   map[string]any `yaml:"config"`
}

type rowFixture struct {
	ID     string         `yaml:"id"`
	Title  string         `yaml:"title"`
	Values map[string]any `yaml:"values"`
}

// Default returns the embedded starter workspace.
func Default() (*Fixtures, error) {
	return Parse(defaultFixtures)
}

// Parse decodes a fixture file. Unknown keys are rejected.
func Parse(data []byte) (*Fixtures, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Fixtures
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// Repositories are the stores a fixture set is written to.
type Repositories struct {
	Users      repos.UserRepository
	Pages      repos.PageRepository
	Blocks     repos.BlockRepository
	Properties repos.PropertyRepository
	Rows       repos.RowRepository
	Views      repos.ViewRepository
}

// Stats counts what Apply wrote; records that already existed are skipped.
type Stats struct {
	Pages, Properties, Rows, Views, Skipped int
}

// Apply writes the fixtures. Existing records are left alone, so applying
// the same fixtures twice is harmless.
func (f *Fixtures) Apply(ctx context.Context, r Repositories, logger *slog.Logger) (Stats, error) {
	var stats Stats
	created := f.CreatedAt.UTC()

	for _, u := range f.Users {
		user := models.User{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: created}
		if err := r.Users.Upsert(ctx, &user); err != nil {
			return stats, fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	ownerID := "1"
	if len(f.Users) > 0 {
		ownerID = f.Users[0].ID
	}
	for _, p := range f.Pages {
		page := models.Page{
			ID:         p.ID,
			UserID:     ownerID,
			ParentID:   p.ParentID,
			DatabaseID: p.DatabaseID,
			Title:      p.Title,
			Icon:       p.Icon,
			IsDatabase: p.IsDatabase,
			Position:   p.Position,
			CreatedAt:  created,
			UpdatedAt:  created,
		}
		ok, err := skipExisting(r.Pages.Create(ctx, &page))
		if err != nil {
			return stats, fmt.Errorf("seed page %s: %w", p.ID, err)
		}
		if !ok {
			stats.Skipped++
			continue
		}
		stats.Pages++

		if len(p.Blocks) > 0 {
			blocks, err := toBlocks(p.Blocks)
			if err != nil {
				return stats, fmt.Errorf("seed blocks of %s: %w", p.ID, err)
			}
			if err := r.Blocks.Replace(ctx, p.ID, blocks); err != nil {
				return stats, fmt.Errorf("seed blocks of %s: %w", p.ID, err)
			}
		}
	}

	for _, db := range f.Databases {
		if err := f.applyDatabase(ctx, r, db, &stats); err != nil {
			return stats, err
		}
	}

	logger.Info("fixtures applied",
		"pages", stats.Pages,
		"properties", stats.Properties,
		"rows", stats.Rows,
		"views", stats.Views,
		"skipped", stats.Skipped,
	)
	return stats, nil
}

func (f *Fixtures) applyDatabase(ctx context.Context, r Repositories, db databaseFixture, stats *Stats) error {
	for _, p := range db.Properties {
		prop := models.Property{
			ID:         p.ID,
			DatabaseID: db.ID,
			Name:       p.Name,
			Type:       models.PropertyType(p.Type),
			Config:     nonNil(p.Config),
			Position:   p.Position,
		}
		for _, o := range p.Options {
			prop.Options = append(prop.Options, models.SelectOption{ID: o.ID, Name: o.Name, Color: o.Color})
		}
		ok, err := skipExisting(r.Properties.Create(ctx, &prop))
		if err != nil {
			return fmt.Errorf("seed property %s: %w", p.ID, err)
		}
		count(ok, &stats.Properties, &stats.Skipped)
	}

	for _, v := range db.Views {
		view := models.View{
			ID:         v.ID,
			DatabaseID: db.ID,
			Name:       v.Name,
			Type:       models.ViewType(v.Type),
			Config:     nonNil(v.Config),
			Position:   v.Position,
			CreatedAt:  f.CreatedAt.UTC(),
		}
		ok, err := skipExisting(r.Views.Create(ctx, &view))
		if err != nil {
			return fmt.Errorf("seed view %s: %w", v.ID, err)
		}
		count(ok, &stats.Views, &stats.Skipped)
	}

	for _, rw := range db.Rows {
		row := models.Row{
			ID:         rw.ID,
			DatabaseID: db.ID,
			Title:      rw.Title,
			Values:     nonNil(rw.Values),
		}
		ok, err := skipExisting(r.Rows.Create(ctx, &row))
		if err != nil {
			return fmt.Errorf("seed row %s: %w", rw.ID, err)
		}
		count(ok, &stats.Rows, &stats.Skipped)
	}
	return nil
}

// skipExisting reports false for a conflict, which is not an error here.
func skipExisting(err error) (bool, error) {
	if errors.Is(err, domain.ErrConflict) {
		return false, nil
	}
	return err == nil, err
}

func count(created bool, n, skipped *int) {
	if created {
		*n++
	} else {
		*skipped++
	}
}

// toBlocks re-encodes YAML-decoded blocks as JSON documents.
func toBlocks(raw []any) (models.Blocks, error) {
	blocks := make(models.Blocks, 0, len(raw))
	for _, b := range raw {
		data, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, data)
	}
	return blocks, nil
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
