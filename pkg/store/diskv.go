package store

import (
	"context"
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/tripmap/pkg/bounds"
)

// ErrNoOverride is returned when deleting a city that has no override.
var ErrNoOverride = errors.New("store: no such gazetteer override")

// Overrides persists user supplied city coordinates that take precedence
// over the built-in gazetteer.
type Overrides interface {
	bounds.Gazetteer
	List(ctx context.Context) []bounds.Entry
	Store(e bounds.Entry) error
	Delete(city, country string) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load opens the override store under the config's base path.
func Load(cfg Config) (Overrides, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	if cfg.BasePath() == "" {
		return nil, errors.New("store: base path unknown")
	}

	basePath := filepath.Join(cfg.BasePath(), gazetteerDir)
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      256 * 1024,
	}), basePath: basePath}, nil
}

// Gazetteer layers the overrides over the built-in table.
func Gazetteer(o Overrides) bounds.Gazetteer {
	if o == nil {
		return bounds.Static()
	}
	return bounds.Layered{o, bounds.Static()}
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) (bounds.Entry, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return bounds.Entry{}, err
	}
	var e bounds.Entry
	if err := json.Unmarshal(val, &e); err != nil {
		return bounds.Entry{}, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return e, nil
}

func (p *persistence) Lookup(city, country string) (bounds.Point, bool) {
	key := toKey(city, country)
	if !p.d.Has(key) {
		return bounds.Point{}, false
	}
	e, err := p.read(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
		return bounds.Point{}, false
	}
	return e.Point, true
}

func (p *persistence) List(ctx context.Context) []bounds.Entry {
	all := make([]bounds.Entry, 0)
	for key := range p.d.Keys(ctx.Done()) {
		e, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, e)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return bounds.Key(all[i].City, all[i].Country) < bounds.Key(all[j].City, all[j].Country)
	})
	return all
}

func (p *persistence) Store(e bounds.Entry) error {
	e.City = strings.TrimSpace(e.City)
	e.Country = strings.TrimSpace(e.Country)
	if e.City == "" {
		return errors.New("store: city required")
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.d.Write(toKey(e.City, e.Country), data)
}

func (p *persistence) Delete(city, country string) error {
	key := toKey(city, country)
	if !p.d.Has(key) {
		return fmt.Errorf("%w: %s, %s", ErrNoOverride, city, country)
	}
	return p.d.Erase(key)
}

// bust drops any cached copy of key so the next read hits the disk.
func (p *persistence) bust(key string) {
	rc, err := p.d.ReadStream(key, true)
	if err != nil {
		return
	}
	_ = rc.Close()
}

var keyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Keys are `country-city`, each part base32 encoded so any spelling maps to
// a safe path: one directory per country, one file per city.
func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

func toKey(city, country string) string {
	return encodePart(country) + "-" + encodePart(city)
}

func encodePart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		// base32 of nothing is empty, which diskv cannot use as a path part.
		return "_"
	}
	return keyEncoding.EncodeToString([]byte(s))
}

func decodePart(s string) string {
	if s == "_" {
		return ""
	}
	b, err := keyEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(b)
}
