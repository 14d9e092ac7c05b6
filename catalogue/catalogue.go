package catalogue

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/katalvlaran/carcassonne/tile"
)

// Sentinel errors for catalogue parsing.
var (
	// ErrSyntax wraps grammar errors; the message carries the position.
	ErrSyntax = errors.New("catalogue: syntax error")

	// ErrEmpty is returned for a source without tile blocks.
	ErrEmpty = errors.New("catalogue: no tiles declared")

	// ErrDuplicateKind is returned when two tile blocks share a name.
	ErrDuplicateKind = errors.New("catalogue: duplicate tile kind")

	// ErrBadCount is returned for a count below one.
	ErrBadCount = errors.New("catalogue: count must be at least 1")
)

// Kind is one tile block: a template and how many copies of it exist.
type Kind struct {
	Template *tile.Template
	Count    int
}

// Catalogue is an ordered list of tile kinds.
type Catalogue struct {
	Kinds []Kind
}

// Len returns the number of tiles, counting copies.
func (c *Catalogue) Len() int {
	n := 0
	for _, k := range c.Kinds {
		n += k.Count
	}
	return n
}

// Templates expands the catalogue into one template pointer per tile, kinds
// in declaration order and copies adjacent. Copies share their template.
func (c *Catalogue) Templates() []*tile.Template {
	out := make([]*tile.Template, 0, c.Len())
	for _, k := range c.Kinds {
		for i := 0; i < k.Count; i++ {
			out = append(out, k.Template)
		}
	}
	return out
}

// Kind returns the kind with the given name.
func (c *Catalogue) Kind(name string) (Kind, bool) {
	for _, k := range c.Kinds {
		if k.Template.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}

// Parse reads a catalogue from r. name is used in error positions.
func Parse(name string, r io.Reader) (*Catalogue, error) {
	decl, err := parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return build(decl)
}

// ParseString reads a catalogue from src.
func ParseString(name, src string) (*Catalogue, error) {
	return Parse(name, strings.NewReader(src))
}

// Load reads a catalogue file.
func Load(path string) (*Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(path, f)
}

//go:embed base.tiles
var baseSource string

var base = sync.OnceValues(func() (*Catalogue, error) {
	return ParseString("base.tiles", baseSource)
})

// Base returns the built-in base-game catalogue. The result is shared and
// must not be modified.
func Base() (*Catalogue, error) {
	return base()
}

// build converts the syntax tree into templates and checks the semantic rules
// the grammar cannot express.
func build(decl *fileDecl) (*Catalogue, error) {
	if len(decl.Tiles) == 0 {
		return nil, ErrEmpty
	}
	seen := make(map[string]bool, len(decl.Tiles))
	c := &Catalogue{Kinds: make([]Kind, 0, len(decl.Tiles))}
	for _, td := range decl.Tiles {
		if seen[td.Name] {
			return nil, fmt.Errorf("%w: %q at %s", ErrDuplicateKind, td.Name, td.Pos)
		}
		seen[td.Name] = true

		count := 1
		if td.Count != "" {
			n, err := strconv.Atoi(td.Count)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("%w: tile %q has count %s", ErrBadCount, td.Name, td.Count)
			}
			count = n
		}

		t := &tile.Template{Name: td.Name, Image: td.Image}
		for _, e := range td.Entries {
			if e.Monastery {
				t.Monastery = true
				continue
			}
			st, err := buildStructure(e.Structure)
			if err != nil {
				return nil, fmt.Errorf("tile %q: %w", td.Name, err)
			}
			t.Structures = append(t.Structures, st)
		}
		c.Kinds = append(c.Kinds, Kind{Template: t, Count: count})
	}
	return c, nil
}

func buildStructure(sd *structureDecl) (tile.Structure, error) {
	terrain, err := tile.ParseTerrain(sd.Terrain)
	if err != nil {
		return tile.Structure{}, err
	}
	st := tile.Structure{Name: sd.Label, Terrain: terrain, Value: sd.Value}
	if st.Name == "" {
		st.Name = sd.Terrain
	}
	for _, s := range sd.Sides {
		side, err := tile.ParseSide(s)
		if err != nil {
			return tile.Structure{}, err
		}
		if !st.Claims(side) {
			st.Sides = append(st.Sides, side)
		}
	}
	return st, nil
}

// Format writes c in the catalogue text format. Parsing the output yields an
// equivalent catalogue.
func Format(w io.Writer, c *Catalogue) error {
	var b strings.Builder
	for i, k := range c.Kinds {
		if i > 0 {
			b.WriteByte('\n')
		}
		t := k.Template
		fmt.Fprintf(&b, "tile %s count %d", strconv.Quote(t.Name), k.Count)
		if t.Image != "" {
			fmt.Fprintf(&b, " image %s", strconv.Quote(t.Image))
		}
		b.WriteString(" {\n")
		if t.Monastery {
			b.WriteString("  monastery\n")
		}
		for _, st := range t.Structures {
			fmt.Fprintf(&b, "  %s %s", st.Terrain, strconv.Quote(st.Name))
			for _, s := range st.Sides {
				fmt.Fprintf(&b, " %s", s)
			}
			if st.Value != 0 {
				fmt.Fprintf(&b, " value %d", st.Value)
			}
			b.WriteByte('\n')
		}
		b.WriteString("}\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
