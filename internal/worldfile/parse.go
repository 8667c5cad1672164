package worldfile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dekarrin/tunamud/internal/world"
)

var (
	labelRegexp             = regexp.MustCompile(`^[A-Z0-9_]+$`)
	identifierBadCharRegexp = regexp.MustCompile(`[^A-Z0-9_]`)
)

// WorldData is a checked world definition, ready to be put in a world.Store
// with Populate. Every room reference in it names a room in Rooms.
type WorldData struct {
	// Start is the label of the room new characters start in.
	Start string

	Rooms      []Room
	Exits      []Exit
	Entities   []Entity
	Characters []Character
}

// Room is a room definition. Label is the upper-case name the rest of the
// file refers to it by.
type Room struct {
	Label       string
	Name        string
	Description string
}

// Exit is a one-way connection between two rooms, given by label. A
// bidirectional exit in a world file becomes two Exits.
type Exit struct {
	From      string
	To        string
	Direction string
}

// Entity is a mobile or object definition.
type Entity struct {
	Kind      world.Kind
	Room      string
	ShortDesc string
	LongDesc  string
}

// Character is a player character definition. Password is in plain text.
type Character struct {
	Name      string
	Room      string
	ShortDesc string
	LongDesc  string
	Password  string
}

type stringSet map[string]bool

func normalizeLabel(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func parseWorldData(top topLevelWorldData) (WorldData, error) {
	wd := WorldData{}

	// gather room labels first so every reference can be checked as we go.
	roomLabels := make(stringSet)
	for i, r := range top.Rooms {
		label := normalizeLabel(r.Label)
		if err := checkLabel(label, roomLabels, "a room"); err != nil {
			return wd, fmt.Errorf("room[%d]: %w", i, err)
		}
		if r.Name == "" {
			return wd, fmt.Errorf("room %q: must have non-blank 'name' field", r.Label)
		}
		roomLabels[label] = true
		wd.Rooms = append(wd.Rooms, r.toRoom())
	}

	if len(wd.Rooms) < 1 {
		return wd, fmt.Errorf("world must define at least one room")
	}

	start := normalizeLabel(top.World.Start)
	if _, ok := roomLabels[start]; !ok {
		return wd, fmt.Errorf("world: start: no room with label %q exists", top.World.Start)
	}
	wd.Start = start

	exitDirs := make(stringSet)
	addExit := func(ex Exit) error {
		key := ex.From + "/" + ex.Direction
		if exitDirs[key] {
			return fmt.Errorf("room %q already has an exit to the %s", ex.From, ex.Direction)
		}
		exitDirs[key] = true
		wd.Exits = append(wd.Exits, ex)
		return nil
	}

	for i, ex := range top.Exits {
		from := normalizeLabel(ex.From)
		to := normalizeLabel(ex.To)
		dir := strings.ToLower(strings.TrimSpace(ex.Direction))

		if _, ok := roomLabels[from]; !ok {
			return wd, fmt.Errorf("exit[%d]: from: no room with label %q exists", i, ex.From)
		}
		if _, ok := roomLabels[to]; !ok {
			return wd, fmt.Errorf("exit[%d]: to: no room with label %q exists", i, ex.To)
		}
		if !world.IsDirection(dir) {
			return wd, fmt.Errorf("exit[%d]: direction: %q is not a compass direction", i, ex.Direction)
		}

		if err := addExit(Exit{From: from, To: to, Direction: dir}); err != nil {
			return wd, fmt.Errorf("exit[%d]: %w", i, err)
		}
		if ex.Bidirectional {
			back := Exit{From: to, To: from, Direction: world.Opposite(dir)}
			if err := addExit(back); err != nil {
				return wd, fmt.Errorf("exit[%d]: return path: %w", i, err)
			}
		}
	}

	addEntities := func(table string, kind world.Kind, defs []entityDef) error {
		for i, e := range defs {
			room := normalizeLabel(e.Room)
			if _, ok := roomLabels[room]; !ok {
				return fmt.Errorf("%s[%d]: room: no room with label %q exists", table, i, e.Room)
			}
			if strings.TrimSpace(e.Short) == "" {
				return fmt.Errorf("%s[%d]: must have non-blank 'short' field", table, i)
			}
			wd.Entities = append(wd.Entities, Entity{
				Kind:      kind,
				Room:      room,
				ShortDesc: e.Short,
				LongDesc:  e.Long,
			})
		}
		return nil
	}
	if err := addEntities("mobile", world.KindMobile, top.Mobiles); err != nil {
		return wd, err
	}
	if err := addEntities("object", world.KindObject, top.Objects); err != nil {
		return wd, err
	}

	names := make(stringSet)
	for i, c := range top.Characters {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return wd, fmt.Errorf("character[%d]: must have non-blank 'name' field", i)
		}
		if names[strings.ToLower(name)] {
			return wd, fmt.Errorf("character %q: name has already been used", c.Name)
		}
		names[strings.ToLower(name)] = true

		room := wd.Start
		if c.Room != "" {
			room = normalizeLabel(c.Room)
			if _, ok := roomLabels[room]; !ok {
				return wd, fmt.Errorf("character %q: room: no room with label %q exists", c.Name, c.Room)
			}
		}

		short := c.Short
		if short == "" {
			short = name
		}

		wd.Characters = append(wd.Characters, Character{
			Name:      name,
			Room:      room,
			ShortDesc: short,
			LongDesc:  c.Long,
			Password:  c.Password,
		})
	}

	return wd, nil
}

func checkLabel(label string, conflictSet stringSet, labeled string) error {
	if label == "" {
		return fmt.Errorf("must have non-blank 'label' field")
	}
	if _, ok := conflictSet[label]; ok {
		return fmt.Errorf("label %q has already been used for %s", label, labeled)
	}

	if !labelRegexp.MatchString(label) {
		badChar := identifierBadCharRegexp.FindString(label)
		return fmt.Errorf("%q has the %q character in it which is not allowed for labels", label, badChar)
	}

	return nil
}
