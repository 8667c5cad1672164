package worldfile

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelWorldData holds every key of a 'WORLD' type file.
type topLevelWorldData struct {
	Format     string         `toml:"format"`
	Type       string         `toml:"type"`
	World      worldHeader    `toml:"world"`
	Rooms      []roomDef      `toml:"room"`
	Exits      []exitDef      `toml:"exit"`
	Mobiles    []entityDef    `toml:"mobile"`
	Objects    []entityDef    `toml:"object"`
	Characters []characterDef `toml:"character"`
}

type worldHeader struct {
	Start string `toml:"start"`
}

type roomDef struct {
	Label       string `toml:"label"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

func (r roomDef) toRoom() Room {
	return Room{
		Label:       normalizeLabel(r.Label),
		Name:        r.Name,
		Description: r.Description,
	}
}

type exitDef struct {
	From          string `toml:"from"`
	To            string `toml:"to"`
	Direction     string `toml:"direction"`
	Bidirectional bool   `toml:"bidirectional"`
}

type entityDef struct {
	Room  string `toml:"room"`
	Short string `toml:"short"`
	Long  string `toml:"long"`
}

type characterDef struct {
	Name     string `toml:"name"`
	Room     string `toml:"room"`
	Short    string `toml:"short"`
	Long     string `toml:"long"`
	Password string `toml:"password"`
}
