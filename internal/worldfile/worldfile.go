// Package worldfile loads MUD worlds from TOML world definition files and
// populates a world.Store with them.
//
// A world file starts with a header giving its format and type:
//
//	format = "TUNAMUD"
//	type = "WORLD"
//
// followed by a [world] table naming the start room, and any number of [[room]],
// [[exit]], [[mobile]], [[object]], and [[character]] tables. A file with
// type = "MANIFEST" instead lists other files to include, relative to itself,
// in a files key.
package worldfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

// MaxManifestRecursionDepth is how deep manifests may include other manifests.
const MaxManifestRecursionDepth = 32

const (
	FormatName   = "TUNAMUD"
	TypeWorld    = "WORLD"
	TypeManifest = "MANIFEST"
)

var (
	// ErrManifestEmpty is returned when a manifest file is read successfully
	// but specifies no files to load.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is returned when manifests include each other
	// more than MaxManifestRecursionDepth levels deep.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is returned when a manifest's inclusion chain
	// refers back to itself.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")
)

// FileInfo is the header every world file must have.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// Load loads a world from the file at path. If it is a manifest, every file it
// lists is loaded recursively and all of them are combined before the result
// is checked.
func Load(path string) (WorldData, error) {
	unmarshaled, err := recursiveUnmarshal(path, nil)
	if err != nil {
		return WorldData{}, err
	}

	return parseWorldData(unmarshaled)
}

// Parse parses a single world file already read into memory. Manifests are not
// supported by Parse as there is no directory to resolve their files against.
func Parse(data []byte) (WorldData, error) {
	unmarshaled, err := unmarshalWorldData(data)
	if err != nil {
		return WorldData{}, err
	}

	return parseWorldData(unmarshaled)
}

// ScanFileInfo reads the header of a world file from data. Only the bytes up to
// the first table header are parsed.
func ScanFileInfo(data []byte) (FileInfo, error) {
	var topLevelEnd = -1
	var onNewLine bool
	for b := range data {
		if onNewLine && data[b] == '[' {
			topLevelEnd = b
			break
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}

// manifStack detects circular includes and caps how deep includes can go.
func recursiveUnmarshal(path string, manifStack []string) (topLevelWorldData, error) {
	path = filepath.Clean(path)

	fileData, err := os.ReadFile(path)
	if err != nil {
		return topLevelWorldData{}, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	info, err := ScanFileInfo(fileData)
	if err != nil {
		return topLevelWorldData{}, fmt.Errorf("%q: detecting file type: %w", path, err)
	}
	if strings.ToUpper(info.Format) != FormatName {
		return topLevelWorldData{}, fmt.Errorf("%q: file does not have a 'format = %q' entry", path, FormatName)
	}

	switch strings.ToUpper(info.Type) {
	case TypeWorld:
		unmarshaled, err := unmarshalWorldData(fileData)
		if err != nil {
			return unmarshaled, fmt.Errorf("world file %q: %w", path, err)
		}
		return unmarshaled, nil
	case TypeManifest:
		if len(manifStack) >= MaxManifestRecursionDepth {
			return topLevelWorldData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for i := range manifStack {
			if manifStack[i] == path {
				return topLevelWorldData{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		manif, err := unmarshalManifest(fileData)
		if err != nil {
			return topLevelWorldData{}, fmt.Errorf("manifest file %q: %w", path, err)
		}

		subStack := make([]string, len(manifStack)+1)
		copy(subStack, manifStack)
		subStack[len(subStack)-1] = path

		manifDir := filepath.Dir(path)

		var combined topLevelWorldData
		processed := 0
		for _, relPath := range manif.Files {
			included, err := recursiveUnmarshal(filepath.Join(manifDir, relPath), subStack)
			if err != nil {
				// a circular reference is skipped rather than followed.
				if errors.Is(err, ErrManifestCircularRef) {
					continue
				}
				return topLevelWorldData{}, fmt.Errorf("in file referred to by manifest file %q: %w", path, err)
			}

			if included.World.Start != "" {
				if combined.World.Start != "" {
					return combined, fmt.Errorf("manifest file %q: duplicate start; start has already been defined as %q", path, combined.World.Start)
				}
				combined.World.Start = included.World.Start
			}
			combined.Rooms = append(combined.Rooms, included.Rooms...)
			combined.Exits = append(combined.Exits, included.Exits...)
			combined.Mobiles = append(combined.Mobiles, included.Mobiles...)
			combined.Objects = append(combined.Objects, included.Objects...)
			combined.Characters = append(combined.Characters, included.Characters...)
			processed++
		}

		// an empty manifest is only a problem for the very first one.
		if len(manifStack) == 0 && processed == 0 {
			return combined, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}
		return combined, nil
	default:
		return topLevelWorldData{}, fmt.Errorf("%q: file does not have 'type' set to either %q or %q", path, TypeWorld, TypeManifest)
	}
}

func unmarshalWorldData(tomlData []byte) (topLevelWorldData, error) {
	var top topLevelWorldData
	if err := toml.Unmarshal(tomlData, &top); err != nil {
		return top, err
	}

	if strings.ToUpper(top.Format) != FormatName {
		return top, fmt.Errorf("in header: 'format' key must exist and be set to %q", FormatName)
	}
	if strings.ToUpper(top.Type) != TypeWorld {
		return top, fmt.Errorf("in header: 'type' must exist and be set to %q", TypeWorld)
	}

	return top, nil
}

func unmarshalManifest(tomlData []byte) (topLevelManifest, error) {
	var top topLevelManifest
	if err := toml.Unmarshal(tomlData, &top); err != nil {
		return top, err
	}

	if strings.ToUpper(top.Type) != TypeManifest {
		return top, fmt.Errorf("in header: 'type' must exist and be set to %q", TypeManifest)
	}

	return top, nil
}
