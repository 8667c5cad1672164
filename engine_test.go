package tunamud

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tavernWorld = "worlds/tavern.toml"

func Test_Engine_RunUntilQuit(t *testing.T) {
	assert := assert.New(t)

	in := strings.NewReader("look at the goblin\n\nwave at the cracker\nnorth\nquit\nlook\n")
	var out bytes.Buffer

	eng, err := New(in, &out, Options{WorldFile: tavernWorld, ForceDirect: true})
	require.NoError(t, err)

	err = eng.RunUntilQuit(context.Background())
	assert.NoError(err)
	assert.NoError(eng.Close())

	output := out.String()
	assert.True(strings.HasPrefix(output, "Welcome to TunaMUD\n(direct input mode)\n"), "output: %q", output)
	assert.Contains(output, "The Common Room\n")
	assert.Contains(output, "Exits: north and southeast.\n")
	assert.Contains(output, "The goblin is hunched over a mug")
	assert.Contains(output, "You wave at a big blue cracker.\n")
	assert.Contains(output, "The Kitchen\n")
	assert.True(strings.HasSuffix(output, "Goodbye\n"), "output: %q", output)

	// nothing after quit is read.
	assert.Equal(1, strings.Count(output, "The Common Room\n"))
}

func Test_Engine_RunUntilQuit_endOfInput(t *testing.T) {
	var out bytes.Buffer

	eng, err := New(strings.NewReader("exits"), &out, Options{WorldFile: tavernWorld, ForceDirect: true})
	require.NoError(t, err)
	defer eng.Close()

	err = eng.RunUntilQuit(context.Background())

	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(out.String(), "Exits: north and southeast.\nGoodbye\n"), "output: %q", out.String())
}

func Test_New_characterSelection(t *testing.T) {
	const twoCharacters = `format = "TUNAMUD"
type = "WORLD"

[world]
start = "HALL"

[[room]]
label = "HALL"
name = "hall"

[[character]]
name = "alice"

[[character]]
name = "bob"
`
	const noCharacters = `format = "TUNAMUD"
type = "WORLD"

[world]
start = "HALL"

[[room]]
label = "HALL"
name = "hall"
`

	testCases := []struct {
		name      string
		world     string
		character string
		expectErr string
		expectIn  string
	}{
		{name: "only character is picked", world: "", expectIn: "george"},
		{name: "named character", world: twoCharacters, character: "Bob", expectIn: "bob"},
		{name: "ambiguous", world: twoCharacters, expectErr: "pick one of: alice, bob"},
		{name: "unknown name", world: twoCharacters, character: "carol", expectErr: `no character named "carol"`},
		{name: "guest is created", world: noCharacters, expectIn: GuestName},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			worldFile := tavernWorld
			if tc.world != "" {
				worldFile = filepath.Join(t.TempDir(), "world.toml")
				require.NoError(t, os.WriteFile(worldFile, []byte(tc.world), 0644))
			}

			eng, err := New(strings.NewReader(""), &bytes.Buffer{}, Options{WorldFile: worldFile, Character: tc.character})

			if tc.expectErr != "" {
				if assert.Error(err) {
					assert.Contains(err.Error(), tc.expectErr)
				}
				return
			}
			require.NoError(t, err)
			defer eng.Close()

			assert.Equal(tc.expectIn, eng.caller.Name)
		})
	}
}
