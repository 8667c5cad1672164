package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewRegistry(t *testing.T) {
	testCases := []struct {
		name      string
		entries   []Entry
		expectErr error
	}{
		{
			name: "no conflicts",
			entries: []Entry{
				Action(stubHandler{name: "look"}),
				Action(stubHandler{name: "kill"}),
				Emote(stubHandler{name: "laugh"}),
			},
		},
		{
			name: "duplicate action",
			entries: []Entry{
				Action(stubHandler{name: "look"}),
				Action(stubHandler{name: "look"}),
			},
			expectErr: ErrDuplicateVerb,
		},
		{
			name: "action and emote share a name",
			entries: []Entry{
				Action(stubHandler{name: "wave"}),
				Emote(stubHandler{name: "WAVE"}),
			},
			expectErr: ErrDuplicateVerb,
		},
		{
			name:      "nil handler",
			entries:   []Entry{Action(nil)},
			expectErr: ErrNilHandler,
		},
		{
			name:      "empty name",
			entries:   []Entry{Emote(stubHandler{name: "  "})},
			expectErr: ErrEmptyVerb,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			reg, err := NewRegistry(tc.entries...)

			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				assert.Nil(reg)
				return
			}
			assert.NoError(err)
			assert.NotNil(reg)
		})
	}
}

func Test_Registry_Lookup(t *testing.T) {
	assert := assert.New(t)

	reg, err := NewRegistry(
		Action(stubHandler{name: "Look"}),
		Emote(stubHandler{name: "laugh"}),
	)
	require.NoError(t, err)

	class, h, ok := reg.Lookup("LOOK")
	assert.True(ok)
	assert.Equal(ClassAction, class)
	assert.Equal("Look", h.Name())

	class, h, ok = reg.Lookup("laugh")
	assert.True(ok)
	assert.Equal(ClassEmote, class)
	assert.Equal("laugh", h.Name())

	_, h, ok = reg.Lookup("dance")
	assert.False(ok)
	assert.Nil(h)
}

func Test_Registry_Verbs(t *testing.T) {
	assert := assert.New(t)

	reg, err := NewRegistry(
		Action(stubHandler{name: "look"}),
		Emote(stubHandler{name: "smile"}),
		Action(stubHandler{name: "kill"}),
		Emote(stubHandler{name: "laugh"}),
	)
	require.NoError(t, err)

	assert.Equal([]string{"kill", "look"}, reg.Verbs(ClassAction))
	assert.Equal([]string{"laugh", "smile"}, reg.Verbs(ClassEmote))
}

func Test_CompleteAdverb(t *testing.T) {
	testCases := []struct {
		input  string
		expect string
	}{
		{input: "maniacally", expect: "maniacally"},
		{input: "maniac", expect: "maniacally"},
		{input: "heroic", expect: "heroically"},
		{input: "Joyfully", expect: "joyfully"},
		{input: "good", expect: "well"},
		{input: "fast", expect: "fast"},
		{input: "hard", expect: "hard"},
		{input: "gentle", expect: "gently"},
		{input: "happy", expect: "happily"},
		{input: "coy", expect: "coyly"},
		{input: "full", expect: "fully"},
		{input: "true", expect: "truly"},
		{input: "sad", expect: "sadly"},
		{input: "wild", expect: "wildly"},
		{input: "hysteric", expect: "hysterically"},
		{input: "sheepish", expect: "sheepishly"},
		{input: "sly", expect: "slyly"},
		{input: "shy", expect: "shyly"},
		{input: "dry", expect: "dryly"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expect, CompleteAdverb(tc.input))
		})
	}
}
