package verb

import (
	"context"
	"strings"

	"github.com/dekarrin/tunamud/internal/command"
	"github.com/dekarrin/tunamud/internal/tmerrors"
	"github.com/dekarrin/tunamud/internal/world"
)

var emotes = []EmoteHandler{
	{name: "laugh"},
	{name: "smile"},
	{name: "grin"},
	{name: "wave"},
	{name: "nod"},
	{name: "shrug"},
	{name: "sigh"},
	{name: "bow"},
	{name: "dance"},
	{name: "cry"},
}

// EmoteHandler is the handler shared by every emote. An emote is done by the
// caller, optionally in some manner and optionally at someone.
type EmoteHandler struct {
	name string
}

// NewEmote creates an emote invoked by name.
func NewEmote(name string) EmoteHandler {
	return EmoteHandler{name: name}
}

func (e EmoteHandler) Name() string {
	return e.name
}

func (e EmoteHandler) ValidatePhraseStructure(nounChunks, linkingWords []string) error {
	if len(nounChunks) > 1 {
		return tmerrors.BadArguments("You can only do that to one thing at a time.")
	}
	if len(linkingWords) > 1 {
		return tmerrors.BadArguments("That's a little too complicated.")
	}
	return nil
}

func (e EmoteHandler) Execute(ctx context.Context, w world.Store, caller world.Character, p *command.Phrase) (string, error) {
	var sb strings.Builder
	sb.WriteString("You ")
	sb.WriteString(e.name)

	if desc := p.Descriptor(); desc != "" {
		sb.WriteString(" ")
		sb.WriteString(desc)
	}

	if len(p.NounChunks) > 0 {
		target, err := resolveTarget(ctx, w, caller, p.Target())
		if err != nil {
			return "", err
		}

		link := "at"
		if len(p.LinkingWords) > 0 {
			link = p.LinkingWords[0]
		}

		sb.WriteString(" ")
		sb.WriteString(link)
		sb.WriteString(" ")
		sb.WriteString(describeTarget(caller, target))
	}

	sb.WriteString(".")
	return sb.String(), nil
}
