package verb

import (
	"context"
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/tunamud/internal/command"
	"github.com/dekarrin/tunamud/internal/tmerrors"
	"github.com/dekarrin/tunamud/internal/util"
	"github.com/dekarrin/tunamud/internal/world"
)

// HelpWidth is the width the HELP table is laid out to.
const HelpWidth = 80

// Look shows the caller's room, or the long description of something in it.
type Look struct{}

func (Look) Name() string  { return "look" }
func (Look) Usage() string { return "look [at something]" }
func (Look) Help() string  { return "show the room, or take a closer look at something in it" }

func (Look) ValidatePhraseStructure(nounChunks, linkingWords []string) error {
	if len(linkingWords) > 1 {
		return tmerrors.BadArguments("You don't have x-ray vision! Try taking stuff out first.")
	}
	if len(nounChunks) > 1 {
		return tmerrors.BadArguments("You don't have enough eyes for that!")
	}
	return nil
}

func (Look) Execute(ctx context.Context, w world.Store, caller world.Character, p *command.Phrase) (string, error) {
	if len(p.NounChunks) < 1 {
		return world.Describe(ctx, w, caller.Location, caller.ID)
	}

	target, err := resolveTarget(ctx, w, caller, p.Target())
	if err != nil {
		return "", err
	}

	if target.LongDesc == "" {
		return fmt.Sprintf("You see nothing special about %s.", describeTarget(caller, target)), nil
	}
	return target.LongDesc, nil
}

// Kill attacks something in the caller's room.
type Kill struct{}

func (Kill) Name() string  { return "kill" }
func (Kill) Usage() string { return "kill something" }
func (Kill) Help() string  { return "attack something in the room" }

func (Kill) ValidatePhraseStructure(nounChunks, linkingWords []string) error {
	if len(nounChunks) < 1 {
		return tmerrors.BadArguments("Kill what?")
	}
	if len(linkingWords) > 0 {
		return tmerrors.BadArguments("You can't reach that.")
	}
	if len(nounChunks) > 1 {
		return tmerrors.BadArguments("One thing at a time, bucko.")
	}
	return nil
}

func (Kill) Execute(ctx context.Context, w world.Store, caller world.Character, p *command.Phrase) (string, error) {
	target, err := resolveTarget(ctx, w, caller, p.Target())
	if err != nil {
		return "", err
	}

	switch {
	case target.ID == caller.ID:
		return "You think better of it.", nil
	case target.Kind == world.KindObject:
		return fmt.Sprintf("You give %s a good whack. It does not seem to mind.", target.ShortDesc), nil
	default:
		return fmt.Sprintf("You attack %s!", target.ShortDesc), nil
	}
}

// Put places one thing in, on, or at another.
type Put struct{}

func (Put) Name() string  { return "put" }
func (Put) Usage() string { return "put something in something" }
func (Put) Help() string  { return "put something in, on, or under something else" }

func (Put) ValidatePhraseStructure(nounChunks, linkingWords []string) error {
	if len(nounChunks) < 1 {
		return tmerrors.BadArguments("Put what?")
	}
	if len(linkingWords) < 1 || len(linkingWords) != len(nounChunks)-1 {
		return tmerrors.BadArgumentsf("Put %s where?", nounChunks[0])
	}
	return nil
}

func (Put) Execute(ctx context.Context, w world.Store, caller world.Character, p *command.Phrase) (string, error) {
	item, err := resolveTarget(ctx, w, caller, p.NounChunks[0])
	if err != nil {
		return "", err
	}
	dest, err := resolveTarget(ctx, w, caller, p.NounChunks[len(p.NounChunks)-1])
	if err != nil {
		return "", err
	}

	if item.ID == dest.ID {
		return "That would be quite a trick.", nil
	}

	return fmt.Sprintf("You put %s %s %s.", describeTarget(caller, item), p.LinkingWords[0], describeTarget(caller, dest)), nil
}

// Exits lists the ways out of the caller's room.
type Exits struct{}

func (Exits) Name() string  { return "exits" }
func (Exits) Usage() string { return "exits" }
func (Exits) Help() string  { return "list the ways out of the room" }

func (Exits) ValidatePhraseStructure(nounChunks, linkingWords []string) error {
	if len(nounChunks) > 0 || len(linkingWords) > 0 {
		return tmerrors.BadArguments("Exits takes no arguments.")
	}
	return nil
}

func (Exits) Execute(ctx context.Context, w world.Store, caller world.Character, p *command.Phrase) (string, error) {
	exits, err := w.Exits(ctx, caller.Location)
	if err != nil {
		return "", err
	}
	return world.DescribeExits(exits), nil
}

// Help lists the verbs, or describes one of them.
type Help struct {
	registry *command.Registry
}

func (*Help) Name() string  { return "help" }
func (*Help) Usage() string { return "help [verb]" }
func (*Help) Help() string  { return "show this list, or describe a single verb" }

func (*Help) ValidatePhraseStructure(nounChunks, linkingWords []string) error {
	if len(nounChunks) > 1 || len(linkingWords) > 0 {
		return tmerrors.BadArguments("Help with one thing at a time.")
	}
	return nil
}

func (h *Help) Execute(ctx context.Context, w world.Store, caller world.Character, p *command.Phrase) (string, error) {
	if h.registry == nil {
		return "", fmt.Errorf("help has no verb registry")
	}

	if len(p.NounChunks) > 0 {
		return h.describe(p.Target()), nil
	}

	var actions [][2]string
	var moves []string
	for _, v := range h.registry.Verbs(command.ClassAction) {
		_, handler, _ := h.registry.Lookup(v)
		if d, ok := handler.(Direction); ok {
			// aliases are listed alongside the full name.
			if d.name == d.direction {
				moves = append(moves, d.name)
			}
			continue
		}
		if helper, ok := handler.(Helper); ok {
			actions = append(actions, [2]string{strings.ToUpper(helper.Usage()), helper.Help()})
		}
	}
	if len(moves) > 0 {
		actions = append(actions, [2]string{strings.ToUpper(util.MakeTextList(moves, false)), "move in that direction; the first letters work too"})
	}

	emotes := strings.ToUpper(strings.Join(h.registry.Verbs(command.ClassEmote), ", "))

	return rosed.Edit("").
		WithOptions(rosed.Options{ParagraphSeparator: "\n"}).
		InsertDefinitionsTable(rosed.End, actions, HelpWidth).
		Insert(rosed.End, "\nEmotes, which can take a manner and someone to do it at:\n").
		Insert(rosed.End, rosed.Edit(emotes).Wrap(HelpWidth).String()).
		Insert(0, "Here are the commands you can use:\n").
		String(), nil
}

func (h *Help) describe(verb string) string {
	_, handler, ok := h.registry.Lookup(verb)
	if !ok {
		return fmt.Sprintf("There is no verb called %q.", verb)
	}

	helper, ok := handler.(Helper)
	if !ok {
		return fmt.Sprintf("%s: no help is available.", strings.ToUpper(verb))
	}

	return fmt.Sprintf("%s: %s", strings.ToUpper(helper.Usage()), util.CapitalizeFirst(helper.Help())+".")
}
