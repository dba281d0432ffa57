package handlers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/gameserver"
)

// LineReader yields one line of player input at a time. *telnet.Conn
// implements it.
type LineReader interface {
	ReadLine() (string, error)
}

// NewLineReader adapts r to LineReader. It returns io.EOF when r is
// exhausted.
func NewLineReader(r io.Reader) LineReader {
	return &scanReader{sc: bufio.NewScanner(r)}
}

type scanReader struct {
	sc *bufio.Scanner
}

func (s *scanReader) ReadLine() (string, error) {
	if s.sc.Scan() {
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Hunter drives PvE encounters. *gameserver.HuntService implements it.
type Hunter interface {
	Start(ctx context.Context, characterID int64, templateID string, level int) (battle.View, error)
	View(characterID int64) (battle.View, error)
	Round(ctx context.Context, characterID int64, a battle.Action) (battle.RoundResult, error)
	Strike(ctx context.Context, characterID int64) (battle.RoundResult, error)
	Flee(ctx context.Context, characterID int64) (battle.RoundResult, error)
	End(characterID int64)
}

var _ Hunter = (*gameserver.HuntService)(nil)

// HuntHelp lists the encounter commands.
const HuntHelp = `  attack | a           basic attack
  skill <id> | s <id>  use a skill
  wait | w             let the monster strike
  status | l           show the encounter
  flee                 leave the encounter
  quit | q             stop hunting`

// HuntInput is one parsed encounter command.
type HuntInput struct {
	Verb    string
	SkillID string
}

// ParseHuntInput maps one line of player input to a command. A blank line
// yields the empty verb.
func ParseHuntInput(line string) (HuntInput, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return HuntInput{}, nil
	}
	switch fields[0] {
	case "attack", "a":
		return HuntInput{Verb: "attack"}, nil
	case "skill", "s", "cast":
		if len(fields) != 2 {
			return HuntInput{}, errors.New("usage: skill <id>")
		}
		return HuntInput{Verb: "skill", SkillID: fields[1]}, nil
	case "wait", "w":
		return HuntInput{Verb: "wait"}, nil
	case "flee", "run":
		return HuntInput{Verb: "flee"}, nil
	case "status", "look", "l":
		return HuntInput{Verb: "status"}, nil
	case "help", "?":
		return HuntInput{Verb: "help"}, nil
	case "quit", "q", "exit":
		return HuntInput{Verb: "quit"}, nil
	}
	return HuntInput{}, fmt.Errorf("unknown command %q (try help)", fields[0])
}

// RunHunt reads encounter commands until the encounter ends, input runs
// out, ctx is cancelled, or the player quits. Rejected actions are reported
// and the loop continues.
//
// Postcondition: the character has no open encounter.
func RunHunt(ctx context.Context, h Hunter, characterID int64, in LineReader, out io.Writer, r Renderer) error {
	defer h.End(characterID)

	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, "hunt> ")
		line, err := in.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		cmd, err := ParseHuntInput(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		var res battle.RoundResult
		switch cmd.Verb {
		case "":
			continue
		case "quit":
			return nil
		case "help":
			fmt.Fprintln(out, HuntHelp)
			continue
		case "status":
			v, err := h.View(characterID)
			if err != nil {
				return huntOver(out, err)
			}
			r.View(out, v)
			continue
		case "attack":
			res, err = h.Round(ctx, characterID, battle.Attack())
		case "skill":
			res, err = h.Round(ctx, characterID, battle.UseSkill(cmd.SkillID))
		case "wait":
			res, err = h.Strike(ctx, characterID)
		case "flee":
			res, err = h.Flee(ctx, characterID)
		}
		if errors.Is(err, gameserver.ErrNoEncounter) {
			return huntOver(out, err)
		}
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		r.Round(out, res)
		if res.State.Over() {
			return nil
		}
	}
}

func huntOver(out io.Writer, err error) error {
	if errors.Is(err, gameserver.ErrNoEncounter) {
		fmt.Fprintln(out, "the hunt is over")
		return nil
	}
	return err
}
