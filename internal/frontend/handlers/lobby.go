package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/frontend/telnet"
	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/npc"
	"github.com/cory-johannsen/arena/internal/gameserver"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
)

// maxLoginAttempts bounds failed name prompts before disconnecting.
const maxLoginAttempts = 5

// defaultLadderSize is the ladder length shown without an argument.
const defaultLadderSize = 10

const lobbyHelp = `  sheet                   show your character
  skills                  list your class skills
  upgrade <skill>         buy one mastery level
  raise <attr> [n]        spend attribute points
  monsters                list monsters
  hunt [monster] [level]  start a hunt
  duel <name>             challenge another character
  ladder [n]              show the honor ladder
  quit                    leave the arena`

// Characters looks characters up by name. gameserver.CharacterStore
// implements it.
type Characters interface {
	GetByName(ctx context.Context, name string) (*character.Character, error)
}

// Trainer manages character creation and growth. *gameserver.TrainingService
// implements it.
type Trainer interface {
	Create(ctx context.Context, name, class string) (*character.Character, error)
	Skills(ctx context.Context, characterID int64) ([]gameserver.SkillStatus, error)
	UpgradeSkill(ctx context.Context, characterID int64, skillID string) (gameserver.Upgrade, error)
	Allocate(ctx context.Context, characterID int64, attribute string, n int) (*character.Character, error)
}

// Dueler runs PvP and the ladder. *gameserver.DuelService implements it.
type Dueler interface {
	Duel(ctx context.Context, challengerID, defenderID int64) (gameserver.DuelReport, error)
	Ladder(ctx context.Context, n int) ([]gameserver.LadderEntry, error)
	Standing(ctx context.Context, characterID int64) (int, error)
}

var (
	_ Trainer = (*gameserver.TrainingService)(nil)
	_ Dueler  = (*gameserver.DuelService)(nil)
)

// ArenaHandler serves the login prompt and the lobby command loop. A
// character may be connected at most once.
type ArenaHandler struct {
	chars    Characters
	hunts    Hunter
	training Trainer
	duels    Dueler
	spawner  *npc.Spawner
	render   Renderer
	logger   *zap.Logger

	mu     sync.Mutex
	online map[int64]io.Writer
}

var _ telnet.SessionHandler = (*ArenaHandler)(nil)

// NewArenaHandler creates an ArenaHandler.
//
// Precondition: all arguments must be non-nil; render.Classes must be set.
func NewArenaHandler(
	chars Characters,
	hunts Hunter,
	training Trainer,
	duels Dueler,
	spawner *npc.Spawner,
	render Renderer,
	logger *zap.Logger,
) *ArenaHandler {
	return &ArenaHandler{
		chars:    chars,
		hunts:    hunts,
		training: training,
		duels:    duels,
		spawner:  spawner,
		render:   render,
		logger:   logger,
		online:   make(map[int64]io.Writer),
	}
}

// HandleSession serves one telnet client.
func (h *ArenaHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	return h.Serve(ctx, conn, conn)
}

// Serve runs login and the lobby over in and out.
func (h *ArenaHandler) Serve(ctx context.Context, in LineReader, out io.Writer) error {
	fmt.Fprintln(out, h.render.paint(telnet.BrightYellow, "Welcome to the arena."))
	ch, err := h.login(ctx, in, out)
	if err != nil || ch == nil {
		return err
	}
	if !h.attach(ch.ID, out) {
		fmt.Fprintf(out, "%s is already in the arena.\n", ch.Name)
		return nil
	}
	defer h.detach(ch.ID)

	h.logger.Info("player entered", zap.Int64("character_id", ch.ID), zap.String("name", ch.Name))
	fmt.Fprintf(out, "Welcome, %s. Type help for commands.\n", ch.Name)
	return h.lobby(ctx, ch, in, out)
}

// login resolves the player's character, creating one on request. A nil
// character with a nil error means the player left.
func (h *ArenaHandler) login(ctx context.Context, in LineReader, out io.Writer) (*character.Character, error) {
	for range maxLoginAttempts {
		fmt.Fprint(out, "Name (or: new <name> <class>): ")
		line, err := in.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		fields := strings.Fields(line)
		switch {
		case len(fields) == 0:
			continue
		case strings.EqualFold(fields[0], "quit"):
			return nil, nil
		case strings.EqualFold(fields[0], "new"):
			if len(fields) != 3 {
				fmt.Fprintln(out, "usage: new <name> <warrior|mage|archer>")
				continue
			}
			ch, err := h.training.Create(ctx, fields[1], strings.ToLower(fields[2]))
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			fmt.Fprintf(out, "Created %s.\n", ch.Name)
			return ch, nil
		default:
			ch, err := h.chars.GetByName(ctx, fields[0])
			if errors.Is(err, postgres.ErrCharacterNotFound) {
				fmt.Fprintf(out, "No character named %q.\n", fields[0])
				continue
			}
			if err != nil {
				return nil, err
			}
			return ch, nil
		}
	}
	fmt.Fprintln(out, "Too many attempts.")
	return nil, nil
}

func (h *ArenaHandler) lobby(ctx context.Context, ch *character.Character, in LineReader, out io.Writer) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, "arena> ")
		line, err := in.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		verb := strings.ToLower(fields[0])
		if verb == "quit" || verb == "q" {
			fmt.Fprintln(out, "Farewell.")
			return nil
		}
		if err := h.dispatch(ctx, ch, verb, fields[1:], in, out); err != nil {
			fmt.Fprintln(out, err)
		}
	}
}

func (h *ArenaHandler) dispatch(ctx context.Context, ch *character.Character, verb string, args []string, in LineReader, out io.Writer) error {
	switch verb {
	case "help", "?":
		fmt.Fprintln(out, lobbyHelp)
	case "sheet", "me":
		current, err := h.chars.GetByName(ctx, ch.Name)
		if err != nil {
			return err
		}
		pos, err := h.duels.Standing(ctx, ch.ID)
		if err != nil {
			h.logger.Debug("ladder standing unavailable", zap.Int64("character_id", ch.ID), zap.Error(err))
			pos = 0
		}
		h.render.Sheet(out, current, pos)
	case "skills":
		skills, err := h.training.Skills(ctx, ch.ID)
		if err != nil {
			return err
		}
		h.render.Skills(out, skills)
	case "upgrade":
		if len(args) != 1 {
			return errors.New("usage: upgrade <skill>")
		}
		up, err := h.training.UpgradeSkill(ctx, ch.ID, strings.ToLower(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s is now mastery %d (spent %d gold, %d left)\n", up.SkillID, up.Mastery, up.Spent, up.Gold)
	case "raise":
		if len(args) < 1 || len(args) > 2 {
			return errors.New("usage: raise <attr> [n]")
		}
		n := 1
		if len(args) == 2 {
			v, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid point count %q", args[1])
			}
			n = v
		}
		updated, err := h.training.Allocate(ctx, ch.ID, strings.ToLower(args[0]), n)
		if err != nil {
			return err
		}
		h.render.Sheet(out, updated, 0)
	case "monsters":
		h.render.Monsters(out, h.spawner)
	case "hunt":
		return h.hunt(ctx, ch, args, in, out)
	case "duel":
		if len(args) != 1 {
			return errors.New("usage: duel <name>")
		}
		target, err := h.chars.GetByName(ctx, args[0])
		if err != nil {
			return err
		}
		rep, err := h.duels.Duel(ctx, ch.ID, target.ID)
		if err != nil {
			return err
		}
		h.render.Duel(out, rep, false)
		h.notify(target.ID, func(w io.Writer) {
			fmt.Fprintf(w, "\n%s challenged you to a duel.\n", ch.Name)
			h.render.Duel(w, rep, false)
		})
	case "ladder":
		n := defaultLadderSize
		if len(args) == 1 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 0 {
				return fmt.Errorf("invalid ladder size %q", args[0])
			}
			n = v
		}
		entries, err := h.duels.Ladder(ctx, n)
		if err != nil {
			return err
		}
		h.render.Ladder(out, entries)
	default:
		return fmt.Errorf("unknown command %q (try help)", verb)
	}
	return nil
}

func (h *ArenaHandler) hunt(ctx context.Context, ch *character.Character, args []string, in LineReader, out io.Writer) error {
	if len(args) > 2 {
		return errors.New("usage: hunt [monster] [level]")
	}
	monster, level := "", 0
	if len(args) >= 1 {
		monster = strings.ToLower(args[0])
	} else if ids := h.spawner.IDs(); len(ids) > 0 {
		monster = ids[0]
	}
	if len(args) == 2 {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid level %q", args[1])
		}
		level = v
	}

	view, err := h.hunts.Start(ctx, ch.ID, monster, level)
	if err != nil {
		return err
	}
	h.render.View(out, view)
	return RunHunt(ctx, h.hunts, ch.ID, in, out, h.render)
}

// DeliverIdleStrike shows an idle strike to the character's session, if
// connected. It is meant for gameserver.HuntService.OnIdleStrike.
func (h *ArenaHandler) DeliverIdleStrike(characterID int64, res battle.RoundResult) {
	h.notify(characterID, func(w io.Writer) {
		fmt.Fprintln(w, "\n-- you hesitate --")
		h.render.Round(w, res)
	})
}

// Online reports whether the character is connected.
func (h *ArenaHandler) Online(characterID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.online[characterID]
	return ok
}

func (h *ArenaHandler) notify(characterID int64, write func(w io.Writer)) {
	h.mu.Lock()
	w, ok := h.online[characterID]
	h.mu.Unlock()
	if ok {
		write(w)
	}
}

func (h *ArenaHandler) attach(characterID int64, w io.Writer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.online[characterID]; ok {
		return false
	}
	h.online[characterID] = w
	return true
}

func (h *ArenaHandler) detach(characterID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.online, characterID)
}
