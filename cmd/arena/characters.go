package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type createCmd struct {
	class string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a new character" }
func (*createCmd) Usage() string {
	return `create [-class <id>] <name>:
  Create a level 1 character.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.class, "class", "warrior", "class ID (warrior, mage, archer)")
}

func (c *createCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, args, func(ctx context.Context, app *App) error {
		ch, err := app.Training.Create(ctx, f.Arg(0), c.class)
		if err != nil {
			return err
		}
		renderer(app).Sheet(os.Stdout, ch, 0)
		return nil
	})
}

type showCmd struct{}

func (*showCmd) Name() string { return "show" }
func (*showCmd) Synopsis() string { return "print a character sheet" }
func (*showCmd) Usage() string { return "show <name>:\n  Print the character sheet.\n" }
func (*showCmd) SetFlags(*flag.FlagSet) {}

func (*showCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, args, func(ctx context.Context, app *App) error {
		ch, err := lookup(ctx, app, f.Arg(0))
		if err != nil {
			return err
		}
		pos, err := app.Duels.Standing(ctx, ch.ID)
		if err != nil {
			return err
		}
		renderer(app).Sheet(os.Stdout, ch, pos)
		return nil
	})
}

type trainCmd struct {
	skill  string
	attr   string
	points int
}

func (*trainCmd) Name() string     { return "train" }
func (*trainCmd) Synopsis() string { return "list skills, upgrade mastery, or spend attribute points" }
func (*trainCmd) Usage() string {
	return `train [-skill <id>] [-attr <name> -points <n>] <name>:
  Without flags, list the character's class skills.
  -skill buys one mastery level with gold.
  -attr spends unallocated attribute points.
`
}

func (t *trainCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&t.skill, "skill", "", "skill ID to upgrade")
	f.StringVar(&t.attr, "attr", "", "attribute to raise (strength, magic, dexterity, agility, luck)")
	f.IntVar(&t.points, "points", 1, "attribute points to spend")
}

func (t *trainCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || (t.skill != "" && t.attr != "") {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return withApp(ctx, args, func(ctx context.Context, app *App) error {
		ch, err := lookup(ctx, app, f.Arg(0))
		if err != nil {
			return err
		}
		switch {
		case t.skill != "":
			up, err := app.Training.UpgradeSkill(ctx, ch.ID, t.skill)
			if err != nil {
				return err
			}
			fmt.Printf("%s is now mastery %d (spent %d gold, %d left)\n", up.SkillID, up.Mastery, up.Spent, up.Gold)
		case t.attr != "":
			updated, err := app.Training.Allocate(ctx, ch.ID, t.attr, t.points)
			if err != nil {
				return err
			}
			renderer(app).Sheet(os.Stdout, updated, 0)
		default:
			skills, err := app.Training.Skills(ctx, ch.ID)
			if err != nil {
				return err
			}
			renderer(app).Skills(os.Stdout, skills)
		}
		return nil
	})
}
