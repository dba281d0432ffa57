package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/arena/internal/game/character"
	"github.com/cory-johannsen/arena/internal/game/pvp"
	"github.com/cory-johannsen/arena/internal/game/stats"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when creating a character with a name already in use.
var ErrCharacterNameTaken = errors.New("character name already taken")

const characterColumns = `
	c.id, c.name, c.class, c.level, c.experience, c.attribute_points,
	c.strength, c.magic, c.dexterity, c.agility, c.luck,
	c.equip_strength, c.equip_magic, c.equip_dexterity, c.equip_agility, c.equip_luck,
	c.health, c.mana, c.gold, c.created_at, c.updated_at,
	COALESCE(p.honor_points, 0), COALESCE(p.wins, 0), COALESCE(p.losses, 0),
	COALESCE(p.win_streak, 0), COALESCE(p.best_streak, 0), p.last_battle`

const characterFrom = `
	FROM characters c LEFT JOIN pvp_stats p ON p.character_id = c.id`

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: p must be a valid, open Pool.
func NewCharacterRepository(p *Pool) *CharacterRepository {
	return &CharacterRepository{db: p.DB()}
}

// Create inserts a new character with an empty PvP record and returns it
// with ID and timestamps set. Mastery entries on c are stored as well.
//
// Precondition: c.Name must be non-empty.
// Postcondition: Returns ErrCharacterNameTaken when the name is in use.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	var id int64
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		a, e := c.Attributes, c.Equipment
		err := tx.QueryRow(ctx, `
			INSERT INTO characters
				(name, class, level, experience, attribute_points,
				 strength, magic, dexterity, agility, luck,
				 equip_strength, equip_magic, equip_dexterity, equip_agility, equip_luck,
				 health, mana, gold)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
			RETURNING id`,
			c.Name, c.Class, c.Level, c.Experience, c.AttributePoints,
			a.Strength, a.Magic, a.Dexterity, a.Agility, a.Luck,
			e.Strength, e.Magic, e.Dexterity, e.Agility, e.Luck,
			c.Health, c.Mana, c.Gold,
		).Scan(&id)
		if err != nil {
			if isDuplicateKeyError(err) {
				return ErrCharacterNameTaken
			}
			return fmt.Errorf("inserting character: %w", err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO pvp_stats (character_id) VALUES ($1)`, id); err != nil {
			return fmt.Errorf("inserting pvp stats: %w", err)
		}
		for skillID, level := range c.Mastery {
			if err := upsertMastery(ctx, tx, id, skillID, level); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves a character, its mastery and its PvP record by primary key.
//
// Precondition: id must be > 0.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	return r.get(ctx, `WHERE c.id = $1`, id)
}

// GetByName retrieves a character by its unique name.
//
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByName(ctx context.Context, name string) (*character.Character, error) {
	return r.get(ctx, `WHERE c.name = $1`, name)
}

func (r *CharacterRepository) get(ctx context.Context, where string, arg any) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx, `SELECT `+characterColumns+characterFrom+` `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	if err := r.loadMastery(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns every character ordered by id.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) List(ctx context.Context) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx, `SELECT `+characterColumns+characterFrom+` ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// SaveVitals persists current health and mana.
//
// Postcondition: Returns ErrCharacterNotFound if no row was updated.
func (r *CharacterRepository) SaveVitals(ctx context.Context, id int64, health, mana int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET health = $2, mana = $3, updated_at = NOW()
		WHERE id = $1`,
		id, health, mana,
	)
	if err != nil {
		return fmt.Errorf("saving vitals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// SaveProgress persists level, experience, unspent attribute points,
// attributes, vitals and gold.
//
// Precondition: c.ID must be > 0.
// Postcondition: Returns ErrCharacterNotFound if no row was updated.
func (r *CharacterRepository) SaveProgress(ctx context.Context, c *character.Character) error {
	a := c.Attributes
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET
			level = $2, experience = $3, attribute_points = $4,
			strength = $5, magic = $6, dexterity = $7, agility = $8, luck = $9,
			health = $10, mana = $11, gold = $12, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Level, c.Experience, c.AttributePoints,
		a.Strength, a.Magic, a.Dexterity, a.Agility, a.Luck,
		c.Health, c.Mana, c.Gold,
	)
	if err != nil {
		return fmt.Errorf("saving progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// SaveMastery stores one skill's mastery level and the character's gold in
// a single transaction.
//
// Postcondition: Returns ErrCharacterNotFound if the character does not exist.
func (r *CharacterRepository) SaveMastery(ctx context.Context, id int64, skillID string, mastery, gold int) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE characters SET gold = $2, updated_at = NOW() WHERE id = $1`, id, gold)
		if err != nil {
			return fmt.Errorf("saving gold: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrCharacterNotFound
		}
		return upsertMastery(ctx, tx, id, skillID, mastery)
	})
}

// SaveDuel persists both sides' PvP records after a finished battle.
//
// Postcondition: Either both records are written or neither is.
func (r *CharacterRepository) SaveDuel(ctx context.Context, winnerID int64, winner pvp.Stats, loserID int64, loser pvp.Stats) error {
	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := savePvP(ctx, tx, winnerID, winner); err != nil {
			return err
		}
		return savePvP(ctx, tx, loserID, loser)
	})
}

// HonorEntry is one character's honor standing.
type HonorEntry struct {
	CharacterID int64
	Name        string
	Honor       int
}

// ListHonor returns characters ordered by honor descending, then id.
// limit <= 0 returns every character.
func (r *CharacterRepository) ListHonor(ctx context.Context, limit int) ([]HonorEntry, error) {
	q := `
		SELECT c.id, c.name, COALESCE(p.honor_points, 0)` + characterFrom + `
		ORDER BY 3 DESC, c.id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing honor: %w", err)
	}
	defer rows.Close()

	out := make([]HonorEntry, 0)
	for rows.Next() {
		var e HonorEntry
		if err := rows.Scan(&e.CharacterID, &e.Name, &e.Honor); err != nil {
			return nil, fmt.Errorf("scanning honor row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *CharacterRepository) loadMastery(ctx context.Context, c *character.Character) error {
	rows, err := r.db.Query(ctx, `SELECT skill_id, mastery FROM skill_mastery WHERE character_id = $1`, c.ID)
	if err != nil {
		return fmt.Errorf("loading mastery: %w", err)
	}
	defer rows.Close()
	c.Mastery = make(map[string]int)
	for rows.Next() {
		var skillID string
		var level int
		if err := rows.Scan(&skillID, &level); err != nil {
			return fmt.Errorf("scanning mastery row: %w", err)
		}
		c.Mastery[skillID] = level
	}
	return rows.Err()
}

func upsertMastery(ctx context.Context, tx pgx.Tx, id int64, skillID string, level int) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO skill_mastery (character_id, skill_id, mastery) VALUES ($1, $2, $3)
		ON CONFLICT (character_id, skill_id) DO UPDATE SET mastery = EXCLUDED.mastery`,
		id, skillID, level,
	)
	if err != nil {
		if sqlState(err) == foreignKeyViolation {
			return ErrCharacterNotFound
		}
		return fmt.Errorf("saving mastery %q: %w", skillID, err)
	}
	return nil
}

func savePvP(ctx context.Context, tx pgx.Tx, id int64, s pvp.Stats) error {
	var last *time.Time
	if !s.LastBattle.IsZero() {
		t := s.LastBattle
		last = &t
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO pvp_stats (character_id, honor_points, wins, losses, win_streak, best_streak, last_battle)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (character_id) DO UPDATE SET
			honor_points = EXCLUDED.honor_points, wins = EXCLUDED.wins, losses = EXCLUDED.losses,
			win_streak = EXCLUDED.win_streak, best_streak = EXCLUDED.best_streak,
			last_battle = EXCLUDED.last_battle`,
		id, s.HonorPoints, s.Wins, s.Losses, s.WinStreak, s.BestStreak, last,
	)
	if err != nil {
		if sqlState(err) == foreignKeyViolation {
			return ErrCharacterNotFound
		}
		return fmt.Errorf("saving pvp stats for %d: %w", id, err)
	}
	return nil
}

// scanCharacter reads one row selected with characterColumns. NULL
// attribute columns take the default attribute value.
func scanCharacter(row pgx.Row) (*character.Character, error) {
	var (
		c     character.Character
		attrs stats.PartialAttributes
		last  *time.Time
	)
	e := &c.Equipment
	err := row.Scan(
		&c.ID, &c.Name, &c.Class, &c.Level, &c.Experience, &c.AttributePoints,
		&attrs.Strength, &attrs.Magic, &attrs.Dexterity, &attrs.Agility, &attrs.Luck,
		&e.Strength, &e.Magic, &e.Dexterity, &e.Agility, &e.Luck,
		&c.Health, &c.Mana, &c.Gold, &c.CreatedAt, &c.UpdatedAt,
		&c.PvP.HonorPoints, &c.PvP.Wins, &c.PvP.Losses,
		&c.PvP.WinStreak, &c.PvP.BestStreak, &last,
	)
	if err != nil {
		return nil, err
	}
	c.Attributes = attrs.Normalize()
	if last != nil {
		c.PvP.LastBattle = *last
	}
	return &c, nil
}
