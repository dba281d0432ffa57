package battle

// ActionKind is what the player does on their turn.
type ActionKind int

const (
	ActionAttack ActionKind = iota
	ActionSkill
)

// Action is one player turn.
type Action struct {
	Kind    ActionKind
	SkillID string
}

// Attack returns a basic attack action.
func Attack() Action { return Action{Kind: ActionAttack} }

// UseSkill returns a skill action.
func UseSkill(id string) Action { return Action{Kind: ActionSkill, SkillID: id} }
