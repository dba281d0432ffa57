package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/battle"
	"github.com/cory-johannsen/arena/internal/game/progression"
)

// RewardHookName is the Lua global consulted for kill rewards.
const RewardHookName = "reward_modifier"

// RewardHook adapts a Manager to battle.RewardModifier.
//
// The hook receives one table with the fields experience, gold,
// penalty_percent, template_id, monster_level, player_level and
// player_class. It returns a table whose experience and gold fields replace
// the base values; missing fields keep the base value and negative results
// are clamped to zero. Any other return value leaves the reward unchanged.
type RewardHook struct {
	mgr    *Manager
	logger *zap.Logger
}

var _ battle.RewardModifier = (*RewardHook)(nil)

// NewRewardHook wraps mgr.
//
// Precondition: mgr and logger must be non-nil.
func NewRewardHook(mgr *Manager, logger *zap.Logger) *RewardHook {
	return &RewardHook{mgr: mgr, logger: logger}
}

// ModifyReward implements battle.RewardModifier.
func (h *RewardHook) ModifyReward(in battle.RewardInput) progression.Reward {
	ret := h.mgr.CallHookWith(in.TemplateID, RewardHookName, func(L *lua.LState) []lua.LValue {
		arg := L.NewTable()
		arg.RawSetString("experience", lua.LNumber(in.Base.Experience))
		arg.RawSetString("gold", lua.LNumber(in.Base.Gold))
		arg.RawSetString("penalty_percent", lua.LNumber(in.Base.PenaltyPercent))
		arg.RawSetString("template_id", lua.LString(in.TemplateID))
		arg.RawSetString("monster_level", lua.LNumber(in.MonsterLevel))
		arg.RawSetString("player_level", lua.LNumber(in.PlayerLevel))
		arg.RawSetString("player_class", lua.LString(in.PlayerClass))
		return []lua.LValue{arg}
	})
	if ret == lua.LNil {
		return in.Base
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		h.logger.Warn("scripting: reward_modifier returned a non-table",
			zap.String("template", in.TemplateID),
			zap.String("type", ret.Type().String()),
		)
		return in.Base
	}

	out := in.Base
	out.Experience = intField(tbl, "experience", out.Experience)
	out.Gold = intField(tbl, "gold", out.Gold)
	if out != in.Base {
		h.logger.Debug("scripting: reward modified",
			zap.String("template", in.TemplateID),
			zap.Int("base_experience", in.Base.Experience),
			zap.Int("experience", out.Experience),
			zap.Int("base_gold", in.Base.Gold),
			zap.Int("gold", out.Gold),
		)
	}
	return out
}

func intField(tbl *lua.LTable, key string, fallback int) int {
	n, ok := tbl.RawGetString(key).(lua.LNumber)
	if !ok {
		return fallback
	}
	v := int(n)
	if v < 0 {
		return 0
	}
	return v
}
