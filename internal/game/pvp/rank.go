package pvp

// Rank is one honor tier.
type Rank struct {
	Tier      int
	Name      string
	Threshold int
}

// Ranks lists the tiers by ascending threshold.
var Ranks = []Rank{
	{Tier: 0, Name: "Novice", Threshold: 0},
	{Tier: 1, Name: "Apprentice", Threshold: 50},
	{Tier: 2, Name: "Fighter", Threshold: 100},
	{Tier: 3, Name: "Veteran", Threshold: 300},
	{Tier: 4, Name: "Elite", Threshold: 600},
	{Tier: 5, Name: "Champion", Threshold: 1000},
	{Tier: 6, Name: "Master", Threshold: 1500},
	{Tier: 7, Name: "Grandmaster", Threshold: 2500},
}

// RankFor returns the highest tier whose threshold honor meets.
// Negative honor maps to the lowest tier.
func RankFor(honor int) Rank {
	r := Ranks[0]
	for _, t := range Ranks[1:] {
		if honor < t.Threshold {
			break
		}
		r = t
	}
	return r
}

// Next returns the tier above r and whether one exists.
func (r Rank) Next() (Rank, bool) {
	if r.Tier+1 >= len(Ranks) {
		return Rank{}, false
	}
	return Ranks[r.Tier+1], true
}
