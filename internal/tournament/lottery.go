package tournament

import (
	"github.com/latableronde/contest/internal/domain"
	"github.com/latableronde/contest/internal/rng"
)

// PickPlayer selects the buteur candidate for a new ticket: uniformly at
// random over the union of both rosters.
func PickPlayer(roster []domain.Player, src rng.Source) (domain.Player, bool) {
	if len(roster) == 0 {
		return domain.Player{}, false
	}
	return roster[src.IntN(len(roster))], true
}

// DrawPrize samples the fixed prize catalog by walking its cumulative
// distribution: draw u in [0,1) and take the first entry whose cumulative
// probability reaches u. If floating-point rounding exhausts the table
// without a hit, the first entry is returned so a winning ticket never
// resolves without a prize.
func DrawPrize(catalog []domain.PrizeType, src rng.Source) domain.PrizeType {
	u := src.Float64()
	var cumulative float64
	for _, p := range catalog {
		cumulative += p.Probability
		if cumulative >= u {
			return p
		}
	}
	return catalog[0]
}
