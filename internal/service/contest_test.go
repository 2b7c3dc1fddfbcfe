package service

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/latableronde/contest/internal/codegen"
	"github.com/latableronde/contest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	teams      *memTeams
	players    *memPlayers
	matches    *memMatches
	pronostics *memPronostics
	rewards    *memRewards
	tickets    *memTickets
	outbox     *memOutbox

	contest *ContestService
	pronos  *PronosticService
	issuer  *RewardIssuer
	ticket  *TicketService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	src := rand.New(rand.NewPCG(7, 11))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	env := &testEnv{
		teams:      &memTeams{},
		players:    &memPlayers{},
		pronostics: &memPronostics{},
		rewards:    &memRewards{},
		tickets:    &memTickets{},
		outbox:     &memOutbox{},
	}
	env.matches = newMemMatches(env.teams)

	codes := codegen.New(src)
	env.issuer = NewRewardIssuer(memDB{}, env.rewards, env.outbox, codes, DefaultRewardExpiry, logger)
	ticket, err := NewTicketService(memDB{}, env.tickets, env.matches, env.players, env.outbox, codes, src, domain.DefaultPrizeCatalog, logger)
	require.NoError(t, err)
	env.ticket = ticket
	env.contest = NewContestService(memDB{}, env.matches, env.teams, env.pronostics, env.outbox, env.issuer, env.ticket, logger)
	env.pronos = NewPronosticService(memDB{}, env.pronostics, env.matches, logger)
	return env
}

func (e *testEnv) addTeam(group, name string) domain.Team {
	t := domain.Team{ID: uuid.New(), Name: name, Group: group}
	e.teams.teams = append(e.teams.teams, t)
	return t
}

func (e *testEnv) addMatch(seq int, phase domain.Phase, home, away domain.Team) {
	e.matches.put(domain.Match{Seq: seq, Phase: phase, HomeTeamID: &home.ID, AwayTeamID: &away.ID})
}

func (e *testEnv) addFinishedMatch(seq int, phase domain.Phase, home, away domain.Team, hs, as int) {
	e.matches.put(domain.Match{
		Seq: seq, Phase: phase,
		HomeTeamID: &home.ID, AwayTeamID: &away.ID,
		HomeScore: &hs, AwayScore: &as,
		Finished: true,
	})
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestFinalizeMatchScoresPredictionsAndIssuesRewards(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	home := env.addTeam("A", "France")
	away := env.addTeam("A", "Roumanie")
	env.addMatch(1, domain.PhaseGroup, home, away)

	exact := uuid.New()
	rightWinner := uuid.New()
	wrong := uuid.New()
	for user, scores := range map[uuid.UUID][2]int{
		exact:       {2, 2},
		rightWinner: {1, 1},
		wrong:       {3, 0},
	} {
		_, err := env.pronos.Submit(ctx, user, 1, scores[0], scores[1])
		require.NoError(t, err)
	}

	require.NoError(t, env.contest.FinalizeMatch(ctx, 1, 2, 2))

	byUser := func(id uuid.UUID) domain.Pronostic {
		list, err := env.pronos.ListByUser(ctx, id)
		require.NoError(t, err)
		require.Len(t, list, 1)
		return list[0]
	}
	p := byUser(exact)
	assert.Equal(t, 10, p.Points)
	assert.True(t, p.ExactScore)
	assert.True(t, p.CorrectWinner)

	p = byUser(rightWinner)
	assert.Equal(t, 3, p.Points)
	assert.False(t, p.ExactScore)
	assert.True(t, p.CorrectWinner)

	p = byUser(wrong)
	assert.Equal(t, 0, p.Points)
	assert.False(t, p.ExactScore)
	assert.False(t, p.CorrectWinner)

	vouchers, err := env.issuer.ListByUser(ctx, exact)
	require.NoError(t, err)
	require.Len(t, vouchers, 1)
	assert.Len(t, vouchers[0].Code, codegen.CodeLength)
	require.NotNil(t, vouchers[0].MatchSeq)
	assert.Equal(t, 1, *vouchers[0].MatchSeq)
	assert.Equal(t, domain.ReasonExactScore, vouchers[0].Reason)

	others, err := env.issuer.ListByUser(ctx, rightWinner)
	require.NoError(t, err)
	assert.Empty(t, others)

	assert.Equal(t, 1, env.outbox.countByType(domain.EventMatchFinalized))
	assert.Equal(t, 1, env.outbox.countByType(domain.EventRewardIssued))

	// Rerunning the finalize (an admin correction with the same score)
	// recomputes outcomes and must not duplicate the voucher.
	firstCode := vouchers[0].Code
	require.NoError(t, env.contest.FinalizeMatch(ctx, 1, 2, 2))

	assert.Equal(t, 10, byUser(exact).Points)
	vouchers, err = env.issuer.ListByUser(ctx, exact)
	require.NoError(t, err)
	require.Len(t, vouchers, 1)
	assert.Equal(t, firstCode, vouchers[0].Code)
}

func TestFinalizeMatchCorrectionRescoresDown(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	home := env.addTeam("A", "France")
	away := env.addTeam("A", "Albanie")
	env.addMatch(2, domain.PhaseGroup, home, away)

	user := uuid.New()
	_, err := env.pronos.Submit(ctx, user, 2, 2, 0)
	require.NoError(t, err)

	require.NoError(t, env.contest.FinalizeMatch(ctx, 2, 2, 0))
	list, err := env.pronos.ListByUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 10, list[0].Points)

	// Score corrected afterwards: the prediction is no longer exact and
	// the points must be replaced, not added to.
	require.NoError(t, env.contest.FinalizeMatch(ctx, 2, 1, 0))
	list, err = env.pronos.ListByUser(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 3, list[0].Points)
	assert.False(t, list[0].ExactScore)
}

func TestFinalizeMatchRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	err := env.contest.FinalizeMatch(ctx, 1, -1, 0)
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))

	err = env.contest.FinalizeMatch(ctx, 99, 1, 0)
	assert.Equal(t, "NOT_FOUND", appCode(t, err))

	env.matches.put(domain.Match{Seq: 45, Phase: domain.PhaseQuarter})
	err = env.contest.FinalizeMatch(ctx, 45, 1, 0)
	assert.Equal(t, "PRECONDITION_FAILED", appCode(t, err))

	a := env.addTeam("A", "France")
	b := env.addTeam("B", "Italie")
	env.addMatch(46, domain.PhaseQuarter, a, b)
	err = env.contest.FinalizeMatch(ctx, 46, 2, 2)
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	assert.Contains(t, err.Error(), "draw")
}

func TestGeneratePhaseRequiresFinishedPrerequisite(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	a := env.addTeam("A", "France")
	b := env.addTeam("A", "Suisse")
	env.addFinishedMatch(1, domain.PhaseGroup, a, b, 1, 0)
	env.addMatch(2, domain.PhaseGroup, b, a)

	err := env.contest.GeneratePhase(ctx, domain.PhaseRoundOf16)
	require.Error(t, err)
	assert.Equal(t, "PHASE_INCOMPLETE", appCode(t, err))
	assert.Contains(t, err.Error(), "1 unfinished")

	for seq := 37; seq <= 44; seq++ {
		m, ferr := env.matches.FindBySeq(ctx, memDB{}, seq)
		require.NoError(t, ferr)
		assert.Nil(t, m, "no fixture may be written for seq %d", seq)
	}
	assert.Equal(t, 0, env.outbox.countByType(domain.EventPhaseGenerated))
}

func TestGeneratePhaseRejectsGroupPhase(t *testing.T) {
	env := newTestEnv(t)
	err := env.contest.GeneratePhase(context.Background(), domain.PhaseGroup)
	assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
}

// seedFinishedGroups seeds six groups of three teams with every group match
// finished so that each group ranks first > second > third.
func seedFinishedGroups(env *testEnv) map[string][3]domain.Team {
	byGroup := make(map[string][3]domain.Team, len(domain.Groups))
	seq := 1
	for _, g := range domain.Groups {
		first := env.addTeam(g, "Premier "+g)
		second := env.addTeam(g, "Deuxieme "+g)
		third := env.addTeam(g, "Troisieme "+g)
		env.addFinishedMatch(seq, domain.PhaseGroup, first, second, 2, 0)
		env.addFinishedMatch(seq+1, domain.PhaseGroup, first, third, 3, 1)
		env.addFinishedMatch(seq+2, domain.PhaseGroup, second, third, 1, 0)
		seq += 3
		byGroup[g] = [3]domain.Team{first, second, third}
	}
	return byGroup
}

func TestBracketProgression(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	groups := seedFinishedGroups(env)

	standings, err := env.contest.GroupStandings(ctx, "A")
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, groups["A"][0].ID, standings[0].Team.ID)
	assert.Equal(t, groups["A"][1].ID, standings[1].Team.ID)
	assert.Equal(t, groups["A"][2].ID, standings[2].Team.ID)

	require.NoError(t, env.contest.GeneratePhase(ctx, domain.PhaseRoundOf16))

	fixture := func(seq int) domain.Match {
		m, ferr := env.matches.FindBySeq(ctx, memDB{}, seq)
		require.NoError(t, ferr)
		require.NotNil(t, m, "fixture %d must exist", seq)
		require.True(t, m.HasTeams(), "fixture %d must have both teams", seq)
		return *m
	}
	for seq := 37; seq <= 44; seq++ {
		fixture(seq)
	}
	// Spot checks against the chart: 37 pits the runners-up of A and C,
	// 42 the winner of F against the runner-up of E.
	m := fixture(37)
	assert.Equal(t, groups["A"][1].ID, *m.HomeTeamID)
	assert.Equal(t, groups["C"][1].ID, *m.AwayTeamID)
	m = fixture(42)
	assert.Equal(t, groups["F"][0].ID, *m.HomeTeamID)
	assert.Equal(t, groups["E"][1].ID, *m.AwayTeamID)

	// Home side wins every knockout match; each finalize tries to advance
	// the bracket and only the last of a phase succeeds.
	for seq := 37; seq <= 44; seq++ {
		require.NoError(t, env.contest.FinalizeMatch(ctx, seq, 1, 0))
	}
	for seq := 45; seq <= 48; seq++ {
		assert.Equal(t, domain.PhaseQuarter, fixture(seq).Phase)
	}
	// Quarter final 45 takes the winners of 37 and 39.
	m = fixture(45)
	assert.Equal(t, *fixture(37).HomeTeamID, *m.HomeTeamID)
	assert.Equal(t, *fixture(39).HomeTeamID, *m.AwayTeamID)

	for seq := 45; seq <= 48; seq++ {
		require.NoError(t, env.contest.FinalizeMatch(ctx, seq, 2, 1))
	}
	semiOne, semiTwo := fixture(49), fixture(50)
	assert.Equal(t, domain.PhaseSemi, semiOne.Phase)

	require.NoError(t, env.contest.FinalizeMatch(ctx, 49, 1, 0))
	require.NoError(t, env.contest.FinalizeMatch(ctx, 50, 0, 1))

	thirdPlace := fixture(51)
	final := fixture(52)
	assert.Equal(t, domain.PhaseThirdPlace, thirdPlace.Phase)
	assert.Equal(t, domain.PhaseFinal, final.Phase)
	assert.Equal(t, *semiOne.AwayTeamID, *thirdPlace.HomeTeamID)
	assert.Equal(t, *semiTwo.HomeTeamID, *thirdPlace.AwayTeamID)
	assert.Equal(t, *semiOne.HomeTeamID, *final.HomeTeamID)
	assert.Equal(t, *semiTwo.AwayTeamID, *final.AwayTeamID)

	require.NoError(t, env.contest.FinalizeMatch(ctx, 51, 2, 0))
	require.NoError(t, env.contest.FinalizeMatch(ctx, 52, 3, 1))

	assert.Equal(t, 4, env.outbox.countByType(domain.EventPhaseGenerated))
}

func TestGeneratePhaseIsRepeatable(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	seedFinishedGroups(env)

	require.NoError(t, env.contest.GeneratePhase(ctx, domain.PhaseRoundOf16))
	first, err := env.matches.FindBySeq(ctx, memDB{}, 37)
	require.NoError(t, err)

	require.NoError(t, env.contest.GeneratePhase(ctx, domain.PhaseRoundOf16))
	second, err := env.matches.FindBySeq(ctx, memDB{}, 37)
	require.NoError(t, err)

	assert.Equal(t, *first.HomeTeamID, *second.HomeTeamID)
	assert.Equal(t, *first.AwayTeamID, *second.AwayTeamID)

	count := 0
	for seq := 37; seq <= 44; seq++ {
		if m, _ := env.matches.FindBySeq(ctx, memDB{}, seq); m != nil {
			count++
		}
	}
	assert.Equal(t, 8, count, "regeneration must overwrite, not duplicate")
}

func TestThirdPlaceRankingOrdersAcrossGroups(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for i, g := range domain.Groups {
		first := env.addTeam(g, "Premier "+g)
		second := env.addTeam(g, "Deuxieme "+g)
		third := env.addTeam(g, "Troisieme "+g)
		seq := i*3 + 1
		env.addFinishedMatch(seq, domain.PhaseGroup, first, second, 2, 0)
		env.addFinishedMatch(seq+1, domain.PhaseGroup, first, third, 2, 1)
		// Group F's third earns a draw, every other third loses twice.
		if g == "F" {
			env.addFinishedMatch(seq+2, domain.PhaseGroup, second, third, 1, 1)
		} else {
			env.addFinishedMatch(seq+2, domain.PhaseGroup, second, third, 1, 0)
		}
	}

	ranked, err := env.contest.ThirdPlaceRanking(ctx)
	require.NoError(t, err)
	require.Len(t, ranked, len(domain.Groups))
	assert.Equal(t, "F", ranked[0].Team.Group)
	assert.Equal(t, 1, ranked[0].Points)
}
