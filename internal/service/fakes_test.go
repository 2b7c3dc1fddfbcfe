package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/latableronde/contest/internal/domain"
	"github.com/latableronde/contest/internal/repository"
)

// memDB satisfies the DB interface without a database; the in-memory
// repositories ignore their DBTX argument.
type memDB struct{}

func (memDB) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (memDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) { return nil, nil }
func (memDB) QueryRow(context.Context, string, ...interface{}) pgx.Row        { return nil }
func (memDB) Begin(context.Context) (pgx.Tx, error)                           { return memTx{}, nil }

type memTx struct{ pgx.Tx }

func (memTx) Commit(context.Context) error   { return nil }
func (memTx) Rollback(context.Context) error { return nil }

// --- teams ---

type memTeams struct {
	teams []domain.Team
}

func (m *memTeams) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Team, error) {
	for _, t := range m.teams {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memTeams) ListByGroup(_ context.Context, _ repository.DBTX, group string) ([]domain.Team, error) {
	var out []domain.Team
	for _, t := range m.teams {
		if t.Group == group {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTeams) ListAll(context.Context, repository.DBTX) ([]domain.Team, error) {
	return append([]domain.Team(nil), m.teams...), nil
}

// --- players ---

type memPlayers struct {
	players []domain.Player
}

func (m *memPlayers) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Player, error) {
	for _, p := range m.players {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memPlayers) ListByTeams(_ context.Context, _ repository.DBTX, teamIDs ...uuid.UUID) ([]domain.Player, error) {
	want := make(map[uuid.UUID]bool, len(teamIDs))
	for _, id := range teamIDs {
		want[id] = true
	}
	var out []domain.Player
	for _, p := range m.players {
		if want[p.TeamID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPlayers) GoalsScored(_ context.Context, _ repository.DBTX, _ int, playerID uuid.UUID) (int, error) {
	for _, p := range m.players {
		if p.ID == playerID {
			return p.Goals, nil
		}
	}
	return 0, domain.ErrNotFound("player", playerID.String())
}

// --- matches ---

type memMatches struct {
	matches map[int]*domain.Match
	teams   *memTeams
}

func newMemMatches(teams *memTeams) *memMatches {
	return &memMatches{matches: make(map[int]*domain.Match), teams: teams}
}

func (m *memMatches) put(match domain.Match) {
	cp := match
	m.matches[match.Seq] = &cp
}

func (m *memMatches) FindBySeq(_ context.Context, _ repository.DBTX, seq int) (*domain.Match, error) {
	match, ok := m.matches[seq]
	if !ok {
		return nil, nil
	}
	cp := *match
	return &cp, nil
}

func (m *memMatches) ListByPhase(_ context.Context, _ repository.DBTX, phase domain.Phase) ([]domain.Match, error) {
	var out []domain.Match
	for _, match := range m.matches {
		if match.Phase == phase {
			out = append(out, *match)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (m *memMatches) ListFinishedByGroup(ctx context.Context, db repository.DBTX, group string) ([]domain.Match, error) {
	var out []domain.Match
	for _, match := range m.matches {
		if match.Phase != domain.PhaseGroup || !match.Finished || match.HomeTeamID == nil {
			continue
		}
		home, _ := m.teams.FindByID(ctx, db, *match.HomeTeamID)
		if home != nil && home.Group == group {
			out = append(out, *match)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (m *memMatches) CountUnfinished(_ context.Context, _ repository.DBTX, phase domain.Phase) (int, error) {
	n := 0
	for _, match := range m.matches {
		if match.Phase == phase && !match.Finished {
			n++
		}
	}
	return n, nil
}

func (m *memMatches) SetResult(_ context.Context, _ repository.DBTX, seq, homeScore, awayScore int) error {
	match, ok := m.matches[seq]
	if !ok {
		return domain.ErrNotFound("match", "seq")
	}
	hs, as := homeScore, awayScore
	match.HomeScore, match.AwayScore = &hs, &as
	match.Finished = true
	return nil
}

func (m *memMatches) SetLocked(_ context.Context, _ repository.DBTX, seq int, locked bool) error {
	match, ok := m.matches[seq]
	if !ok {
		return domain.ErrNotFound("match", "seq")
	}
	match.LockedForPredictions = locked
	return nil
}

func (m *memMatches) UpsertFixture(_ context.Context, _ repository.DBTX, f domain.Match) error {
	if existing, ok := m.matches[f.Seq]; ok {
		existing.HomeTeamID, existing.AwayTeamID = f.HomeTeamID, f.AwayTeamID
		return nil
	}
	cp := f
	m.matches[f.Seq] = &cp
	return nil
}

// --- pronostics ---

type memPronostics struct {
	entries []*domain.Pronostic
}

func (m *memPronostics) Upsert(_ context.Context, _ repository.DBTX, p *domain.Pronostic) error {
	for _, e := range m.entries {
		if e.UserID == p.UserID && e.MatchSeq == p.MatchSeq {
			e.HomeScore, e.AwayScore = p.HomeScore, p.AwayScore
			e.UpdatedAt = time.Now()
			*p = *e
			return nil
		}
	}
	p.CreatedAt = time.Now()
	cp := *p
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *memPronostics) ListByMatch(_ context.Context, _ repository.DBTX, matchSeq int) ([]domain.Pronostic, error) {
	var out []domain.Pronostic
	for _, e := range m.entries {
		if e.MatchSeq == matchSeq {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memPronostics) ListByUser(_ context.Context, _ repository.DBTX, userID uuid.UUID) ([]domain.Pronostic, error) {
	var out []domain.Pronostic
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memPronostics) SetOutcome(_ context.Context, _ repository.DBTX, id uuid.UUID, outcome domain.Pronostic) error {
	for _, e := range m.entries {
		if e.ID == id {
			e.Points = outcome.Points
			e.ExactScore = outcome.ExactScore
			e.CorrectWinner = outcome.CorrectWinner
			return nil
		}
	}
	return domain.ErrNotFound("pronostic", id.String())
}

func (m *memPronostics) Leaderboard(_ context.Context, _ repository.DBTX, limit int) ([]domain.LeaderboardEntry, error) {
	totals := make(map[uuid.UUID]*domain.LeaderboardEntry)
	order := make(map[uuid.UUID]time.Time)
	for _, e := range m.entries {
		entry, ok := totals[e.UserID]
		if !ok {
			entry = &domain.LeaderboardEntry{UserID: e.UserID}
			totals[e.UserID] = entry
			order[e.UserID] = e.CreatedAt
		}
		entry.TotalPoints += e.Points
		entry.Predictions++
		if e.ExactScore {
			entry.ExactScores++
		}
		if e.CreatedAt.Before(order[e.UserID]) {
			order[e.UserID] = e.CreatedAt
		}
	}

	out := make([]domain.LeaderboardEntry, 0, len(totals))
	for _, e := range totals {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return order[out[i].UserID].Before(order[out[j].UserID])
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- rewards ---

type memRewards struct {
	rewards []*domain.Reward
}

func (m *memRewards) FindByUserMatchReason(_ context.Context, _ repository.DBTX, userID uuid.UUID, matchSeq int, reason domain.RewardReason) (*domain.Reward, error) {
	for _, r := range m.rewards {
		if r.UserID == userID && r.MatchSeq != nil && *r.MatchSeq == matchSeq && r.Reason == reason {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRewards) Insert(_ context.Context, _ repository.DBTX, r *domain.Reward) error {
	cp := *r
	m.rewards = append(m.rewards, &cp)
	return nil
}

func (m *memRewards) ListByUser(_ context.Context, _ repository.DBTX, userID uuid.UUID) ([]domain.Reward, error) {
	var out []domain.Reward
	for _, r := range m.rewards {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memRewards) FindByCode(_ context.Context, _ repository.DBTX, code string) (*domain.Reward, error) {
	for _, r := range m.rewards {
		if r.Code == code {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRewards) MarkRedeemed(_ context.Context, _ repository.DBTX, id uuid.UUID) (bool, error) {
	for _, r := range m.rewards {
		if r.ID == id && !r.Redeemed {
			now := time.Now()
			r.Redeemed = true
			r.RedeemedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (m *memRewards) CodeExists(_ context.Context, _ repository.DBTX, code string) (bool, error) {
	for _, r := range m.rewards {
		if r.Code == code {
			return true, nil
		}
	}
	return false, nil
}

// --- tickets ---

type memTickets struct {
	tickets []*domain.ButeurTicket
}

func (m *memTickets) Insert(_ context.Context, _ repository.DBTX, t *domain.ButeurTicket) error {
	cp := *t
	cp.CreatedAt = time.Now()
	m.tickets = append(m.tickets, &cp)
	return nil
}

func (m *memTickets) FindByCode(_ context.Context, _ repository.DBTX, code string) (*domain.ButeurTicket, error) {
	for _, t := range m.tickets {
		if t.Code == code {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memTickets) ListUncheckedByMatch(_ context.Context, _ repository.DBTX, matchSeq int) ([]domain.ButeurTicket, error) {
	var out []domain.ButeurTicket
	for _, t := range m.tickets {
		if t.MatchSeq == matchSeq && !t.Checked {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTickets) ListByUser(_ context.Context, _ repository.DBTX, userID uuid.UUID) ([]domain.ButeurTicket, error) {
	var out []domain.ButeurTicket
	for _, t := range m.tickets {
		if t.UserID != nil && *t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTickets) MarkChecked(_ context.Context, _ repository.DBTX, id uuid.UUID, won bool, prizeLabel *string, prizeValueMinor *int64) (bool, error) {
	for _, t := range m.tickets {
		if t.ID == id {
			if t.Checked {
				return false, nil
			}
			t.Checked, t.Won = true, won
			t.PrizeLabel, t.PrizeValueMinor = prizeLabel, prizeValueMinor
			return true, nil
		}
	}
	return false, nil
}

func (m *memTickets) MarkRedeemed(_ context.Context, _ repository.DBTX, id uuid.UUID) (bool, error) {
	for _, t := range m.tickets {
		if t.ID == id {
			if !t.Won || !t.Checked || t.Redeemed {
				return false, nil
			}
			now := time.Now()
			t.Redeemed, t.RedeemedAt = true, &now
			return true, nil
		}
	}
	return false, nil
}

func (m *memTickets) CodeExists(_ context.Context, _ repository.DBTX, code string) (bool, error) {
	for _, t := range m.tickets {
		if t.Code == code {
			return true, nil
		}
	}
	return false, nil
}

// --- outbox ---

type memOutbox struct {
	drafts []domain.OutboxDraft
}

func (m *memOutbox) Insert(_ context.Context, _ repository.DBTX, draft domain.OutboxDraft) error {
	draft.SeqID = int64(len(m.drafts) + 1)
	m.drafts = append(m.drafts, draft)
	return nil
}

func (m *memOutbox) FetchUnpublished(_ context.Context, _ repository.DBTX, limit int) ([]domain.OutboxDraft, error) {
	if len(m.drafts) > limit {
		return append([]domain.OutboxDraft(nil), m.drafts[:limit]...), nil
	}
	return append([]domain.OutboxDraft(nil), m.drafts...), nil
}

func (m *memOutbox) MarkPublished(_ context.Context, _ repository.DBTX, ids []int64) error {
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var kept []domain.OutboxDraft
	for _, d := range m.drafts {
		if !drop[d.SeqID] {
			kept = append(kept, d)
		}
	}
	m.drafts = kept
	return nil
}

func (m *memOutbox) countByType(et domain.EventType) int {
	n := 0
	for _, d := range m.drafts {
		if d.EventType == et {
			n++
		}
	}
	return n
}

var (
	_ repository.TeamRepository      = (*memTeams)(nil)
	_ repository.PlayerRepository    = (*memPlayers)(nil)
	_ repository.MatchRepository     = (*memMatches)(nil)
	_ repository.PronosticRepository = (*memPronostics)(nil)
	_ repository.RewardRepository    = (*memRewards)(nil)
	_ repository.TicketRepository    = (*memTickets)(nil)
	_ repository.OutboxRepository    = (*memOutbox)(nil)
)
