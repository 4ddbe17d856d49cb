// Package leaderboard turns leaderboard rows into dense 1-based rankings and
// answers rank lookups for a single user.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/quizlingo/quizlingo-api/internal/store"
)

// Criteria selects the metric a leaderboard is ordered by.
type Criteria string

const (
	CriteriaCompletedQuizzes Criteria = "CompletedQuizzes"
	CriteriaAccuracy         Criteria = "Accuracy"
)

// NoRank is returned by CurrentUserRank when the user is not on the board.
const NoRank = -1

var ErrUnsupportedCriteria = errors.New("unsupported leaderboard criteria")

// ParseCriteria validates a criteria string from the outside world.
func ParseCriteria(s string) (Criteria, error) {
	switch Criteria(s) {
	case CriteriaCompletedQuizzes, CriteriaAccuracy:
		return Criteria(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCriteria, s)
	}
}

type scopeKind int

const (
	scopeGlobal scopeKind = iota
	scopeFriends
)

// Scope selects which users a leaderboard covers. The zero value is global;
// FriendsOf scopes to one user's friends and stays a friends scope whatever
// the id, so the two constructors never alias.
type Scope struct {
	kind      scopeKind
	friendsOf uint
}

func Global() Scope            { return Scope{kind: scopeGlobal} }
func FriendsOf(id uint) Scope  { return Scope{kind: scopeFriends, friendsOf: id} }
func (s Scope) IsGlobal() bool { return s.kind == scopeGlobal }

// Entry is one ranked leaderboard line. Score carries the value of the
// requested criteria: a quiz count or an accuracy percentage.
type Entry struct {
	Rank         int     `json:"rank"`
	UserID       uint    `json:"user_id"`
	Username     string  `json:"username"`
	ProfileImage string  `json:"profile_image"`
	Score        float64 `json:"score"`
}

type Ranker struct {
	store store.Store
}

func NewRanker(s store.Store) *Ranker {
	return &Ranker{store: s}
}

// Rank fetches the scoped rows and returns them ranked 1..N. Ordering is
// decided here, not trusted from the store: the chosen metric descending,
// ties broken by ascending user id. An empty row set is an empty board.
func (r *Ranker) Rank(ctx context.Context, scope Scope, criteria Criteria) ([]Entry, error) {
	rows, err := r.fetch(ctx, scope, criteria)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		si, sj := score(rows[i], criteria), score(rows[j], criteria)
		if si != sj {
			return si > sj
		}
		return rows[i].UserID < rows[j].UserID
	})

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, Entry{
			Rank:         i + 1,
			UserID:       row.UserID,
			Username:     row.Username,
			ProfileImage: row.ProfileImage,
			Score:        score(row, criteria),
		})
	}
	return entries, nil
}

// CurrentUserRank returns the user's 1-based position on the requested
// board, or NoRank if they are not on it.
func (r *Ranker) CurrentUserRank(ctx context.Context, userID uint, scope Scope, criteria Criteria) (int, error) {
	entries, err := r.Rank(ctx, scope, criteria)
	if err != nil {
		return NoRank, err
	}
	for _, e := range entries {
		if e.UserID == userID {
			return e.Rank, nil
		}
	}
	return NoRank, nil
}

func (r *Ranker) fetch(ctx context.Context, scope Scope, criteria Criteria) ([]store.RankedUser, error) {
	switch criteria {
	case CriteriaCompletedQuizzes:
		if scope.IsGlobal() {
			return r.store.TopUsersByCompletedQuizzes(ctx)
		}
		return r.store.TopFriendsByCompletedQuizzes(ctx, scope.friendsOf)
	case CriteriaAccuracy:
		if scope.IsGlobal() {
			return r.store.TopUsersByAccuracy(ctx)
		}
		return r.store.TopFriendsByAccuracy(ctx, scope.friendsOf)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCriteria, criteria)
	}
}

func score(row store.RankedUser, criteria Criteria) float64 {
	if criteria == CriteriaAccuracy {
		return row.Accuracy
	}
	return float64(row.QuizzesCompleted)
}
