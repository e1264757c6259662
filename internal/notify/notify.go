package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/marcin-skalski/trello-notify/internal/trello"
)

// TrelloUser is a Trello username; SlackUser is the Slack channel or member
// ID it maps to. Keeping them as distinct types avoids mixing the two
// identity spaces.
type TrelloUser string

type SlackUser string

// BoardService is the read side of the Trello API the notifier needs.
type BoardService interface {
	Members(ctx context.Context, boardID string) ([]trello.Member, error)
	Lists(ctx context.Context, boardID string) ([]trello.List, error)
	Cards(ctx context.Context, listID string) ([]trello.Card, error)
}

// MessagePoster is the write side of the Slack API the notifier needs.
type MessagePoster interface {
	PostMessage(ctx context.Context, channel, markdown string) error
}

type Notifier struct {
	board    BoardService
	poster   MessagePoster
	boardIDs []string
	users    map[TrelloUser]SlackUser
	logger   *slog.Logger
}

func New(board BoardService, poster MessagePoster, boardIDs []string, users map[TrelloUser]SlackUser, logger *slog.Logger) *Notifier {
	return &Notifier{
		board:    board,
		poster:   poster,
		boardIDs: boardIDs,
		users:    users,
		logger:   logger,
	}
}

// PendingReviews notifies every mapped user about cards waiting in the
// given review lists, regardless of how long they have been waiting.
func (n *Notifier) PendingReviews(ctx context.Context, listNames []string) error {
	if len(listNames) == 0 {
		n.logger.Error("no review lists configured, cannot proceed with pending reviews")
		return nil
	}

	snap, err := n.snapshot(ctx)
	if err != nil {
		return err
	}

	buckets, err := n.pendingReviewBuckets(ctx, snap.directory, filterLists(snap.lists, listNames), time.Now())
	if err != nil {
		return err
	}

	return dispatch(ctx, n, buckets, ComposePendingReviews)
}

// InactiveCards notifies every mapped user about cards that have sat in the
// given lists beyond the inactivity threshold.
func (n *Notifier) InactiveCards(ctx context.Context, listNames []string) error {
	if len(listNames) == 0 {
		n.logger.Error("no inactive-cards lists configured, cannot proceed with inactive cards")
		return nil
	}

	snap, err := n.snapshot(ctx)
	if err != nil {
		return err
	}

	buckets, err := n.inactiveCardBuckets(ctx, snap.directory, filterLists(snap.lists, listNames), time.Now())
	if err != nil {
		return err
	}

	return dispatch(ctx, n, buckets, ComposeInactiveCards)
}

type boardSnapshot struct {
	directory map[string]TrelloUser // member ID -> username
	lists     []trello.List
}

// snapshot fetches members and lists for all configured boards. Boards are
// independent read-only queries, so they are fetched concurrently with the
// results merged after the join.
func (n *Notifier) snapshot(ctx context.Context) (*boardSnapshot, error) {
	type boardResult struct {
		members []trello.Member
		lists   []trello.List
		err     error
	}

	results := make([]boardResult, len(n.boardIDs))

	var wg sync.WaitGroup
	for i, boardID := range n.boardIDs {
		i, boardID := i, boardID
		wg.Add(1)
		go func() {
			defer wg.Done()

			members, err := n.board.Members(ctx, boardID)
			if err != nil {
				results[i].err = err
				return
			}
			lists, err := n.board.Lists(ctx, boardID)
			if err != nil {
				results[i].err = err
				return
			}
			results[i] = boardResult{members: members, lists: lists}
		}()
	}
	wg.Wait()

	snap := &boardSnapshot{directory: make(map[string]TrelloUser)}
	for i, res := range results {
		if res.err != nil {
			return nil, fmt.Errorf("snapshot board %s: %w", n.boardIDs[i], res.err)
		}
		for _, m := range res.members {
			snap.directory[m.ID] = TrelloUser(m.Username)
		}
		snap.lists = append(snap.lists, res.lists...)
	}

	return snap, nil
}

func filterLists(lists []trello.List, names []string) []trello.List {
	inScope := make(map[string]bool, len(names))
	for _, name := range names {
		inScope[name] = true
	}

	var filtered []trello.List
	for _, list := range lists {
		if inScope[list.Name] {
			filtered = append(filtered, list)
		}
	}
	return filtered
}

// dispatch composes and sends one message per user. A failed send does not
// stop delivery to the remaining users; failures are collected and reported
// together.
func dispatch[T any](ctx context.Context, n *Notifier, buckets map[TrelloUser][]T, compose func([]T) string) error {
	users := make([]TrelloUser, 0, len(buckets))
	for user := range buckets {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	var errs []error
	for _, user := range users {
		items := buckets[user]
		if len(items) == 0 {
			continue
		}

		slackUser, ok := n.users[user]
		if !ok {
			n.logger.Error("no Slack user mapping found, skipping notification", "trello_user", user)
			continue
		}

		n.logger.Info("sending notification", "trello_user", user, "slack_user", slackUser, "items", len(items))

		if err := n.poster.PostMessage(ctx, string(slackUser), compose(items)); err != nil {
			n.logger.Error("send notification failed", "trello_user", user, "err", err)
			errs = append(errs, fmt.Errorf("notify %s: %w", user, err))
		}
	}

	return errors.Join(errs...)
}
