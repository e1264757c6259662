package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/marcin-skalski/trello-notify/internal/trello"
)

// inactiveWeeksThreshold is how long a card may sit in a list before it
// counts as inactive.
const inactiveWeeksThreshold = 2

type PendingReview struct {
	CardName    string
	CardURL     string
	PendingDays int
}

type InactiveCard struct {
	CardName    string
	CardURL     string
	InListWeeks int
}

// pendingReviewBuckets collects, per user, the cards awaiting review in the
// given lists. Every card with at least one resolved user qualifies; the
// elapsed time is measured against the card's raw last activity.
func (n *Notifier) pendingReviewBuckets(ctx context.Context, directory map[string]TrelloUser, lists []trello.List, now time.Time) (map[TrelloUser][]PendingReview, error) {
	buckets := make(map[TrelloUser][]PendingReview)

	for _, list := range lists {
		n.logger.Info("processing list", "name", list.Name, "id", list.ID)

		cards, err := n.board.Cards(ctx, list.ID)
		if err != nil {
			return nil, err
		}

		for _, card := range cards {
			users := n.resolveUsers(card, directory)
			if len(users) == 0 {
				continue
			}

			review := PendingReview{
				CardName:    card.Name,
				CardURL:     card.URL,
				PendingDays: wholeDays(card.LastActivity(), now),
			}
			for _, user := range users {
				buckets[user] = append(buckets[user], review)
			}
		}
	}

	return buckets, nil
}

// inactiveCardBuckets collects, per user, the cards that entered their
// current list at least inactiveWeeksThreshold weeks ago. A card whose
// list-entry time cannot be resolved aborts the run: the ID fallback failing
// signals a data-shape problem, not an expected history gap.
func (n *Notifier) inactiveCardBuckets(ctx context.Context, directory map[string]TrelloUser, lists []trello.List, now time.Time) (map[TrelloUser][]InactiveCard, error) {
	buckets := make(map[TrelloUser][]InactiveCard)

	for _, list := range lists {
		n.logger.Info("processing list", "name", list.Name, "id", list.ID)

		cards, err := n.board.Cards(ctx, list.ID)
		if err != nil {
			return nil, err
		}

		for _, card := range cards {
			users := n.resolveUsers(card, directory)
			if len(users) == 0 {
				continue
			}

			enteredAt, err := trello.EnteredListAt(card)
			if err != nil {
				return nil, fmt.Errorf("resolve list entry for card %q: %w", card.Name, err)
			}

			inactive := InactiveCard{
				CardName:    card.Name,
				CardURL:     card.URL,
				InListWeeks: wholeWeeks(enteredAt, now),
			}
			if inactive.InListWeeks < inactiveWeeksThreshold {
				continue // not inactive enough
			}

			for _, user := range users {
				buckets[user] = append(buckets[user], inactive)
			}
		}
	}

	return buckets, nil
}

// resolveUsers maps the card's member IDs to usernames via the board-wide
// directory. Unknown IDs are logged and skipped; a card resolving to no one
// is skipped entirely, which is an expected condition on shared boards.
func (n *Notifier) resolveUsers(card trello.Card, directory map[string]TrelloUser) []TrelloUser {
	var users []TrelloUser
	for _, memberID := range card.IDMembers {
		user, ok := directory[memberID]
		if !ok {
			n.logger.Error("could not find Trello user for member ID", "member_id", memberID, "card", card.Name)
			continue
		}
		users = append(users, user)
	}

	if len(users) == 0 {
		n.logger.Info("skipping card with no mapped Trello users", "card", card.Name, "id", card.ID)
	}

	return users
}

// wholeDays returns the number of full days between from and now, never
// negative. Partial days do not round up.
func wholeDays(from, now time.Time) int {
	d := now.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// wholeWeeks returns the number of full weeks between from and now, never
// negative.
func wholeWeeks(from, now time.Time) int {
	d := now.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / (7 * 24 * time.Hour))
}
