package trello

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ErrShortCardID means a card ID was too short to carry the embedded
// creation timestamp the fallback relies on.
var ErrShortCardID = errors.New("card ID is too short to extract timestamp")

// LastActivity returns the raw last-touched time of the card.
func (c Card) LastActivity() time.Time {
	return c.DateLastActivity
}

// EnteredListAt determines when the card last entered its current list.
//
// The action log is scanned newest to oldest for either a move into the
// current list or the card's creation directly in it; the first match wins,
// which handles cards that left and re-entered the list. Trello usually
// returns actions newest-first, but that ordering is not trusted: the log is
// sorted before scanning. When no relevant action survives in the history,
// the creation time embedded in the card ID is used instead.
func EnteredListAt(c Card) (time.Time, error) {
	actions := make([]Action, len(c.Actions))
	copy(actions, c.Actions)
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Date.After(actions[j].Date)
	})

	for _, action := range actions {
		switch action.Type {
		case ActionUpdateCard:
			// Card was moved into the current list.
			if action.Data.ListAfter != nil && action.Data.ListAfter.ID == c.IDList {
				return action.Date, nil
			}
		case ActionCreateCard:
			// Card was created in the current list and never moved.
			if action.Data.Card.IDList == c.IDList {
				return action.Date, nil
			}
		}
	}

	return CreationTimeFromID(c.ID)
}

// CreationTimeFromID decodes the creation time embedded in a Trello ID: the
// first 8 hex characters are a Unix timestamp.
// cf. https://support.atlassian.com/trello/docs/getting-the-time-a-card-or-board-was-created/
//
// This is a property of Trello's ID format, not of this program; if the
// format ever changes, this is the only place to touch.
func CreationTimeFromID(id string) (time.Time, error) {
	if len(id) < 8 {
		return time.Time{}, fmt.Errorf("decode card ID %q: %w", id, ErrShortCardID)
	}

	seconds, err := strconv.ParseUint(id[:8], 16, 32)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode card ID %q: %w", id, err)
	}

	return time.Unix(int64(seconds), 0).UTC(), nil
}
