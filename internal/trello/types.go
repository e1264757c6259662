package trello

import "time"

type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Card struct {
	ID               string    `json:"id"`
	IDList           string    `json:"idList"`
	IDMembers        []string  `json:"idMembers"`
	Name             string    `json:"name"`
	DateLastActivity time.Time `json:"dateLastActivity"`
	URL              string    `json:"url"`
	Actions          []Action  `json:"actions"`
}

// Action is one entry of a card's history as reported by Trello. Only the
// fields relevant to list transitions are mapped; everything else in the
// payload is ignored.
type Action struct {
	ID              string     `json:"id"`
	IDMemberCreator string     `json:"idMemberCreator"`
	Date            time.Time  `json:"date"`
	Type            ActionType `json:"type"`
	Data            ActionData `json:"data"`
}

type ActionData struct {
	Card       ActionCard `json:"card"`
	List       *List      `json:"list"`
	ListAfter  *List      `json:"listAfter"`
	ListBefore *List      `json:"listBefore"`
}

type ActionCard struct {
	ID     string `json:"id"`
	IDList string `json:"idList"`
	Name   string `json:"name"`
}

// ActionType is open-ended: Trello keeps adding action kinds, so anything
// unknown decodes as-is instead of failing.
type ActionType string

const (
	ActionUpdateCard ActionType = "updateCard"
	ActionCreateCard ActionType = "createCard"
)
