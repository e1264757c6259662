package trello

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClientMembers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/boards/board1/members" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("key") != "k" || q.Get("token") != "tok" {
			t.Errorf("missing credentials in query: %v", q)
		}
		w.Write([]byte(`[{"id":"m1","username":"alice","fullName":"Alice A"}]`))
	}))
	defer srv.Close()

	client := NewClient("k", "tok", testLogger()).WithBaseURL(srv.URL)

	members, err := client.Members(context.Background(), "board1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 1 || members[0].Username != "alice" {
		t.Errorf("unexpected members: %+v", members)
	}
}

func TestClientLists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("cards") != "none" || q.Get("fields") != "id,name" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Write([]byte(`[{"id":"l1","name":"Sprint"},{"id":"l2","name":"Review"}]`))
	}))
	defer srv.Close()

	client := NewClient("k", "tok", testLogger()).WithBaseURL(srv.URL)

	lists, err := client.Lists(context.Background(), "board1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lists) != 2 || lists[1].Name != "Review" {
		t.Errorf("unexpected lists: %+v", lists)
	}
}

func TestClientCards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("actions") != "updateCard:idList,createCard" {
			t.Errorf("actions filter missing: %v", q)
		}
		w.Write([]byte(`[{
			"id":"4d5ea62fd76aa1136000000c",
			"idList":"l1",
			"idMembers":["m1"],
			"name":"Card",
			"dateLastActivity":"2024-06-01T12:00:00.000Z",
			"url":"https://trello.com/c/abc",
			"actions":[{"id":"a1","date":"2024-05-01T12:00:00.000Z","type":"createCard","data":{"card":{"id":"4d5ea62fd76aa1136000000c","idList":"l1"}}}]
		}]`))
	}))
	defer srv.Close()

	client := NewClient("k", "tok", testLogger()).WithBaseURL(srv.URL)

	cards, err := client.Cards(context.Background(), "l1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	if cards[0].Actions[0].Type != ActionCreateCard {
		t.Errorf("unexpected action type %q", cards[0].Actions[0].Type)
	}
}

func TestClientErrors(t *testing.T) {
	t.Run("non-2xx carries response body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid token", http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := NewClient("k", "bad", testLogger()).WithBaseURL(srv.URL)

		_, err := client.Members(context.Background(), "board1")
		if err == nil || !strings.Contains(err.Error(), "invalid token") {
			t.Errorf("expected error carrying response body, got %v", err)
		}
	})

	t.Run("malformed payload names the endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		}))
		defer srv.Close()

		client := NewClient("k", "tok", testLogger()).WithBaseURL(srv.URL)

		_, err := client.Lists(context.Background(), "board1")
		if err == nil || !strings.Contains(err.Error(), "board1") {
			t.Errorf("expected parse error naming the board, got %v", err)
		}
	})
}

func TestClientDebugDump(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	client := NewClient("k", "tok", testLogger()).WithBaseURL(srv.URL).WithDebugDir(dir)

	if _, err := client.Members(context.Background(), "board1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "members_board1.json"))
	if err != nil {
		t.Fatalf("expected debug dump: %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("unexpected dump contents %q", data)
	}
}
