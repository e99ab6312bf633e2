package history

import (
	"path/filepath"
	"testing"
	"time"

	"cnpjchat/internal/domain"
)

func openTestHistory(t *testing.T) *BoltHistory {
	t.Helper()
	h, err := NewBoltHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestAppendAndReplay(t *testing.T) {
	h := openTestHistory(t)
	now := time.Now().Unix()

	turns := []domain.HistoryTurn{
		{Session: "s1", Question: "Onde fica a Acme?", Response: `{"municipio":"São Paulo"}`, Unix: now},
		{Session: "s1", Question: "Quantas filiais?", Response: `{"filiais":2}`, Unix: now + 1},
		{Session: "s2", Question: "Empresas parecidas com Natura", Response: "[]", Unix: now + 2},
	}
	for _, turn := range turns {
		if err := h.Append(turn); err != nil {
			t.Fatal(err)
		}
	}

	got, err := h.Turns("s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 turns for s1, got %d", len(got))
	}
	if got[0].Question != "Onde fica a Acme?" || got[1].Question != "Quantas filiais?" {
		t.Errorf("turns out of insertion order: %+v", got)
	}

	other, err := h.Turns("s2")
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 1 {
		t.Errorf("expected 1 turn for s2, got %d", len(other))
	}
}

func TestUnknownSession(t *testing.T) {
	h := openTestHistory(t)

	turns, err := h.Turns("missing")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 0 {
		t.Errorf("expected empty history, got %d", len(turns))
	}
}

func TestAppendRequiresSession(t *testing.T) {
	h := openTestHistory(t)

	if err := h.Append(domain.HistoryTurn{Question: "q"}); err == nil {
		t.Error("expected error for turn without session")
	}
}
