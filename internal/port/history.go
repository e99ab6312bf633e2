package port

import "cnpjchat/internal/domain"

// HistoryStore persists chat turns per session.
type HistoryStore interface {
	Append(turn domain.HistoryTurn) error

	Turns(session string) ([]domain.HistoryTurn, error)

	Close() error
}
