package ports

import (
	"io"

	"go.trai.ch/pmake/internal/core/domain"
)

// GraphEncoder renders the targets of a resolved build session.
//
//go:generate go run go.uber.org/mock/mockgen -source=graph_encoder.go -destination=mocks/mock_graph_encoder.go -package=mocks
type GraphEncoder interface {
	// Encode writes every resolved target of session and its prerequisite edges to w.
	Encode(w io.Writer, session *domain.BuildSession) error
}
