package mocks

import (
	"context"

	"github.com/NeuralTrust/toolhub/pkg/app/oracle"
	"github.com/NeuralTrust/toolhub/pkg/app/toolserver"
	"github.com/stretchr/testify/mock"
)

type SelectionOracle struct {
	mock.Mock
}

func (m *SelectionOracle) Select(ctx context.Context, question string, catalog []toolserver.Descriptor) (*oracle.Selection, error) {
	args := m.Called(ctx, question, catalog)
	sel, _ := args.Get(0).(*oracle.Selection)
	return sel, args.Error(1)
}

func (m *SelectionOracle) Summarize(ctx context.Context, question string, sel oracle.Selection, result interface{}) (string, error) {
	args := m.Called(ctx, question, sel, result)
	return args.String(0), args.Error(1)
}
