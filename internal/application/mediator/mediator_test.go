package mediator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-engine/internal/application/mediator"
)

type pingQuery struct{ Value string }

type pingHandler struct{}

func (h *pingHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	q, ok := request.(*pingQuery)
	if !ok {
		return nil, errors.New("invalid request type")
	}
	return "pong:" + q.Value, nil
}

func TestMediator_DispatchesByType(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, &pingHandler{}))

	resp, err := m.Send(context.Background(), &pingQuery{Value: "x"})

	require.NoError(t, err)
	assert.Equal(t, "pong:x", resp)
}

func TestMediator_RejectsUnknownAndDuplicate(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, &pingHandler{}))

	assert.Error(t, mediator.RegisterHandler[*pingQuery](m, &pingHandler{}))

	_, err := m.Send(context.Background(), struct{}{})
	assert.Error(t, err)

	_, err = m.Send(context.Background(), nil)
	assert.Error(t, err)
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, &pingHandler{}))

	var order []string
	trace := func(name string) mediator.Middleware {
		return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			order = append(order, name+">")
			resp, err := next(ctx, request)
			order = append(order, "<"+name)
			return resp, err
		}
	}
	m.Use(trace("outer"))
	m.Use(trace("inner"))

	_, err := m.Send(context.Background(), &pingQuery{})

	require.NoError(t, err)
	assert.Equal(t, []string{"outer>", "inner>", "<inner", "<outer"}, order)
}
