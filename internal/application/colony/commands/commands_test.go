package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-engine/internal/application/colony/commands"
	"github.com/andrescamacho/colony-engine/internal/domain/ledger"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
	"github.com/andrescamacho/colony-engine/test/helpers"
)

type handlers struct {
	init   *commands.InitPlayerHandler
	grant  *commands.GrantResourcesHandler
	start  *commands.StartBuildHandler
	cancel *commands.CancelBuildHandler
}

func newHandlers(f *helpers.EconomyFixture) handlers {
	return handlers{
		init:   commands.NewInitPlayerHandler(f.Executor),
		grant:  commands.NewGrantResourcesHandler(f.Executor),
		start:  commands.NewStartBuildHandler(f.Executor),
		cancel: commands.NewCancelBuildHandler(f.Executor),
	}
}

func (h handlers) build(t *testing.T, player, trackName, kind string, amount int) (*commands.StartBuildResponse, error) {
	t.Helper()
	resp, err := h.start.Handle(context.Background(), &commands.StartBuildCommand{
		PlayerKey: player, Track: trackName, Kind: kind, Amount: amount,
	})
	if err != nil {
		return nil, err
	}
	return resp.(*commands.StartBuildResponse), nil
}

func (h handlers) fund(t *testing.T, player string, metal, crystal, deuterium int64) {
	t.Helper()
	_, err := h.grant.Handle(context.Background(), &commands.GrantResourcesCommand{
		PlayerKey: player, Metal: metal, Crystal: crystal, Deuterium: deuterium, Reason: "test funding",
	})
	require.NoError(t, err)
}

func TestInitPlayer_ReturnsDefaults(t *testing.T) {
	// Arrange
	h := newHandlers(helpers.NewEconomyFixture(t))

	// Act
	resp, err := h.init.Handle(context.Background(), &commands.InitPlayerCommand{PlayerKey: "0xABC"})

	// Assert
	require.NoError(t, err)
	resources := resp.(*commands.InitPlayerResponse).Resources
	assert.Equal(t, "0xabc", resources.PlayerKey)
	assert.Equal(t, 500.0, resources.Metal)
	assert.Equal(t, 10000.0, resources.StorageMetal)

	_, err = h.init.Handle(context.Background(), &commands.InitPlayerCommand{PlayerKey: "0xabc"})
	var initialized *shared.AlreadyInitializedError
	assert.True(t, errors.As(err, &initialized))
}

func TestInitPlayer_RejectsBlankKey(t *testing.T) {
	h := newHandlers(helpers.NewEconomyFixture(t))

	_, err := h.init.Handle(context.Background(), &commands.InitPlayerCommand{PlayerKey: "  "})

	var validation *shared.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestStartBuild_ChargesAndSchedules(t *testing.T) {
	// Arrange
	f := helpers.NewEconomyFixture(t)
	h := newHandlers(f)

	// Act
	resp, err := h.build(t, "player-1", "facilities", "metal_mine", 0)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, rules.Cost{Metal: 60, Crystal: 15}, resp.Cost)
	assert.Equal(t, time.Minute, resp.Duration)
	assert.Equal(t, 1, resp.Record.InProgressAmount)
	require.NotNil(t, resp.Record.CompletesAt)
	assert.True(t, helpers.Epoch.Add(time.Minute).Equal(*resp.Record.CompletesAt))

	resources, err := f.Colonies().FindResources(context.Background(), shared.MustNewPlayerKey("player-1"))
	require.NoError(t, err)
	assert.Equal(t, 440.0, resources.Stock().Metal)
	assert.Equal(t, 485.0, resources.Stock().Crystal)
}

func TestStartBuild_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T, h handlers, f *helpers.EconomyFixture)
		track  string
		kind   string
		amount int
		reason string
	}{
		{
			name:   "unknown kind",
			track:  "facilities",
			kind:   "death_star",
			amount: 1,
			reason: "validation",
		},
		{
			name:   "unknown track",
			track:  "fleet",
			kind:   "metal_mine",
			amount: 1,
			reason: "validation",
		},
		{
			name:   "levelled kind takes exactly one",
			track:  "research",
			kind:   "energy_tech",
			amount: 2,
			reason: "validation",
		},
		{
			name:   "insufficient deuterium",
			track:  "facilities",
			kind:   "shipyard",
			amount: 1,
			reason: "insufficient_resources",
		},
		{
			name:   "requirement not met",
			track:  "defense",
			kind:   "rocket_launcher",
			amount: 1,
			reason: "requirement_not_met",
		},
		{
			name: "already building",
			setup: func(t *testing.T, h handlers, f *helpers.EconomyFixture) {
				_, err := h.build(t, "player-1", "facilities", "metal_mine", 1)
				require.NoError(t, err)
			},
			track:  "facilities",
			kind:   "metal_mine",
			amount: 1,
			reason: "already_building",
		},
		{
			name: "research busy",
			setup: func(t *testing.T, h handlers, f *helpers.EconomyFixture) {
				h.fund(t, "player-1", 5000, 5000, 5000)
				_, err := h.build(t, "player-1", "facilities", "research_lab", 1)
				require.NoError(t, err)
				f.Clock.Advance(time.Hour)
				_, err = h.build(t, "player-1", "research", "computer_tech", 1)
				require.NoError(t, err)
			},
			track:  "research",
			kind:   "energy_tech",
			amount: 1,
			reason: "research_busy",
		},
		{
			name: "batch over maximum",
			track:  "defense",
			kind:   "rocket_launcher",
			amount: 1001,
			reason: "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := helpers.NewEconomyFixture(t)
			h := newHandlers(f)
			if tt.setup != nil {
				tt.setup(t, h, f)
			}

			// Act
			_, err := h.build(t, "player-1", tt.track, tt.kind, tt.amount)

			// Assert
			require.Error(t, err)
			assert.Equal(t, tt.reason, shared.RejectionReason(err))
		})
	}
}

func TestStartBuild_RejectionLeavesLedgerUntouched(t *testing.T) {
	// Arrange
	f := helpers.NewEconomyFixture(t)
	h := newHandlers(f)
	ctx := context.Background()
	key := shared.MustNewPlayerKey("player-1")
	_, err := h.init.Handle(ctx, &commands.InitPlayerCommand{PlayerKey: "player-1"})
	require.NoError(t, err)

	// Act
	_, err = h.build(t, "player-1", "facilities", "shipyard", 1)

	// Assert
	var insufficient *shared.InsufficientResourcesError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 100.0, insufficient.Required.Deuterium)
	assert.Equal(t, 0.0, insufficient.Available.Deuterium)

	resources, err := f.Colonies().FindResources(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 500.0, resources.Stock().Metal)

	count, err := f.Transactions().CountByPlayer(ctx, key, ledger.QueryOptions{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestStartBuild_ConcurrentRequestsForSameKind(t *testing.T) {
	// Arrange
	f := helpers.NewEconomyFixture(t)
	h := newHandlers(f)
	h.fund(t, "player-1", 0, 0, 1000)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup

	// Act
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.start.Handle(context.Background(), &commands.StartBuildCommand{
				PlayerKey: "player-1", Track: "facilities", Kind: "shipyard",
			})
		}(i)
	}
	wg.Wait()

	// Assert
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, "already_building", shared.RejectionReason(err))
	}
	assert.Equal(t, 1, succeeded)

	resources, err := f.Colonies().FindResources(context.Background(), shared.MustNewPlayerKey("player-1"))
	require.NoError(t, err)
	assert.Equal(t, 900.0, resources.Stock().Deuterium)
}

func TestCancelBuild_RefundsHalfFloored(t *testing.T) {
	// Arrange
	f := helpers.NewEconomyFixture(t)
	h := newHandlers(f)
	ctx := context.Background()
	_, err := h.build(t, "player-1", "facilities", "metal_mine", 1)
	require.NoError(t, err)

	// Act
	resp, err := h.cancel.Handle(ctx, &commands.CancelBuildCommand{
		PlayerKey: "player-1", Track: "facilities", Kind: "metal_mine",
	})

	// Assert
	require.NoError(t, err)
	cancelled := resp.(*commands.CancelBuildResponse)
	assert.Equal(t, rules.Cost{Metal: 30, Crystal: 7}, cancelled.Refund)
	assert.Equal(t, 1, cancelled.Amount)
	assert.Zero(t, cancelled.Record.InProgressAmount)
	assert.Zero(t, cancelled.Record.Count)

	key := shared.MustNewPlayerKey("player-1")
	resources, err := f.Colonies().FindResources(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 470.0, resources.Stock().Metal)
	assert.Equal(t, 492.0, resources.Stock().Crystal)

	refund := ledger.TransactionTypeBuildRefund
	refunds, err := f.Transactions().FindByPlayer(ctx, key, ledger.QueryOptions{TransactionType: &refund})
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.Equal(t, rules.Cost{Metal: 30, Crystal: 7}, refunds[0].Amounts())
}

func TestCancelBuild_NothingInProgress(t *testing.T) {
	h := newHandlers(helpers.NewEconomyFixture(t))

	_, err := h.cancel.Handle(context.Background(), &commands.CancelBuildCommand{
		PlayerKey: "player-1", Track: "research", Kind: "energy_tech",
	})

	var noBuild *shared.NoActiveBuildError
	assert.True(t, errors.As(err, &noBuild))
}

func TestCancelBuild_AfterCompletionIsRejected(t *testing.T) {
	// Arrange
	f := helpers.NewEconomyFixture(t)
	h := newHandlers(f)
	_, err := h.build(t, "player-1", "facilities", "metal_mine", 1)
	require.NoError(t, err)
	f.Clock.Advance(2 * time.Minute)

	// Act
	_, err = h.cancel.Handle(context.Background(), &commands.CancelBuildCommand{
		PlayerKey: "player-1", Track: "facilities", Kind: "metal_mine",
	})

	// Assert
	assert.Equal(t, "no_active_build", shared.RejectionReason(err))
}

func TestGrantResources_ClampsToCapacity(t *testing.T) {
	// Arrange
	f := helpers.NewEconomyFixture(t)
	h := newHandlers(f)

	// Act
	resp, err := h.grant.Handle(context.Background(), &commands.GrantResourcesCommand{
		PlayerKey: "player-1", Metal: 50000, Reason: "event reward",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 10000.0, resp.(*commands.GrantResourcesResponse).Resources.Metal)

	grants, err := f.Transactions().FindByPlayer(context.Background(), shared.MustNewPlayerKey("player-1"), ledger.DefaultQueryOptions())
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, ledger.TransactionTypeAdminGrant, grants[0].TransactionType())
	assert.Equal(t, "event reward", grants[0].Description())
}

func TestGrantResources_RejectsNegativeAndEmpty(t *testing.T) {
	h := newHandlers(helpers.NewEconomyFixture(t))

	_, err := h.grant.Handle(context.Background(), &commands.GrantResourcesCommand{PlayerKey: "p", Metal: -5})
	assert.Equal(t, "validation", shared.RejectionReason(err))

	_, err = h.grant.Handle(context.Background(), &commands.GrantResourcesCommand{PlayerKey: "p"})
	assert.Equal(t, "validation", shared.RejectionReason(err))
}

func TestHandlers_RejectWrongRequestType(t *testing.T) {
	h := newHandlers(helpers.NewEconomyFixture(t))

	_, err := h.start.Handle(context.Background(), &commands.CancelBuildCommand{})
	assert.Error(t, err)
	assert.Equal(t, "internal", shared.RejectionReason(err))
}

func TestRefreshColony_CompletesDueBuild(t *testing.T) {
	// Arrange
	f := helpers.NewEconomyFixture(t)
	h := newHandlers(f)
	refresh := commands.NewRefreshColonyHandler(f.Executor)
	_, err := h.build(t, "player-1", "facilities", "metal_mine", 1)
	require.NoError(t, err)
	f.Clock.Advance(time.Minute)

	// Act
	resp, err := refresh.Handle(context.Background(), &commands.RefreshColonyCommand{PlayerKey: "player-1"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, resp.(*commands.RefreshColonyResponse).Completed)

	resp, err = refresh.Handle(context.Background(), &commands.RefreshColonyCommand{PlayerKey: "player-1"})
	require.NoError(t, err)
	assert.Zero(t, resp.(*commands.RefreshColonyResponse).Completed)
}
