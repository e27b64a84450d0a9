package steps

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	appColony "github.com/andrescamacho/colony-engine/internal/application/colony"
	"github.com/andrescamacho/colony-engine/internal/application/colony/commands"
	"github.com/andrescamacho/colony-engine/internal/application/colony/queries"
	ledgerQueries "github.com/andrescamacho/colony-engine/internal/application/ledger/queries"
	"github.com/andrescamacho/colony-engine/internal/application/mediator"
	"github.com/andrescamacho/colony-engine/internal/application/setup"
	"github.com/andrescamacho/colony-engine/internal/domain/colony"
	"github.com/andrescamacho/colony-engine/internal/domain/rules"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
	"github.com/andrescamacho/colony-engine/test/helpers"
)

type economyContext struct {
	fixture  *helpers.EconomyFixture
	mediator mediator.Mediator

	lastResponse mediator.Response
	lastErr      error

	quote         rules.Cost
	quoteDuration time.Duration
}

func (ec *economyContext) reset(policy colony.Policy) error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}

	ec.fixture = helpers.NewEconomyFixtureOn(helpers.SharedTestDB, policy)
	registry := setup.NewHandlerRegistry(ec.fixture.Executor, ec.fixture.Transactions(), nil, nil)
	m, err := registry.CreateConfiguredMediator()
	if err != nil {
		return err
	}
	ec.mediator = m
	ec.lastResponse = nil
	ec.lastErr = nil
	ec.quote = rules.Cost{}
	ec.quoteDuration = 0
	return nil
}

func (ec *economyContext) send(request mediator.Request) {
	ec.lastResponse, ec.lastErr = ec.mediator.Send(context.Background(), request)
}

func (ec *economyContext) resources(player string) (*appColony.ResourcesDTO, error) {
	resp, err := ec.mediator.Send(context.Background(), &queries.GetResourcesQuery{PlayerKey: player})
	if err != nil {
		return nil, err
	}
	return resp.(*queries.GetResourcesResponse).Resources, nil
}

func (ec *economyContext) trackEntry(player, trackName, kind string) (*queries.TrackEntryDTO, error) {
	resp, err := ec.mediator.Send(context.Background(), &queries.GetTrackQuery{PlayerKey: player, Track: trackName})
	if err != nil {
		return nil, err
	}
	for _, e := range resp.(*queries.GetTrackResponse).Entries {
		if e.Kind == kind {
			entry := e
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("kind %q not listed on track %q", kind, trackName)
}

// ============================================================================
// Given
// ============================================================================

func (ec *economyContext) aRefundRatioOf(ratio float64) error {
	policy := colony.DefaultPolicy()
	policy.RefundRatio = ratio
	return ec.reset(policy)
}

func (ec *economyContext) aNewColonyForPlayer(player string) error {
	ec.send(&commands.InitPlayerCommand{PlayerKey: player})
	return ec.lastErr
}

func (ec *economyContext) playerIsInitialisedAgain(player string) error {
	ec.send(&commands.InitPlayerCommand{PlayerKey: player})
	return nil
}

func (ec *economyContext) playerIsGranted(player string, metal, crystal, deuterium int64) error {
	ec.send(&commands.GrantResourcesCommand{
		PlayerKey: player,
		Metal:     metal,
		Crystal:   crystal,
		Deuterium: deuterium,
		Reason:    "scenario setup",
	})
	return ec.lastErr
}

func (ec *economyContext) playerHasCompleted(player, kind, trackName string) error {
	if err := ec.playerStarts(player, kind, trackName); err != nil {
		return err
	}
	if ec.lastErr != nil {
		return fmt.Errorf("setup build of %s failed: %w", kind, ec.lastErr)
	}
	started := ec.lastResponse.(*commands.StartBuildResponse)
	ec.fixture.Clock.Advance(started.Duration)
	_, err := ec.resources(player)
	return err
}

// ============================================================================
// When
// ============================================================================

func (ec *economyContext) playerStartsBuildingUnits(player string, amount int, kind, trackName string) error {
	ec.send(&commands.StartBuildCommand{PlayerKey: player, Track: trackName, Kind: kind, Amount: amount})
	return nil
}

func (ec *economyContext) playerStarts(player, kind, trackName string) error {
	return ec.playerStartsBuildingUnits(player, 1, kind, trackName)
}

func (ec *economyContext) playerCancels(player, kind, trackName string) error {
	ec.send(&commands.CancelBuildCommand{PlayerKey: player, Track: trackName, Kind: kind})
	return nil
}

func (ec *economyContext) timePasses(amount int, unit string) error {
	var d time.Duration
	switch strings.TrimSuffix(unit, "s") {
	case "second":
		d = time.Second
	case "minute":
		d = time.Minute
	case "hour":
		d = time.Hour
	default:
		return fmt.Errorf("unknown time unit %q", unit)
	}
	ec.fixture.Clock.Advance(time.Duration(amount) * d)
	return nil
}

func (ec *economyContext) theBuildTimeElapses() error {
	started, ok := ec.lastResponse.(*commands.StartBuildResponse)
	if !ok {
		return fmt.Errorf("last response is not a started build")
	}
	ec.fixture.Clock.Advance(started.Duration)
	return nil
}

func (ec *economyContext) iQuote(kind, trackName string, level, amount int) error {
	t, err := rules.ParseTrack(trackName)
	if err != nil {
		return err
	}
	k, err := rules.ParseKind(t, kind)
	if err != nil {
		return err
	}
	ec.quote, ec.quoteDuration = rules.Quote(k, level, amount, rules.Support{})
	return nil
}

// ============================================================================
// Then
// ============================================================================

func (ec *economyContext) theRequestShouldSucceed() error {
	if ec.lastErr != nil {
		return fmt.Errorf("expected success, got %w", ec.lastErr)
	}
	return nil
}

func (ec *economyContext) theRequestShouldBeRejectedWith(reason string) error {
	if ec.lastErr == nil {
		return fmt.Errorf("expected rejection %q, request succeeded", reason)
	}
	if got := shared.RejectionReason(ec.lastErr); got != reason {
		return fmt.Errorf("expected rejection %q, got %q (%v)", reason, got, ec.lastErr)
	}
	return nil
}

func (ec *economyContext) theChargeShouldBe(metal, crystal, deuterium int64) error {
	started, ok := ec.lastResponse.(*commands.StartBuildResponse)
	if !ok {
		return fmt.Errorf("last response is not a started build")
	}
	want := rules.Cost{Metal: metal, Crystal: crystal, Deuterium: deuterium}
	if started.Cost != want {
		return fmt.Errorf("expected charge %s, got %s", want, started.Cost)
	}
	return nil
}

func (ec *economyContext) theBuildShouldTake(duration string) error {
	want, err := time.ParseDuration(duration)
	if err != nil {
		return err
	}
	started, ok := ec.lastResponse.(*commands.StartBuildResponse)
	if !ok {
		return fmt.Errorf("last response is not a started build")
	}
	if started.Duration != want {
		return fmt.Errorf("expected duration %s, got %s", want, started.Duration)
	}
	return nil
}

func (ec *economyContext) theRefundShouldBe(metal, crystal, deuterium int64) error {
	cancelled, ok := ec.lastResponse.(*commands.CancelBuildResponse)
	if !ok {
		return fmt.Errorf("last response is not a cancelled build")
	}
	want := rules.Cost{Metal: metal, Crystal: crystal, Deuterium: deuterium}
	if cancelled.Refund != want {
		return fmt.Errorf("expected refund %s, got %s", want, cancelled.Refund)
	}
	return nil
}

func (ec *economyContext) playerShouldHave(player string, metal, crystal, deuterium int64) error {
	res, err := ec.resources(player)
	if err != nil {
		return err
	}
	got := [3]int64{floor(res.Metal), floor(res.Crystal), floor(res.Deuterium)}
	want := [3]int64{metal, crystal, deuterium}
	if got != want {
		return fmt.Errorf("expected stock M:%d C:%d D:%d, got M:%d C:%d D:%d",
			want[0], want[1], want[2], got[0], got[1], got[2])
	}
	return nil
}

func (ec *economyContext) playerShouldHaveAtLeastMetal(player string, metal int64) error {
	res, err := ec.resources(player)
	if err != nil {
		return err
	}
	if floor(res.Metal) < metal {
		return fmt.Errorf("expected at least %d metal, got %.2f", metal, res.Metal)
	}
	return nil
}

func (ec *economyContext) theEnergyStateShouldBe(player, state string) error {
	res, err := ec.resources(player)
	if err != nil {
		return err
	}
	if res.EnergyState != state {
		return fmt.Errorf("expected energy state %q, got %q (production %d, consumption %d)",
			state, res.EnergyState, res.EnergyProduction, res.EnergyConsumption)
	}
	return nil
}

func (ec *economyContext) theMetalRateShouldBe(player string, rate float64) error {
	res, err := ec.resources(player)
	if err != nil {
		return err
	}
	if math.Abs(res.MetalRate-rate) > 1e-9 {
		return fmt.Errorf("expected metal rate %.2f, got %.2f", rate, res.MetalRate)
	}
	return nil
}

func (ec *economyContext) kindShouldBeAtCount(player, kind, trackName string, count int) error {
	entry, err := ec.trackEntry(player, trackName, kind)
	if err != nil {
		return err
	}
	if entry.Count != count {
		return fmt.Errorf("expected %s at %d, got %d", kind, count, entry.Count)
	}
	return nil
}

func (ec *economyContext) kindShouldBeInProgress(player, kind, trackName string, amount int) error {
	entry, err := ec.trackEntry(player, trackName, kind)
	if err != nil {
		return err
	}
	if entry.InProgressAmount != amount {
		return fmt.Errorf("expected %s in progress x%d, got x%d", kind, amount, entry.InProgressAmount)
	}
	return nil
}

func (ec *economyContext) theQuoteShouldBe(metal, crystal, deuterium int64) error {
	want := rules.Cost{Metal: metal, Crystal: crystal, Deuterium: deuterium}
	if ec.quote != want {
		return fmt.Errorf("expected quote %s, got %s", want, ec.quote)
	}
	return nil
}

func (ec *economyContext) theQuotedDurationShouldBe(duration string) error {
	want, err := time.ParseDuration(duration)
	if err != nil {
		return err
	}
	if ec.quoteDuration != want {
		return fmt.Errorf("expected quoted duration %s, got %s", want, ec.quoteDuration)
	}
	return nil
}

func (ec *economyContext) playerShouldHaveTransactions(player string, count int) error {
	resp, err := ec.mediator.Send(context.Background(), &ledgerQueries.GetTransactionsQuery{PlayerKey: player})
	if err != nil {
		return err
	}
	if total := resp.(*ledgerQueries.GetTransactionsResponse).Total; total != count {
		return fmt.Errorf("expected %d transactions, got %d", count, total)
	}
	return nil
}

// theLedgerShouldContain compares oldest-first transactions against the table.
// Columns: type, category, metal, crystal, deuterium and optionally kind.
func (ec *economyContext) theLedgerShouldContain(player string, table *godog.Table) error {
	resp, err := ec.mediator.Send(context.Background(), &ledgerQueries.GetTransactionsQuery{
		PlayerKey: player,
		OrderBy:   "timestamp ASC",
	})
	if err != nil {
		return err
	}
	txs := resp.(*ledgerQueries.GetTransactionsResponse).Transactions

	rows := table.Rows[1:]
	if len(txs) != len(rows) {
		return fmt.Errorf("expected %d transactions, got %d", len(rows), len(txs))
	}

	for i, row := range rows {
		tx := txs[i]
		if want := getCell(table, row, "type"); want != tx.Type {
			return fmt.Errorf("row %d: expected type %s, got %s", i+1, want, tx.Type)
		}
		if want := getCell(table, row, "category"); want != tx.Category {
			return fmt.Errorf("row %d: expected category %s, got %s", i+1, want, tx.Category)
		}
		for column, actual := range map[string]int64{"metal": tx.Metal, "crystal": tx.Crystal, "deuterium": tx.Deuterium} {
			want, err := strconv.ParseInt(getCell(table, row, column), 10, 64)
			if err != nil {
				return fmt.Errorf("row %d: bad %s: %w", i+1, column, err)
			}
			if want != actual {
				return fmt.Errorf("row %d: expected %s %d, got %d", i+1, column, want, actual)
			}
		}
		if kind := getCell(table, row, "kind"); kind != "" && kind != tx.RelatedKind {
			return fmt.Errorf("row %d: expected kind %s, got %s", i+1, kind, tx.RelatedKind)
		}
	}
	return nil
}

func (ec *economyContext) theFlowForCategoryShouldNet(player, category string, metal, crystal, deuterium int64) error {
	resp, err := ec.mediator.Send(context.Background(), &ledgerQueries.GetResourceFlowQuery{PlayerKey: player})
	if err != nil {
		return err
	}
	want := rules.Cost{Metal: metal, Crystal: crystal, Deuterium: deuterium}
	for _, flow := range resp.(*ledgerQueries.GetResourceFlowResponse).Categories {
		if flow.Category == category {
			if flow.Net != want {
				return fmt.Errorf("expected %s net %s, got %s", category, want, flow.Net)
			}
			return nil
		}
	}
	return fmt.Errorf("no flow recorded for category %s", category)
}

// getCell returns the value of columnName in row, or "" when the column is absent
func getCell(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	for i, cell := range table.Rows[0].Cells {
		if cell.Value == columnName && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

func floor(v float64) int64 {
	return int64(math.Floor(v))
}

func InitializeEconomyScenario(sc *godog.ScenarioContext) {
	ec := &economyContext{}

	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		return ctx, ec.reset(colony.DefaultPolicy())
	})

	// Given
	sc.Step(`^a refund ratio of ([\d.]+)$`, ec.aRefundRatioOf)
	sc.Step(`^a new colony for player "([^"]*)"$`, ec.aNewColonyForPlayer)
	sc.Step(`^player "([^"]*)" is granted (\d+) metal, (\d+) crystal and (\d+) deuterium$`, ec.playerIsGranted)
	sc.Step(`^player "([^"]*)" has completed "([^"]*)" on the "([^"]*)" track$`, ec.playerHasCompleted)

	// When
	sc.Step(`^player "([^"]*)" is initialised again$`, ec.playerIsInitialisedAgain)
	sc.Step(`^player "([^"]*)" starts building (\d+) "([^"]*)" on the "([^"]*)" track$`, ec.playerStartsBuildingUnits)
	sc.Step(`^player "([^"]*)" starts "([^"]*)" on the "([^"]*)" track$`, ec.playerStarts)
	sc.Step(`^player "([^"]*)" cancels "([^"]*)" on the "([^"]*)" track$`, ec.playerCancels)
	sc.Step(`^(\d+) (seconds?|minutes?|hours?) pass(?:es)?$`, ec.timePasses)
	sc.Step(`^the build time elapses$`, ec.theBuildTimeElapses)
	sc.Step(`^I quote "([^"]*)" on the "([^"]*)" track at level (\d+) for (\d+) units?$`, ec.iQuote)

	// Then
	sc.Step(`^the request should succeed$`, ec.theRequestShouldSucceed)
	sc.Step(`^the request should be rejected with "([^"]*)"$`, ec.theRequestShouldBeRejectedWith)
	sc.Step(`^the charge should be (\d+) metal, (\d+) crystal and (\d+) deuterium$`, ec.theChargeShouldBe)
	sc.Step(`^the build should take "([^"]*)"$`, ec.theBuildShouldTake)
	sc.Step(`^the refund should be (\d+) metal, (\d+) crystal and (\d+) deuterium$`, ec.theRefundShouldBe)
	sc.Step(`^player "([^"]*)" should have (\d+) metal, (\d+) crystal and (\d+) deuterium$`, ec.playerShouldHave)
	sc.Step(`^player "([^"]*)" should have at least (\d+) metal$`, ec.playerShouldHaveAtLeastMetal)
	sc.Step(`^the energy state of player "([^"]*)" should be "([^"]*)"$`, ec.theEnergyStateShouldBe)
	sc.Step(`^the metal rate of player "([^"]*)" should be ([\d.]+) per hour$`, ec.theMetalRateShouldBe)
	sc.Step(`^player "([^"]*)" should have "([^"]*)" on the "([^"]*)" track at (\d+)$`, ec.kindShouldBeAtCount)
	sc.Step(`^player "([^"]*)" should have "([^"]*)" on the "([^"]*)" track in progress x(\d+)$`, ec.kindShouldBeInProgress)
	sc.Step(`^the quote should be (\d+) metal, (\d+) crystal and (\d+) deuterium$`, ec.theQuoteShouldBe)
	sc.Step(`^the quoted duration should be "([^"]*)"$`, ec.theQuotedDurationShouldBe)
	sc.Step(`^player "([^"]*)" should have (\d+) transactions?$`, ec.playerShouldHaveTransactions)
	sc.Step(`^the ledger for player "([^"]*)" should contain:$`, ec.theLedgerShouldContain)
	sc.Step(`^the "([^"]*)" flow of player "([^"]*)" should net (-?\d+) metal, (-?\d+) crystal and (-?\d+) deuterium$`,
		func(category, player string, metal, crystal, deuterium int64) error {
			return ec.theFlowForCategoryShouldNet(player, category, metal, crystal, deuterium)
		})
}
