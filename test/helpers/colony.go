package helpers

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/colony-engine/internal/adapters/persistence"
	appColony "github.com/andrescamacho/colony-engine/internal/application/colony"
	"github.com/andrescamacho/colony-engine/internal/domain/colony"
	"github.com/andrescamacho/colony-engine/internal/domain/shared"
)

// Epoch is the fixed start time for economy tests
var Epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// EconomyFixture bundles an executor wired to an in-memory database and a controllable clock
type EconomyFixture struct {
	DB       *gorm.DB
	UoW      *persistence.GormUnitOfWork
	Clock    *shared.MockClock
	Executor *appColony.Executor
	Policy   colony.Policy
}

// NewEconomyFixture creates a fixture with the default policy
func NewEconomyFixture(t *testing.T) *EconomyFixture {
	return NewEconomyFixtureWithPolicy(t, colony.DefaultPolicy())
}

// NewEconomyFixtureWithPolicy creates a fixture with a custom policy
func NewEconomyFixtureWithPolicy(t *testing.T, policy colony.Policy) *EconomyFixture {
	return NewEconomyFixtureOn(NewTestDB(t), policy)
}

// NewEconomyFixtureOn wires a fixture onto an existing database
func NewEconomyFixtureOn(db *gorm.DB, policy colony.Policy) *EconomyFixture {
	clock := shared.NewMockClock(Epoch)
	uow := persistence.NewGormUnitOfWork(db)
	return &EconomyFixture{
		DB:       db,
		UoW:      uow,
		Clock:    clock,
		Executor: appColony.NewExecutor(uow, appColony.NewPlayerLocks(), policy, clock),
		Policy:   policy,
	}
}

// Transactions returns a transaction repository over the fixture database
func (f *EconomyFixture) Transactions() *persistence.GormTransactionRepository {
	return persistence.NewGormTransactionRepository(f.DB)
}

// Colonies returns a colony repository over the fixture database
func (f *EconomyFixture) Colonies() *persistence.GormColonyRepository {
	return persistence.NewGormColonyRepository(f.DB)
}
