package repo_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/itinerary/internal/domain"
	"github.com/pkordes/itinerary/testutil"
)

// Seeded catalog IDs (migrations/00003_seed_catalog.sql).
var (
	parisID    = uuid.MustParse("c1000000-0000-4000-8000-000000000001")
	tokyoID    = uuid.MustParse("c1000000-0000-4000-8000-000000000002")
	eiffelID   = uuid.MustParse("a1000000-0000-4000-8000-000000000001")
	seineID    = uuid.MustParse("a1000000-0000-4000-8000-000000000002")
	foodTourID = uuid.MustParse("a1000000-0000-4000-8000-000000000003")
	missingID  = uuid.MustParse("ffffffff-ffff-4fff-bfff-ffffffffffff")
	tripStart  = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	tripEnd    = time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
)

// newTestTx returns a rolled-back-on-cleanup transaction on the migrated
// test database.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	return testutil.NewTx(t)
}

// tripFixture returns a domain.Trip with sensible defaults for the given owner.
func tripFixture(owner uuid.UUID) domain.Trip {
	return domain.Trip{
		OwnerID:     owner,
		Name:        "Japan 2024",
		Description: "Cherry blossom season",
		StartDate:   tripStart,
		EndDate:     tripEnd,
		TotalBudget: 100000,
		Currency:    domain.DefaultCurrency,
		Status:      domain.TripStatusPlanning,
	}
}

func stopFixture(tripID uuid.UUID) domain.Stop {
	return domain.Stop{
		TripID:    tripID,
		CityID:    tokyoID,
		City:      "Tokyo",
		Country:   "Japan",
		StartDate: tripStart,
		EndDate:   tripStart.AddDate(0, 0, 4),
	}
}
