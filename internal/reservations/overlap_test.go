package reservations

import (
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
)

var day0 = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return day0.AddDate(0, 0, n)
}

func span(start, end int) Range {
	return Range{Start: day(start), End: day(end)}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Range
		want bool
	}{
		{name: "identical", a: span(10, 20), b: span(10, 20), want: true},
		{name: "partial", a: span(10, 20), b: span(15, 25), want: true},
		{name: "contained", a: span(10, 20), b: span(12, 13), want: true},
		{name: "containing", a: span(12, 13), b: span(10, 20), want: true},
		{name: "adjacent after", a: span(10, 20), b: span(20, 25), want: false},
		{name: "adjacent before", a: span(20, 25), b: span(10, 20), want: false},
		{name: "disjoint", a: span(1, 2), b: span(5, 6), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.a, tc.b); got != tc.want {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
			if got := Overlaps(tc.b, tc.a); got != tc.want {
				t.Fatalf("expected symmetric result %v got %v", tc.want, got)
			}
		})
	}
}

func TestNewRange(t *testing.T) {
	invalid := []struct {
		name       string
		start, end time.Time
	}{
		{name: "empty", start: day(2), end: day(2)},
		{name: "reversed", start: day(3), end: day(2)},
		{name: "zero start", start: time.Time{}, end: day(2)},
	}
	for _, tc := range invalid {
		if _, err := NewRange(tc.start, tc.end); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error got %v", tc.name, err)
		}
	}

	r, err := NewRange(day(1), day(2))
	if err != nil {
		t.Fatalf("new range: %v", err)
	}
	if !r.Start.Equal(day(1)) {
		t.Fatalf("expected start %s got %s", day(1), r.Start)
	}
}

func reservationFor(fulfilmentID uuid.UUID, start, end int) models.Reservation {
	fid := fulfilmentID
	return models.Reservation{ID: uuid.New(), StartDate: day(start), EndDate: day(end), FulfilmentID: &fid}
}

func ids(rows []models.Reservation) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ID)
	}
	return out
}

func TestFindConflictsSkipsOwnReservation(t *testing.T) {
	self := uuid.New()
	other := uuid.New()
	candidates := []models.Reservation{
		reservationFor(self, 10, 20),
		reservationFor(other, 18, 22),
		reservationFor(other, 20, 30),
		{ID: uuid.New(), StartDate: day(5), EndDate: day(11)},
	}

	got := ids(FindConflicts(span(10, 20), candidates, self))
	want := []uuid.UUID{candidates[1].ID, candidates[3].ID}
	if !slices.Equal(got, want) {
		t.Fatalf("expected conflicts %v got %v", want, got)
	}
}

func TestCheckRejectsWithoutOverride(t *testing.T) {
	inventoryID := uuid.New()
	existing := reservationFor(uuid.New(), 10, 20)

	result, err := Check(inventoryID, span(15, 25), []models.Reservation{existing}, uuid.New(), false)
	if !pkgerrors.HasCode(err, pkgerrors.CodeReservationConflict) {
		t.Fatalf("expected reservation conflict got %v", err)
	}
	if result.Overridden || len(result.Conflicts) != 1 {
		t.Fatalf("expected one unoverridden conflict got %+v", result)
	}

	details, ok := pkgerrors.As(err).Details().(ConflictDetails)
	if !ok {
		t.Fatalf("expected ConflictDetails got %T", pkgerrors.As(err).Details())
	}
	if details.InventoryID != inventoryID {
		t.Fatalf("expected inventory %s got %s", inventoryID, details.InventoryID)
	}
	if !slices.Equal(details.ConflictingReservationIDs, []uuid.UUID{existing.ID}) {
		t.Fatalf("expected conflicting ids [%s] got %v", existing.ID, details.ConflictingReservationIDs)
	}
}

func TestCheckOverrideStillReportsConflicts(t *testing.T) {
	existing := reservationFor(uuid.New(), 10, 20)

	result, err := Check(uuid.New(), span(15, 25), []models.Reservation{existing}, uuid.New(), true)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !result.Overridden {
		t.Fatal("expected override to be flagged")
	}
	if !slices.Equal(result.ConflictIDs(), []uuid.UUID{existing.ID}) {
		t.Fatalf("expected conflict ids [%s] got %v", existing.ID, result.ConflictIDs())
	}
}

func TestCheckCleanWindow(t *testing.T) {
	existing := reservationFor(uuid.New(), 10, 20)

	result, err := Check(uuid.New(), span(20, 25), []models.Reservation{existing}, uuid.New(), true)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	// override is only flagged when it was needed
	if result.Overridden || len(result.Conflicts) != 0 {
		t.Fatalf("expected clean result got %+v", result)
	}
}
