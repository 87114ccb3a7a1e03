package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized},
		{code: CodeForbidden, status: http.StatusForbidden},
		{code: CodeNotFound, status: http.StatusNotFound},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, detailsOK: true},
		{code: CodeReservationConflict, status: http.StatusConflict, detailsOK: true},
		{code: CodeTxConflict, status: http.StatusConflict, retryable: true},
		{code: CodeInternal, status: http.StatusInternalServerError, retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}
	base.WithDetails(map[string]any{"field": "foo"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeTxConflict, cause, "assign")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if !IsRetryable(wrapped) {
		t.Fatalf("transaction conflicts should be retryable")
	}
}

func TestHasCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeReservationConflict, "overlap"))
	if !HasCode(err, CodeReservationConflict) {
		t.Fatal("expected reservation conflict code to be found")
	}
	if HasCode(err, CodeNotFound) {
		t.Fatal("unexpected not found code")
	}
	if IsRetryable(err) {
		t.Fatal("reservation conflicts must not be retryable")
	}
	if HasCode(stdErrors.New("plain"), CodeInternal) {
		t.Fatal("untyped errors carry no code")
	}
}

func TestDumpIncludesPostgresDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23P01", ConstraintName: "reservations_no_overlap", TableName: "reservations"}
	err := Wrap(CodeReservationConflict, pgErr, "insert reservation")

	dump := Dump(err)
	if dump.Code != CodeReservationConflict {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if dump.PGCode != "23P01" || dump.PGConstraint != "reservations_no_overlap" {
		t.Fatalf("unexpected pg fields: %+v", dump)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected wrapped chain, got %v", dump.Chain)
	}
}

func TestDumpFieldsOmitEmptyDiagnostics(t *testing.T) {
	fields := Dump(Wrap(CodeTxConflict, stdErrors.New("could not serialize access"), "assign inventory")).Fields()
	if fields["error_code"] != CodeTxConflict {
		t.Fatalf("unexpected code field %v", fields["error_code"])
	}
	if fields["error_retryable"] != true {
		t.Fatalf("transaction conflicts are retryable, got %v", fields["error_retryable"])
	}
	if _, ok := fields["pg_code"]; ok {
		t.Fatalf("pg_code should be omitted without a driver error: %v", fields)
	}

	withPG := Dump(Wrap(CodeReservationConflict, &pgconn.PgError{Code: "23P01", TableName: "reservations"}, "insert")).Fields()
	if withPG["pg_code"] != "23P01" || withPG["pg_table"] != "reservations" {
		t.Fatalf("expected pg diagnostics, got %v", withPG)
	}
}

func TestCodeOfAndMessages(t *testing.T) {
	if got := CodeOf(stdErrors.New("plain")); got != CodeInternal {
		t.Fatalf("untyped errors classify as internal, got %s", got)
	}
	err := Newf(CodeNotFound, "fulfilment %s not found", "abc")
	if CodeOf(fmt.Errorf("lookup: %w", err)) != CodeNotFound {
		t.Fatalf("expected not found through wrapping")
	}
	if err.Message() != "fulfilment abc not found" {
		t.Fatalf("unexpected message %q", err.Message())
	}

	wrapped := Wrap(CodeDependency, stdErrors.New("connection refused"), "ping redis")
	if wrapped.Error() != "DEPENDENCY_ERROR: ping redis: connection refused" {
		t.Fatalf("unexpected error string %q", wrapped.Error())
	}
}
