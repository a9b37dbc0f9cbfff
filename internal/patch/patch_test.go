package patch

import (
	"errors"
	"testing"
	"time"

	"carpool-backend/internal/apperr"
	"carpool-backend/internal/models"
)

func sampleView() models.UserView {
	return models.UserView{
		ID:           1,
		CreatedDate:  time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		DateOfBirth:  time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
		Email:        "ada@example.com",
		PhoneNumber:  "0123456789",
		AccessStatus: "active",
	}
}

func TestApplyReplace(t *testing.T) {
	doc := []byte(`[{"op":"replace","path":"/firstName","value":"Grace"}]`)

	var out models.UserView
	if err := Apply(sampleView(), doc, &out); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.FirstName != "Grace" {
		t.Errorf("firstName = %q, want Grace", out.FirstName)
	}
	if out.LastName != "Lovelace" || out.Email != "ada@example.com" {
		t.Errorf("untouched fields changed: %+v", out)
	}
}

func TestApplyIdempotent(t *testing.T) {
	doc := []byte(`[
		{"op":"replace","path":"/firstName","value":"Grace"},
		{"op":"replace","path":"/phoneNumber","value":"0987654321"}
	]`)

	var first, second models.UserView
	if err := Apply(sampleView(), doc, &first); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := Apply(sampleView(), doc, &second); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if first != second {
		t.Errorf("same patch on same snapshot diverged: %+v vs %+v", first, second)
	}
}

func TestApplyEmptyDocumentRoundTrips(t *testing.T) {
	var out models.UserView
	if err := Apply(sampleView(), []byte(`[]`), &out); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out != sampleView() {
		t.Errorf("empty patch changed the snapshot: %+v", out)
	}
}

func TestApplyBadPath(t *testing.T) {
	doc := []byte(`[{"op":"replace","path":"/noSuchField","value":"x"}]`)

	var out models.UserView
	err := Apply(sampleView(), doc, &out)
	if !errors.Is(err, apperr.ErrPatch) {
		t.Fatalf("got %v, want patch error", err)
	}
}

func TestApplyFailedTestOp(t *testing.T) {
	doc := []byte(`[{"op":"test","path":"/firstName","value":"NotAda"}]`)

	var out models.UserView
	err := Apply(sampleView(), doc, &out)
	if !errors.Is(err, apperr.ErrPatch) {
		t.Fatalf("got %v, want patch error", err)
	}
}

func TestApplyMoveAndCopy(t *testing.T) {
	doc := []byte(`[
		{"op":"copy","from":"/lastName","path":"/firstName"},
		{"op":"move","from":"/phoneNumber","path":"/lastName"}
	]`)

	var out models.UserView
	if err := Apply(sampleView(), doc, &out); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.FirstName != "Lovelace" {
		t.Errorf("copy failed: firstName = %q", out.FirstName)
	}
	if out.LastName != "0123456789" || out.PhoneNumber != "" {
		t.Errorf("move failed: lastName = %q, phoneNumber = %q", out.LastName, out.PhoneNumber)
	}
}

func TestApplyMalformedDocument(t *testing.T) {
	var out models.UserView
	err := Apply(sampleView(), []byte(`{"op":"not-an-array"}`), &out)
	if !errors.Is(err, apperr.ErrPatch) {
		t.Fatalf("got %v, want patch error", err)
	}
}
