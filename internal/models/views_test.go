package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUserViewRoundTrip(t *testing.T) {
	user := PlatformUser{
		ID:                7,
		CreatedDate:       time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC),
		FirstName:         "Ada",
		LastName:          "Lovelace",
		DateOfBirth:       time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
		Email:             "ada@example.com",
		Password:          "$2a$10$hash",
		PhoneNumber:       "0123456789",
		AccessStatus:      StatusActive,
		ConfirmationToken: "tok",
	}

	// Overlaying an unmodified view must leave the entity unchanged.
	before := user
	user.ApplyView(user.View())
	if user != before {
		t.Errorf("round trip changed the entity: %+v vs %+v", user, before)
	}
}

func TestUserApplyViewIgnoresServerFields(t *testing.T) {
	user := PlatformUser{
		ID:           7,
		CreatedDate:  time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC),
		Email:        "ada@example.com",
		Password:     "$2a$10$hash",
		AccessStatus: StatusActive,
	}

	view := user.View()
	view.ID = 999
	view.CreatedDate = time.Now()
	view.AccessStatus = "admin"
	view.FirstName = "Grace"

	user.ApplyView(view)
	if user.ID != 7 || user.AccessStatus != StatusActive {
		t.Errorf("server fields overwritten: %+v", user)
	}
	if user.Password != "$2a$10$hash" {
		t.Error("password hash lost")
	}
	if user.FirstName != "Grace" {
		t.Error("writable field not applied")
	}
}

func TestUserViewHidesCredentials(t *testing.T) {
	user := PlatformUser{Password: "$2a$10$secret-hash", ConfirmationToken: "secret-token"}

	encoded, err := json.Marshal(user.View())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(encoded), "secret") {
		t.Errorf("wire shape leaks credentials: %s", encoded)
	}
}

func TestJourneyApplyViewKeepsOwner(t *testing.T) {
	journey := Journey{
		ID:            3,
		CreatedDate:   time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC),
		LocationFrom:  Ref{ID: 1},
		LocationTo:    Ref{ID: 2},
		MaxPassengers: 2,
		DateTime:      time.Date(2023, 6, 15, 9, 0, 0, 0, time.UTC),
		Driver:        Ref{ID: 5},
	}

	view := journey.View(
		Location{ID: 1, Name: "Leeds"},
		Location{ID: 2, Name: "York"},
		Driver{ID: 5, LicenseNumber: "ABC-123"},
		nil,
	)
	view.MaxPassengers = 4
	view.LocationTo = LocationView{ID: 9}
	view.Driver = DriverView{ID: 99}
	view.ID = 777

	journey.ApplyView(view)
	if journey.MaxPassengers != 4 || journey.LocationTo.ID != 9 {
		t.Errorf("writable fields not applied: %+v", journey)
	}
	if journey.Driver.ID != 5 || journey.ID != 3 {
		t.Errorf("protected fields overwritten: %+v", journey)
	}
}
