package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"carpool-backend/internal/apperr"
	"carpool-backend/internal/models"
	"carpool-backend/internal/security"
)

func validCreateUserRequest() CreateUserRequest {
	return CreateUserRequest{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		DateOfBirth: time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
		Email:       "ada@example.com",
		Password:    "password123",
		PhoneNumber: "0123456789",
	}
}

func seedUser(t *testing.T, users *fakeUserStore, email string, status models.AccessStatus) int64 {
	t.Helper()
	user := &models.PlatformUser{
		CreatedDate:  time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		DateOfBirth:  time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
		Email:        email,
		Password:     "$2a$10$fakehash",
		AccessStatus: status,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.ID
}

func TestCreateUserStartsStaged(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeDriverStore(), newFakePassengerStore())

	view, err := svc.CreateUser(context.Background(), validCreateUserRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.AccessStatus != string(models.StatusStaged) {
		t.Errorf("accessStatus = %q, want staged", view.AccessStatus)
	}

	stored, err := users.GetByID(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("stored user: %v", err)
	}
	if stored.ConfirmationToken == "" {
		t.Error("confirmation token not issued")
	}
	if stored.Password == "password123" {
		t.Error("password stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")); err != nil {
		t.Errorf("stored password is not a hash of the original: %v", err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), newFakeDriverStore(), newFakePassengerStore())

	cases := []struct {
		name   string
		mutate func(*CreateUserRequest)
	}{
		{"missing first name", func(r *CreateUserRequest) { r.FirstName = " " }},
		{"missing last name", func(r *CreateUserRequest) { r.LastName = "" }},
		{"bad email", func(r *CreateUserRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *CreateUserRequest) { r.Password = "short" }},
		{"missing date of birth", func(r *CreateUserRequest) { r.DateOfBirth = time.Time{} }},
	}
	for _, tc := range cases {
		req := validCreateUserRequest()
		tc.mutate(&req)
		if _, err := svc.CreateUser(context.Background(), req); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("%s: got %v, want validation error", tc.name, err)
		}
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeDriverStore(), newFakePassengerStore())

	if _, err := svc.CreateUser(context.Background(), validCreateUserRequest()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.CreateUser(context.Background(), validCreateUserRequest()); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("second create: got %v, want conflict", err)
	}
}

func TestConfirmEmailSingleUse(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeDriverStore(), newFakePassengerStore())

	view, err := svc.CreateUser(context.Background(), validCreateUserRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stored, _ := users.GetByID(context.Background(), view.ID)
	token := stored.ConfirmationToken

	confirmed, err := svc.ConfirmEmail(context.Background(), token)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.AccessStatus != string(models.StatusActive) {
		t.Errorf("accessStatus = %q, want active", confirmed.AccessStatus)
	}

	if _, err := svc.ConfirmEmail(context.Background(), token); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("reused token: got %v, want not found", err)
	}
}

func TestGetUserAuthorization(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeDriverStore(), newFakePassengerStore())
	for i := 0; i < 5; i++ {
		seedUser(t, users, fmt.Sprintf("user%d@example.com", i+1), models.StatusActive)
	}

	active := security.Principal{ID: 2, Status: models.StatusActive}
	admin := security.Principal{ID: 5, Status: models.StatusAdmin}

	if _, err := svc.GetUser(context.Background(), active, 5); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Errorf("active user reading foreign record: got %v, want not authorized", err)
	}
	if _, err := svc.GetUser(context.Background(), active, 2); err != nil {
		t.Errorf("active user reading own record: %v", err)
	}
	if _, err := svc.GetUser(context.Background(), admin, 2); err != nil {
		t.Errorf("admin reading foreign record: %v", err)
	}

	// id 0 means "the caller's own record"
	view, err := svc.GetUser(context.Background(), active, 0)
	if err != nil {
		t.Fatalf("self shorthand: %v", err)
	}
	if view.ID != 2 {
		t.Errorf("self shorthand resolved to id %d, want 2", view.ID)
	}
}

func TestPatchUserBadPathWritesNothing(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeDriverStore(), newFakePassengerStore())
	id := seedUser(t, users, "ada@example.com", models.StatusActive)
	p := security.Principal{ID: id, Status: models.StatusActive}

	doc := []byte(`[{"op":"replace","path":"/noSuchField","value":"x"}]`)
	if _, err := svc.PatchUser(context.Background(), p, id, doc); !errors.Is(err, apperr.ErrPatch) {
		t.Fatalf("got %v, want patch error", err)
	}
	if users.updates != 0 {
		t.Errorf("store written %d times after failed patch, want 0", users.updates)
	}
}

func TestPatchUserPreservesServerFields(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeDriverStore(), newFakePassengerStore())
	id := seedUser(t, users, "ada@example.com", models.StatusActive)
	before, _ := users.GetByID(context.Background(), id)
	p := security.Principal{ID: id, Status: models.StatusActive}

	doc := []byte(`[{"op":"replace","path":"/firstName","value":"Grace"}]`)
	view, err := svc.PatchUser(context.Background(), p, id, doc)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if view.FirstName != "Grace" {
		t.Errorf("firstName = %q, want Grace", view.FirstName)
	}

	after, _ := users.GetByID(context.Background(), id)
	if after.Password != before.Password {
		t.Error("patch changed the password hash")
	}
	if after.AccessStatus != before.AccessStatus {
		t.Error("patch changed the access status")
	}
	if !after.CreatedDate.Equal(before.CreatedDate) {
		t.Error("patch changed the created date")
	}
}

func TestPatchUserEmptyEmailRejected(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeDriverStore(), newFakePassengerStore())
	id := seedUser(t, users, "ada@example.com", models.StatusActive)
	p := security.Principal{ID: id, Status: models.StatusActive}

	doc := []byte(`[{"op":"replace","path":"/email","value":""}]`)
	if _, err := svc.PatchUser(context.Background(), p, id, doc); !errors.Is(err, apperr.ErrPatch) {
		t.Fatalf("got %v, want patch error", err)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), newFakeDriverStore(), newFakePassengerStore())
	admin := security.Principal{ID: 1, Status: models.StatusAdmin}

	if err := svc.DeleteUser(context.Background(), admin, 99); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestCreateDriver(t *testing.T) {
	drivers := newFakeDriverStore()
	svc := NewUserService(newFakeUserStore(), drivers, newFakePassengerStore())
	p := security.Principal{ID: 3, Status: models.StatusActive}

	view, err := svc.CreateDriver(context.Background(), p, 0, CreateDriverRequest{LicenseNumber: "ABC-123"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.ID != 3 {
		t.Errorf("driver id = %d, want the owner's user id 3", view.ID)
	}

	// A second registration must not touch the store.
	if _, err := svc.CreateDriver(context.Background(), p, 3, CreateDriverRequest{LicenseNumber: "XYZ-999"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate: got %v, want conflict", err)
	}
	if drivers.creates != 1 {
		t.Errorf("store written %d times, want 1", drivers.creates)
	}
}

func TestCreateDriverLicenseRequired(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), newFakeDriverStore(), newFakePassengerStore())
	p := security.Principal{ID: 3, Status: models.StatusActive}

	if _, err := svc.CreateDriver(context.Background(), p, 0, CreateDriverRequest{LicenseNumber: "  "}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestCreateDriverForeignRecord(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), newFakeDriverStore(), newFakePassengerStore())
	p := security.Principal{ID: 3, Status: models.StatusActive}

	if _, err := svc.CreateDriver(context.Background(), p, 7, CreateDriverRequest{LicenseNumber: "ABC-123"}); !errors.Is(err, apperr.ErrNotAuthorized) {
		t.Fatalf("got %v, want not authorized", err)
	}
}

func TestDeleteDriverNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), newFakeDriverStore(), newFakePassengerStore())
	p := security.Principal{ID: 3, Status: models.StatusActive}

	if err := svc.DeleteDriver(context.Background(), p, 3); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestCreatePassenger(t *testing.T) {
	passengers := newFakePassengerStore()
	svc := NewUserService(newFakeUserStore(), newFakeDriverStore(), passengers)
	p := security.Principal{ID: 4, Status: models.StatusActive}

	view, err := svc.CreatePassenger(context.Background(), p, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.ID != 4 {
		t.Errorf("passenger id = %d, want the owner's user id 4", view.ID)
	}

	if _, err := svc.CreatePassenger(context.Background(), p, 4); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("duplicate: got %v, want conflict", err)
	}
	if passengers.creates != 1 {
		t.Errorf("store written %d times, want 1", passengers.creates)
	}
}
