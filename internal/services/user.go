package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"carpool-backend/internal/apperr"
	"carpool-backend/internal/models"
	"carpool-backend/internal/patch"
	"carpool-backend/internal/security"
)

// UserService handles platform user, driver and passenger use cases
type UserService struct {
	users      UserStore
	drivers    DriverStore
	passengers PassengerStore
}

// NewUserService creates a new user service
func NewUserService(users UserStore, drivers DriverStore, passengers PassengerStore) *UserService {
	return &UserService{
		users:      users,
		drivers:    drivers,
		passengers: passengers,
	}
}

// CreateUserRequest represents a signup request
type CreateUserRequest struct {
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	DateOfBirth time.Time `json:"dateOfBirth"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	PhoneNumber string    `json:"phoneNumber"`
}

// CreateDriverRequest represents a driver registration request
type CreateDriverRequest struct {
	LicenseNumber string `json:"licenseNumber"`
}

// CreateUser registers a new platform user. Any caller may self-register;
// the account starts staged until the email is confirmed.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (models.UserView, error) {
	if err := validateCreateUser(req); err != nil {
		return models.UserView{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.UserView{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.PlatformUser{
		CreatedDate:       time.Now(),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		DateOfBirth:       req.DateOfBirth,
		Email:             req.Email,
		Password:          string(hash),
		PhoneNumber:       req.PhoneNumber,
		AccessStatus:      models.StatusStaged,
		ConfirmationToken: uuid.New().String(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.UserView{}, err
	}

	// TODO: send the confirmation token by email once a mail sender is wired up.
	log.Debug().
		Int64("user_id", user.ID).
		Str("confirmation_token", user.ConfirmationToken).
		Msg("User created, awaiting email confirmation")

	return user.View(), nil
}

// ConfirmEmail flips a staged account to active. The token is single-use.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) (models.UserView, error) {
	if token == "" {
		return models.UserView{}, fmt.Errorf("%w: confirmation token required", apperr.ErrValidation)
	}

	user, err := s.users.GetByConfirmationToken(ctx, token)
	if err != nil {
		return models.UserView{}, err
	}
	if user.AccessStatus != models.StatusStaged {
		return models.UserView{}, fmt.Errorf("%w: account already confirmed", apperr.ErrConflict)
	}

	user.AccessStatus = models.StatusActive
	user.ConfirmationToken = ""
	if err := s.users.Update(ctx, user); err != nil {
		return models.UserView{}, err
	}
	return user.View(), nil
}

// GetUser retrieves a platform user. The guard runs before the fetch so an
// unauthorized caller learns nothing about whether the id exists.
func (s *UserService) GetUser(ctx context.Context, p security.Principal, id int64) (models.UserView, error) {
	id = p.ResolveID(id)
	if err := p.CanActOn(id); err != nil {
		return models.UserView{}, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.UserView{}, err
	}
	return user.View(), nil
}

// PatchUser applies a json-patch document to the user's wire
// representation and persists the result. Nothing is written unless the
// whole apply succeeds.
func (s *UserService) PatchUser(ctx context.Context, p security.Principal, id int64, doc []byte) (models.UserView, error) {
	id = p.ResolveID(id)
	if err := p.CanActOn(id); err != nil {
		return models.UserView{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.UserView{}, err
	}

	var patched models.UserView
	if err := patch.Apply(user.View(), doc, &patched); err != nil {
		return models.UserView{}, fmt.Errorf("error updating user id %d: %w", id, err)
	}
	if patched.Email == "" {
		return models.UserView{}, fmt.Errorf("error updating user id %d: %w: email must not be empty", id, apperr.ErrPatch)
	}

	user.ApplyView(patched)
	if err := s.users.Update(ctx, user); err != nil {
		return models.UserView{}, err
	}
	return user.View(), nil
}

// DeleteUser removes a platform user after an existence check
func (s *UserService) DeleteUser(ctx context.Context, p security.Principal, id int64) error {
	id = p.ResolveID(id)
	if err := p.CanActOn(id); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// CreateDriver registers the caller (or, for admins, any user) as a
// driver. At most one driver record per user id.
func (s *UserService) CreateDriver(ctx context.Context, p security.Principal, id int64, req CreateDriverRequest) (models.DriverView, error) {
	id = p.ResolveID(id)
	if err := p.CanActOn(id); err != nil {
		return models.DriverView{}, err
	}
	if strings.TrimSpace(req.LicenseNumber) == "" || len(req.LicenseNumber) > 100 {
		return models.DriverView{}, fmt.Errorf("%w: licenseNumber is required, at most 100 characters", apperr.ErrValidation)
	}

	_, err := s.drivers.GetByID(ctx, id)
	if err == nil {
		return models.DriverView{}, fmt.Errorf("%w: driver id %d", apperr.ErrConflict, id)
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return models.DriverView{}, err
	}

	driver := &models.Driver{
		ID:            id,
		LicenseNumber: req.LicenseNumber,
		PlatformUser:  models.Ref{ID: id},
	}
	if err := s.drivers.Create(ctx, driver); err != nil {
		return models.DriverView{}, err
	}
	return driver.View(), nil
}

// GetDriver retrieves a driver record
func (s *UserService) GetDriver(ctx context.Context, p security.Principal, id int64) (models.DriverView, error) {
	id = p.ResolveID(id)
	if err := p.CanActOn(id); err != nil {
		return models.DriverView{}, err
	}
	driver, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return models.DriverView{}, err
	}
	return driver.View(), nil
}

// DeleteDriver removes a driver record after an existence check
func (s *UserService) DeleteDriver(ctx context.Context, p security.Principal, id int64) error {
	id = p.ResolveID(id)
	if err := p.CanActOn(id); err != nil {
		return err
	}
	if _, err := s.drivers.GetByID(ctx, id); err != nil {
		return err
	}
	return s.drivers.Delete(ctx, id)
}

// CreatePassenger registers the caller (or, for admins, any user) as a
// passenger. At most one passenger record per user id.
func (s *UserService) CreatePassenger(ctx context.Context, p security.Principal, id int64) (models.PassengerView, error) {
	id = p.ResolveID(id)
	if err := p.CanActOn(id); err != nil {
		return models.PassengerView{}, err
	}

	_, err := s.passengers.GetByID(ctx, id)
	if err == nil {
		return models.PassengerView{}, fmt.Errorf("%w: passenger id %d", apperr.ErrConflict, id)
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return models.PassengerView{}, err
	}

	passenger := &models.Passenger{
		ID:           id,
		PlatformUser: models.Ref{ID: id},
	}
	if err := s.passengers.Create(ctx, passenger); err != nil {
		return models.PassengerView{}, err
	}
	return passenger.View(), nil
}

// GetPassenger retrieves a passenger record
func (s *UserService) GetPassenger(ctx context.Context, p security.Principal, id int64) (models.PassengerView, error) {
	id = p.ResolveID(id)
	if err := p.CanActOn(id); err != nil {
		return models.PassengerView{}, err
	}
	passenger, err := s.passengers.GetByID(ctx, id)
	if err != nil {
		return models.PassengerView{}, err
	}
	return passenger.View(), nil
}

// DeletePassenger removes a passenger record after an existence check
func (s *UserService) DeletePassenger(ctx context.Context, p security.Principal, id int64) error {
	id = p.ResolveID(id)
	if err := p.CanActOn(id); err != nil {
		return err
	}
	if _, err := s.passengers.GetByID(ctx, id); err != nil {
		return err
	}
	return s.passengers.Delete(ctx, id)
}

func validateCreateUser(req CreateUserRequest) error {
	switch {
	case strings.TrimSpace(req.FirstName) == "":
		return fmt.Errorf("%w: firstName is required", apperr.ErrValidation)
	case strings.TrimSpace(req.LastName) == "":
		return fmt.Errorf("%w: lastName is required", apperr.ErrValidation)
	case !strings.Contains(req.Email, "@"):
		return fmt.Errorf("%w: a valid email is required", apperr.ErrValidation)
	case len(req.Password) < 8:
		return fmt.Errorf("%w: password must be at least 8 characters", apperr.ErrValidation)
	case req.DateOfBirth.IsZero():
		return fmt.Errorf("%w: dateOfBirth is required", apperr.ErrValidation)
	}
	return nil
}
