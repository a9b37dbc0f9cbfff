package models

import "time"

// Views are the wire (API-facing) representations. Patch documents are
// always expressed against these shapes, never against the entities.

// UserView is the wire shape of a platform user. The password hash and the
// confirmation token are deliberately absent.
type UserView struct {
	ID           int64     `json:"id"`
	CreatedDate  time.Time `json:"createdDate"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	DateOfBirth  time.Time `json:"dateOfBirth"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phoneNumber"`
	AccessStatus string    `json:"accessStatus"`
}

type DriverView struct {
	ID            int64  `json:"id"`
	LicenseNumber string `json:"licenseNumber"`
}

type PassengerView struct {
	ID int64 `json:"id"`
}

type LocationView struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type JourneyView struct {
	ID            int64           `json:"id"`
	CreatedDate   time.Time       `json:"createdDate"`
	LocationFrom  LocationView    `json:"locationFrom"`
	LocationTo    LocationView    `json:"locationTo"`
	MaxPassengers int             `json:"maxPassengers"`
	DateTime      time.Time       `json:"dateTime"`
	Driver        DriverView      `json:"driver"`
	Passengers    []PassengerView `json:"passengers"`
}

type DocumentView struct {
	ID          string    `json:"id"`
	DriverID    int64     `json:"driverId"`
	S3URL       string    `json:"s3Url"`
	ContentType string    `json:"contentType"`
	CreatedDate time.Time `json:"createdDate"`
}

// View maps the entity to its wire shape.
func (u *PlatformUser) View() UserView {
	return UserView{
		ID:           u.ID,
		CreatedDate:  u.CreatedDate,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		DateOfBirth:  u.DateOfBirth,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		AccessStatus: string(u.AccessStatus),
	}
}

// ApplyView overlays the writable wire fields onto the entity.
// Server-assigned fields (id, created date, access status) and fields the
// wire shape does not carry (password hash, confirmation token) keep their
// current values.
func (u *PlatformUser) ApplyView(v UserView) {
	u.FirstName = v.FirstName
	u.LastName = v.LastName
	u.DateOfBirth = v.DateOfBirth
	u.Email = v.Email
	u.PhoneNumber = v.PhoneNumber
}

func (d *Driver) View() DriverView {
	return DriverView{ID: d.ID, LicenseNumber: d.LicenseNumber}
}

func (d *Driver) ApplyView(v DriverView) {
	d.LicenseNumber = v.LicenseNumber
}

func (p *Passenger) View() PassengerView {
	return PassengerView{ID: p.ID}
}

func (l *Location) View() LocationView {
	return LocationView{ID: l.ID, Name: l.Name, Latitude: l.Latitude, Longitude: l.Longitude}
}

// View assembles the journey wire shape from the journey and its resolved
// associations.
func (j *Journey) View(from, to Location, driver Driver, passengers []Passenger) JourneyView {
	pv := make([]PassengerView, 0, len(passengers))
	for _, p := range passengers {
		pv = append(pv, p.View())
	}
	return JourneyView{
		ID:            j.ID,
		CreatedDate:   j.CreatedDate,
		LocationFrom:  from.View(),
		LocationTo:    to.View(),
		MaxPassengers: j.MaxPassengers,
		DateTime:      j.DateTime,
		Driver:        driver.View(),
		Passengers:    pv,
	}
}

// ApplyView overlays the writable wire fields onto the journey. The owning
// driver, id and created date are not writable through the wire shape.
func (j *Journey) ApplyView(v JourneyView) {
	j.MaxPassengers = v.MaxPassengers
	j.DateTime = v.DateTime
	j.LocationFrom = Ref{ID: v.LocationFrom.ID}
	j.LocationTo = Ref{ID: v.LocationTo.ID}
}

func (d *DriverDocument) View() DocumentView {
	return DocumentView{
		ID:          d.ID,
		DriverID:    d.Driver.ID,
		S3URL:       d.S3URL,
		ContentType: d.ContentType,
		CreatedDate: d.CreatedDate,
	}
}
