package models

import (
	"time"

	"github.com/golang-sql/civil"
	"github.com/google/uuid"
)

// Sex of an animal.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Valid reports whether s is a known sex.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// AnimalStatus tells whether the animal is still part of the herd.
type AnimalStatus string

const (
	AnimalActive   AnimalStatus = "active"
	AnimalInactive AnimalStatus = "inactive"
)

// Valid reports whether s is a known status.
func (s AnimalStatus) Valid() bool {
	return s == AnimalActive || s == AnimalInactive
}

// Vaccination is embedded in an animal; it has no row of its own.
type Vaccination struct {
	Name  string     `json:"name"`
	Date  civil.Date `json:"date"`
	Notes string     `json:"notes,omitempty"`
}

// VaccinationList selects the past or upcoming list of an animal.
type VaccinationList string

const (
	VaccinationsPast     VaccinationList = "past"
	VaccinationsUpcoming VaccinationList = "upcoming"
)

// Animal is a registered herd member.
type Animal struct {
	ID                   uuid.UUID     `json:"id"`
	OwnerID              uuid.UUID     `json:"user_id"`
	TagNumber            string        `json:"tag_number"`
	Name                 string        `json:"name,omitempty"`
	BirthDate            civil.Date    `json:"birth_date"`
	Breed                string        `json:"breed"`
	Sex                  Sex           `json:"sex"`
	Parity               int           `json:"parity"`
	NextCalving          *civil.Date   `json:"next_calving_date"`
	Status               AnimalStatus  `json:"status"`
	PastVaccinations     []Vaccination `json:"past_vaccinations"`
	UpcomingVaccinations []Vaccination `json:"upcoming_vaccinations"`
	CreatedAt            *time.Time    `json:"created_at,omitempty"`
}

// DisplayName is the animal name, or its tag number when unnamed.
func (a Animal) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return "#" + a.TagNumber
}

// Validate checks the fields a farmer must fill before the animal is stored.
func (a Animal) Validate() error {
	var verr ValidationError
	if a.TagNumber == "" {
		verr.Add("tag_number", "is required")
	}
	if a.Breed == "" {
		verr.Add("breed", "is required")
	}
	if !a.BirthDate.IsValid() {
		verr.Add("birth_date", "is required")
	}
	if !a.Sex.Valid() {
		verr.Add("sex", "must be male or female")
	}
	if a.Parity < 0 {
		verr.Add("parity", "must not be negative")
	}
	if !a.Status.Valid() {
		verr.Add("status", "must be active or inactive")
	}
	for i, v := range append(append([]Vaccination{}, a.PastVaccinations...), a.UpcomingVaccinations...) {
		if v.Name == "" || !v.Date.IsValid() {
			verr.Add("vaccinations", "entry "+itoa(i)+" needs a name and a date")
		}
	}
	return verr.OrNil()
}
