// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types
//
// `db` tags name the column a field writes to; fields without one are never
// persisted directly. Pointer fields are optional and a nil pointer means
// "leave unchanged".

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     Role   `json:"role" validate:"required,oneof=donor receiver"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type DonorCreate struct {
	Name             string     `json:"name" db:"name" validate:"required,max=255"`
	Email            *string    `json:"email" db:"email" validate:"omitempty,email"`
	Phone            *string    `json:"phone" db:"phone" validate:"omitempty,max=32"`
	BloodType        BloodType  `json:"blood_type" db:"blood_type" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Age              int        `json:"age" db:"age" validate:"required,min=18,max=65"`
	Weight           float64    `json:"weight" db:"weight" validate:"required,gt=0"`
	Address          *string    `json:"address" db:"address"`
	MedicalHistory   *string    `json:"medical_history" db:"medical_history"`
	DonationUnits    *int       `json:"donation_units" db:"donation_units" validate:"omitempty,min=1"`
	LastDonationDate *time.Time `json:"last_donation_date" db:"last_donation_date"`
	IsEligible       *bool      `json:"is_eligible" db:"is_eligible"`
}

type DonorUpdate struct {
	Name             *string    `json:"name" db:"name" validate:"omitempty,min=1,max=255"`
	Email            *string    `json:"email" db:"email" validate:"omitempty,email"`
	Phone            *string    `json:"phone" db:"phone" validate:"omitempty,max=32"`
	BloodType        *BloodType `json:"blood_type" db:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Age              *int       `json:"age" db:"age" validate:"omitempty,min=18,max=65"`
	Weight           *float64   `json:"weight" db:"weight" validate:"omitempty,gt=0"`
	Address          *string    `json:"address" db:"address"`
	MedicalHistory   *string    `json:"medical_history" db:"medical_history"`
	DonationUnits    *int       `json:"donation_units" db:"donation_units" validate:"omitempty,min=1"`
	LastDonationDate *time.Time `json:"last_donation_date" db:"last_donation_date"`
}

type EligibilityRequest struct {
	IsEligible *bool `json:"is_eligible" db:"is_eligible" validate:"required"`
}

type ReceiverCreate struct {
	Name              string        `json:"name" db:"name" validate:"required,max=255"`
	Email             *string       `json:"email" db:"email" validate:"omitempty,email"`
	Phone             *string       `json:"phone" db:"phone" validate:"omitempty,max=32"`
	BloodType         BloodType     `json:"blood_type" db:"blood_type" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Address           *string       `json:"address" db:"address"`
	EmergencyContact  *string       `json:"emergency_contact" db:"emergency_contact"`
	MedicalConditions *string       `json:"medical_conditions" db:"medical_conditions"`
	UrgencyLevel      *UrgencyLevel `json:"urgency_level" db:"urgency_level" validate:"omitempty,oneof=low medium high critical"`
	UnitsNeeded       *int          `json:"units_needed" db:"units_needed" validate:"omitempty,min=1"`
	HospitalName      *string       `json:"hospital_name" db:"hospital_name"`
	DoctorName        *string       `json:"doctor_name" db:"doctor_name"`
	MedicalCondition  *string       `json:"medical_condition" db:"medical_condition"`
	RequestDate       *time.Time    `json:"request_date" db:"request_date"`
	Notes             *string       `json:"notes" db:"notes"`
}

type ReceiverUpdate struct {
	Name              *string       `json:"name" db:"name" validate:"omitempty,min=1,max=255"`
	Email             *string       `json:"email" db:"email" validate:"omitempty,email"`
	Phone             *string       `json:"phone" db:"phone" validate:"omitempty,max=32"`
	BloodType         *BloodType    `json:"blood_type" db:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Address           *string       `json:"address" db:"address"`
	EmergencyContact  *string       `json:"emergency_contact" db:"emergency_contact"`
	MedicalConditions *string       `json:"medical_conditions" db:"medical_conditions"`
	UrgencyLevel      *UrgencyLevel `json:"urgency_level" db:"urgency_level" validate:"omitempty,oneof=low medium high critical"`
	UnitsNeeded       *int          `json:"units_needed" db:"units_needed" validate:"omitempty,min=1"`
	HospitalName      *string       `json:"hospital_name" db:"hospital_name"`
	DoctorName        *string       `json:"doctor_name" db:"doctor_name"`
	MedicalCondition  *string       `json:"medical_condition" db:"medical_condition"`
	RequestDate       *time.Time    `json:"request_date" db:"request_date"`
	Notes             *string       `json:"notes" db:"notes"`
}

type RequestStatusUpdate struct {
	Status RequestStatus `json:"status" db:"status" validate:"required,oneof=pending fulfilled cancelled"`
}

type EventCreate struct {
	Title       string    `json:"title" db:"title" validate:"required,max=255"`
	Description *string   `json:"description" db:"description"`
	Date        time.Time `json:"date" db:"event_date" validate:"required"`
	StartTime   string    `json:"time" db:"start_time" validate:"required,datetime=15:04"`
	Location    string    `json:"location" db:"location" validate:"required,max=255"`
	Address     *string   `json:"address" db:"address"`
	Capacity    int       `json:"capacity" db:"capacity" validate:"required,min=1"`
	Organizer   *string   `json:"organizer" db:"organizer"`
}

type EventUpdate struct {
	Title       *string      `json:"title" db:"title" validate:"omitempty,min=1,max=255"`
	Description *string      `json:"description" db:"description"`
	Date        *time.Time   `json:"date" db:"event_date"`
	StartTime   *string      `json:"time" db:"start_time" validate:"omitempty,datetime=15:04"`
	Location    *string      `json:"location" db:"location" validate:"omitempty,min=1,max=255"`
	Address     *string      `json:"address" db:"address"`
	Capacity    *int         `json:"capacity" db:"capacity" validate:"omitempty,min=1"`
	Organizer   *string      `json:"organizer" db:"organizer"`
	Status      *EventStatus `json:"status" db:"status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
}

// Admins name the donor; donors always act on their own profile.
type RegistrationRequest struct {
	DonorID *string `json:"donor_id" validate:"omitempty,uuid"`
}

type RecordCreate struct {
	DonorID        string     `json:"donor_id" db:"donor_id" validate:"required,uuid"`
	EventID        *string    `json:"event_id" db:"event_id" validate:"omitempty,uuid"`
	DonationDate   *time.Time `json:"donation_date" db:"donation_date"`
	BloodType      BloodType  `json:"blood_type" db:"blood_type" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	UnitsCollected *int       `json:"units_collected" db:"units_collected" validate:"omitempty,min=1"`
	Notes          *string    `json:"notes" db:"notes"`
}

type RecordUpdate struct {
	EventID        *string         `json:"event_id" db:"event_id" validate:"omitempty,uuid"`
	DonationDate   *time.Time      `json:"donation_date" db:"donation_date"`
	BloodType      *BloodType      `json:"blood_type" db:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	UnitsCollected *int            `json:"units_collected" db:"units_collected" validate:"omitempty,min=1"`
	Status         *DonationStatus `json:"status" db:"status" validate:"omitempty,oneof=collected tested approved rejected"`
	Notes          *string         `json:"notes" db:"notes"`
}

// All four results must be present; status is derived from them.
type TestResultsRequest struct {
	HIVTest        *bool   `json:"hiv_test" db:"hiv_test" validate:"required"`
	HepatitisBTest *bool   `json:"hepatitis_b_test" db:"hepatitis_b_test" validate:"required"`
	HepatitisCTest *bool   `json:"hepatitis_c_test" db:"hepatitis_c_test" validate:"required"`
	SyphilisTest   *bool   `json:"syphilis_test" db:"syphilis_test" validate:"required"`
	Notes          *string `json:"notes" db:"notes"`
}

// Results returns the submitted values; callers validate presence first.
func (r TestResultsRequest) Results() TestResults {
	deref := func(b *bool) bool { return b != nil && *b }
	return TestResults{
		HIV:        deref(r.HIVTest),
		HepatitisB: deref(r.HepatitisBTest),
		HepatitisC: deref(r.HepatitisCTest),
		Syphilis:   deref(r.SyphilisTest),
	}
}

type InventoryCreate struct {
	BloodType      BloodType  `json:"blood_type" db:"blood_type" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	UnitsAvailable int        `json:"units_available" db:"units_available" validate:"min=0"`
	ExpiryDate     *time.Time `json:"expiry_date" db:"expiry_date"`
}

type InventoryUpdate struct {
	UnitsAvailable *int       `json:"units_available" db:"units_available" validate:"omitempty,min=0"`
	ExpiryDate     *time.Time `json:"expiry_date" db:"expiry_date"`
}

type UnitsDelta struct {
	Delta *int `json:"delta" validate:"required"`
}

// Response types

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
