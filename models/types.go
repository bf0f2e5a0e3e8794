// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleDonor    Role = "donor"
	RoleReceiver Role = "receiver"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDonor, RoleReceiver:
		return true
	}
	return false
}

type BloodType string

const (
	BloodAPos  BloodType = "A+"
	BloodANeg  BloodType = "A-"
	BloodBPos  BloodType = "B+"
	BloodBNeg  BloodType = "B-"
	BloodABPos BloodType = "AB+"
	BloodABNeg BloodType = "AB-"
	BloodOPos  BloodType = "O+"
	BloodONeg  BloodType = "O-"
)

// BloodTypes lists every blood type in inventory order.
var BloodTypes = []BloodType{
	BloodAPos, BloodANeg, BloodBPos, BloodBNeg,
	BloodABPos, BloodABNeg, BloodOPos, BloodONeg,
}

func (b BloodType) Valid() bool {
	for _, bt := range BloodTypes {
		if b == bt {
			return true
		}
	}
	return false
}

type UrgencyLevel string

const (
	UrgencyLow      UrgencyLevel = "low"
	UrgencyMedium   UrgencyLevel = "medium"
	UrgencyHigh     UrgencyLevel = "high"
	UrgencyCritical UrgencyLevel = "critical"
)

// Blood request (receiver) status
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestFulfilled RequestStatus = "fulfilled"
	RequestCancelled RequestStatus = "cancelled"
)

type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

type DonationStatus string

const (
	DonationCollected DonationStatus = "collected"
	DonationTested    DonationStatus = "tested"
	DonationApproved  DonationStatus = "approved"
	DonationRejected  DonationStatus = "rejected"
)

// Domain types

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"` // Never expose in JSON
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type Donor struct {
	ID               string     `db:"id" json:"id"`
	UserID           string     `db:"user_id" json:"user_id"`
	Name             string     `db:"name" json:"name"`
	Email            *string    `db:"email" json:"email,omitempty"`
	Phone            *string    `db:"phone" json:"phone,omitempty"`
	BloodType        BloodType  `db:"blood_type" json:"blood_type"`
	Age              int        `db:"age" json:"age"`
	Weight           float64    `db:"weight" json:"weight"`
	Address          *string    `db:"address" json:"address,omitempty"`
	MedicalHistory   *string    `db:"medical_history" json:"medical_history,omitempty"`
	DonationUnits    int        `db:"donation_units" json:"donation_units"`
	LastDonationDate *time.Time `db:"last_donation_date" json:"last_donation_date,omitempty"`
	IsEligible       bool       `db:"is_eligible" json:"is_eligible"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

type Receiver struct {
	ID                string        `db:"id" json:"id"`
	UserID            string        `db:"user_id" json:"user_id"`
	Name              string        `db:"name" json:"name"`
	Email             *string       `db:"email" json:"email,omitempty"`
	Phone             *string       `db:"phone" json:"phone,omitempty"`
	BloodType         BloodType     `db:"blood_type" json:"blood_type"`
	Address           *string       `db:"address" json:"address,omitempty"`
	EmergencyContact  *string       `db:"emergency_contact" json:"emergency_contact,omitempty"`
	MedicalConditions *string       `db:"medical_conditions" json:"medical_conditions,omitempty"`
	UrgencyLevel      UrgencyLevel  `db:"urgency_level" json:"urgency_level"`
	UnitsNeeded       int           `db:"units_needed" json:"units_needed"`
	HospitalName      *string       `db:"hospital_name" json:"hospital_name,omitempty"`
	DoctorName        *string       `db:"doctor_name" json:"doctor_name,omitempty"`
	MedicalCondition  *string       `db:"medical_condition" json:"medical_condition,omitempty"`
	RequestDate       *time.Time    `db:"request_date" json:"request_date,omitempty"`
	Status            RequestStatus `db:"status" json:"status"`
	Notes             *string       `db:"notes" json:"notes,omitempty"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updated_at"`
}

type Event struct {
	ID               string      `db:"id" json:"id"`
	Title            string      `db:"title" json:"title"`
	Description      *string     `db:"description" json:"description,omitempty"`
	Date             time.Time   `db:"event_date" json:"date"`
	StartTime        string      `db:"start_time" json:"time"`
	Location         string      `db:"location" json:"location"`
	Address          *string     `db:"address" json:"address,omitempty"`
	Capacity         int         `db:"capacity" json:"capacity"`
	RegisteredDonors DonorIDs    `db:"registered_donors" json:"registered_donors"`
	Organizer        *string     `db:"organizer" json:"organizer,omitempty"`
	Status           EventStatus `db:"status" json:"status"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

// Full reports whether no seat is left.
func (e *Event) Full() bool {
	return len(e.RegisteredDonors) >= e.Capacity
}

type DonationRecord struct {
	ID             string         `db:"id" json:"id"`
	DonorID        string         `db:"donor_id" json:"donor_id"`
	EventID        *string        `db:"event_id" json:"event_id,omitempty"`
	DonationDate   time.Time      `db:"donation_date" json:"donation_date"`
	BloodType      BloodType      `db:"blood_type" json:"blood_type"`
	UnitsCollected int            `db:"units_collected" json:"units_collected"`
	HIVTest        bool           `db:"hiv_test" json:"-"`
	HepatitisBTest bool           `db:"hepatitis_b_test" json:"-"`
	HepatitisCTest bool           `db:"hepatitis_c_test" json:"-"`
	SyphilisTest   bool           `db:"syphilis_test" json:"-"`
	Status         DonationStatus `db:"status" json:"status"`
	Notes          *string        `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// TestResults groups the four screening results of a donation.
type TestResults struct {
	HIV        bool `json:"hiv"`
	HepatitisB bool `json:"hepatitis_b"`
	HepatitisC bool `json:"hepatitis_c"`
	Syphilis   bool `json:"syphilis"`
}

// Passed reports whether every screening test cleared.
func (t TestResults) Passed() bool {
	return t.HIV && t.HepatitisB && t.HepatitisC && t.Syphilis
}

// Status derives the donation status from submitted results.
func (t TestResults) Status() DonationStatus {
	if t.Passed() {
		return DonationApproved
	}
	return DonationRejected
}

func (r *DonationRecord) TestResults() TestResults {
	return TestResults{
		HIV:        r.HIVTest,
		HepatitisB: r.HepatitisBTest,
		HepatitisC: r.HepatitisCTest,
		Syphilis:   r.SyphilisTest,
	}
}

// MarshalJSON nests the four test columns under "test_results".
func (r DonationRecord) MarshalJSON() ([]byte, error) {
	type plain DonationRecord
	return json.Marshal(struct {
		plain
		TestResults TestResults `json:"test_results"`
	}{plain(r), r.TestResults()})
}

type InventoryItem struct {
	ID             string     `db:"id" json:"id"`
	BloodType      BloodType  `db:"blood_type" json:"blood_type"`
	UnitsAvailable int        `db:"units_available" json:"units_available"`
	ExpiryDate     *time.Time `db:"expiry_date" json:"expiry_date,omitempty"`
	LastUpdated    time.Time  `db:"last_updated" json:"last_updated"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Aggregates

type DashboardStats struct {
	TotalDonors               int              `json:"total_donors"`
	TotalReceivers            int              `json:"total_receivers"`
	UpcomingEvents            int              `json:"upcoming_events"`
	TotalBloodUnits           int64            `json:"total_blood_units"`
	CriticalRequests          int              `json:"critical_requests"`
	RecentDonations           int              `json:"recent_donations"`
	BloodTypeDistribution     map[string]int64 `json:"blood_type_distribution"`
	EventStatusDistribution   map[string]int   `json:"event_status_distribution"`
	RequestStatusDistribution map[string]int   `json:"request_status_distribution"`
}
