// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "slices"

// Schema is the column allow-list of one table. Only names listed here ever
// reach SQL text; values always travel as placeholders.
type Schema struct {
	Name    string
	Columns []string
	// Touch columns are stamped with the store clock on every write.
	Touch []string
}

// Has reports whether col is an allow-listed column.
func (s Schema) Has(col string) bool {
	return slices.Contains(s.Columns, col)
}

// managed reports whether the store owns col's value.
func (s Schema) managed(col string) bool {
	switch col {
	case "id", "created_at", "updated_at":
		return true
	}
	return slices.Contains(s.Touch, col)
}

var (
	Users = Schema{
		Name: "users",
		Columns: []string{
			"id", "email", "password_hash", "role", "created_at", "updated_at",
		},
	}

	Donors = Schema{
		Name: "donors",
		Columns: []string{
			"id", "user_id", "name", "email", "phone", "blood_type", "age", "weight",
			"address", "medical_history", "donation_units", "last_donation_date",
			"is_eligible", "created_at", "updated_at",
		},
	}

	Receivers = Schema{
		Name: "blood_receivers",
		Columns: []string{
			"id", "user_id", "name", "email", "phone", "blood_type", "address",
			"emergency_contact", "medical_conditions", "urgency_level", "units_needed",
			"hospital_name", "doctor_name", "medical_condition", "request_date",
			"status", "notes", "created_at", "updated_at",
		},
	}

	Events = Schema{
		Name: "donation_events",
		Columns: []string{
			"id", "title", "description", "event_date", "start_time", "location",
			"address", "capacity", "registered_donors", "organizer", "status",
			"created_at", "updated_at",
		},
	}

	DonationRecords = Schema{
		Name: "donation_records",
		Columns: []string{
			"id", "donor_id", "event_id", "donation_date", "blood_type",
			"units_collected", "hiv_test", "hepatitis_b_test", "hepatitis_c_test",
			"syphilis_test", "status", "notes", "created_at", "updated_at",
		},
	}

	Inventory = Schema{
		Name: "blood_inventory",
		Columns: []string{
			"id", "blood_type", "units_available", "expiry_date", "last_updated",
			"created_at", "updated_at",
		},
		Touch: []string{"last_updated"},
	}
)

// Schemas lists every table in creation order.
var Schemas = []Schema{Users, Donors, Receivers, Events, DonationRecords, Inventory}

// SchemaByName looks up a table by name.
func SchemaByName(name string) (Schema, bool) {
	for _, s := range Schemas {
		if s.Name == name {
			return s, true
		}
	}
	return Schema{}, false
}
