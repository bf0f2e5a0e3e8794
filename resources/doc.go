// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package resources holds one operation wrapper per entity on top of the
typed tables in package store.

	res := resources.New(s)
	u, err := res.Users.Create(ctx, "ana@example.com", "secret1", models.RoleDonor)
	d, err := res.Donors.Create(ctx, u.ID, models.DonorCreate{...})
	e, err := res.Events.Register(ctx, eventID, d.ID)

Wrappers translate request DTOs into store fields and enforce the rules
that span more than one column or row: profile ownership, registration
capacity, derived donation status, non-negative stock. Errors carry errs
codes so handlers can map them without inspecting messages.

# Event Registration

The registered donor list is stored as a JSON array. Register and
Unregister read it, compute the next list and write it back with a
compare-and-swap on the old value, retrying a bounded number of times when
another writer wins. Capacity edits are guarded the same way.
*/
package resources
