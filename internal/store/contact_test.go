// Copyright (c) 2025 Vlah Software House. All rights reserved.

package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestContactCreateAndFind(t *testing.T) {
	db := testDB(t)
	contacts := NewContactStore(db)

	const email = "contact-create@test.local"
	t.Cleanup(func() { cleanContacts(t, db, email) })

	m, err := contacts.Create("Sender", email, "Hello", "Just saying hi.")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Reviewed {
		t.Error("new message should start unreviewed")
	}

	got, err := contacts.FindByID(m.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil || got.Subject != "Hello" {
		t.Fatalf("FindByID = %+v", got)
	}
}

func TestContactMarkReviewed(t *testing.T) {
	db := testDB(t)
	contacts := NewContactStore(db)

	const email = "contact-review@test.local"
	t.Cleanup(func() { cleanContacts(t, db, email) })

	m, err := contacts.Create("Sender", email, "Review", "Please review.")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	reviewed, err := contacts.MarkReviewed(m.ID)
	if err != nil {
		t.Fatalf("MarkReviewed: %v", err)
	}
	if reviewed == nil || !reviewed.Reviewed {
		t.Fatalf("MarkReviewed = %+v, want reviewed record", reviewed)
	}

	missing, err := contacts.MarkReviewed(uuid.New())
	if err != nil {
		t.Fatalf("MarkReviewed missing: %v", err)
	}
	if missing != nil {
		t.Error("MarkReviewed for missing message returned a record")
	}
}

func TestContactList(t *testing.T) {
	db := testDB(t)
	contacts := NewContactStore(db)

	const email = "contact-list@test.local"
	t.Cleanup(func() { cleanContacts(t, db, email) })

	if _, err := contacts.Create("Lister", email, "List me", "body"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	page, err := contacts.List(1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.PerPage != contactsPerPage {
		t.Errorf("PerPage = %d, want %d", page.PerPage, contactsPerPage)
	}
	if page.Total < 1 {
		t.Errorf("Total = %d, want at least 1", page.Total)
	}
	if len(page.Data) == 0 {
		t.Fatal("List returned no rows")
	}
}
