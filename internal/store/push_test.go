package store

import (
	"testing"
	"time"

	"github.com/dukerupert/earnlearn/internal/model"
)

func TestPushSubscriptions(t *testing.T) {
	db := setupTestDB(t)
	child := createTestChild(t, db, "ARIA01", "Aria")
	as := NewAccountStore(db)
	parent, _ := as.Create("mom", "hash", model.RoleParent, nil)
	kid, _ := as.Create("aria", "hash", model.RoleChild, &child.ID)
	ps := NewPushStore(db)

	sub, err := ps.CreateSubscription(parent.ID, "https://push.example.com/p", "p256", "auth", "Phone")
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if sub.AccountID != parent.ID || sub.DeviceName != "Phone" {
		t.Errorf("subscription = %+v", sub)
	}

	// Upsert on the same endpoint keeps one row.
	if _, err := ps.CreateSubscription(parent.ID, "https://push.example.com/p", "p256b", "authb", "Tablet"); err != nil {
		t.Fatalf("upsert subscription: %v", err)
	}
	if _, err := ps.CreateSubscription(kid.ID, "https://push.example.com/k", "p256", "auth", "Laptop"); err != nil {
		t.Fatalf("create kid subscription: %v", err)
	}

	parents, err := ps.ListByRole(model.RoleParent)
	if err != nil {
		t.Fatalf("list by role: %v", err)
	}
	if len(parents) != 1 || parents[0].DeviceName != "Tablet" {
		t.Errorf("parent subs = %+v", parents)
	}

	kids, err := ps.ListByChild(child.ID)
	if err != nil {
		t.Fatalf("list by child: %v", err)
	}
	if len(kids) != 1 {
		t.Errorf("child subs = %d, want 1", len(kids))
	}

	if err := ps.DeleteByEndpoint("https://push.example.com/k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	mine, _ := ps.ListByAccount(kid.ID)
	if len(mine) != 0 {
		t.Errorf("subs after delete = %d, want 0", len(mine))
	}
}

func TestSentNotifications(t *testing.T) {
	db := setupTestDB(t)
	ps := NewPushStore(db)

	sent, err := ps.WasSent(model.NotifTypeSettlementPending, "history-1")
	if err != nil {
		t.Fatalf("was sent: %v", err)
	}
	if sent {
		t.Error("expected not sent")
	}

	if err := ps.RecordSent(model.NotifTypeSettlementPending, "history-1"); err != nil {
		t.Fatalf("record sent: %v", err)
	}
	// Duplicate insert is ignored.
	if err := ps.RecordSent(model.NotifTypeSettlementPending, "history-1"); err != nil {
		t.Fatalf("record sent twice: %v", err)
	}

	sent, _ = ps.WasSent(model.NotifTypeSettlementPending, "history-1")
	if !sent {
		t.Error("expected sent")
	}

	if err := ps.CleanupSent(time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	sent, _ = ps.WasSent(model.NotifTypeSettlementPending, "history-1")
	if sent {
		t.Error("expected cleanup to remove record")
	}
}
