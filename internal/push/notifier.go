package push

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/earnlearn/internal/model"
	"github.com/dukerupert/earnlearn/internal/money"
)

// Sender delivers one payload to one subscription.
type Sender interface {
	Send(sub *model.PushSubscription, payload Payload) error
}

// Subscriptions is the subset of the push store the notifier needs.
type Subscriptions interface {
	ListByRole(role model.Role) ([]model.PushSubscription, error)
	ListByChild(childID int64) ([]model.PushSubscription, error)
	DeleteByEndpoint(endpoint string) error
	WasSent(notifType, refID string) (bool, error)
	RecordSent(notifType, refID string) error
}

// Notifier turns family events into push notifications. A nil sender
// disables it.
type Notifier struct {
	sender Sender
	subs   Subscriptions
	logger *slog.Logger
}

func NewNotifier(sender Sender, subs Subscriptions, logger *slog.Logger) *Notifier {
	return &Notifier{sender: sender, subs: subs, logger: logger}
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.sender != nil
}

// TaskSubmitted tells every parent device that a child is waiting for approval.
func (n *Notifier) TaskSubmitted(t model.Task, child model.Child) {
	if !n.Enabled() {
		return
	}
	refID := fmt.Sprintf("task-%d-%d", t.ID, t.UpdatedAt.Unix())
	subs, err := n.subs.ListByRole(model.RoleParent)
	if err != nil {
		n.logger.Error("list parent subscriptions", "error", err)
		return
	}
	n.deliver(model.NotifTypeTaskSubmitted, refID, subs, Payload{
		Title: "Task ready for review",
		Body:  fmt.Sprintf("%s finished %q (%d pts)", child.Name, t.Name, t.Points),
		URL:   "/",
		Tag:   refID,
	})
}

// SettlementPending asks each paid child to cash out or save.
func (n *Notifier) SettlementPending(entries []model.HistoryEntry) {
	if !n.Enabled() {
		return
	}
	for _, e := range entries {
		subs, err := n.subs.ListByChild(e.ChildID)
		if err != nil {
			n.logger.Error("list child subscriptions", "child_id", e.ChildID, "error", err)
			continue
		}
		refID := fmt.Sprintf("history-%d", e.ID)
		n.deliver(model.NotifTypeSettlementPending, refID, subs, Payload{
			Title: "It's payday!",
			Body:  fmt.Sprintf("You earned %s interest. Cash out or save your points.", money.Format(e.Amount)),
			URL:   "/",
			Tag:   "payday",
		})
	}
}

// InstancesSpawned tells each child about their new recurring tasks.
func (n *Notifier) InstancesSpawned(tasks []model.Task) {
	if !n.Enabled() {
		return
	}
	for _, t := range tasks {
		subs, err := n.subs.ListByChild(t.AssignedTo)
		if err != nil {
			n.logger.Error("list child subscriptions", "child_id", t.AssignedTo, "error", err)
			continue
		}
		refID := fmt.Sprintf("instance-%d", t.ID)
		n.deliver(model.NotifTypeInstanceSpawned, refID, subs, Payload{
			Title: "New task",
			Body:  fmt.Sprintf("%s (%d pts)", t.Name, t.Points),
			URL:   "/",
			Tag:   refID,
		})
	}
}

func (n *Notifier) deliver(notifType, refID string, subs []model.PushSubscription, payload Payload) {
	if len(subs) == 0 {
		return
	}
	sent, err := n.subs.WasSent(notifType, refID)
	if err != nil {
		n.logger.Error("check sent notification", "error", err)
		return
	}
	if sent {
		return
	}

	for i := range subs {
		sub := &subs[i]
		err := n.sender.Send(sub, payload)
		if errors.Is(err, ErrExpired) {
			n.logger.Info("removing expired push subscription", "account_id", sub.AccountID)
			if err := n.subs.DeleteByEndpoint(sub.Endpoint); err != nil {
				n.logger.Error("delete expired subscription", "error", err)
			}
			continue
		}
		if err != nil {
			n.logger.Warn("push send failed", "type", notifType, "error", err)
		}
	}

	if err := n.subs.RecordSent(notifType, refID); err != nil {
		n.logger.Error("record sent notification", "error", err)
	}
}
