package service

import (
	"context"
	"testing"

	"github.com/autoserve/support-service/internal/domain"
	apperrors "github.com/autoserve/support-service/pkg/util"
)

func newTicketServiceForTest() (*TicketService, *fakeTicketRepo) {
	repo := newFakeTicketRepo()
	svc := NewTicketService(TicketDependencies{TicketRepo: repo})
	return svc, repo
}

func mustCreateTicket(t *testing.T, svc *TicketService, ownerID string) *domain.Ticket {
	t.Helper()
	ticket, err := svc.CreateTicket(context.Background(), domain.RoleCustomer, ownerID, TicketCreateInput{
		OwnerID:     ownerID,
		Name:        "Jamie",
		Email:       "jamie@example.com",
		Subject:     "Brakes squeal",
		Description: "Front brakes squeal above 40km/h",
	})
	if err != nil {
		t.Fatalf("CreateTicket failed: %v", err)
	}
	return ticket
}

func TestCreateTicketDefaults(t *testing.T) {
	svc, _ := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, "u1")

	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("status = %q, want Open", ticket.Status)
	}
	if ticket.Priority != domain.TicketPriorityLow {
		t.Errorf("priority = %q, want Low", ticket.Priority)
	}
	if ticket.AnsweredAt != nil {
		t.Error("answered_at must start unset")
	}
}

func TestCreateTicketValidation(t *testing.T) {
	svc, _ := newTicketServiceForTest()

	_, err := svc.CreateTicket(context.Background(), domain.RoleCustomer, "u1", TicketCreateInput{OwnerID: "u1", Subject: "x"})
	if err == nil {
		t.Fatal("missing description should be rejected")
	}

	_, err = svc.CreateTicket(context.Background(), domain.RoleCustomer, "u1", TicketCreateInput{
		OwnerID: "u1", Subject: "x", Description: "y", Priority: "Urgent",
	})
	if err == nil {
		t.Fatal("unknown priority should be rejected")
	}
}

func TestCreateTicketOnBehalf(t *testing.T) {
	svc, _ := newTicketServiceForTest()
	input := TicketCreateInput{OwnerID: "u1", Subject: "x", Description: "y"}

	if _, err := svc.CreateTicket(context.Background(), domain.RoleCustomer, "u2", input); !apperrors.IsForbidden(err) {
		t.Errorf("customer creating for another user: got %v, want Forbidden", err)
	}
	if _, err := svc.CreateTicket(context.Background(), domain.RoleManager, "m1", input); err != nil {
		t.Errorf("admin board creating on behalf failed: %v", err)
	}
}

func TestGetTicketOwnership(t *testing.T) {
	svc, _ := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, "u1")

	if _, err := svc.GetTicket(context.Background(), ticket.ID, domain.RoleCustomer, "u1"); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := svc.GetTicket(context.Background(), ticket.ID, domain.RoleCustomer, "u2"); !apperrors.IsForbidden(err) {
		t.Errorf("stranger read: got %v, want Forbidden", err)
	}
	if _, err := svc.GetTicket(context.Background(), ticket.ID, domain.RoleManager, "m1"); err != nil {
		t.Errorf("manager read failed: %v", err)
	}
}

func TestGetTicketNotFoundBeforeForbidden(t *testing.T) {
	svc, _ := newTicketServiceForTest()
	_, err := svc.GetTicket(context.Background(), "missing", domain.RoleCustomer, "u2")
	if !apperrors.IsNotFound(err) {
		t.Errorf("missing ticket: got %v, want NotFound", err)
	}
}

func TestUpdateTicketAnsweredStamp(t *testing.T) {
	svc, _ := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, "u1")

	answered := domain.TicketStatusAnswered
	updated, err := svc.UpdateTicket(context.Background(), ticket.ID, TicketPatch{Status: &answered}, domain.RoleManager, "m1")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.AnsweredAt == nil {
		t.Fatal("transition to Answered must stamp answered_at")
	}
	firstStamp := *updated.AnsweredAt

	// re-asserting Answered is a no-op for the stamp
	updated, err = svc.UpdateTicket(context.Background(), ticket.ID, TicketPatch{Status: &answered}, domain.RoleManager, "m1")
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if updated.AnsweredAt == nil || !updated.AnsweredAt.Equal(firstStamp) {
		t.Error("answered_at must not change when already Answered")
	}

	// moving away from Answered never clears the stamp
	closed := domain.TicketStatusClosed
	updated, err = svc.UpdateTicket(context.Background(), ticket.ID, TicketPatch{Status: &closed}, domain.RoleManager, "m1")
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if updated.AnsweredAt == nil || !updated.AnsweredAt.Equal(firstStamp) {
		t.Error("answered_at must survive later status edits")
	}
}

func TestUpdateTicketAuthorization(t *testing.T) {
	svc, _ := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, "u1")

	subject := "New subject"
	if _, err := svc.UpdateTicket(context.Background(), ticket.ID, TicketPatch{Subject: &subject}, domain.RoleCustomer, "u2"); !apperrors.IsForbidden(err) {
		t.Errorf("stranger edit: got %v, want Forbidden", err)
	}
	updated, err := svc.UpdateTicket(context.Background(), ticket.ID, TicketPatch{Subject: &subject}, domain.RoleCustomer, "u1")
	if err != nil {
		t.Fatalf("owner edit failed: %v", err)
	}
	if updated.Subject != subject {
		t.Errorf("subject = %q, want %q", updated.Subject, subject)
	}
}

func TestDeleteTicket(t *testing.T) {
	svc, repo := newTicketServiceForTest()
	ticket := mustCreateTicket(t, svc, "u1")

	if err := svc.DeleteTicket(context.Background(), ticket.ID, domain.RoleCustomer, "u2"); !apperrors.IsForbidden(err) {
		t.Errorf("stranger delete: got %v, want Forbidden", err)
	}
	if err := svc.DeleteTicket(context.Background(), ticket.ID, domain.RoleCustomer, "u1"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, ok := repo.tickets[ticket.ID]; ok {
		t.Error("ticket still present after delete")
	}

	if err := svc.DeleteTicket(context.Background(), "missing", domain.RoleManager, "m1"); !apperrors.IsNotFound(err) {
		t.Errorf("deleting missing ticket: got %v, want NotFound", err)
	}
}

func TestListTicketsScoping(t *testing.T) {
	svc, _ := newTicketServiceForTest()
	mustCreateTicket(t, svc, "u1")
	mustCreateTicket(t, svc, "u1")
	mustCreateTicket(t, svc, "u2")

	all, err := svc.ListTickets(context.Background(), domain.RoleManager, "m1", TicketListInput{})
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("admin sees %d tickets, want 3", len(all))
	}

	mine, err := svc.ListTickets(context.Background(), domain.RoleCustomer, "u1", TicketListInput{})
	if err != nil {
		t.Fatalf("customer list failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("customer sees %d tickets, want 2", len(mine))
	}
	for _, ticket := range mine {
		if ticket.OwnerID != "u1" {
			t.Errorf("customer listing leaked ticket owned by %q", ticket.OwnerID)
		}
	}

	if _, err := svc.ListTickets(context.Background(), domain.RoleCustomer, "", TicketListInput{}); err == nil {
		t.Error("customer listing without caller id must fail")
	}
}
