package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"estate_dashboard_backend/internal/events"
	"estate_dashboard_backend/internal/properties/domain"
	"estate_dashboard_backend/internal/properties/repository"
	"estate_dashboard_backend/internal/rbac"
	"estate_dashboard_backend/platform/apperr"
	"estate_dashboard_backend/platform/logger"
	"estate_dashboard_backend/platform/phone"

	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

type stubLinker struct {
	calls []string
	err   error
}

func (l *stubLinker) DocumentURL(_ context.Context, doc domain.Document) (string, error) {
	l.calls = append(l.calls, doc.ObjectKey)
	if l.err != nil {
		return "", l.err
	}
	return "https://files.example.com/" + doc.ObjectKey, nil
}

type fixture struct {
	svc       *Service
	repo      *repository.Repository
	bus       *events.InMemoryBus
	linker    *stubLinker
	record    domain.PropertyRecord
	purchaser rbac.Principal
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := repository.New()
	purchaser := rbac.Principal{ID: uuid.New(), Role: rbac.RoleCustomerPurchased}
	record := domain.PropertyRecord{
		ID:          uuid.New(),
		Title:       "Plot 42",
		PurchaserID: purchaser.ID,
		Customer:    domain.CustomerDetails{EnquiryName: "Sunil", PurchaserName: "Anita"},
		Documents: []domain.Document{
			{ID: uuid.New(), Name: "Brochure", ObjectKey: "plot42/brochure.pdf", Visibility: domain.VisibilityPublic},
			{ID: uuid.New(), Name: "Allotment letter", ObjectKey: "plot42/allotment.pdf", Visibility: domain.VisibilityPurchaserOnly},
		},
	}
	if err := repo.Insert(context.Background(), record); err != nil {
		t.Fatalf("insert: %v", err)
	}

	log := logger.Nop()
	bus := events.NewInMemoryBus(log)
	linker := &stubLinker{}
	svc := New(repo, bus, log)
	svc.SetDocumentLinker(linker)
	svc.SetPhoneNormalizer(phone.NewNormalizer("IN"))
	svc.SetClock(func() time.Time { return fixedNow })
	return fixture{svc: svc, repo: repo, bus: bus, linker: linker, record: record, purchaser: purchaser}
}

func TestViewProjectsAndLinksVisibleDocuments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	agent := rbac.Principal{ID: uuid.New(), Role: rbac.RoleAgent}
	view, err := f.svc.View(ctx, agent, f.record.ID)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if view.CustomerDetailsEditable || !view.Record.Customer.IsZero() {
		t.Fatalf("agent view = %+v", view)
	}
	if len(view.Record.Documents) != 1 || view.Record.Documents[0].URL != "https://files.example.com/plot42/brochure.pdf" {
		t.Fatalf("agent documents = %+v", view.Record.Documents)
	}
	if len(f.linker.calls) != 1 {
		t.Fatalf("linker called for %v; restricted documents must not be linked", f.linker.calls)
	}

	view, err = f.svc.View(ctx, f.purchaser, f.record.ID)
	if err != nil {
		t.Fatalf("View purchaser: %v", err)
	}
	if len(view.Record.Documents) != 2 {
		t.Fatalf("purchaser should see both documents, got %d", len(view.Record.Documents))
	}

	owner := rbac.Principal{ID: uuid.New(), Role: rbac.RoleOwner}
	view, _ = f.svc.View(ctx, owner, f.record.ID)
	if !view.CustomerDetailsEditable || view.Record.Customer.EnquiryName != "Sunil" {
		t.Fatalf("owner view = %+v", view)
	}
}

func TestViewErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.View(ctx, rbac.Principal{}, f.record.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("anonymous view: %v", err)
	}
	if _, err := f.svc.View(ctx, f.purchaser, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("missing property: %v", err)
	}
}

func TestViewToleratesLinkFailures(t *testing.T) {
	f := newFixture(t)
	f.linker.err = errors.New("storage offline")

	view, err := f.svc.View(context.Background(), f.purchaser, f.record.ID)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	for _, doc := range view.Record.Documents {
		if doc.URL != "" {
			t.Fatalf("unexpected URL %q", doc.URL)
		}
	}
}

func TestUpdateCustomerDetailsAuthorization(t *testing.T) {
	name := "Kavya"
	for _, role := range rbac.Roles() {
		t.Run(string(role), func(t *testing.T) {
			f := newFixture(t)
			p := rbac.Principal{ID: uuid.New(), Role: role}

			_, err := f.svc.UpdateCustomerDetails(context.Background(), p, f.record.ID, CustomerPatch{EnquiryName: &name})

			stored, _ := f.repo.Get(context.Background(), f.record.ID)
			if rbac.HasCapability(role, rbac.EditCustomerDetails) {
				if err != nil || stored.Customer.EnquiryName != name {
					t.Fatalf("update = %v, stored %q", err, stored.Customer.EnquiryName)
				}
				return
			}
			if !apperr.Is(err, apperr.KindForbidden) {
				t.Fatalf("err = %v, want Forbidden", err)
			}
			if stored.Customer.EnquiryName != "Sunil" {
				t.Fatal("rejected update changed the record")
			}
		})
	}
}

func TestUpdateCustomerDetailsAppliesPatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	manager := rbac.Principal{ID: uuid.New(), Role: rbac.RoleSalesManager}

	var published []events.PropertyCustomerUpdated
	f.bus.Subscribe(events.PropertyCustomerUpdated{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		published = append(published, e.(events.PropertyCustomerUpdated))
		return nil
	}))

	phoneNumber := "098123 45678"
	email := "  anita@example.com "
	view, err := f.svc.UpdateCustomerDetails(ctx, manager, f.record.ID, CustomerPatch{PurchaserPhone: &phoneNumber, PurchaserEmail: &email})
	if err != nil {
		t.Fatalf("UpdateCustomerDetails: %v", err)
	}
	f.bus.Wait()

	c := view.Record.Customer
	if c.PurchaserPhone != "+919812345678" || c.PurchaserEmail != "anita@example.com" || c.PurchaserName != "Anita" {
		t.Fatalf("customer = %+v", c)
	}
	if !view.Record.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("UpdatedAt = %v", view.Record.UpdatedAt)
	}
	if len(published) != 1 || published[0].PropertyID != f.record.ID {
		t.Fatalf("events = %+v", published)
	}

	if _, err := f.svc.UpdateCustomerDetails(ctx, manager, f.record.ID, CustomerPatch{}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("empty patch: %v", err)
	}
	if _, err := f.svc.UpdateCustomerDetails(ctx, manager, uuid.New(), CustomerPatch{EnquiryName: &email}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("missing property: %v", err)
	}
}
