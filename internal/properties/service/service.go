// Package service applies access rules to property reads and customer-detail writes.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"estate_dashboard_backend/internal/events"
	"estate_dashboard_backend/internal/properties/domain"
	"estate_dashboard_backend/internal/properties/ports"
	"estate_dashboard_backend/internal/properties/repository"
	"estate_dashboard_backend/internal/properties/visibility"
	"estate_dashboard_backend/internal/rbac"
	"estate_dashboard_backend/platform/apperr"
	"estate_dashboard_backend/platform/logger"
	"estate_dashboard_backend/platform/phone"
	"estate_dashboard_backend/platform/sanitize"

	"github.com/google/uuid"
)

type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (domain.PropertyRecord, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*domain.PropertyRecord) error) (domain.PropertyRecord, error)
}

// View is a projected record together with what the viewer may change.
type View struct {
	Record                  domain.PropertyRecord
	CustomerDetailsEditable bool
}

type Service struct {
	repo     Repository
	eventBus events.Bus
	log      *logger.Logger
	linker   ports.DocumentLinker
	phone    phone.Normalizer
	now      func() time.Time
}

func New(repo Repository, eventBus events.Bus, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		log:      log,
		phone:    phone.NewNormalizer(""),
		now:      time.Now,
	}
}

// SetDocumentLinker enables download URLs on documents that survive projection.
func (s *Service) SetDocumentLinker(l ports.DocumentLinker) {
	s.linker = l
}

func (s *Service) SetPhoneNormalizer(n phone.Normalizer) {
	s.phone = n
}

func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// View returns the record projected for p.
func (s *Service) View(ctx context.Context, p rbac.Principal, id uuid.UUID) (View, error) {
	if p.IsZero() {
		return View{}, apperr.Forbidden("sign in to view properties")
	}
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return View{}, mapRepoError(err)
	}
	return s.project(ctx, record, p), nil
}

// CustomerPatch holds the customer fields to overwrite. Nil fields are kept.
type CustomerPatch struct {
	EnquiryName    *string
	EnquiryPhone   *string
	EnquiryEmail   *string
	PurchaserName  *string
	PurchaserPhone *string
	PurchaserEmail *string
}

func (c CustomerPatch) empty() bool {
	return c.EnquiryName == nil && c.EnquiryPhone == nil && c.EnquiryEmail == nil &&
		c.PurchaserName == nil && c.PurchaserPhone == nil && c.PurchaserEmail == nil
}

// UpdateCustomerDetails overwrites customer fields. Only principals holding
// EditCustomerDetails may write; everyone else is rejected before the record
// is read.
func (s *Service) UpdateCustomerDetails(ctx context.Context, p rbac.Principal, id uuid.UUID, patch CustomerPatch) (View, error) {
	const op = "properties.update_customer"

	if !visibility.CanEditCustomerDetails(p) {
		err := apperr.Forbidden("not allowed to edit customer details")
		s.log.MutationRejected(op, p.ID.String(), err)
		return View{}, err
	}
	if patch.empty() {
		return View{}, apperr.Validation("no customer fields to update")
	}

	now := s.now()
	updated, err := s.repo.Update(ctx, id, func(r *domain.PropertyRecord) error {
		c := &r.Customer
		setName(&c.EnquiryName, patch.EnquiryName)
		s.setPhone(&c.EnquiryPhone, patch.EnquiryPhone)
		setText(&c.EnquiryEmail, patch.EnquiryEmail)
		setName(&c.PurchaserName, patch.PurchaserName)
		s.setPhone(&c.PurchaserPhone, patch.PurchaserPhone)
		setText(&c.PurchaserEmail, patch.PurchaserEmail)
		r.UpdatedAt = now
		return nil
	})
	if err != nil {
		return View{}, mapRepoError(err)
	}

	s.log.Info("customer details updated", "propertyId", id, "actorId", p.ID)
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.PropertyCustomerUpdated{
			BaseEvent:  events.NewBaseEvent(now),
			PropertyID: id,
			ActorID:    p.ID,
		})
	}
	return s.project(ctx, updated, p), nil
}

func (s *Service) project(ctx context.Context, record domain.PropertyRecord, p rbac.Principal) View {
	projected := visibility.Project(record, p)
	if s.linker != nil {
		for i := range projected.Documents {
			doc := &projected.Documents[i]
			if doc.ObjectKey == "" {
				continue
			}
			url, err := s.linker.DocumentURL(ctx, *doc)
			if err != nil {
				s.log.Warn("failed to link property document", "documentId", doc.ID, "error", err)
				continue
			}
			doc.URL = url
		}
	}
	return View{Record: projected, CustomerDetailsEditable: visibility.CanEditCustomerDetails(p)}
}

func setName(dst *string, v *string) {
	if v != nil {
		*dst = sanitize.Line(*v)
	}
}

func setText(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func (s *Service) setPhone(dst *string, v *string) {
	if v != nil {
		*dst = s.phone.NormalizeE164(strings.TrimSpace(*v))
	}
}

func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("property not found")
	}
	return apperr.Wrap(apperr.KindInternal, "property store", err)
}
