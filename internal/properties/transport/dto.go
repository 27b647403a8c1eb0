package transport

import (
	"time"

	"estate_dashboard_backend/internal/properties/domain"
	"estate_dashboard_backend/internal/properties/service"

	"github.com/google/uuid"
)

// UpdateCustomerRequest carries only the fields to change.
type UpdateCustomerRequest struct {
	EnquiryName    *string `json:"enquiryName,omitempty" validate:"omitempty,max=200"`
	EnquiryPhone   *string `json:"enquiryPhone,omitempty" validate:"omitempty,max=32"`
	EnquiryEmail   *string `json:"enquiryEmail,omitempty" validate:"omitempty,email"`
	PurchaserName  *string `json:"purchaserName,omitempty" validate:"omitempty,max=200"`
	PurchaserPhone *string `json:"purchaserPhone,omitempty" validate:"omitempty,max=32"`
	PurchaserEmail *string `json:"purchaserEmail,omitempty" validate:"omitempty,email"`
}

func (r UpdateCustomerRequest) ToPatch() service.CustomerPatch {
	return service.CustomerPatch{
		EnquiryName:    r.EnquiryName,
		EnquiryPhone:   r.EnquiryPhone,
		EnquiryEmail:   r.EnquiryEmail,
		PurchaserName:  r.PurchaserName,
		PurchaserPhone: r.PurchaserPhone,
		PurchaserEmail: r.PurchaserEmail,
	}
}

type DocumentResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind,omitempty"`
	Visibility string    `json:"visibility"`
	UploadedAt time.Time `json:"uploadedAt"`
	URL        string    `json:"url,omitempty"`
}

type PropertyResponse struct {
	ID                      uuid.UUID              `json:"id"`
	Title                   string                 `json:"title"`
	Project                 string                 `json:"project,omitempty"`
	Location                string                 `json:"location,omitempty"`
	Price                   int64                  `json:"price"`
	Status                  string                 `json:"status,omitempty"`
	Customer                domain.CustomerDetails `json:"customer"`
	CustomerDetailsEditable bool                   `json:"customerDetailsEditable"`
	Documents               []DocumentResponse     `json:"documents"`
	UpdatedAt               time.Time              `json:"updatedAt"`
}

func ToPropertyResponse(v service.View) PropertyResponse {
	r := v.Record
	docs := make([]DocumentResponse, 0, len(r.Documents))
	for _, d := range r.Documents {
		docs = append(docs, DocumentResponse{
			ID:         d.ID,
			Name:       d.Name,
			Kind:       d.Kind,
			Visibility: string(d.Visibility),
			UploadedAt: d.UploadedAt,
			URL:        d.URL,
		})
	}
	return PropertyResponse{
		ID:                      r.ID,
		Title:                   r.Title,
		Project:                 r.Project,
		Location:                r.Location,
		Price:                   r.Price,
		Status:                  r.Status,
		Customer:                r.Customer,
		CustomerDetailsEditable: v.CustomerDetailsEditable,
		Documents:               docs,
		UpdatedAt:               r.UpdatedAt,
	}
}
