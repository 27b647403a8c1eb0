// Package domain holds the property record model.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentVisibility controls who may receive a document.
type DocumentVisibility string

const (
	VisibilityPurchaserOnly DocumentVisibility = "PURCHASER_ONLY"
	VisibilityPublic        DocumentVisibility = "PUBLIC"
)

func (v DocumentVisibility) Valid() bool {
	return v == VisibilityPurchaserOnly || v == VisibilityPublic
}

// Document is a file attached to a property. ObjectKey addresses it in
// object storage; URL is only filled on projected copies.
type Document struct {
	ID         uuid.UUID          `json:"id" yaml:"id"`
	Name       string             `json:"name" yaml:"name"`
	Kind       string             `json:"kind,omitempty" yaml:"kind"`
	ObjectKey  string             `json:"objectKey,omitempty" yaml:"objectKey"`
	Visibility DocumentVisibility `json:"visibility" yaml:"visibility"`
	UploadedAt time.Time          `json:"uploadedAt" yaml:"uploadedAt"`
	URL        string             `json:"url,omitempty" yaml:"-"`
}

// CustomerDetails are the enquiry and purchase contacts for a unit.
type CustomerDetails struct {
	EnquiryName    string `json:"enquiryName" yaml:"enquiryName"`
	EnquiryPhone   string `json:"enquiryPhone" yaml:"enquiryPhone"`
	EnquiryEmail   string `json:"enquiryEmail" yaml:"enquiryEmail"`
	PurchaserName  string `json:"purchaserName" yaml:"purchaserName"`
	PurchaserPhone string `json:"purchaserPhone" yaml:"purchaserPhone"`
	PurchaserEmail string `json:"purchaserEmail" yaml:"purchaserEmail"`
}

func (c CustomerDetails) IsZero() bool {
	return c == CustomerDetails{}
}

// PropertyRecord is one sellable unit. PurchaserID is the designated
// purchaser and is uuid.Nil until the unit is sold.
type PropertyRecord struct {
	ID          uuid.UUID       `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Project     string          `json:"project,omitempty" yaml:"project"`
	Location    string          `json:"location,omitempty" yaml:"location"`
	Price       int64           `json:"price" yaml:"price"`
	Status      string          `json:"status,omitempty" yaml:"status"`
	PurchaserID uuid.UUID       `json:"purchaserId" yaml:"purchaserId"`
	Customer    CustomerDetails `json:"customer" yaml:"customer"`
	Documents   []Document      `json:"documents" yaml:"documents"`
	UpdatedAt   time.Time       `json:"updatedAt" yaml:"updatedAt"`
}

// Clone returns a copy whose document slice is not shared with r.
func (r PropertyRecord) Clone() PropertyRecord {
	if r.Documents != nil {
		r.Documents = append([]Document(nil), r.Documents...)
	}
	return r
}

// IsPurchaser reports whether id is the designated purchaser of r.
func (r PropertyRecord) IsPurchaser(id uuid.UUID) bool {
	return r.PurchaserID != uuid.Nil && r.PurchaserID == id
}
