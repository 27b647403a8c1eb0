// Package records loads the sample dashboard data the core operates on.
// The fixture is a YAML document holding principals, leads, follow-ups and
// property records.
package records

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"estate_dashboard_backend/internal/auth/directory"
	leaddomain "estate_dashboard_backend/internal/leads/domain"
	leadrepo "estate_dashboard_backend/internal/leads/repository"
	propdomain "estate_dashboard_backend/internal/properties/domain"
	proprepo "estate_dashboard_backend/internal/properties/repository"
	"estate_dashboard_backend/internal/rbac"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Principal is a directory entry in the fixture. Exactly one of Password or
// PasswordHash must be set.
type Principal struct {
	ID           uuid.UUID `yaml:"id"`
	DisplayName  string    `yaml:"displayName"`
	Role         rbac.Role `yaml:"role"`
	Email        string    `yaml:"email"`
	Password     string    `yaml:"password"`
	PasswordHash string    `yaml:"passwordHash"`
}

// Fixture is the decoded record source.
type Fixture struct {
	Principals []Principal                 `yaml:"principals"`
	Leads      []leaddomain.Lead           `yaml:"leads"`
	FollowUps  []leaddomain.FollowUp       `yaml:"followUps"`
	Properties []propdomain.PropertyRecord `yaml:"properties"`
}

// Targets are the stores a fixture is applied to. Nil targets are skipped.
type Targets struct {
	Directory  *directory.Directory
	Leads      *leadrepo.Repository
	Properties *proprepo.Repository
}

// Stats counts what Apply loaded.
type Stats struct {
	Principals int
	Leads      int
	FollowUps  int
	Properties int
}

// LoadFile decodes the fixture at path.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Decode reads one fixture document. Unknown keys are rejected.
func Decode(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the fixture for values the core would reject.
func (f *Fixture) Validate() error {
	var errs []error
	for i, p := range f.Principals {
		if p.ID == uuid.Nil || p.Email == "" {
			errs = append(errs, fmt.Errorf("principals[%d]: id and email are required", i))
		}
		if !p.Role.Valid() {
			errs = append(errs, fmt.Errorf("principals[%d]: unknown role %q", i, p.Role))
		}
		if (p.Password == "") == (p.PasswordHash == "") {
			errs = append(errs, fmt.Errorf("principals[%d]: exactly one of password or passwordHash is required", i))
		}
	}
	for i, l := range f.Leads {
		if l.ID == uuid.Nil {
			errs = append(errs, fmt.Errorf("leads[%d]: id is required", i))
		}
		if !l.Stage.Valid() {
			errs = append(errs, fmt.Errorf("leads[%d]: unknown stage %q", i, l.Stage))
		}
		if l.Value < 0 {
			errs = append(errs, fmt.Errorf("leads[%d]: negative value", i))
		}
		if !leaddomain.ValidProbability(l.Probability) {
			errs = append(errs, fmt.Errorf("leads[%d]: probability %d out of range", i, l.Probability))
		}
		if l.Priority != "" && !l.Priority.Valid() {
			errs = append(errs, fmt.Errorf("leads[%d]: unknown priority %q", i, l.Priority))
		}
	}
	for i, fu := range f.FollowUps {
		if fu.ID == uuid.Nil || fu.LeadID == uuid.Nil {
			errs = append(errs, fmt.Errorf("followUps[%d]: id and leadId are required", i))
		}
		if fu.Completed != (fu.CompletedAt != nil) {
			errs = append(errs, fmt.Errorf("followUps[%d]: completed and completedAt disagree", i))
		}
	}
	for i, p := range f.Properties {
		if p.ID == uuid.Nil {
			errs = append(errs, fmt.Errorf("properties[%d]: id is required", i))
		}
		for j, d := range p.Documents {
			if !d.Visibility.Valid() {
				errs = append(errs, fmt.Errorf("properties[%d].documents[%d]: unknown visibility %q", i, j, d.Visibility))
			}
		}
	}
	return errors.Join(errs...)
}

// Apply inserts the fixture into the targets in dependency order.
func (f *Fixture) Apply(ctx context.Context, t Targets) (Stats, error) {
	var stats Stats

	if t.Directory != nil {
		for _, p := range f.Principals {
			principal := rbac.Principal{ID: p.ID, DisplayName: p.DisplayName, Role: p.Role, Email: p.Email}
			var err error
			if p.PasswordHash != "" {
				err = t.Directory.AddHashed(principal, p.PasswordHash)
			} else {
				err = t.Directory.Add(principal, p.Password)
			}
			if err != nil {
				return stats, fmt.Errorf("load principal %s: %w", p.Email, err)
			}
			stats.Principals++
		}
	}

	if t.Leads != nil {
		for _, l := range f.Leads {
			if l.Priority == "" {
				l.Priority = leaddomain.PriorityMedium
			}
			if err := t.Leads.InsertLead(ctx, l); err != nil {
				return stats, fmt.Errorf("load lead %s: %w", l.ID, err)
			}
			stats.Leads++
		}
		for _, fu := range f.FollowUps {
			if err := t.Leads.InsertFollowUp(ctx, fu); err != nil {
				return stats, fmt.Errorf("load follow-up %s: %w", fu.ID, err)
			}
			stats.FollowUps++
		}
	}

	if t.Properties != nil {
		for _, p := range f.Properties {
			if err := t.Properties.Insert(ctx, p); err != nil {
				return stats, fmt.Errorf("load property %s: %w", p.ID, err)
			}
			stats.Properties++
		}
	}

	return stats, nil
}
