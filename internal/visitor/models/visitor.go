package models

import (
	"strings"
	"time"

	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
)

// IDType is the closed enumeration of accepted identification documents.
// Unknown values are rejected at registration; there is no "other".
type IDType string

const (
	IDTypeNationalIDCard IDType = "national-id-card"
	IDTypePANStyleID     IDType = "pan-style-id"
	IDTypeDriverLicense  IDType = "driver-license"
	IDTypePassport       IDType = "passport"
	IDTypeVoterID        IDType = "voter-id"
)

// IDTypes lists the enumeration in presentation order.
var IDTypes = []IDType{
	IDTypeNationalIDCard,
	IDTypePANStyleID,
	IDTypeDriverLicense,
	IDTypePassport,
	IDTypeVoterID,
}

func (t IDType) Valid() bool {
	switch t {
	case IDTypeNationalIDCard, IDTypePANStyleID, IDTypeDriverLicense, IDTypePassport, IDTypeVoterID:
		return true
	}
	return false
}

// Visitor is an identity record captured at registration. It is immutable
// after creation (administrative correction is out of scope) and is
// referenced, never owned, by visits. Visitors are not deduplicated: a
// returning guest gets a fresh record per registration.
type Visitor struct {
	ID        id.VisitorID `json:"id"`
	FullName  string       `json:"full_name"`
	Phone     string       `json:"phone"`
	Email     string       `json:"email,omitempty"`
	Company   string       `json:"company,omitempty"`
	IDType    IDType       `json:"id_type"`
	IDNumber  string       `json:"id_number"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewVisitor validates the required identity fields and constructs the
// record. Validation happens here, once, at the lifecycle-engine boundary;
// the presentation layer does not get a vote.
func NewVisitor(visitorID id.VisitorID, fullName, phone, email, company string, idType IDType, idNumber string, now time.Time) (*Visitor, error) {
	fullName = strings.TrimSpace(fullName)
	phone = strings.TrimSpace(phone)
	idNumber = strings.TrimSpace(idNumber)

	if fullName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "visitor full name is required")
	}
	if phone == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "visitor phone is required")
	}
	if !idType.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown identification type %q", idType)
	}
	if idNumber == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "identification number is required")
	}

	return &Visitor{
		ID:        visitorID,
		FullName:  fullName,
		Phone:     phone,
		Email:     strings.TrimSpace(email),
		Company:   strings.TrimSpace(company),
		IDType:    idType,
		IDNumber:  idNumber,
		CreatedAt: now,
	}, nil
}
