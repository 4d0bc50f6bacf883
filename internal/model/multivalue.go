package model

import "fmt"

// PropertyCode classifies a multi-value row.
type PropertyCode int64

const (
	PropertyPhone         PropertyCode = 3
	PropertyEmail         PropertyCode = 4
	PropertyAddress       PropertyCode = 5
	PropertyAnniversary   PropertyCode = 12
	PropertyIM            PropertyCode = 13
	PropertyURL           PropertyCode = 22
	PropertyRelated       PropertyCode = 23
	PropertySocialProfile PropertyCode = 46
)

var propertyNames = map[PropertyCode]string{
	PropertyPhone:         "phone",
	PropertyEmail:         "email",
	PropertyAddress:       "address",
	PropertyAnniversary:   "anniversary",
	PropertyIM:            "im",
	PropertyURL:           "url",
	PropertyRelated:       "related",
	PropertySocialProfile: "social-profile",
}

func (p PropertyCode) String() string {
	if name, ok := propertyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("property(%d)", int64(p))
}

// Part is one resolved sub-field of a multi-part entry.
type Part struct {
	Key   string
	Value string
}

// MultiValueEntry is a multi-value row after label and key resolution.
// Scalar kinds use Value; addresses and IM handles use Index and Parts.
type MultiValueEntry struct {
	Property PropertyCode
	Label    string
	Value    string
	Index    int64
	Parts    []Part
}
