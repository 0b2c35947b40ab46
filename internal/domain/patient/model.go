package patient

import (
	"strings"
)

// Patient is a single record of the registry. BMI and Verdict are derived from
// Height and Weight and are never taken from client input.
type Patient struct {
	ID      string  `db:"id" json:"id"`
	Name    string  `db:"name" json:"name"`
	City    string  `db:"city" json:"city"`
	Age     int     `db:"age" json:"age"`
	Gender  Gender  `db:"gender" json:"gender"`
	Height  float64 `db:"height" json:"height"`
	Weight  float64 `db:"weight" json:"weight"`
	BMI     float64 `db:"bmi" json:"bmi"`
	Verdict Verdict `db:"verdict" json:"verdict"`
}

// Derive recomputes BMI and Verdict from the current height and weight.
func (p *Patient) Derive() error {
	bmi, verdict, err := ComputeBMI(p.Height, p.Weight)
	if err != nil {
		return err
	}
	p.BMI = bmi
	p.Verdict = verdict
	return nil
}

// Validate checks every user-supplied field of a complete record.
func (p *Patient) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return &ValidationError{Field: "id", Message: "must not be empty"}
	}
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if strings.TrimSpace(p.City) == "" {
		return &ValidationError{Field: "city", Message: "must not be empty"}
	}
	if err := validateAge(p.Age); err != nil {
		return err
	}
	if !p.Gender.Valid() {
		return &ValidationError{Field: "gender", Message: "must be one of male, female, other"}
	}
	if err := validatePositive("height", p.Height); err != nil {
		return err
	}
	return validatePositive("weight", p.Weight)
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ParseGender accepts any letter case and returns the canonical lower-case value.
func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", &ValidationError{Field: "gender", Message: "must be one of male, female, other"}
	}
	return g, nil
}

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// CreatePatientRequest is the body accepted by POST /patients. Pointer fields
// distinguish a missing value from a zero value.
type CreatePatientRequest struct {
	ID     string   `json:"id"`
	Name   *string  `json:"name"`
	City   *string  `json:"city"`
	Age    *int     `json:"age"`
	Gender *string  `json:"gender"`
	Height *float64 `json:"height"`
	Weight *float64 `json:"weight"`
}

// ToPatient validates the request and builds the record it describes. The id
// is left empty when the caller did not supply one.
func (r *CreatePatientRequest) ToPatient() (Patient, error) {
	switch {
	case r.Name == nil:
		return Patient{}, missing("name")
	case r.City == nil:
		return Patient{}, missing("city")
	case r.Age == nil:
		return Patient{}, missing("age")
	case r.Gender == nil:
		return Patient{}, missing("gender")
	case r.Height == nil:
		return Patient{}, missing("height")
	case r.Weight == nil:
		return Patient{}, missing("weight")
	}

	gender, err := ParseGender(*r.Gender)
	if err != nil {
		return Patient{}, err
	}
	p := Patient{
		ID:     strings.TrimSpace(r.ID),
		Name:   strings.TrimSpace(*r.Name),
		City:   strings.TrimSpace(*r.City),
		Age:    *r.Age,
		Gender: gender,
		Height: *r.Height,
		Weight: *r.Weight,
	}

	// The id is checked by the store once it has been generated or accepted.
	check := p
	if check.ID == "" {
		check.ID = "pending"
	}
	if err := check.Validate(); err != nil {
		return Patient{}, err
	}
	return p, nil
}

// Update holds the fields of a partial update. Nil fields are left unchanged.
type Update struct {
	Name   *string  `json:"name"`
	City   *string  `json:"city"`
	Age    *int     `json:"age"`
	Gender *string  `json:"gender"`
	Height *float64 `json:"height"`
	Weight *float64 `json:"weight"`
}

// Validate checks only the fields that are present.
func (u *Update) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if u.City != nil && strings.TrimSpace(*u.City) == "" {
		return &ValidationError{Field: "city", Message: "must not be empty"}
	}
	if u.Age != nil {
		if err := validateAge(*u.Age); err != nil {
			return err
		}
	}
	if u.Gender != nil {
		if _, err := ParseGender(*u.Gender); err != nil {
			return err
		}
	}
	if u.Height != nil {
		if err := validatePositive("height", *u.Height); err != nil {
			return err
		}
	}
	if u.Weight != nil {
		if err := validatePositive("weight", *u.Weight); err != nil {
			return err
		}
	}
	return nil
}

// Apply copies the present fields onto p. It does not recompute derived fields.
func (u *Update) Apply(p *Patient) error {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.City != nil {
		p.City = strings.TrimSpace(*u.City)
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if u.Gender != nil {
		g, err := ParseGender(*u.Gender)
		if err != nil {
			return err
		}
		p.Gender = g
	}
	if u.Height != nil {
		p.Height = *u.Height
	}
	if u.Weight != nil {
		p.Weight = *u.Weight
	}
	return nil
}

const maxAge = 150

func validateAge(age int) error {
	if age <= 0 || age >= maxAge {
		return &ValidationError{Field: "age", Message: "must be greater than 0 and less than 150"}
	}
	return nil
}

func validatePositive(field string, v float64) error {
	// NaN fails the comparison as well.
	if !(v > 0) {
		return &ValidationError{Field: field, Message: "must be greater than 0"}
	}
	return nil
}

func missing(field string) error {
	return &ValidationError{Field: field, Message: "is required"}
}
