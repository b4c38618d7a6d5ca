package domain

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

type Customer struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address string
}

type CustomerDraft struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

func (d CustomerDraft) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(d.Name) == "" {
		fields["name"] = "name is required"
	}
	switch email := strings.TrimSpace(d.Email); {
	case email == "":
		fields["email"] = "email is required"
	case !emailPattern.MatchString(email):
		fields["email"] = "email format is invalid"
	}
	if strings.TrimSpace(d.Phone) == "" {
		fields["phone"] = "phone is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
