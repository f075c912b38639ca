package order

import (
	"regexp"
	"sort"
	"strings"
)

// CheckoutForm holds the user-entered contact and delivery fields.
type CheckoutForm struct {
	CustomerName   string
	Phone          string
	Email          string
	Address        string
	DeliveryMethod DeliveryMethod
	Notes          string
}

// FieldErrors maps a form field name to its validation message. It is a
// normal validation result surfaced per-field, not an exception path.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid checkout form: " + strings.Join(fields, ", ")
}

var (
	phonePattern = regexp.MustCompile(`^[\d\-\s\+\(\)]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Validate checks the form and returns one message per invalid field, or an
// empty map when the form is acceptable. The address is only required for
// home delivery.
func (f CheckoutForm) Validate() FieldErrors {
	errs := make(FieldErrors)

	if strings.TrimSpace(f.CustomerName) == "" {
		errs["customerName"] = "name is required"
	}

	switch {
	case strings.TrimSpace(f.Phone) == "":
		errs["phone"] = "phone number is required"
	case !phonePattern.MatchString(f.Phone):
		errs["phone"] = "phone number is invalid"
	}

	switch {
	case strings.TrimSpace(f.Email) == "":
		errs["email"] = "email is required"
	case !emailPattern.MatchString(f.Email):
		errs["email"] = "email format is invalid"
	}

	switch f.DeliveryMethod {
	case DeliveryHome:
		if strings.TrimSpace(f.Address) == "" {
			errs["address"] = "delivery address is required"
		}
	case DeliveryPickup:
	default:
		errs["deliveryMethod"] = "unknown delivery method"
	}

	return errs
}
