package patient

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

type SortField string

const (
	SortByHeight SortField = "height"
	SortByWeight SortField = "weight"
	SortByBMI    SortField = "bmi"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case SortByHeight, SortByWeight, SortByBMI:
		return f, nil
	}
	return "", fmt.Errorf("%w: sort_by must be one of height, weight, bmi", ErrInvalidArgument)
}

// ParseSortOrder defaults to ascending when s is empty.
func ParseSortOrder(s string) (SortOrder, error) {
	o := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch o {
	case "":
		return OrderAsc, nil
	case OrderAsc, OrderDesc:
		return o, nil
	}
	return "", fmt.Errorf("%w: order must be asc or desc", ErrInvalidArgument)
}

// Sort returns a stably ordered copy of records. Records with equal keys keep
// their relative order in both directions.
func Sort(records []Patient, field SortField, order SortOrder) ([]Patient, error) {
	var key func(Patient) float64
	switch field {
	case SortByHeight:
		key = func(p Patient) float64 { return p.Height }
	case SortByWeight:
		key = func(p Patient) float64 { return p.Weight }
	case SortByBMI:
		key = func(p Patient) float64 { return p.BMI }
	default:
		return nil, fmt.Errorf("%w: unknown sort field %q", ErrInvalidArgument, field)
	}
	if order != OrderAsc && order != OrderDesc {
		return nil, fmt.Errorf("%w: unknown sort order %q", ErrInvalidArgument, order)
	}

	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b Patient) int {
		if order == OrderDesc {
			return cmp.Compare(key(b), key(a))
		}
		return cmp.Compare(key(a), key(b))
	})
	return out, nil
}
