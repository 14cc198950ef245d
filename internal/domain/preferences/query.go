package preferences

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/rarepour/internal/domain/model"
)

// Query parameter names accepted by ParseQuery.
const (
	ParamHouse        = "house"
	ParamSize         = "size"
	ParamOlderThan    = "older_than_year"
	ParamExclude      = "exclude"
	ParamAttendedMC   = "attended_mc_id"
	ParamIgnoreTasted = "ignore_tasted"
)

// Size choices that expand to every large format.
const (
	sizeAny   = "any"
	sizeLarge = "large"
)

// ParseQuery builds an Override from request parameters. Attended class
// ids are resolved against classes: each adds its slot to the booked
// intervals and its wines to the tasted list.
func ParseQuery(values url.Values, classes []model.MasterClass) (Override, error) {
	var o Override

	if houses := nonEmpty(values[ParamHouse]); len(houses) > 0 {
		o.Houses = houses
	}

	sizes, err := parseSize(values.Get(ParamSize))
	if err != nil {
		return Override{}, err
	}
	o.Sizes = sizes

	if raw := strings.TrimSpace(values.Get(ParamOlderThan)); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year <= 0 {
			return Override{}, fmt.Errorf("%w: %s must be a year, got %q", ErrInvalidPreference, ParamOlderThan, raw)
		}
		o.OlderThanYear = &year
	}

	o.ExcludedWines = nonEmpty(values[ParamExclude])

	if ids := nonEmpty(values[ParamAttendedMC]); len(ids) > 0 {
		byID := make(map[string]model.MasterClass, len(classes))
		for _, mc := range classes {
			byID[mc.ID] = mc
		}
		for _, id := range ids {
			mc, ok := byID[id]
			if !ok {
				return Override{}, fmt.Errorf("%w: unknown master class %q", ErrInvalidPreference, id)
			}
			o.AttendedSlots = append(o.AttendedSlots, mc.Slot())
			o.TastedWines = append(o.TastedWines, mc.Wines...)
		}
	}

	if raw := strings.TrimSpace(values.Get(ParamIgnoreTasted)); raw != "" {
		ignore, err := strconv.ParseBool(raw)
		if err != nil {
			return Override{}, fmt.Errorf("%w: %s must be a boolean, got %q", ErrInvalidPreference, ParamIgnoreTasted, raw)
		}
		o.IgnoreTasted = ignore
	}

	return o, nil
}

// parseSize maps the size parameter. "magnum" and "large" stand for any
// large format; "any" or nothing leaves the base sizes alone.
func parseSize(raw string) ([]model.Size, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "", sizeAny:
		return nil, nil
	case sizeLarge, string(model.SizeMagnum):
		return model.LargeFormats(), nil
	}
	size, ok := model.ParseSize(raw)
	if !ok {
		return nil, fmt.Errorf("%w: unknown size %q", ErrInvalidPreference, raw)
	}
	return []model.Size{size}, nil
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
