package matcher

import (
	"errors"
	"fmt"
	"time"

	"github.com/affanshahid/finny/pkg/extract"
)

// FieldDefinition is the configuration form of one field. Exactly one of
// Fixed or Group must be set. Layout, Suffix and Timezone only apply to the
// time field.
type FieldDefinition struct {
	Fixed    *string `yaml:"fixed,omitempty"`
	Group    string  `yaml:"group,omitempty"`
	Layout   string  `yaml:"layout,omitempty"`
	Suffix   string  `yaml:"suffix,omitempty"`
	Timezone string  `yaml:"timezone,omitempty"`
}

// FieldDefinitions lists the field plans of a matcher.
type FieldDefinitions struct {
	Nature   FieldDefinition `yaml:"nature"`
	Account  FieldDefinition `yaml:"account"`
	Amount   FieldDefinition `yaml:"amount"`
	Currency FieldDefinition `yaml:"currency"`
	Source   FieldDefinition `yaml:"source"`
	Time     FieldDefinition `yaml:"time"`
}

// Definition is the configuration form of a Matcher.
type Definition struct {
	ID      string           `yaml:"id"`
	Pattern string           `yaml:"pattern"`
	Fields  FieldDefinitions `yaml:"fields"`
}

// Build turns a definition into a Matcher. Times without an explicit zone
// are read in loc.
func Build(def Definition, loc *time.Location) (*Matcher, error) {
	var (
		fields Fields
		err    error
	)
	fail := func(field string, err error) (*Matcher, error) {
		return nil, &ConfigError{MatcherID: def.ID, Field: field, Reason: err}
	}

	if fields.Nature, err = value(def.Fields.Nature, extract.Nature()); err != nil {
		return fail("nature", err)
	}
	if fields.Account, err = value(def.Fields.Account, extract.String()); err != nil {
		return fail("account", err)
	}
	if fields.Amount, err = value(def.Fields.Amount, extract.String()); err != nil {
		return fail("amount", err)
	}
	if def.Fields.Amount.Fixed != nil {
		if _, err := parseAmount(*def.Fields.Amount.Fixed, "XXX"); err != nil {
			return fail("amount", err)
		}
	}
	if fields.Currency, err = value(def.Fields.Currency, extract.Currency()); err != nil {
		return fail("currency", err)
	}
	if fields.Source, err = value(def.Fields.Source, extract.String()); err != nil {
		return fail("source", err)
	}
	if fields.Time, err = timeValue(def.Fields.Time, loc); err != nil {
		return fail("time", err)
	}

	return New(def.ID, def.Pattern, fields)
}

// BuildRegistry builds every definition, in order.
func BuildRegistry(defs []Definition, loc *time.Location) (*Registry, error) {
	matchers := make([]*Matcher, 0, len(defs))
	for _, def := range defs {
		m, err := Build(def, loc)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return NewRegistry(matchers...)
}

func value[T any](def FieldDefinition, p extract.Parser[T]) (extract.Value[T], error) {
	switch {
	case def.Fixed != nil && def.Group != "":
		return extract.Value[T]{}, errors.New("both fixed and group set")
	case def.Fixed != nil:
		v, err := p.Parse(*def.Fixed)
		if err != nil {
			return extract.Value[T]{}, err
		}
		return extract.Fixed(v), nil
	case def.Group != "":
		return extract.FromMatch(def.Group, p), nil
	default:
		return extract.Value[T]{}, errors.New("neither fixed nor group set")
	}
}

func timeValue(def FieldDefinition, loc *time.Location) (extract.Value[time.Time], error) {
	if def.Timezone != "" {
		l, err := time.LoadLocation(def.Timezone)
		if err != nil {
			return extract.Value[time.Time]{}, fmt.Errorf("timezone: %w", err)
		}
		loc = l
	}
	if def.Fixed != nil {
		layout := def.Layout
		if layout == "" {
			layout = time.RFC3339
		}
		return value(def, extract.DateTime(layout, loc))
	}
	if def.Layout == "" {
		return extract.Value[time.Time]{}, errors.New("layout required")
	}
	if def.Suffix != "" {
		return value(def, extract.DateTimeWithSuffix(def.Layout, def.Suffix, loc))
	}
	return value(def, extract.DateTime(def.Layout, loc))
}
