package ledger

import (
	"fmt"
	"regexp"
)

var accountName = regexp.MustCompile(`^(Assets|Liabilities|Equity|Income|Expenses)(:[A-Z0-9][A-Za-z0-9-]*)+$`)

// Mapping maps record accounts and sources to Beancount account names.
// Unmapped names fall back to Assets:<account> and Expenses:<source> or
// Income:<source>.
type Mapping struct {
	Accounts map[string]string `yaml:"accounts"`
	Sources  map[string]string `yaml:"sources"`
}

// Validate checks that every target is a valid Beancount account name.
func (m Mapping) Validate() error {
	for kind, entries := range map[string]map[string]string{"accounts": m.Accounts, "sources": m.Sources} {
		for from, to := range entries {
			if !accountName.MatchString(to) {
				return fmt.Errorf("ledger %s: %q maps to invalid account %q", kind, from, to)
			}
		}
	}
	return nil
}

// GetAccount returns the Beancount account for a record account.
func (m Mapping) GetAccount(name string) (string, bool) {
	acc, ok := m.Accounts[name]
	return acc, ok
}

// GetSourceAccount returns the Beancount counter account for a source.
func (m Mapping) GetSourceAccount(source string) (string, bool) {
	acc, ok := m.Sources[source]
	return acc, ok
}
