package processor

import (
	"sort"
	"strings"

	"github.com/bcaldwell/statementimporter/pkg/banks/idfc"
	"github.com/bcaldwell/statementimporter/pkg/classifier"
	"github.com/bcaldwell/statementimporter/pkg/extractor"
)

// Bank is everything needed to read and classify one bank's statements.
type Bank struct {
	Name   string
	Layout extractor.Layout
	Rules  classifier.RuleSet
}

// Registry holds the supported banks by name.
type Registry struct {
	banks map[string]Bank
}

func NewRegistry() *Registry {
	return &Registry{banks: make(map[string]Bank)}
}

// Register adds a bank. Panics on a duplicate name.
func (r *Registry) Register(bank Bank) {
	key := strings.ToLower(bank.Name)
	if _, ok := r.banks[key]; ok {
		panic("duplicate bank: " + key)
	}
	r.banks[key] = bank
}

// Get looks a bank up by name, ignoring case.
func (r *Registry) Get(name string) (Bank, bool) {
	bank, ok := r.banks[strings.ToLower(strings.TrimSpace(name))]
	return bank, ok
}

// Names lists the registered bank names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.banks))
	for _, bank := range r.banks {
		names = append(names, bank.Name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with every built in bank.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Bank{Name: idfc.Name, Layout: idfc.Layout{}, Rules: idfc.Rules()})
	return r
}
