// Package persona defines the conversational identities served by the HTTP
// persona endpoint: Grace, the elderly companion, and Alex, the family care
// coordinator. Each persona carries a system prompt for LLM-backed chat and a
// keyword-matched fallback table used when no LLM is configured.
package persona

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FallbackRule maps trigger keywords in the user's last message to a canned
// reply. Rules are evaluated in order; the first rule with a matching keyword
// wins.
type FallbackRule struct {
	Keywords []string `yaml:"keywords"`
	Reply    string   `yaml:"reply"`
}

// Persona is a named conversational identity.
type Persona struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	Role         string         `yaml:"role"`
	Description  string         `yaml:"description"`
	Capabilities []string       `yaml:"capabilities"`
	SystemPrompt string         `yaml:"system_prompt"`
	Fallbacks    []FallbackRule `yaml:"fallbacks"`
	DefaultReply string         `yaml:"default_reply"`
}

// LocalReply answers message from the fallback table, used when the persona
// has no LLM behind it.
func (p *Persona) LocalReply(message string) string {
	lowered := strings.ToLower(message)
	for _, rule := range p.Fallbacks {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, keyword) {
				return rule.Reply
			}
		}
	}
	return p.DefaultReply
}

// Registry holds the known personas keyed by ID.
type Registry struct {
	personas map[string]*Persona
	order    []string
}

// NewRegistry returns a registry seeded with the built-in Grace and Alex
// personas.
func NewRegistry() *Registry {
	r := &Registry{personas: map[string]*Persona{}}
	r.add(grace())
	r.add(alex())
	return r
}

func (r *Registry) add(p *Persona) {
	if _, exists := r.personas[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.personas[p.ID] = p
}

// Get returns the persona with the given ID.
func (r *Registry) Get(id string) (*Persona, error) {
	p, ok := r.personas[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("unknown persona: %s", id)
	}
	return p, nil
}

// List returns all personas in registration order.
func (r *Registry) List() []*Persona {
	out := make([]*Persona, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.personas[id])
	}
	return out
}

// LoadFile overlays personas from a YAML file onto the registry. Entries with
// an existing ID replace the built-in definition.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read persona file: %w", err)
	}
	var doc struct {
		Personas []*Persona `yaml:"personas"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse persona file %s: %w", path, err)
	}
	for _, p := range doc.Personas {
		if p.ID == "" {
			return fmt.Errorf("persona file %s: entry without id", path)
		}
		p.ID = strings.ToLower(p.ID)
		r.add(p)
	}
	return nil
}
