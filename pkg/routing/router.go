// Package routing classifies a question into a data domain using weighted
// keyword matching over static vocabularies. Classification is a pure
// function of the question text and the loaded dataset names.
package routing

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var profilesYAML []byte

// datasetHintWeight is the extra score a dataset-name mention contributes
// on top of plain keyword matches.
const datasetHintWeight = 2

// Profile is one domain ruleset: its vocabulary, the dataset-name hints
// that bias classification toward it, and the datasets that must be loaded
// for the domain to be answerable.
type Profile struct {
	Name             string   `yaml:"name"`
	Keywords         []string `yaml:"keywords"`
	DatasetHints     []string `yaml:"dataset_hints"`
	RequiredDatasets []string `yaml:"required_datasets"`
}

type profileFile struct {
	Default  string    `yaml:"default"`
	Profiles []Profile `yaml:"profiles"`
}

// Result is the outcome of classifying one question.
type Result struct {
	Domain     string
	Confidence float64
	Scores     map[string]int
}

// MismatchError reports that neither the detected domain nor any fallback
// has its required datasets loaded.
type MismatchError struct {
	Domain          string
	MissingDatasets []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("data for the %s domain is not loaded (expected one of: %s); upload it before asking this question",
		e.Domain, strings.Join(e.MissingDatasets, ", "))
}

// Router classifies questions against the embedded domain profiles.
// Profiles are immutable after construction.
type Router struct {
	defaultDomain string
	profiles      []Profile
}

// NewRouter loads the embedded domain profiles.
func NewRouter() (*Router, error) {
	var file profileFile
	if err := yaml.Unmarshal(profilesYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse domain profiles: %w", err)
	}
	if file.Default == "" || len(file.Profiles) < 2 {
		return nil, fmt.Errorf("domain profiles incomplete")
	}
	found := false
	for _, p := range file.Profiles {
		if p.Name == file.Default {
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("default domain %q has no profile", file.Default)
	}
	return &Router{defaultDomain: file.Default, profiles: file.Profiles}, nil
}

// Profiles returns the loaded profiles in declaration order.
func (r *Router) Profiles() []Profile { return r.profiles }

// DefaultDomain returns the domain used when classification has no signal.
func (r *Router) DefaultDomain() string { return r.defaultDomain }

// Classify scores the question against every profile's vocabulary, adding
// extra weight for dataset-name mentions, and returns the winning domain
// with a confidence ratio. Ties and zero scores fall back to the default
// domain with confidence 0.5.
func (r *Router) Classify(question string) Result {
	q := strings.ToLower(question)

	scores := make(map[string]int, len(r.profiles))
	total := 0
	for _, p := range r.profiles {
		score := 0
		for _, kw := range p.Keywords {
			score += strings.Count(q, strings.ToLower(kw))
		}
		for _, hint := range p.DatasetHints {
			if strings.Contains(q, strings.ToLower(hint)) {
				score += datasetHintWeight
			}
		}
		scores[p.Name] = score
		total += score
	}

	winner := r.defaultDomain
	best := scores[r.defaultDomain]
	for _, p := range r.profiles {
		if scores[p.Name] > best {
			winner = p.Name
			best = scores[p.Name]
		}
	}

	if total == 0 || best == 0 {
		return Result{Domain: r.defaultDomain, Confidence: 0.5, Scores: scores}
	}
	return Result{
		Domain:     winner,
		Confidence: float64(best) / float64(total),
		Scores:     scores,
	}
}

// DatasetDomain assigns a data domain to a dataset by its name, using the
// profiles' dataset-name hints. Unhinted names go to the default domain.
func (r *Router) DatasetDomain(name string) string {
	n := strings.ToLower(name)
	for _, p := range r.profiles {
		for _, hint := range p.DatasetHints {
			if strings.Contains(n, strings.ToLower(hint)) {
				return p.Name
			}
		}
	}
	return r.defaultDomain
}

// Reconcile checks the detected domain against the loaded dataset names.
// If the detected domain's required datasets are not loaded it falls back
// to the first satisfiable profile; when no profile is satisfiable it
// returns a MismatchError naming the detected domain's missing datasets.
func (r *Router) Reconcile(detected string, loadedDatasets []string) (string, error) {
	loaded := make(map[string]bool, len(loadedDatasets))
	for _, name := range loadedDatasets {
		loaded[strings.ToLower(name)] = true
	}

	if r.satisfiable(detected, loaded) {
		return detected, nil
	}
	for _, p := range r.profiles {
		if p.Name != detected && r.satisfiable(p.Name, loaded) {
			return p.Name, nil
		}
	}

	var missing []string
	for _, p := range r.profiles {
		if p.Name == detected {
			missing = p.RequiredDatasets
		}
	}
	return "", &MismatchError{Domain: detected, MissingDatasets: missing}
}

func (r *Router) satisfiable(domain string, loaded map[string]bool) bool {
	for _, p := range r.profiles {
		if p.Name != domain {
			continue
		}
		for _, required := range p.RequiredDatasets {
			for name := range loaded {
				if strings.Contains(name, required) {
					return true
				}
			}
		}
	}
	return false
}
