package rhttp

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Reverser keeps track of named path templates and allows building URLs from
// parameter values. The router feeds it the templates of named routes.
type Reverser struct {
	pats map[string]*pattern
}

// NewReverser inits the reverser.
func NewReverser() *Reverser {
	return &Reverser{make(map[string]*pattern)}
}

// Reverse builds the url for the named template from parameter values.
func (r *Reverser) Reverse(name string, params map[string]string) (string, error) {
	pat, ok := r.pats[name]
	if !ok {
		return "", errors.Newf("no template named: %q, got: %v", name, lo.Keys(r.pats))
	}

	res, err := pat.Build(params)
	if err != nil {
		return "", errors.Wrap(err, "failed to build")
	}

	return res, nil
}

// Named is a convenience method that panics if naming the template fails.
func (r *Reverser) Named(name, template string) string {
	if err := r.NamedTemplate(name, template); err != nil {
		panic("rhttp: " + err.Error())
	}

	return template
}

// NamedTemplate parses and registers 'template' under the given name.
func (r *Reverser) NamedTemplate(name, template string) error {
	pat, err := compilePattern(template)
	if err != nil {
		return errors.Wrap(err, "failed to parse template")
	}

	return r.addCompiled(name, pat)
}

func (r *Reverser) addCompiled(name string, pat *pattern) error {
	if _, exists := r.pats[name]; exists {
		return errors.Newf("template with name %q already exists", name)
	}

	r.pats[name] = pat

	return nil
}
