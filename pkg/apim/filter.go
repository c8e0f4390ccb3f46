package apim

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// DetailErrorMode selects what a pipeline does when the enrichment fetch for
// an item fails.
type DetailErrorMode int

const (
	// DetailErrorFail aborts the listing on the first failing detail fetch.
	DetailErrorFail DetailErrorMode = iota
	// DetailErrorSkip treats an unreachable detail as a non-match and moves
	// on. Opt-in degradation for bulk scans over flaky environments.
	DetailErrorSkip
)

// DetailFetcher retrieves the full export of an API for deep filtering.
type DetailFetcher func(ctx context.Context, api Api) (*ApiExport, error)

// ApiFilter narrows an API listing. Every field is optional; an absent field
// always passes, so the zero value matches everything. Supplied fields
// combine conjunctively.
//
// Name, ContextPath, PrimaryOwner and the nested-collection fields are
// case-insensitive regular expressions. The nested-collection fields
// (endpoint groups, endpoints, plans, policies) pass when at least one
// element matches; they require the export payload and trigger one detail
// fetch per candidate, shared by every deep field of the same filter.
type ApiFilter struct {
	// ID matches exactly.
	ID string
	// Name matches the API name.
	Name string
	// ContextPath matches the gateway context path.
	ContextPath string
	// PrimaryOwner matches the owner's display name.
	PrimaryOwner string
	// States passes when the API state is one of the listed values.
	States []string

	// EndpointGroupName matches any endpoint group name.
	EndpointGroupName string
	// EndpointName matches any endpoint name in any group.
	EndpointName string
	// EndpointTarget matches any endpoint target URL.
	EndpointTarget string
	// PlanName matches any plan name.
	PlanName string
	// PlanSecurity matches any plan security type.
	PlanSecurity string
	// PolicyName matches the technical name of any policy step, in API-level
	// and plan-level flows alike.
	PolicyName string
	// PolicyContent is a gjson path evaluated against each policy step's
	// configuration; the filter passes when any step yields a match.
	PolicyContent string
	// Query is a gjson path evaluated against the complete raw export;
	// the filter passes when the query yields at least one match.
	Query string
}

// FilterOption adjusts pipeline behavior.
type FilterOption func(*ApiPipeline)

// OnDetailError sets how the pipeline reacts to a failing detail fetch.
func OnDetailError(mode DetailErrorMode) FilterOption {
	return func(p *ApiPipeline) {
		p.mode = mode
	}
}

type cheapPredicate func(api Api) bool

type deepPredicate func(export *ApiExport) bool

// ApiPipeline is a compiled ApiFilter ready to run against an item stream.
// Compilation front-loads every input validation so a traversal never fails
// halfway through on a malformed expression.
type ApiPipeline struct {
	fetch DetailFetcher
	cheap []cheapPredicate
	deep  []deepPredicate
	mode  DetailErrorMode
}

// Build compiles the filter. Malformed regular expressions and structural
// queries are rejected here with a ValidationError naming the offending
// field; fetch may be nil when no deep field is set.
func (f *ApiFilter) Build(fetch DetailFetcher, opts ...FilterOption) (*ApiPipeline, error) {
	p := &ApiPipeline{fetch: fetch, mode: DetailErrorFail}

	if f.ID != "" {
		id := f.ID
		p.cheap = append(p.cheap, func(api Api) bool { return api.ID == id })
	}

	if err := p.addCheapRegexp("name", f.Name, func(api Api) string { return api.Name }); err != nil {
		return nil, err
	}

	if err := p.addCheapRegexp("context-path", f.ContextPath, func(api Api) string { return api.ContextPath }); err != nil {
		return nil, err
	}

	if err := p.addCheapRegexp("primary-owner", f.PrimaryOwner, func(api Api) string {
		if api.Owner == nil {
			return ""
		}

		return api.Owner.DisplayName
	}); err != nil {
		return nil, err
	}

	if len(f.States) > 0 {
		states := make(map[string]struct{}, len(f.States))
		for _, s := range f.States {
			states[strings.ToUpper(s)] = struct{}{}
		}

		p.cheap = append(p.cheap, func(api Api) bool {
			_, ok := states[strings.ToUpper(api.State)]

			return ok
		})
	}

	if err := p.addDeepRegexp("endpoint-group-name", f.EndpointGroupName, eachGroupName); err != nil {
		return nil, err
	}

	if err := p.addDeepRegexp("endpoint-name", f.EndpointName, eachEndpoint(func(e Endpoint) string { return e.Name })); err != nil {
		return nil, err
	}

	if err := p.addDeepRegexp("endpoint-target", f.EndpointTarget, eachEndpoint(func(e Endpoint) string { return e.Target })); err != nil {
		return nil, err
	}

	if err := p.addDeepRegexp("plan-name", f.PlanName, eachPlan(func(pl Plan) string { return pl.Name })); err != nil {
		return nil, err
	}

	if err := p.addDeepRegexp("plan-security", f.PlanSecurity, eachPlan(func(pl Plan) string { return pl.Security })); err != nil {
		return nil, err
	}

	if err := p.addDeepRegexp("policy-name", f.PolicyName, eachPolicy(func(s PolicyStep) string { return s.Policy })); err != nil {
		return nil, err
	}

	if f.PolicyContent != "" {
		if err := validateQuery("policy-content", f.PolicyContent); err != nil {
			return nil, err
		}

		query := f.PolicyContent
		p.deep = append(p.deep, func(export *ApiExport) bool {
			matched := false
			eachPolicyStep(&export.Detail, func(s PolicyStep) {
				if !matched && len(s.Configuration) > 0 && gjson.GetBytes(s.Configuration, query).Exists() {
					matched = true
				}
			})

			return matched
		})
	}

	if f.Query != "" {
		if err := validateQuery("query", f.Query); err != nil {
			return nil, err
		}

		query := f.Query
		p.deep = append(p.deep, func(export *ApiExport) bool {
			return gjson.GetBytes(export.Raw, query).Exists()
		})
	}

	if len(p.deep) > 0 && p.fetch == nil {
		return nil, &ValidationError{Detail: "deep filters require a detail fetcher"}
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// NeedsDetail reports whether running the pipeline will fetch exports.
func (p *ApiPipeline) NeedsDetail() bool {
	return len(p.deep) > 0
}

// Run filters the item stream. Cheap predicates run first and discard
// non-matching items without any network call; surviving items are enriched
// at most once, the export shared by every deep predicate. Output order
// follows input order, deduplicated by API ID.
func (p *ApiPipeline) Run(ctx context.Context, items *ItemIterator[Api]) *ItemIterator[EnrichedApi] {
	seen := make(map[string]struct{})

	return NewItemIterator(func() (EnrichedApi, error) {
		var zero EnrichedApi

		for {
			api, err := items.Next()
			if err != nil {
				return zero, err
			}

			if _, dup := seen[api.ID]; dup {
				continue
			}

			seen[api.ID] = struct{}{}

			if !p.matchCheap(api) {
				continue
			}

			enriched := EnrichedApi{Api: api}

			if len(p.deep) > 0 {
				export, err := p.fetch(ctx, api)
				if err != nil {
					if p.mode == DetailErrorSkip {
						continue
					}

					return zero, fmt.Errorf("fetching detail for API %s: %w", api.ID, err)
				}

				enriched.Export = export

				if !p.matchDeep(export) {
					continue
				}
			}

			return enriched, nil
		}
	})
}

func (p *ApiPipeline) matchCheap(api Api) bool {
	for _, pred := range p.cheap {
		if !pred(api) {
			return false
		}
	}

	return true
}

func (p *ApiPipeline) matchDeep(export *ApiExport) bool {
	for _, pred := range p.deep {
		if !pred(export) {
			return false
		}
	}

	return true
}

func (p *ApiPipeline) addCheapRegexp(name, expr string, field func(Api) string) error {
	if expr == "" {
		return nil
	}

	re, err := compileInsensitive(name, expr)
	if err != nil {
		return err
	}

	p.cheap = append(p.cheap, func(api Api) bool { return re.MatchString(field(api)) })

	return nil
}

func (p *ApiPipeline) addDeepRegexp(name, expr string, values func(*ApiDetail, func(string))) error {
	if expr == "" {
		return nil
	}

	re, err := compileInsensitive(name, expr)
	if err != nil {
		return err
	}

	p.deep = append(p.deep, func(export *ApiExport) bool {
		matched := false
		values(&export.Detail, func(v string) {
			if !matched && re.MatchString(v) {
				matched = true
			}
		})

		return matched
	})

	return nil
}

func compileInsensitive(name, expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, &ValidationError{Filter: name, Detail: err.Error()}
	}

	return re, nil
}

// validateQuery rejects structurally broken gjson paths up front. gjson
// itself never errors on a path, so only bracket balance can be checked
// before evaluation.
func validateQuery(name, query string) error {
	if strings.TrimSpace(query) == "" {
		return &ValidationError{Filter: name, Detail: "empty query"}
	}

	depth := 0

	for _, r := range query {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}

		if depth < 0 {
			return &ValidationError{Filter: name, Detail: "unbalanced brackets in query"}
		}
	}

	if depth != 0 {
		return &ValidationError{Filter: name, Detail: "unbalanced brackets in query"}
	}

	return nil
}

func eachGroupName(detail *ApiDetail, yield func(string)) {
	for _, g := range detail.Proxy.Groups {
		yield(g.Name)
	}
}

func eachEndpoint(field func(Endpoint) string) func(*ApiDetail, func(string)) {
	return func(detail *ApiDetail, yield func(string)) {
		for _, g := range detail.Proxy.Groups {
			for _, e := range g.Endpoints {
				yield(field(e))
			}
		}
	}
}

func eachPlan(field func(Plan) string) func(*ApiDetail, func(string)) {
	return func(detail *ApiDetail, yield func(string)) {
		for _, pl := range detail.Plans {
			yield(field(pl))
		}
	}
}

func eachPolicy(field func(PolicyStep) string) func(*ApiDetail, func(string)) {
	return func(detail *ApiDetail, yield func(string)) {
		eachPolicyStep(detail, func(s PolicyStep) {
			yield(field(s))
		})
	}
}

func eachPolicyStep(detail *ApiDetail, yield func(PolicyStep)) {
	visit := func(flows []Flow) {
		for _, f := range flows {
			for _, s := range f.Pre {
				yield(s)
			}

			for _, s := range f.Post {
				yield(s)
			}
		}
	}

	visit(detail.Flows)

	for _, pl := range detail.Plans {
		visit(pl.Flows)
	}
}
