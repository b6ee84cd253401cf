package analyzer

import (
	"context"
	"net/url"
	"sort"

	"github.com/pagegraph/pagegraph/internal/filter"
	"github.com/pagegraph/pagegraph/internal/graph"
	"github.com/pagegraph/pagegraph/internal/model"
)

// ThirdPartyStep groups fetched resources by external registrable domain.
// Third-party fetches are the page's outbound dependency surface; grouping
// by registrable domain rather than hostname collapses CDN shards
// (static1.cdn.example, static2.cdn.example) into one entry.
type ThirdPartyStep struct{}

// NewThirdPartyStep creates a new ThirdPartyStep.
func NewThirdPartyStep() *ThirdPartyStep {
	return &ThirdPartyStep{}
}

// Name returns the step name.
func (s *ThirdPartyStep) Name() string {
	return "third_party"
}

// Do resolves the page's own registrable domain and buckets every resource
// fetched from a different one.
//
// Resources whose URL does not parse, has no host, or whose host has no
// registrable domain (bare suffixes, IP literals) are skipped without
// error: this section describes the dependency surface, it does not
// validate the capture. A page whose own URL has no resolvable domain is
// fatal, because third-partyness is undefined without it.
func (s *ThirdPartyStep) Do(ctx context.Context, g *graph.Graph, report *model.PageReport) error {
	pageURL, err := g.RootURL()
	if err != nil {
		return err
	}
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return err
	}
	pageDomain, err := filter.RegistrableDomain(parsed.Hostname())
	if err != nil {
		return err
	}

	byDomain := make(map[string][]string)
	for _, ref := range g.FilterNodes(func(kind model.NodeKind) bool {
		_, ok := kind.(model.Resource)
		return ok
	}) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		resource := ref.Node.Kind.(model.Resource)
		resourceURL, err := url.Parse(resource.URL)
		if err != nil || resourceURL.Hostname() == "" {
			continue
		}
		domain, err := filter.RegistrableDomain(resourceURL.Hostname())
		if err != nil {
			continue
		}
		if domain == pageDomain {
			continue
		}
		byDomain[domain] = append(byDomain[domain], resource.URL)
	}

	domains := make([]model.ThirdPartyDomain, 0, len(byDomain))
	for domain, urls := range byDomain {
		sort.Strings(urls)
		domains = append(domains, model.ThirdPartyDomain{Domain: domain, ResourceURLs: urls})
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i].Domain < domains[j].Domain })

	report.ThirdParty = domains
	return nil
}
