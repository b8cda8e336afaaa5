package filtering

import (
	"context"
	"strings"

	"github.com/spigell/candidate-sourcer/internal/people"
	"github.com/spigell/candidate-sourcer/internal/utils"
)

type hiringCompanyFilter struct {
	toggle
	company string
}

// NewHiringCompany creates a filter that drops people who currently work at
// the hiring company. It is disabled when company is blank.
func NewHiringCompany(company string) Filter {
	f := &hiringCompanyFilter{company: strings.ToLower(strings.TrimSpace(company))}
	if f.company == "" {
		f.Disable("hiring company unknown")
	}
	return f
}

func (f *hiringCompanyFilter) Name() string { return "hiring_company" }

func (f *hiringCompanyFilter) Status() Status { return f.status(f.Name()) }

func (f *hiringCompanyFilter) Apply(_ context.Context, profiles []people.ProfileStub) ([]people.ProfileStub, Step, error) {
	out, step := keep(profiles, func(p people.ProfileStub) bool {
		return !WorksAt(p, f.company)
	})
	return out, step, nil
}

// WorksAt reports whether the profile text suggests current employment at company.
func WorksAt(p people.ProfileStub, company string) bool {
	company = strings.ToLower(strings.TrimSpace(company))
	if company == "" {
		return false
	}

	for _, prefix := range []string{"at ", "@ ", "@"} {
		if utils.ContainsPhrase(p.Title, prefix+company) {
			return true
		}
	}

	body := p.Summary + " " + p.Content
	if utils.ContainsPhrase(body, "currently at "+company) || utils.ContainsPhrase(body, "currently working at "+company) {
		return true
	}
	for _, sep := range []string{" - present", " – present", " · present", " (present)"} {
		if utils.ContainsPhrase(body, company+sep) {
			return true
		}
	}

	return false
}
