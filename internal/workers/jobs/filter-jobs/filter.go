// internal/workers/jobs/filter-jobs/filter.go
package filterjobs

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"job-board/internal/models"
)

// Visible reports whether the job may be listed at all.
func Visible(job models.Job, c Criteria) bool {
	return c.IncludeInactive || job.IsActive()
}

// Matches reports whether a visible job satisfies every criterion.
func Matches(job models.Job, c Criteria) bool {
	if !Visible(job, c) {
		return false
	}
	return matchesText(job, c.Query) &&
		matchesSelector(job.Location, c.Location, models.AllLocations) &&
		matchesSelector(string(job.Type), c.Type, models.AllTypes)
}

func matchesText(job models.Job, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(job.Title), q) || strings.Contains(strings.ToLower(job.Company), q) {
		return true
	}
	for _, tag := range job.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func matchesSelector(value, selected, all string) bool {
	if selected == "" || selected == all {
		return true
	}
	return value == selected
}

// Filter returns the matching jobs in their original order. The input is not modified.
func Filter(jobs []models.Job, c Criteria) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if Matches(job, c) {
			out = append(out, job)
		}
	}
	return out
}

// Sort orders jobs in place. Unknown orders fall back to SortRecent.
func Sort(jobs []models.Job, order SortOrder) {
	switch order {
	case SortCompany:
		sort.SliceStable(jobs, func(i, j int) bool {
			return strings.ToLower(jobs[i].Company) < strings.ToLower(jobs[j].Company)
		})
	case SortSalary:
		sort.SliceStable(jobs, func(i, j int) bool {
			si, okI := ParseSalary(jobs[i].Salary)
			sj, okJ := ParseSalary(jobs[j].Salary)
			if okI != okJ {
				return okI
			}
			return si > sj
		})
	default:
		sort.SliceStable(jobs, func(i, j int) bool {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		})
	}
}

// Apply filters then sorts. total counts the visible jobs before the
// text and selector criteria, as in "Showing 3 of 12 jobs".
func Apply(jobs []models.Job, c Criteria) (out []models.Job, total int) {
	for _, job := range jobs {
		if Visible(job, c) {
			total++
		}
	}
	out = Filter(jobs, c)
	Sort(out, c.Sort)
	return out, total
}

// ParseSalary returns the leading figure of a free-form salary string,
// honouring a k or m suffix: "$120k - $150k" is 120000.
func ParseSalary(salary string) (float64, bool) {
	start := strings.IndexFunc(salary, unicode.IsDigit)
	if start < 0 {
		return 0, false
	}

	end := start
	for end < len(salary) && (unicode.IsDigit(rune(salary[end])) || salary[end] == ',' || salary[end] == '.') {
		end++
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(salary[start:end], ",", ""), 64)
	if err != nil {
		return 0, false
	}

	if end < len(salary) {
		switch salary[end] {
		case 'k', 'K':
			value *= 1_000
		case 'm', 'M':
			value *= 1_000_000
		}
	}
	return value, true
}
