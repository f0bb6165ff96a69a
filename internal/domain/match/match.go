// Package match decides whether a job posting should be surfaced to a
// contractor. It is pure: the dispatcher owns all I/O.
package match

import (
	"strings"

	"jobmarket/internal/domain/contractor"
	"jobmarket/internal/domain/job"
)

// Matches reports whether the job should be surfaced to the contractor.
// Both the location and the skills condition must hold.
func Matches(j *job.Posting, p *contractor.Profile) bool {
	return LocationMatch(j, p) && SkillsMatch(j, p)
}

// LocationMatch checks the job location against the contractor's service
// areas, falling back to the legacy region text when no areas are set.
// All comparisons are case-insensitive equality on the raw location strings.
func LocationMatch(j *job.Posting, p *contractor.Profile) bool {
	if len(p.ServiceAreas) > 0 {
		for _, area := range p.ServiceAreas {
			if strings.EqualFold(area, j.LocationText) {
				return true
			}
		}
		return false
	}
	if p.RegionText == "" || j.LocationText == "" {
		return false
	}
	return strings.EqualFold(p.RegionText, j.LocationText)
}

// SkillsMatch checks required skills against the contractor's specialties,
// falling back to legacy specialty tags. A job without required skills falls
// back to matching its category name against the contractor's tags.
func SkillsMatch(j *job.Posting, p *contractor.Profile) bool {
	if len(j.RequiredSkills) > 0 {
		if len(p.Specialties) > 0 {
			return anyOverlap(j.RequiredSkills, p.Specialties)
		}
		if len(p.SpecialtyTags) > 0 {
			return anyOverlap(j.RequiredSkills, p.SpecialtyTags)
		}
		return false
	}

	if len(p.SpecialtyTags) > 0 && j.CategoryName != "" {
		for _, tag := range p.SpecialtyTags {
			if strings.EqualFold(tag, j.CategoryName) {
				return true
			}
		}
	}
	return false
}

func anyOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(x, y) {
				return true
			}
		}
	}
	return false
}
