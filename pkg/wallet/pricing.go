/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package wallet prices marketplace actions in points and summarizes a
// user's transaction history.
package wallet

import (
	"math"
	"strings"

	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/samber/lo"
)

const (
	MaxResumeAccessPoints   = 35
	MaxJobApplicationPoints = 20

	portfolioMultiplier      = 1.1
	certificationsMultiplier = 1.15
	qualityMultiplier        = 1.2
	qualityScoreThreshold    = 8.0
	premiumSurcharge         = 0.3
)

var resumeAccessBase = map[models.CandidateLevel]float64{
	models.CandidateLevelFresher: 0,
	models.CandidateLevelJunior:  4,
	models.CandidateLevelMid:     10,
	models.CandidateLevelSenior:  18,
	models.CandidateLevelExpert:  30,
}

var jobApplicationBase = map[models.CompanySize]float64{
	models.CompanySizeStartup:    2,
	models.CompanySizeMidCompany: 6,
	models.CompanySizeEnterprise: 12,
}

// skill names are matched case-insensitively
var skillMultipliers = map[string]float64{
	"ai/ml":            1.3,
	"machine learning": 1.3,
	"data science":     1.2,
	"cloud computing":  1.2,
	"aws":              1.2,
	"azure":            1.2,
	"react":            1.1,
	"angular":          1.1,
	"vue":              1.1,
	"node.js":          1.1,
	"python":           1.1,
}

// SkillMultiplier returns the highest demand multiplier among skills, 1.0
// when none of them is in demand.
func SkillMultiplier(skills []string) float64 {
	return lo.Reduce(skills, func(acc float64, skill string, _ int) float64 {
		return math.Max(acc, lo.ValueOr(skillMultipliers, strings.ToLower(strings.TrimSpace(skill)), 1.0))
	}, 1.0)
}

// ResumeAccessPoints is the cost of unlocking a candidate's resume.
func ResumeAccessPoints(c *models.CandidateDto) int {
	base := resumeAccessBase[c.ExperienceLevel]
	if base == 0 {
		return 0
	}

	cost := base * SkillMultiplier(c.Skills)
	if c.HasPortfolio {
		cost *= portfolioMultiplier
	}
	if c.CertificationsCount > 0 {
		cost *= certificationsMultiplier
	}
	if c.ResumeQualityScore >= qualityScoreThreshold {
		cost *= qualityMultiplier
	}
	return min(int(math.Round(cost)), MaxResumeAccessPoints)
}

// JobApplicationPoints is the cost of applying to a job at a company of the
// given size. Unknown sizes are priced like a startup.
func JobApplicationPoints(size models.CompanySize, premium bool) int {
	cost, ok := jobApplicationBase[size]
	if !ok {
		cost = jobApplicationBase[models.CompanySizeStartup]
	}
	if premium {
		cost *= 1 + premiumSurcharge
	}
	return min(int(math.Round(cost)), MaxJobApplicationPoints)
}

// BulkDiscount is the discount rate for buying quantity actions at once.
func BulkDiscount(quantity int) float64 {
	switch {
	case quantity >= 10:
		return 0.2
	case quantity >= 5:
		return 0.1
	default:
		return 0
	}
}

func ApplyDiscount(points int, discount float64) int {
	return int(math.Round(float64(points) * (1 - discount)))
}

// BulkPrice is the cost of quantity actions priced at unit points each.
func BulkPrice(unit, quantity int) int {
	return ApplyDiscount(unit*quantity, BulkDiscount(quantity))
}

// LevelForYears maps years of experience to a candidate level.
func LevelForYears(years int) models.CandidateLevel {
	switch {
	case years <= 0:
		return models.CandidateLevelFresher
	case years <= 2:
		return models.CandidateLevelJunior
	case years <= 5:
		return models.CandidateLevelMid
	case years <= 10:
		return models.CandidateLevelSenior
	default:
		return models.CandidateLevelExpert
	}
}
