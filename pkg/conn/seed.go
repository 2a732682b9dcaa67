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

package conn

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/masteryyh/jobboard/pkg/models"
	"go.yaml.in/yaml/v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type fixtures struct {
	Companies    []companyFixture     `yaml:"companies"`
	Candidates   []candidateFixture   `yaml:"candidates"`
	Users        []userFixture        `yaml:"users"`
	Transactions []transactionFixture `yaml:"transactions"`
}

type companyFixture struct {
	Name        string             `yaml:"name"`
	Industry    string             `yaml:"industry"`
	Size        models.CompanySize `yaml:"size"`
	Location    string             `yaml:"location"`
	Website     string             `yaml:"website"`
	Description string             `yaml:"description"`
	Jobs        []jobFixture       `yaml:"jobs"`
}

type jobFixture struct {
	Title       string                    `yaml:"title"`
	Description string                    `yaml:"description"`
	Location    string                    `yaml:"location"`
	Remote      bool                      `yaml:"remote"`
	Type        models.JobType            `yaml:"type"`
	Level       models.JobExperienceLevel `yaml:"level"`
	SalaryMin   int64                     `yaml:"salaryMin"`
	SalaryMax   int64                     `yaml:"salaryMax"`
	Currency    string                    `yaml:"currency"`
	Status      models.JobStatus          `yaml:"status"`
	Skills      []string                  `yaml:"skills"`
}

type candidateFixture struct {
	Name           string                `yaml:"name"`
	Email          string                `yaml:"email"`
	Headline       string                `yaml:"headline"`
	Location       string                `yaml:"location"`
	Level          models.CandidateLevel `yaml:"level"`
	Skills         []string              `yaml:"skills"`
	Portfolio      bool                  `yaml:"portfolio"`
	Certifications int                   `yaml:"certifications"`
	ResumeScore    float64               `yaml:"resumeScore"`
}

type userFixture struct {
	Name   string            `yaml:"name"`
	Email  string            `yaml:"email"`
	Role   models.UserRole   `yaml:"role"`
	Status models.UserStatus `yaml:"status"`
}

type transactionFixture struct {
	User        string                 `yaml:"user"`
	Type        models.TransactionType `yaml:"type"`
	Category    string                 `yaml:"category"`
	Points      int                    `yaml:"points"`
	Description string                 `yaml:"description"`
}

// LoadFixtures reads a fixture file, or returns the built in fixtures when
// path is empty.
func LoadFixtures(path string) ([]byte, error) {
	if path == "" {
		return defaultFixtures, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures %q: %w", path, err)
	}
	return data, nil
}

// Seed inserts the fixture records unless the database already holds
// companies. It reports whether anything was inserted.
func Seed(ctx context.Context, db *gorm.DB, data []byte) (bool, error) {
	var f fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return false, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	existing, err := gorm.G[models.Company](db).Where("deleted_at IS NULL").Count(ctx, "id")
	if err != nil {
		return false, err
	}
	if existing > 0 {
		slog.InfoContext(ctx, "database already has data, skipping seed")
		return false, nil
	}

	if err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, cf := range f.Companies {
			company := &models.Company{
				Name:        cf.Name,
				Industry:    cf.Industry,
				Size:        cf.Size,
				Location:    cf.Location,
				Website:     cf.Website,
				Description: cf.Description,
			}
			if err := gorm.G[models.Company](tx).Create(ctx, company); err != nil {
				return fmt.Errorf("failed to seed company %q: %w", cf.Name, err)
			}

			for _, jf := range cf.Jobs {
				job := &models.JobListing{
					CompanyID:       company.ID,
					Title:           jf.Title,
					Description:     jf.Description,
					Location:        jf.Location,
					IsRemote:        jf.Remote,
					Type:            jf.Type,
					ExperienceLevel: jf.Level,
					SalaryMin:       jf.SalaryMin,
					SalaryMax:       jf.SalaryMax,
					SalaryCurrency:  currencyOrDefault(jf.Currency),
					Status:          jf.Status,
					Skills:          datatypes.NewJSONSlice(jf.Skills),
				}
				if job.Status == models.JobStatusPublished {
					job.PostedAt = &now
				}
				if err := gorm.G[models.JobListing](tx).Create(ctx, job); err != nil {
					return fmt.Errorf("failed to seed job %q: %w", jf.Title, err)
				}
			}
			slog.InfoContext(ctx, "seeded company", "name", cf.Name, "jobs", len(cf.Jobs))
		}

		for _, c := range f.Candidates {
			candidate := &models.Candidate{
				Name:                c.Name,
				Email:               c.Email,
				Headline:            c.Headline,
				Location:            c.Location,
				ExperienceLevel:     c.Level,
				Skills:              datatypes.NewJSONSlice(c.Skills),
				HasPortfolio:        c.Portfolio,
				CertificationsCount: c.Certifications,
				ResumeQualityScore:  c.ResumeScore,
			}
			if err := gorm.G[models.Candidate](tx).Create(ctx, candidate); err != nil {
				return fmt.Errorf("failed to seed candidate %q: %w", c.Email, err)
			}
		}

		userIDs := map[string]uuid.UUID{}
		for _, u := range f.Users {
			user := &models.User{
				Name:   u.Name,
				Email:  u.Email,
				Role:   u.Role,
				Status: u.Status,
			}
			if user.Status == "" {
				user.Status = models.UserStatusActive
			}
			if err := gorm.G[models.User](tx).Create(ctx, user); err != nil {
				return fmt.Errorf("failed to seed user %q: %w", u.Email, err)
			}
			userIDs[u.Email] = user.ID
		}

		for _, t := range f.Transactions {
			userID, ok := userIDs[t.User]
			if !ok {
				return fmt.Errorf("transaction references unknown user %q", t.User)
			}
			transaction := &models.Transaction{
				UserID:      userID,
				Type:        t.Type,
				Category:    t.Category,
				Points:      t.Points,
				Description: t.Description,
			}
			if err := gorm.G[models.Transaction](tx).Create(ctx, transaction); err != nil {
				return fmt.Errorf("failed to seed transaction: %w", err)
			}
		}
		return nil
	}); err != nil {
		slog.ErrorContext(ctx, "failed to seed database", "error", err)
		return false, err
	}

	slog.InfoContext(ctx, "seeded database",
		"companies", len(f.Companies),
		"candidates", len(f.Candidates),
		"users", len(f.Users),
		"transactions", len(f.Transactions))
	return true, nil
}

func currencyOrDefault(c string) string {
	if c == "" {
		return "USD"
	}
	return c
}
