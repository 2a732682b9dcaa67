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

package wallet

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/samber/lo"
)

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

const monthLayout = "2006-01"

type MonthBucket struct {
	Month  string `json:"month"`
	Earned int    `json:"earned"`
	Spent  int    `json:"spent"`
	Net    int    `json:"net"`
}

type CategoryTotal struct {
	Category string `json:"category"`
	Earned   int    `json:"earned"`
	Spent    int    `json:"spent"`
}

type Summary struct {
	TransactionCount int             `json:"transactionCount"`
	TotalEarned      int             `json:"totalEarned"`
	TotalSpent       int             `json:"totalSpent"`
	Balance          int             `json:"balance"`
	ROI              float64         `json:"roi"`
	Efficiency       float64         `json:"efficiency"`
	Trend            Trend           `json:"trend"`
	Months           []MonthBucket   `json:"months"`
	Categories       []CategoryTotal `json:"categories"`
}

// Summarize computes totals, return on investment and month over month trend.
// Earned and purchased points count as returns, spent points as investment.
// now selects the current month for the trend.
func Summarize(txs []models.TransactionDto, now time.Time) Summary {
	earned := lo.SumBy(lo.Filter(txs, func(t models.TransactionDto, _ int) bool { return isReturn(t.Type) }),
		func(t models.TransactionDto) int { return t.Points })
	spent := lo.SumBy(lo.Filter(txs, func(t models.TransactionDto, _ int) bool { return t.Type == models.TransactionSpent }),
		func(t models.TransactionDto) int { return t.Points })

	s := Summary{
		TransactionCount: len(txs),
		TotalEarned:      earned,
		TotalSpent:       spent,
		Balance:          earned - spent,
		ROI:              roi(earned, spent),
		Months:           monthly(txs),
		Categories:       categories(txs),
	}
	s.Efficiency = round2(lo.Clamp((s.ROI+100)/2, 0, 100))
	s.Trend = trend(s.Months, now)
	return s
}

func isReturn(t models.TransactionType) bool {
	return t == models.TransactionEarned || t == models.TransactionPurchased
}

// roi is (returns - investment) / investment in percent, 0 without investment.
func roi(returns, investment int) float64 {
	if investment <= 0 {
		return 0
	}
	return round2(float64(returns-investment) / float64(investment) * 100)
}

func monthly(txs []models.TransactionDto) []MonthBucket {
	grouped := lo.GroupBy(txs, func(t models.TransactionDto) string {
		return t.CreatedAt.UTC().Format(monthLayout)
	})

	buckets := make([]MonthBucket, 0, len(grouped))
	for month, items := range grouped {
		b := MonthBucket{Month: month}
		for _, t := range items {
			if isReturn(t.Type) {
				b.Earned += t.Points
			} else {
				b.Spent += t.Points
			}
		}
		b.Net = b.Earned - b.Spent
		buckets = append(buckets, b)
	}
	slices.SortFunc(buckets, func(a, b MonthBucket) int { return cmp.Compare(a.Month, b.Month) })
	return buckets
}

func categories(txs []models.TransactionDto) []CategoryTotal {
	grouped := lo.GroupBy(txs, func(t models.TransactionDto) string {
		if t.Category == "" {
			return "other"
		}
		return t.Category
	})

	totals := make([]CategoryTotal, 0, len(grouped))
	for category, items := range grouped {
		c := CategoryTotal{Category: category}
		for _, t := range items {
			if isReturn(t.Type) {
				c.Earned += t.Points
			} else {
				c.Spent += t.Points
			}
		}
		totals = append(totals, c)
	}
	slices.SortFunc(totals, func(a, b CategoryTotal) int {
		if n := cmp.Compare(b.Earned+b.Spent, a.Earned+a.Spent); n != 0 {
			return n
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return totals
}

// trend compares this month's ROI with last month's using a 10% band.
func trend(months []MonthBucket, now time.Time) Trend {
	byMonth := lo.KeyBy(months, func(b MonthBucket) string { return b.Month })
	now = now.UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	current := monthROI(byMonth[firstOfMonth.Format(monthLayout)])
	last := monthROI(byMonth[firstOfMonth.AddDate(0, -1, 0).Format(monthLayout)])

	switch {
	case current > last*1.1:
		return TrendUp
	case current < last*0.9:
		return TrendDown
	default:
		return TrendStable
	}
}

func monthROI(b MonthBucket) float64 {
	if b.Earned <= 0 || b.Spent <= 0 {
		return 0
	}
	return float64(b.Earned-b.Spent) / float64(b.Spent) * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
