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
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/masteryyh/jobboard/pkg/models"
	"github.com/phpdave11/gofpdf"
)

// StatementInfo identifies whose statement is rendered.
type StatementInfo struct {
	UserName    string
	UserEmail   string
	GeneratedAt time.Time
}

var statementColumns = []struct {
	title string
	width float64
}{
	{"Date", 28},
	{"Type", 24},
	{"Category", 34},
	{"Description", 74},
	{"Points", 20},
}

// WriteStatement renders a one document PDF statement with the summary block
// followed by every transaction, newest first as given.
func WriteStatement(w io.Writer, info StatementInfo, summary Summary, txs []models.TransactionDto) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Wallet statement", false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "WALLET STATEMENT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Account   : %s <%s>", orDash(info.UserName), orDash(info.UserEmail))))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Generated : "+info.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		fmt.Sprintf("Balance         : %d points", summary.Balance),
		fmt.Sprintf("Total earned    : %d points", summary.TotalEarned),
		fmt.Sprintf("Total spent     : %d points", summary.TotalSpent),
		fmt.Sprintf("ROI             : %.2f%%", summary.ROI),
		fmt.Sprintf("Efficiency      : %.2f", summary.Efficiency),
		fmt.Sprintf("Trend           : %s", summary.Trend),
	} {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range statementColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	if len(txs) == 0 {
		pdf.CellFormat(0, 7, "No transactions", "1", 1, "C", false, 0, "")
	}
	for _, t := range txs {
		points := strconv.Itoa(t.Points)
		if t.Type == models.TransactionSpent {
			points = "-" + points
		}
		cells := []string{
			t.CreatedAt.Format("2006-01-02"),
			string(t.Type),
			orDash(t.Category),
			fit(pdf, tr(t.Description), statementColumns[3].width-2),
			points,
		}
		for i, c := range statementColumns {
			align := "L"
			if i == len(statementColumns)-1 {
				align = "R"
			}
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// fit shortens s until it fits in width millimetres with the current font.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
