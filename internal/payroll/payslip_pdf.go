package payroll

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// Page geometry in points. Offsets are measured from the top of an A4 page.
const (
	pageLeft     = 50.0
	pageRight    = 545.0
	contentWidth = pageRight - pageLeft

	titleY          = 50.0
	titleRuleY      = 85.0
	companyY        = 105.0
	employeeHeadY   = 140.0
	employeeRuleY   = 160.0
	employeeNameY   = 175.0
	earningsHeadY   = 210.0
	earningsRuleY   = 230.0
	tableTop        = 240.0
	rowHeight       = 25.0
	cellPadX        = 10.0
	cellPadY        = 7.0
	tableLineWidth  = 0.8
	ruleLineWidth   = 1.0
	headingFontSize = 14.0
	bodyFontSize    = 12.0
	titleFontSize   = 20.0
)

// col2X splits the table at 2.66 : 1 between label and amount.
var col2X = pageLeft + contentWidth*(2.66/3.66)

var headerFill = [3]int{0x7a, 0x9c, 0xc6}

// SlipContent is everything printed on one slip.
type SlipContent struct {
	CompanyName   string
	CurrencyLabel string
	MonthYear     string
	EmployeeName  string
	Figures       Computation
}

type slipRow struct {
	label string
	value string
}

// rows returns the table body in print order.
func (s SlipContent) rows() []slipRow {
	f := s.Figures
	return []slipRow{
		{"Basic Salary", formatAmount(f.BasicSalary)},
		{"Old Balance", formatAmount(f.PendingBalance)},
		{"Advance Taken", formatAmount(f.Advance)},
		{"Leave Deduction", formatAmount(f.LeaveDeduction)},
		{"Total Salary", formatAmount(f.TotalSalary)},
		{"Net Salary", formatAmount(f.NetSalary)},
		{"Balance to Receive", formatAmount(f.BalanceToReceive)},
	}
}

// Renderer writes a slip document to w.
type Renderer interface {
	Render(w io.Writer, slip SlipContent) error
}

// canvas is the drawing surface the layout needs. Coordinates are points
// from the top-left corner; Text places the top of the line at y.
type canvas interface {
	SetFont(bold bool, size float64)
	SetTextColor(r, g, b int)
	Text(x, y, w float64, align string, s string)
	StringWidth(s string) float64
	Line(x1, y1, x2, y2, width float64)
	FillRect(x, y, w, h float64, r, g, b int)
	StrokeRect(x, y, w, h, width float64)
}

func drawRule(cv canvas, y float64) {
	cv.Line(pageLeft, y, pageRight, y, ruleLineWidth)
}

func drawHeading(cv canvas, y float64, s string) {
	cv.SetFont(true, headingFontSize)
	cv.Text(pageLeft, y, contentWidth, "L", s)
}

// drawSlip lays out the whole page. Positions are fixed; long names or
// amounts are not reflowed.
func drawSlip(cv canvas, slip SlipContent) {
	cv.SetTextColor(0, 0, 0)
	cv.SetFont(true, titleFontSize)
	cv.Text(pageLeft, titleY, contentWidth, "C", "SALARY SLIP")
	drawRule(cv, titleRuleY)

	cv.SetFont(false, bodyFontSize)
	cv.Text(pageLeft, companyY, contentWidth, "L", "Company Name: "+slip.CompanyName)
	cv.Text(pageLeft, companyY, contentWidth, "R", "Month & Year: "+slip.MonthYear)

	drawHeading(cv, employeeHeadY, "Employee Details")
	drawRule(cv, employeeRuleY)
	cv.SetFont(false, bodyFontSize)
	cv.Text(pageLeft, employeeNameY, contentWidth, "L", "Employee Name: "+slip.EmployeeName)

	drawHeading(cv, earningsHeadY, "Earnings & Deductions")
	drawRule(cv, earningsRuleY)

	labelWidth := col2X - pageLeft - 2*cellPadX
	amountWidth := pageRight - col2X - 2*cellPadX

	cv.FillRect(pageLeft, tableTop, contentWidth, rowHeight, headerFill[0], headerFill[1], headerFill[2])
	cv.SetTextColor(255, 255, 255)
	cv.SetFont(true, bodyFontSize)
	cv.Text(pageLeft+cellPadX, tableTop+cellPadY, labelWidth, "L", "Particulars")
	cv.Text(col2X+cellPadX, tableTop+cellPadY, amountWidth, "L", "Amount ("+slip.CurrencyLabel+")")

	cv.SetTextColor(0, 0, 0)
	cv.SetFont(false, bodyFontSize)
	rows := slip.rows()
	y := tableTop + rowHeight
	for _, row := range rows {
		cv.Text(pageLeft+cellPadX, y+cellPadY, labelWidth, "L", row.label)
		cv.Text(col2X+cellPadX, y+cellPadY, amountWidth, "L", row.value)
		y += rowHeight
	}
	tableBottom := y

	cv.StrokeRect(pageLeft, tableTop, contentWidth, tableBottom-tableTop, tableLineWidth)
	cv.Line(col2X, tableTop, col2X, tableBottom, tableLineWidth)
	for i := 0; i <= len(rows); i++ {
		lineY := tableTop + rowHeight*float64(i)
		cv.Line(pageLeft, lineY, pageRight, lineY, tableLineWidth)
	}

	y = tableBottom + 30
	drawHeading(cv, y, "Total Payable")
	y += 20
	drawRule(cv, y)
	y += 15

	cv.SetFont(false, bodyFontSize)
	cv.Text(pageLeft, y, contentWidth, "L", "Total Salary: "+formatAmount(slip.Figures.TotalSalary))
	y += 20
	cv.Text(pageLeft, y, contentWidth, "L", "Balance to Receive: "+formatAmount(slip.Figures.BalanceToReceive))
	y += 35

	drawHeading(cv, y, "Signatures")
	y += 20
	drawRule(cv, y)
	y += 30

	cv.SetFont(false, bodyFontSize)
	cv.Text(pageLeft, y, contentWidth, "L", "Employee Signature: _________________")
	second := "Authorized Signature: _________________"
	w := cv.StringWidth(second)
	cv.Text(pageRight-w, y, w, "L", second)
	y += 30

	drawRule(cv, y)
}

// PDFRenderer renders slips as single-page A4 PDFs.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Render(w io.Writer, slip SlipContent) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageLeft, titleY, pageLeft)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Salary Slip", true)
	pdf.SetCreator(slip.CompanyName, true)
	pdf.AddPage()

	drawSlip(newFPDFCanvas(pdf), slip)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("layout slip: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write slip: %w", err)
	}
	return nil
}

type fpdfCanvas struct {
	pdf *fpdf.Fpdf
	// tr maps UTF-8 to the code page of the core fonts.
	tr func(string) string
}

func newFPDFCanvas(pdf *fpdf.Fpdf) *fpdfCanvas {
	return &fpdfCanvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (c *fpdfCanvas) SetFont(bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	c.pdf.SetFont("Helvetica", style, size)
}

func (c *fpdfCanvas) SetTextColor(r, g, b int) {
	c.pdf.SetTextColor(r, g, b)
}

func (c *fpdfCanvas) Text(x, y, w float64, align string, s string) {
	_, h := c.pdf.GetFontSize()
	c.pdf.SetXY(x, y)
	c.pdf.CellFormat(w, h, c.tr(s), "", 0, align, false, 0, "")
}

func (c *fpdfCanvas) StringWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.tr(s))
}

func (c *fpdfCanvas) Line(x1, y1, x2, y2, width float64) {
	c.pdf.SetDrawColor(0, 0, 0)
	c.pdf.SetLineWidth(width)
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *fpdfCanvas) FillRect(x, y, w, h float64, r, g, b int) {
	c.pdf.SetFillColor(r, g, b)
	c.pdf.Rect(x, y, w, h, "F")
}

func (c *fpdfCanvas) StrokeRect(x, y, w, h, width float64) {
	c.pdf.SetDrawColor(0, 0, 0)
	c.pdf.SetLineWidth(width)
	c.pdf.Rect(x, y, w, h, "D")
}

const monthLayout = "January 2006"

// FormatMonthYear returns the label printed on the slip. An empty label is
// the current month, "2006-01" is spelled out, anything else is kept.
func FormatMonthYear(label string, now time.Time) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return now.Format(monthLayout)
	}
	if t, err := time.Parse("2006-01", label); err == nil {
		return t.Format(monthLayout)
	}
	return label
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SlipFilename is the download name: salary_slip_<id>_<month>.pdf.
func SlipFilename(employeeID, monthYear string) string {
	clean := func(s string) string {
		return strings.Trim(unsafeFilenameChars.ReplaceAllString(s, "_"), "_")
	}
	return fmt.Sprintf("salary_slip_%s_%s.pdf", clean(employeeID), clean(monthYear))
}
