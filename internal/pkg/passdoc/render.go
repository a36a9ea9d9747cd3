package passdoc

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/yigit/buspass/internal/app/models"
)

// Options holds the institution texts and output settings
type Options struct {
	InstitutionName string
	Title           string
	Footer          string
	// CreatedAt is written into the PDF metadata; pinning it makes the
	// output byte-for-byte reproducible.
	CreatedAt time.Time
	// Compress deflates page streams. Tests switch it off to read text.
	Compress bool
}

type rgb struct{ r, g, b int }

var (
	black    = rgb{0, 0, 0}
	darkBlue = rgb{0, 0, 139}
	green    = rgb{0, 128, 0}
	red      = rgb{255, 0, 0}
	grey     = rgb{128, 128, 128}
)

// Layout in points, measured from the top-left corner of an A4 page
const (
	margin       = 40.0
	headerY      = 40.0
	titleY       = 65.0
	ruleY        = 80.0
	boxTop       = 100.0
	minBoxHeight = 220.0
	boxRadius    = 10.0
	labelInset   = 15.0
	valueInset   = 160.0
	firstLineGap = 30.0
	lineGap      = 22.0
	footerGap    = 20.0
)

// Render draws doc as a single A4 page and writes the PDF to w
func Render(w io.Writer, doc Document, opts Options) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCompression(opts.Compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Bus Pass "+doc.RollNumber, true)
	pdf.SetCreator("buspass", true)
	if !opts.CreatedAt.IsZero() {
		pdf.SetCreationDate(opts.CreatedAt)
		pdf.SetModificationDate(opts.CreatedAt)
	}
	if err := addFonts(pdf); err != nil {
		return err
	}
	pdf.AddPage()

	width, _ := pdf.GetPageSize()

	centred := func(y float64, s string) {
		pdf.Text((width-pdf.GetStringWidth(s))/2, y, s)
	}
	color := func(c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }

	pdf.SetFont(fontFamily, "B", 18)
	centred(headerY, opts.InstitutionName)

	pdf.SetFont(fontFamily, "B", 14)
	color(darkBlue)
	centred(titleY, opts.Title)
	color(black)

	pdf.SetLineWidth(1)
	pdf.Line(margin, ruleY, width-margin, ruleY)

	rows := 3 + 1 + 1
	if doc.Route != nil {
		rows += 3
	}
	if doc.State != PassNone {
		rows += 3
	}
	boxHeight := firstLineGap + float64(rows-1)*lineGap + lineGap
	if boxHeight < minBoxHeight {
		boxHeight = minBoxHeight
	}
	boxWidth := width - 2*margin
	pdf.RoundedRect(margin, boxTop, boxWidth, boxHeight, boxRadius, "1234", "D")

	xLabel := margin + labelInset
	xValue := margin + valueInset
	y := boxTop + firstLineGap

	field := func(label, value string, valueColor rgb) {
		pdf.SetFont(fontFamily, "B", 12)
		pdf.Text(xLabel, y, label)
		pdf.SetFont(fontFamily, "", 12)
		color(valueColor)
		pdf.Text(xValue, y, value)
		color(black)
		y += lineGap
	}

	field("Student Name:", doc.StudentName, black)
	field("Roll Number:", doc.RollNumber, black)
	field("Email:", doc.Email, black)

	if doc.Route != nil {
		field("Route:", fmt.Sprintf("%s (%s → %s)", doc.Route.Name, doc.Route.Start, doc.Route.End), black)
		field("Driver:", doc.Route.Driver, black)
		field("Capacity:", strconv.Itoa(doc.Route.Capacity), black)
	}

	pdf.SetLineWidth(0.5)
	pdf.SetDashPattern([]float64{3, 2}, 0)
	pdf.Line(margin+10, y-10, margin+boxWidth-10, y-10)
	pdf.SetDashPattern([]float64{}, 0)
	y += lineGap

	switch doc.State {
	case PassActive, PassExpired:
		if doc.Pass == nil {
			return fmt.Errorf("passdoc: state %s without pass details", doc.State)
		}
		status, statusColor := "Active", green
		if doc.State == PassExpired {
			status, statusColor = "Expired", red
		}
		field("Pass Number:", doc.Pass.Number, black)
		field("Issue Date:", doc.Pass.IssueDate.Format(models.DateLayout), black)
		field("Expiry Date:", doc.Pass.ExpiryDate.Format(models.DateLayout), black)
		field("Status:", status, statusColor)
	case PassNone:
		field("Pass Status:", "No active bus pass found.", black)
	default:
		return fmt.Errorf("passdoc: unknown pass state %d", int(doc.State))
	}

	pdf.SetFont(fontFamily, "I", 9)
	color(grey)
	pdf.Text(width-margin-pdf.GetStringWidth(opts.Footer), boxTop+boxHeight+footerGap, opts.Footer)
	color(black)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("passdoc: draw pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("passdoc: write pdf: %w", err)
	}
	return nil
}
