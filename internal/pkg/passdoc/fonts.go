package passdoc

import (
	_ "embed"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "DejaVu"

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	fontBold []byte
	//go:embed fonts/DejaVuSansCondensed-Oblique.ttf
	fontOblique []byte
)

// addFonts registers the UTF-8 receipt fonts so names in any script
// keep their characters.
func addFonts(pdf *fpdf.Fpdf) error {
	pdf.AddUTF8FontFromBytes(fontFamily, "", fontRegular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fontBold)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", fontOblique)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("passdoc: load fonts: %w", err)
	}
	return nil
}
