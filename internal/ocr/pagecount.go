package ocr

import (
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rotisserie/eris"
)

func init() {
	// Keep pdfcpu from writing its config into the user's home directory.
	api.DisableConfigDir()
}

// PDFPageCounter reads the page count from the PDF's structure with pdfcpu.
// Page contents are not parsed.
type PDFPageCounter struct{}

// PageCount opens path and returns its number of pages.
func (PDFPageCounter) PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, eris.Wrapf(err, "ocr: open PDF %s", path)
	}
	defer f.Close() //nolint:errcheck

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	n, err := api.PageCount(f, conf)
	if err != nil {
		return 0, eris.Wrapf(err, "ocr: read page count %s", path)
	}
	return n, nil
}
