// Package ocr extracts candidate bill items from receipt images: a text
// extractor (Amazon Textract) pulls raw lines from the image, and a local
// parser turns those lines into priced items. The quality of the output is
// best-effort; users correct items in the UI before allocation runs.
package ocr

import "context"

// TextExtractor pulls raw text lines out of a receipt image.
type TextExtractor interface {
	ExtractText(ctx context.Context, image []byte) (string, error)
}
