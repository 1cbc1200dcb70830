package models

// RawDocument is the unstructured input handed to the pipeline: the email
// body plus whatever text was pulled out of an attachment upstream.
type RawDocument struct {
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	AttachmentText string `json:"attachment_text,omitempty"`
}

// Text returns the combined document text used for extraction. Attachment
// text takes priority because it usually carries the actual invoice.
func (d RawDocument) Text() string {
	if d.AttachmentText != "" {
		return d.AttachmentText
	}
	return d.Body
}

// Classification is the advisory verdict on whether a document is a genuine
// vendor invoice. Confidence and signals inform the reviewer; the pipeline
// gates only on IsInvoice.
type Classification struct {
	IsInvoice  bool     `json:"is_invoice"`
	VendorName string   `json:"vendor_name,omitempty"`
	Confidence float64  `json:"confidence"` // 0.0 - 1.0
	Signals    []string `json:"signals"`
}
