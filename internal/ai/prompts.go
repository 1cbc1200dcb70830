package ai

// Prompts for the classification and extraction calls. Both instruct the
// model to answer with a single JSON object so the JSON response format
// can be enforced.

const classifierSystemPrompt = `You are an accounts-payable assistant. Decide whether an email (and any attached document text) is a genuine vendor invoice, as opposed to a receipt, statement, marketing email, or anything else. Respond only with JSON.`

const classifierUserTemplate = `Decide whether the following content is a genuine vendor invoice.

Subject: %s

Body:
%s
%s
Respond with JSON:
{
  "is_invoice": boolean,
  "vendor_name": "vendor name or null if unclear",
  "confidence": float 0.0-1.0,
  "signals": ["short phrases describing what influenced the decision"]
}`

const extractorSystemPrompt = `You are an expert at reading vendor invoices. Extract structured data exactly as it appears in the document. Never invent values; use null for optional fields that are not stated. Respond only with JSON.`

const extractorUserTemplate = `Extract the invoice data from this document:

%s

Return JSON with exactly this structure:
{
  "vendor_name": "issuing vendor name",
  "invoice_number": "invoice number as printed",
  "invoice_date": "YYYY-MM-DD",
  "due_date": "YYYY-MM-DD or null if not stated",
  "currency": "3-letter currency code, e.g. USD",
  "line_items": [
    {
      "description": "line description",
      "quantity": float or null if not stated,
      "unit_price": float or null if not stated,
      "total": float
    }
  ],
  "subtotal": float,
  "tax": float or null if no tax is stated,
  "total": float
}`
