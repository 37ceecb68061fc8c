package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	PDFToXMLDescription = `Convert a PDF document into a structured XML representation of its content.

**When to use:** Need the text blocks, images, and vector shapes of a PDF with their positions, fonts, and colors preserved, in a form that can be inspected, edited, or converted back.

**Why it's useful:** The XML keeps page geometry and styling that plain text extraction throws away, so documents can be analyzed or reconstructed page by page.

**Examples:**
• Layout analysis: "Convert report.pdf to XML to find where each heading sits on the page"
• Document editing: "Convert contract.pdf, adjust a text block, then rebuild the PDF"
• Content pipelines: "Convert invoices to XML and feed the positioned fields to an extractor"

**Common workflows:**
1. Round trip: pdf_to_xml → edit the XML → xml_to_pdf
2. Analysis: pdf_to_xml → query blocks by position and font → generate summaries
3. Archival: pdf_to_xml → store structured content alongside the original

**Best practices:** Pages that cannot be parsed come back empty with a warning rather than failing the conversion; check the warnings in the response.`

	XMLToPDFDescription = `Reconstruct a PDF document from its structured XML representation.

**When to use:** Have a structured XML document (from pdf_to_xml, possibly edited) and need a PDF again.

**Why it's useful:** Replays text blocks, images, lines, and rectangles at their recorded positions with their fonts and colors, producing a visually faithful reconstruction.

**Examples:**
• Apply edits: "Rebuild contract.pdf after correcting a date in the XML"
• Template filling: "Generate personalized PDFs by substituting text block content"
• Format recovery: "Turn archived XML documents back into distributable PDFs"

**Common workflows:**
1. Round trip: pdf_to_xml → modify → xml_to_pdf
2. Generation: build XML programmatically → xml_to_pdf
3. Preview: xml_to_pdf → inspect the output → iterate on the XML

**Best practices:** Individual primitives that fail to draw are skipped, not fatal; fonts outside Helvetica, Times, and Courier render with the closest core font.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"pdf_to_xml": PDFToXMLDescription,
	"xml_to_pdf": XMLToPDFDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}
