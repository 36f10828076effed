// =============================================================================
// DDOT Validator - XML Writer Module
// =============================================================================
//
// This module renders parsed site records as an XML document.
//
// XML STRUCTURE:
//
//   <sites>                                     <!-- Root element -->
//     <site n="1">                              <!-- One element per record -->
//       <agencyCode>USGS</agencyCode>           <!-- Attributes, sorted by name -->
//       <siteNumber>01234567</siteNumber>
//       <stationName>BIG CREEK NR TOWN</stationName>
//     </site>
//   </sites>
//
// Values are written as parsed, including the leading space normalization
// adds to latitude and longitude. Empty values produce self-closing elements.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/ginjaninja78/ddot-validator/internal/codes"
	"github.com/ginjaninja78/ddot-validator/internal/types"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// XMLVersion is the XML version for the declaration.
	XMLVersion string

	// Encoding is the encoding for the XML declaration.
	Encoding string

	// RootElement is the name of the document element.
	// Default: "sites"
	RootElement string

	// RecordElement is the name of the per-record element.
	// Default: "site"
	RecordElement string

	// IndexAttribute is the attribute carrying the 1-based record index.
	// Default: "n"
	IndexAttribute string

	// RootAttributes are additional attributes for the root element.
	// Example: {"xmlns": "http://example.com/sites"}
	RootAttributes map[string]string
}

// WithNamespace returns options whose documents declare namespace as the
// default namespace. An empty namespace leaves options unchanged.
func (o GenerateOptions) WithNamespace(namespace string) GenerateOptions {
	if namespace == "" {
		return o
	}
	attrs := make(map[string]string, len(o.RootAttributes)+1)
	for k, v := range o.RootAttributes {
		attrs[k] = v
	}
	attrs["xmlns"] = namespace
	o.RootAttributes = attrs
	return o
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		XMLVersion:            "1.0",
		Encoding:              "UTF-8",
		RootElement:           "sites",
		RecordElement:         "site",
		IndexAttribute:        "n",
		RootAttributes:        make(map[string]string),
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates an XML document from site records using the default
// options.
func Generate(records []types.SiteRecord) ([]byte, error) {
	return GenerateWithOptions(records, DefaultGenerateOptions())
}

// GenerateWithOptions creates an XML document with custom options.
func GenerateWithOptions(records []types.SiteRecord, options GenerateOptions) ([]byte, error) {
	if options.RootElement == "" || options.RecordElement == "" {
		return nil, fmt.Errorf("root and record element names are required")
	}

	var buffer bytes.Buffer

	buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
		options.XMLVersion, options.Encoding))

	doc := buildDocument(records, options)
	buffer.Write(marshalWithIndent(doc, options.Indent))

	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// buildDocument constructs the document tree.
func buildDocument(records []types.SiteRecord, options GenerateOptions) XMLElement {
	doc := XMLElement{XMLName: xml.Name{Local: options.RootElement}}

	for _, key := range sortedKeys(options.RootAttributes) {
		doc.Attributes = append(doc.Attributes, xml.Attr{
			Name:  xml.Name{Local: key},
			Value: options.RootAttributes[key],
		})
	}

	for i, record := range records {
		doc.Children = append(doc.Children, buildRecordElement(record, i+1, options))
	}

	return doc
}

// buildRecordElement constructs one <site> element.
func buildRecordElement(record types.SiteRecord, index int, options GenerateOptions) XMLElement {
	element := XMLElement{
		XMLName: xml.Name{Local: options.RecordElement},
		Attributes: []xml.Attr{
			{
				Name:  xml.Name{Local: options.IndexAttribute},
				Value: fmt.Sprintf("%d", index),
			},
		},
	}

	for _, key := range record.Keys() {
		element.Children = append(element.Children, createSimpleElement(key, record[key]))
	}

	return element
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

func sortedKeys(m map[string]string) []string {
	return types.SiteRecord(m).Keys()
}

// marshalWithIndent renders the document element and its children.
func marshalWithIndent(doc XMLElement, indent string) []byte {
	var buffer bytes.Buffer

	buffer.WriteString("<")
	buffer.WriteString(doc.XMLName.Local)
	writeAttributes(&buffer, doc.Attributes)

	if len(doc.Children) == 0 {
		buffer.WriteString("/>\n")
		return buffer.Bytes()
	}

	buffer.WriteString(">\n")
	for _, child := range doc.Children {
		writeElement(&buffer, child, indent, 1)
	}

	buffer.WriteString("</")
	buffer.WriteString(doc.XMLName.Local)
	buffer.WriteString(">\n")

	return buffer.Bytes()
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	pad := strings.Repeat(indent, level)
	buffer.WriteString(pad)

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)
	writeAttributes(buffer, element.Attributes)

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if element.Value != "" {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}
		buffer.WriteString(pad)
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

func writeAttributes(buffer *bytes.Buffer, attrs []xml.Attr) {
	for _, attr := range attrs {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value)))
	}
}

// escapeXML escapes special characters for XML.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		default:
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// =============================================================================
// XSD GENERATION
// =============================================================================

// GenerateXSD creates an XSD schema describing documents produced by
// GenerateWithOptions. Every attribute in the code table is an optional
// string element; agencyCode and siteNumber are required. An xmlns root
// attribute becomes the schema's target namespace.
func GenerateXSD(options GenerateOptions) []byte {
	var buffer bytes.Buffer

	buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
		options.XMLVersion, options.Encoding))
	buffer.WriteString(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"`)
	if namespace := options.RootAttributes["xmlns"]; namespace != "" {
		buffer.WriteString(fmt.Sprintf(` targetNamespace="%s" xmlns="%s" elementFormDefault="qualified"`,
			escapeXML(namespace), escapeXML(namespace)))
	}
	buffer.WriteString(">\n")

	// Record children are written in name order, which xs:all tolerates
	// without fixing the order in the schema.
	buffer.WriteString(fmt.Sprintf(`  <xs:element name="%s">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="%s" minOccurs="0" maxOccurs="unbounded">
          <xs:complexType>
            <xs:all>
`, options.RootElement, options.RecordElement))

	writeXSDElement(&buffer, types.AttrAgencyCode, true)
	writeXSDElement(&buffer, types.AttrSiteNumber, true)
	for _, attr := range codes.Attributes() {
		writeXSDElement(&buffer, string(attr), false)
	}

	buffer.WriteString(fmt.Sprintf(`            </xs:all>
            <xs:attribute name="%s" type="xs:positiveInteger" use="required"/>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>
`, options.IndexAttribute))

	return buffer.Bytes()
}

func writeXSDElement(buffer *bytes.Buffer, name string, required bool) {
	minOccurs := "0"
	if required {
		minOccurs = "1"
	}
	buffer.WriteString(fmt.Sprintf("              <xs:element name=\"%s\" type=\"xs:string\" minOccurs=\"%s\"/>\n",
		name, minOccurs))
}
