package xmlwriter

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ddot-validator/internal/types"
)

func TestGenerate(t *testing.T) {
	records := []types.SiteRecord{
		{
			"siteNumber":  "01234567       ",
			"agencyCode":  "USGS ",
			"stationName": "BIG & SMALL <CREEK>",
			"remarks":     "",
		},
		{
			"agencyCode": "USGS ",
			"siteNumber": "07654321       ",
		},
	}

	out, err := Generate(records)
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<sites>
  <site n="1">
    <agencyCode>USGS </agencyCode>
    <remarks/>
    <siteNumber>01234567       </siteNumber>
    <stationName>BIG &amp; SMALL &lt;CREEK&gt;</stationName>
  </site>
  <site n="2">
    <agencyCode>USGS </agencyCode>
    <siteNumber>07654321       </siteNumber>
  </site>
</sites>
`
	assert.Equal(t, want, string(out))
}

func TestGenerate_OutputIsWellFormed(t *testing.T) {
	out, err := Generate([]types.SiteRecord{{"agencyCode": "USGS ", "stationName": "O'BRIEN \"X\""}})
	require.NoError(t, err)

	var doc struct {
		Sites []struct {
			N           int    `xml:"n,attr"`
			StationName string `xml:"stationName"`
		} `xml:"site"`
	}
	require.NoError(t, xml.Unmarshal(out, &doc))
	require.Len(t, doc.Sites, 1)
	assert.Equal(t, 1, doc.Sites[0].N)
	assert.Equal(t, "O'BRIEN \"X\"", doc.Sites[0].StationName)
}

func TestGenerateWithOptions(t *testing.T) {
	opts := DefaultGenerateOptions().WithNamespace("urn:ddot")
	opts.RootElement = "ddot"
	opts.RootAttributes["b"] = "2"

	out, err := GenerateWithOptions(nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<ddot b=\"2\" xmlns=\"urn:ddot\"/>\n", string(out))

	opts.RecordElement = ""
	_, err = GenerateWithOptions(nil, opts)
	assert.Error(t, err)
}

func TestWithNamespace(t *testing.T) {
	base := DefaultGenerateOptions()
	assert.Equal(t, base, base.WithNamespace(""))

	withNS := base.WithNamespace("urn:ddot")
	assert.Equal(t, "urn:ddot", withNS.RootAttributes["xmlns"])
	assert.Empty(t, base.RootAttributes, "receiver's attributes are not modified")
}

func TestGenerateXSD(t *testing.T) {
	xsd := string(GenerateXSD(DefaultGenerateOptions()))

	assert.True(t, strings.HasPrefix(xsd, "<?xml"))
	assert.Contains(t, xsd, `<xs:element name="sites">`)
	assert.Contains(t, xsd, `<xs:element name="site" minOccurs="0" maxOccurs="unbounded">`)
	assert.Contains(t, xsd, `<xs:element name="agencyCode" type="xs:string" minOccurs="1"/>`)
	assert.Contains(t, xsd, `<xs:element name="stationName" type="xs:string" minOccurs="0"/>`)
	assert.Equal(t, 1, strings.Count(xsd, `name="stationName"`))
	assert.NotContains(t, xsd, "targetNamespace")

	var schema struct{}
	assert.NoError(t, xml.Unmarshal([]byte(xsd), &schema))
}

func TestGenerateXSD_Namespace(t *testing.T) {
	xsd := string(GenerateXSD(DefaultGenerateOptions().WithNamespace("urn:ddot")))

	assert.Contains(t, xsd, `targetNamespace="urn:ddot" xmlns="urn:ddot" elementFormDefault="qualified"`)

	var schema struct{}
	assert.NoError(t, xml.Unmarshal([]byte(xsd), &schema))
}
