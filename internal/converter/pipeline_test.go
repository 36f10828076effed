package converter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ddot-validator/internal/types"
)

const header = "DDOT HEADER LINE"

// line builds a data line for agency "USGS " and the given site number
// (padded to 15 characters).
func line(site, payload string) string {
	return fmt.Sprintf("USGS %-15s %s", site, payload)
}

func file(lines ...string) string {
	return header + "\n" + strings.Join(lines, "\n") + "\n"
}

func TestParse_SingleSite(t *testing.T) {
	content := file(
		line("01234567", "R=0* T=A* 12='BIG CREEK NR TOWN'*"),
		line("01234567", "9=453015* 10=5* 32=C*"),
	)

	records, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, types.SiteRecord{
		"agencyCode":              "USGS ",
		"siteNumber":              "01234567       ",
		"databaseTableIdentifier": "0",
		"transactionType":         "A",
		"stationName":             "BIG CREEK NR TOWN",
		"latitude":                " 453015",
		"longitude":               " 05",
		"siteWebReadyCode":        "Y",
	}, records[0])
}

func TestParse_FiltersNonSiteTables(t *testing.T) {
	content := file(
		line("01234567", "R=0* T=A*"),
		line("01234567", "R=3* T=M* 5=P1*"),
		line("07654321", "R=0* T=M*"),
	)

	records, stats, err := ParseWithStats(content, DefaultParseOptions())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "01234567       ", records[0].SiteNumber())
	assert.Equal(t, "07654321       ", records[1].SiteNumber())
	assert.Equal(t, types.Stats{Lines: 3, Transactions: 3, Records: 2, Filtered: 1}, stats)
}

func TestParse_RecordsWithoutTableIdentifierAreFiltered(t *testing.T) {
	records, err := Parse(file(line("01234567", "T=A*")))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParse_DuplicateSite(t *testing.T) {
	content := file(
		line("01234567", "R=0* T=A*"),
		line("07654321", "R=0* T=A*"),
		line("01234567", "R=0* T=M*"),
	)

	_, err := Parse(content)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDuplicateSite))
	assert.Contains(t, err.Error(), "USGS/01234567 (2 times)")
	assert.NotContains(t, err.Error(), "07654321")
}

func TestParse_DuplicateSiteIgnoresFilteredTransactions(t *testing.T) {
	content := file(
		line("01234567", "R=0* T=A*"),
		line("01234567", "R=1* T=A*"),
	)

	records, err := Parse(content)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestParse_TransactionErrorsCarryLineNumbers(t *testing.T) {
	content := file(
		line("01234567", "R=0* T=A*"),
		line("07654321", "R=0* 12='A'*"),
		line("07654321", "900='B'* T=A*"),
		line("09999999", "R=0* 999=X*"),
	)

	_, err := Parse(content)
	require.Error(t, err)
	assert.Equal(t, types.KindDuplicateStationName, types.KindOf(err))

	var de *types.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, []int{3, 4}, de.LineNumbers)
	assert.Contains(t, err.Error(), "(lines: 3, 4)")
}

func TestParse_TokenErrorsCarryLineNumbers(t *testing.T) {
	_, err := Parse(file(line("01234567", "R=0* T=A")))
	require.Error(t, err)
	assert.Equal(t, types.KindMissingEndingToken, types.KindOf(err))

	var de *types.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, []int{2}, de.LineNumbers)
}

func TestParse_LineValidationFirst(t *testing.T) {
	_, err := Parse(file(line("01234567", "R=0* T=A*"), "short"))
	require.Error(t, err)
	assert.Equal(t, types.KindValidation, types.KindOf(err))
}

func TestParse_EmptyAndHeaderOnly(t *testing.T) {
	_, err := Parse("")
	assert.Equal(t, types.KindEmptyInput, types.KindOf(err))

	_, err = Parse(header)
	assert.Equal(t, types.KindNoTransactions, types.KindOf(err))

	for _, content := range []string{header + "\n", header + "\r\n"} {
		records, stats, err := ParseWithStats(content, DefaultParseOptions())
		require.NoError(t, err, "content %q", content)
		assert.NotNil(t, records)
		assert.Empty(t, records)
		assert.Equal(t, types.Stats{}, stats)
	}
}

func TestParse_TooManyTransactionsBeforeTokenizing(t *testing.T) {
	lines := make([]string, 0, DefaultMaxTransactions+1)
	// The first transaction would fail tokenizing; the ceiling must win.
	lines = append(lines, line("00000000", "NO SEPARATOR"))
	for i := 1; i <= DefaultMaxTransactions; i++ {
		lines = append(lines, line(fmt.Sprintf("%08d", i), "R=0* T=A*"))
	}

	_, stats, err := ParseWithStats(file(lines...), DefaultParseOptions())
	require.Error(t, err)
	assert.Equal(t, types.KindTooManyTransactions, types.KindOf(err))
	assert.Equal(t, DefaultMaxTransactions+1, stats.Transactions)
}

func TestParse_AtCeilingSucceeds(t *testing.T) {
	opts := DefaultParseOptions()
	opts.MaxTransactions = 2

	records, _, err := ParseWithStats(file(
		line("01", "R=0* T=A*"),
		line("02", "R=0* T=A*"),
	), opts)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, _, err = ParseWithStats(file(
		line("01", "R=0* T=A*"),
		line("02", "R=0* T=A*"),
		line("03", "R=0* T=A*"),
	), opts)
	assert.True(t, errors.Is(err, types.ErrTooManyTransactions))
}

func TestParse_RoundTripThroughTokenGrammar(t *testing.T) {
	content := file(line("01234567", "R=0* T=M* 5=PRJ* 806=SOME REMARK*"))

	first, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, first, 1)

	payload := "R=" + first[0]["databaseTableIdentifier"] + "* T=" + first[0]["transactionType"] +
		"* 5=" + first[0]["projectNumber"] + "* 806=" + first[0]["remarks"] + "*"
	second, err := Parse(file(line("01234567", payload)))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParse_LogsStages(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultParseOptions()
	opts.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)

	_, _, err := ParseWithStats(file(line("01234567", "R=0* T=A*")), opts)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "grouped transactions")
	assert.Contains(t, buf.String(), "filtered site records")
}

func TestCheckDuplicateSites_Order(t *testing.T) {
	rec := func(site string) types.SiteRecord {
		return types.SiteRecord{types.AttrAgencyCode: "USGS ", types.AttrSiteNumber: site}
	}

	err := CheckDuplicateSites([]types.SiteRecord{rec("B"), rec("A"), rec("A"), rec("B"), rec("B")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USGS/B (3 times), USGS/A (2 times)")
}
