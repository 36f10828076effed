package ddotparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ddot-validator/internal/types"
)

func TestGroupTransactions_SingleLine(t *testing.T) {
	txs := GroupTransactions([]string{siteLine(usgs, site1, "R=0* T=A*")})

	require.Len(t, txs, 1)
	assert.Equal(t, types.Transaction{
		AgencyCode:    usgs,
		SiteNumber:    site1,
		KeyValuePairs: "R=0* T=A*",
		LineNumbers:   []int{2},
	}, txs[0])
}

func TestGroupTransactions_JoinsContiguousLines(t *testing.T) {
	txs := GroupTransactions([]string{
		siteLine(usgs, site1, "R=0* T=A*"),
		siteLine(usgs, site1, "12='NAME'*"),
	})

	require.Len(t, txs, 1)
	assert.Equal(t, "R=0* T=A* 12='NAME'*", txs[0].KeyValuePairs)
	assert.Equal(t, []int{2, 3}, txs[0].LineNumbers)
}

func TestGroupTransactions_SplitsOnNewTransactionMarker(t *testing.T) {
	txs := GroupTransactions([]string{
		siteLine(usgs, site1, "R=0* T=A*"),
		siteLine(usgs, site1, "12='NAME'*"),
		siteLine(usgs, site1, "R=1* T=M*"),
		siteLine(usgs, site1, "5=P1*"),
	})

	require.Len(t, txs, 2)
	assert.Equal(t, "R=0* T=A* 12='NAME'*", txs[0].KeyValuePairs)
	assert.Equal(t, []int{2, 3}, txs[0].LineNumbers)
	assert.Equal(t, "R=1* T=M* 5=P1*", txs[1].KeyValuePairs)
	assert.Equal(t, []int{4, 5}, txs[1].LineNumbers)
}

func TestGroupTransactions_MarkerOnFirstLineDoesNotEmitEmpty(t *testing.T) {
	txs := GroupTransactions([]string{
		siteLine(usgs, site1, "R=0* T=A*"),
		siteLine(usgs, site2, "R=0* T=A*"),
	})

	require.Len(t, txs, 2)
	assert.Equal(t, site1, txs[0].SiteNumber)
	assert.Equal(t, site2, txs[1].SiteNumber)
}

func TestGroupTransactions_NonContiguousRunsNotMerged(t *testing.T) {
	txs := GroupTransactions([]string{
		siteLine(usgs, site1, "T=A*"),
		siteLine(usgs, site2, "T=A*"),
		siteLine(usgs, site1, "5=P1*"),
	})

	require.Len(t, txs, 3)
	assert.Equal(t, []int{2}, txs[0].LineNumbers)
	assert.Equal(t, site2, txs[1].SiteNumber)
	assert.Equal(t, site1, txs[2].SiteNumber)
	assert.Equal(t, "5=P1*", txs[2].KeyValuePairs)
	assert.Equal(t, []int{4}, txs[2].LineNumbers)
}

func TestGroupTransactions_MarkerMustPrefixPayload(t *testing.T) {
	txs := GroupTransactions([]string{
		siteLine(usgs, site1, "T=A*"),
		siteLine(usgs, site1, " R=1*"),
		siteLine(usgs, site1, "5=R=*"),
	})

	require.Len(t, txs, 1)
	assert.Equal(t, []int{2, 3, 4}, txs[0].LineNumbers)
}

func TestGroupTransactions_Empty(t *testing.T) {
	assert.Empty(t, GroupTransactions(nil))
}
