package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDidTransactions_PairsRequestWithNextResponse(t *testing.T) {
	t.Parallel()

	result := DidTransactions(entriesFrom(
		"Tx request 22 F190",
		"Rx response 62 F190 31 48 47",
	))
	require.Len(t, result.Transactions, 1)
	tx := result.Transactions[0]
	assert.Equal(t, 1, tx.RequestLine)
	assert.Equal(t, 2, tx.ResponseLine)
	assert.Equal(t, "F190", tx.DidCode)
	assert.Contains(t, tx.Explanation, "VIN")
}

func TestDidTransactions_PackedServiceTokens(t *testing.T) {
	t.Parallel()

	result := DidTransactions(entriesFrom(
		"Diag service request: 22F190",
		"Diag service response: 62F190 01 02 03",
	))
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, 1, result.Transactions[0].RequestLine)
	assert.Equal(t, 2, result.Transactions[0].ResponseLine)
	assert.Equal(t, "F190", result.Transactions[0].DidCode)
}

func TestDidTransactions_LastRequestWins(t *testing.T) {
	t.Parallel()

	result := DidTransactions(entriesFrom(
		"Tx request 22 F188",
		"Tx request 22 DE02",
		"Rx response 62 DE02 7D",
	))
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "DE02", result.Transactions[0].DidCode)
	assert.Equal(t, 2, result.Transactions[0].RequestLine)
}

func TestDidTransactions_ResponseConsumesSlot(t *testing.T) {
	t.Parallel()

	result := DidTransactions(entriesFrom(
		"Tx request 22 F190",
		"Rx response 62 F190",
		"Rx response 62 F190 again",
	))
	require.Len(t, result.Transactions, 1)
}

func TestDidTransactions_ResponseWithoutRequestIgnored(t *testing.T) {
	t.Parallel()

	result := DidTransactions(entriesFrom("Rx response 62 F190 orphan"))
	assert.Empty(t, result.Transactions)
}

func TestDidTransactions_UnknownDidExplanation(t *testing.T) {
	t.Parallel()

	result := DidTransactions(entriesFrom(
		"Tx request 22 ABCD",
		"Rx response 62 ABCD 00",
	))
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Data Identifier ABCD", result.Transactions[0].Explanation)
}
