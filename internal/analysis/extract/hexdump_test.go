package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexCommunications_DecodesAsciiPayload(t *testing.T) {
	t.Parallel()

	result := HexCommunications(entriesFrom("payload 5445535444415441 received"))
	require.Len(t, result.Frames, 1)
	assert.Equal(t, "TESTDATA", result.Frames[0].ASCII)
	require.Len(t, result.AsciiDiscoveries, 1)
	assert.Contains(t, result.AsciiDiscoveries[0], `"TESTDATA"`)
}

func TestHexCommunications_BinaryPayloadNotReportedAsAscii(t *testing.T) {
	t.Parallel()

	result := HexCommunications(entriesFrom("raw 0102030405060708"))
	require.Len(t, result.Frames, 1)
	assert.Empty(t, result.Frames[0].ASCII)
	assert.Empty(t, result.AsciiDiscoveries)
}

func TestHexCommunications_ExplainsFramedService(t *testing.T) {
	t.Parallel()

	result := HexCommunications(entriesFrom("frame: 00 00 7E 22 F1 90"))
	require.Len(t, result.Frames, 1)
	assert.Equal(t, "00007E22F190", result.Frames[0].Hex)
	assert.Equal(t, "Module 0x7E, service 0x22 (Read Data By Identifier)", result.Frames[0].Explanation)
}

func TestHexCommunications_OddLengthRunTrimmed(t *testing.T) {
	t.Parallel()

	result := HexCommunications(entriesFrom("blob 544553544441544 end"))
	require.Len(t, result.Frames, 1)
	assert.Equal(t, "54455354444154", result.Frames[0].Hex)
	assert.Equal(t, "TESTDAT", result.Frames[0].ASCII)
}

func TestHexCommunications_ShortRunsIgnored(t *testing.T) {
	t.Parallel()

	result := HexCommunications(entriesFrom("id DE AD BE seen"))
	assert.Empty(t, result.Frames)
}
