package buckets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgrzelak/udscope/api/schemas"
)

func TestAnalyze_FloodCountsStayExact(t *testing.T) {
	t.Parallel()

	var lines []string
	for i := 0; i < 60; i++ {
		lines = append(lines, "response 7F 22 31 request out of range")
	}
	for i := 0; i < 15; i++ {
		lines = append(lines, "java.lang.NullPointerException: template was null")
	}
	result := Analyze(strings.Join(lines, "\n"))

	assert.Equal(t, 60, result.Buckets[schemas.BucketNrc31].Count)
	assert.Equal(t, 15, result.Buckets[schemas.BucketJavaException].Count)
	assert.LessOrEqual(t, len(result.Buckets[schemas.BucketNrc31].Samples), 3)
	assert.LessOrEqual(t, len(result.Buckets[schemas.BucketJavaException].Samples), 3)
}

func TestAnalyze_BucketsAreExclusive(t *testing.T) {
	t.Parallel()

	// The line carries both an NRC 31 signature and the error keyword;
	// only the first matching bucket may claim it.
	result := Analyze("error: NRC 31 returned for request")
	assert.Equal(t, 1, result.Buckets[schemas.BucketNrc31].Count)
	assert.Equal(t, 0, result.Buckets[schemas.BucketOther].Count)
}

func TestAnalyze_AllBucketsAlwaysPresent(t *testing.T) {
	t.Parallel()

	result := Analyze("")
	for _, name := range schemas.BucketOrder {
		b, ok := result.Buckets[name]
		require.True(t, ok, "missing bucket %s", name)
		assert.Zero(t, b.Count)
		assert.NotEmpty(t, b.Description)
	}
}

func TestAnalyze_NrcDidFrequency(t *testing.T) {
	t.Parallel()

	result := Analyze(strings.Join([]string{
		"request 22 DE02",
		"response 7F 22 31",
		"request 22 DE02",
		"response 7F 22 31",
	}, "\n"))
	b := result.Buckets[schemas.BucketNrc31]
	require.NotNil(t, b.DidFrequency)
	assert.Equal(t, 2, b.DidFrequency["DE02"])
}

func TestAnalyze_XmlAndCdlBuckets(t *testing.T) {
	t.Parallel()

	result := Analyze(strings.Join([]string{
		"XML validation error at element vehicle",
		"module 726 not in calibration data list",
		"something else entirely failed",
	}, "\n"))
	assert.Equal(t, 1, result.Buckets[schemas.BucketXMLValidation].Count)
	assert.Equal(t, 1, result.Buckets[schemas.BucketCdlWarning].Count)
	assert.Equal(t, 1, result.Buckets[schemas.BucketOther].Count)
}

func TestAnalyze_FlashSkipRequiresNearbySoftwareCheck(t *testing.T) {
	t.Parallel()

	result := Analyze(strings.Join([]string{
		"software level check started",
		"session state -> skipped",
	}, "\n"))
	assert.True(t, result.FlashSkipped)

	var lines []string
	lines = append(lines, "software level check started")
	for i := 0; i < 20; i++ {
		lines = append(lines, "idle")
	}
	lines = append(lines, "session state -> skipped")
	result = Analyze(strings.Join(lines, "\n"))
	assert.False(t, result.FlashSkipped)

	result = Analyze("session state -> skipped")
	assert.False(t, result.FlashSkipped)
}

func TestAnalyze_SoftwareMismatchRows(t *testing.T) {
	t.Parallel()

	result := Analyze("FAIL - F188 = HJ5T-14C204-CBD SHOULD = HJ5T-14C204-CBE")
	require.Len(t, result.SoftwareMismatches, 1)
	m := result.SoftwareMismatches[0]
	assert.Equal(t, "F188", m.Did)
	assert.Equal(t, "HJ5T-14C204-CBD", m.Current)
	assert.Equal(t, "HJ5T-14C204-CBE", m.Target)
}

func TestAnalyze_CriticalExceptionFlag(t *testing.T) {
	t.Parallel()

	result := Analyze("thrown: FlashValidationFailure in step 9")
	assert.True(t, result.CriticalException)

	result = Analyze("flash completed normally")
	assert.False(t, result.CriticalException)
}

func TestAnalyze_FirstPlausibleVoltageKept(t *testing.T) {
	t.Parallel()

	result := Analyze(strings.Join([]string{
		"rail at 3.3 v",
		"battery 12.6 v measured",
		"battery 11.1 v later",
	}, "\n"))
	assert.InDelta(t, 12.6, result.PlausibleVoltage, 0.001)
}
