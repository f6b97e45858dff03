package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registerDefinitionText = `# AFIO_MAPR

Address offset: 0x04
Reset value: 0x0000 0000

| Bits | Name |
|------|------|
| 7    | EVOE |

Bit 7 EVOE: Event output enable
Bits 3:0 PIN[3:0]: Pin selection
`

func TestExtractKeyTermsEmpty(t *testing.T) {
	assert.Equal(t, "", ExtractKeyTerms("plain prose with nothing special in it", ""))
	assert.Equal(t, "", ExtractKeyTerms("", ""))
}

func TestExtractKeyTermsTableMarker(t *testing.T) {
	text := "| a | b |\n|---|---|\n| 1 | 2 |"
	got := ExtractKeyTerms(text, "")
	assert.Contains(t, got, "TABLE:register_bitfields")
	assert.True(t, strings.HasPrefix(got, "[KEY: "))
	assert.True(t, strings.HasSuffix(got, "]\n\n"))
}

func TestExtractKeyTermsRegisterDefinition(t *testing.T) {
	got := ExtractKeyTerms(registerDefinitionText, "AFIO_MAPR")

	require.True(t, strings.HasPrefix(got, "REGISTER DEFINITION: AFIO_MAPR - Complete bit field specification\n"), "got %q", got)
	assert.Contains(t, got, "TABLE:register_bitfields")
	assert.Contains(t, got, "AFIO_MAPR")
	assert.Contains(t, got, "offset:0x04")
	assert.Contains(t, got, "reset:0x0000")
	assert.Contains(t, got, "fields:EVOE,PIN[3:0]")
	assert.True(t, strings.HasSuffix(got, "\n\n"))
}

func TestExtractKeyTermsOverview(t *testing.T) {
	text := "Register map: AFIO_MAPR, GPIO_CRL, GPIO_CRH, USART_BRR and TIM_CR1 are described below."
	got := ExtractKeyTerms(text, "")

	assert.Contains(t, got, "OVERVIEW:register_list")
	// Listing passages must not enumerate individual identifiers.
	assert.NotContains(t, got, "AFIO_MAPR")
	assert.NotContains(t, got, "USART_BRR")
}

func TestExtractKeyTermsFewIdentifiers(t *testing.T) {
	text := "The AFIO_MAPR and AFIO_MAPR2 registers control remapping. AFIO_MAPR is the primary one."
	got := ExtractKeyTerms(text, "")

	// Deduplicated, first-seen order.
	assert.Contains(t, got, "AFIO_MAPR | AFIO_MAPR2")
	assert.NotContains(t, got, "OVERVIEW")
	assert.Equal(t, 1, strings.Count(got, "AFIO_MAPR2"))
}

func TestExtractKeyTermsOffsetAndReset(t *testing.T) {
	text := "Address offset: 0x1C\nReset value: 0xA5A50000\nSome body text long enough."
	got := ExtractKeyTerms(text, "")

	assert.Contains(t, got, "offset:0x1C")
	assert.Contains(t, got, "reset:0xA5A50000")
}

func TestExtractKeyTermsFieldCap(t *testing.T) {
	var b strings.Builder
	names := []string{"AA", "BB", "CC", "DD", "EE", "FF", "GG", "HH", "II", "JJ"}
	for i, name := range names {
		b.WriteString("Bit ")
		b.WriteByte(byte('0' + i%10))
		b.WriteString(" " + name + ": something\n")
	}

	got := ExtractKeyTerms(b.String(), "")
	require.Contains(t, got, "fields:")
	fieldsPart := got[strings.Index(got, "fields:")+len("fields:"):]
	fieldsPart = strings.TrimSuffix(fieldsPart, "]\n\n")
	assert.Len(t, strings.Split(fieldsPart, ","), 8)
}

func TestExtractKeyTermsDeterministic(t *testing.T) {
	first := ExtractKeyTerms(registerDefinitionText, "AFIO_MAPR")
	second := ExtractKeyTerms(registerDefinitionText, "AFIO_MAPR")
	assert.Equal(t, first, second)
}

func TestExtractKeyTermsOrdering(t *testing.T) {
	got := ExtractKeyTerms(registerDefinitionText, "AFIO_MAPR")

	// Headline, then bracketed list, then a blank line, in that order.
	lines := strings.SplitN(got, "\n", 2)
	require.True(t, strings.HasPrefix(lines[0], "REGISTER DEFINITION:"))
	require.True(t, strings.HasPrefix(lines[1], "[KEY: "))

	idxTable := strings.Index(got, "TABLE:")
	idxOffset := strings.Index(got, "offset:")
	idxReset := strings.Index(got, "reset:")
	idxFields := strings.Index(got, "fields:")
	assert.True(t, idxTable < idxOffset && idxOffset < idxReset && idxReset < idxFields)
}
