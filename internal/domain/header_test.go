package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerLine(value, label string) string {
	return fmt.Sprintf("%-60s%s", value, label)
}

func header(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestScanHeader(t *testing.T) {
	input := header(
		headerLine("     2.11           OBSERVATION DATA    G (GPS)", "RINEX VERSION / TYPE"),
		headerLine("MARKER NAME CHANGED ON SITE VISIT", "COMMENT"),
		headerLine("CHUM", LabelMarkerName),
		headerLine("12345M001", LabelMarkerNumber),
		headerLine("5033                TRIMBLE 4000SSI     7.19", LabelReceiver),
		headerLine("CHUX", LabelMarkerName),
		headerLine("", "END OF HEADER"),
		headerLine("AFTER", LabelMarkerName),
	)

	t.Run("last match", func(t *testing.T) {
		fields, err := ScanHeader(context.Background(), strings.NewReader(input), LastMatch)
		require.NoError(t, err)
		assert.Len(t, fields, 3)
		assert.Equal(t, "CHUX", ColMarkerName.Slice(fields[LabelMarkerName]))
		assert.Equal(t, "12345M001", ColMarkerNumber.Slice(fields[LabelMarkerNumber]))
	})

	t.Run("first match", func(t *testing.T) {
		fields, err := ScanHeader(context.Background(), strings.NewReader(input), FirstMatch)
		require.NoError(t, err)
		assert.Equal(t, "CHUM", ColMarkerName.Slice(fields[LabelMarkerName]))
	})
}

func TestScanHeader_LabelOnlyInLabelArea(t *testing.T) {
	input := header(headerLine("TIME OF FIRST OBS was not recorded", "COMMENT"))

	fields, err := ScanHeader(context.Background(), strings.NewReader(input), LastMatch)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestScanHeader_ShortLineMatchesAnywhere(t *testing.T) {
	fields, err := ScanHeader(context.Background(), strings.NewReader("CHUM MARKER NAME\n"), LastMatch)
	require.NoError(t, err)
	assert.Equal(t, "CHUM MARKER NAME", fields[LabelMarkerName])
}

func TestScanHeader_CRLF(t *testing.T) {
	input := headerLine("CHUM", LabelMarkerName) + "\r\n" + headerLine("", "END OF HEADER") + "\r\n"

	fields, err := ScanHeader(context.Background(), strings.NewReader(input), LastMatch)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(fields[LabelMarkerName], LabelMarkerName))
}

func TestScanHeader_NoEndOfHeader(t *testing.T) {
	fields, err := ScanHeader(context.Background(), strings.NewReader(headerLine("CHUM", LabelMarkerName)), LastMatch)
	require.NoError(t, err)
	assert.Contains(t, fields, LabelMarkerName)
}

func TestScanHeader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScanHeader(ctx, strings.NewReader(headerLine("CHUM", LabelMarkerName)), LastMatch)
	require.ErrorIs(t, err, context.Canceled)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device not ready") }

func TestScanHeader_ReadError(t *testing.T) {
	_, err := ScanHeader(context.Background(), failingReader{}, LastMatch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device not ready")
}

func TestParseMatchPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchPolicy
		wantErr bool
	}{
		{"", LastMatch, false},
		{"last", LastMatch, false},
		{" First ", FirstMatch, false},
		{"middle", LastMatch, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMatchPolicy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "first", FirstMatch.String())
	assert.Equal(t, "last", LastMatch.String())
}
