package qdrant

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metadataPayload(fields map[string]*qdrant.Value) map[string]*qdrant.Value {
	return map[string]*qdrant.Value{
		payloadMetadataKey: qdrant.NewValueStruct(&qdrant.Struct{Fields: fields}),
	}
}

func TestParsePayload_NestedMetadata(t *testing.T) {
	payload := metadataPayload(map[string]*qdrant.Value{
		payloadIdentifier: qdrant.NewValueString("6fa459ea-ee8a-3ca4-894e-db77e160355e"),
		payloadFileID:     qdrant.NewValueString("f1"),
		payloadPage:       qdrant.NewValueInt(7),
	})

	identifier, fileID, page := parsePayload(payload)

	assert.Equal(t, "6fa459ea-ee8a-3ca4-894e-db77e160355e", identifier)
	assert.Equal(t, "f1", fileID)
	assert.Equal(t, 7, page)
}

func TestParsePayload_LegacyFileIDFallback(t *testing.T) {
	payload := metadataPayload(map[string]*qdrant.Value{
		payloadIdentifier: qdrant.NewValueString("id-1"),
		legacyFileIDKey:   qdrant.NewValueString("legacy-file"),
	})

	_, fileID, _ := parsePayload(payload)

	assert.Equal(t, "legacy-file", fileID)
}

func TestParsePayload_TopLevelLegacyFileID(t *testing.T) {
	payload := metadataPayload(map[string]*qdrant.Value{
		payloadIdentifier: qdrant.NewValueString("id-1"),
	})
	payload[legacyFileIDKey] = qdrant.NewValueString("top-level-file")

	_, fileID, _ := parsePayload(payload)

	assert.Equal(t, "top-level-file", fileID)
}

func TestParsePayload_FlatPayloadWithoutMetadata(t *testing.T) {
	payload := map[string]*qdrant.Value{
		payloadIdentifier: qdrant.NewValueString("id-2"),
		payloadFileID:     qdrant.NewValueString("f2"),
	}

	identifier, fileID, _ := parsePayload(payload)

	assert.Equal(t, "id-2", identifier)
	assert.Equal(t, "f2", fileID)
}

func TestParsePayload_PageAsDoubleOrString(t *testing.T) {
	double := metadataPayload(map[string]*qdrant.Value{
		payloadIdentifier: qdrant.NewValueString("id"),
		payloadPage:       qdrant.NewValueDouble(3.0),
	})
	_, _, page := parsePayload(double)
	assert.Equal(t, 3, page)

	str := metadataPayload(map[string]*qdrant.Value{
		payloadIdentifier: qdrant.NewValueString("id"),
		payloadPage:       qdrant.NewValueString("5"),
	})
	_, _, page = parsePayload(str)
	assert.Equal(t, 5, page)
}

func TestParsePayload_MissingIdentifier(t *testing.T) {
	identifier, _, _ := parsePayload(map[string]*qdrant.Value{})
	assert.Empty(t, identifier)
}

func TestPointIDRoundTrip(t *testing.T) {
	uuidID := "886313e1-3b8a-5372-9b90-0c9aee199e5d"
	parsed, err := parsePointID(uuidID)
	require.NoError(t, err)
	assert.Equal(t, uuidID, pointIDString(parsed))

	numeric, err := parsePointID("42")
	require.NoError(t, err)
	assert.Equal(t, "42", pointIDString(numeric))

	_, err = parsePointID("not a point id")
	assert.Error(t, err)
}

func TestParseAddr(t *testing.T) {
	tests := []struct {
		addr    string
		host    string
		port    int
		useTLS  bool
		wantErr bool
	}{
		{addr: "localhost:6334", host: "localhost", port: 6334},
		{addr: "localhost", host: "localhost", port: defaultGRPCPort},
		{addr: "https://qdrant.example.com:6334", host: "qdrant.example.com", port: 6334, useTLS: true},
		{addr: "http://qdrant.internal", host: "qdrant.internal", port: defaultGRPCPort},
		{addr: "host:notaport", wantErr: true},
		{addr: "", wantErr: true},
	}
	for _, tt := range tests {
		host, port, useTLS, err := parseAddr(tt.addr)
		if tt.wantErr {
			assert.Error(t, err, tt.addr)
			continue
		}
		require.NoError(t, err, tt.addr)
		assert.Equal(t, tt.host, host, tt.addr)
		assert.Equal(t, tt.port, port, tt.addr)
		assert.Equal(t, tt.useTLS, useTLS, tt.addr)
	}
}
