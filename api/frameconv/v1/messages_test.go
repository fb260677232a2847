package frameconvv1_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	frameconvv1 "go.trai.ch/frameconv/api/frameconv/v1"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestStatusResponse_NestedTrackedPaths(t *testing.T) {
	in := frameconvv1.StatusResponse{
		Frames: 4,
		Edges:  3,
		Tracked: []frameconvv1.TrackedPath{
			{Path: []int64{1000, 1004}, Route: []int64{1000, 2, 1001, 1004}, Resolved: true},
			{Path: []int64{7, 9}, Route: []int64{}},
		},
		UptimeSeconds: 12,
		PID:           4242,
	}
	s, err := in.Encode()
	require.NoError(t, err)

	out, err := frameconvv1.DecodeStatusResponse(s)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecode_EmptyBatchIsValid(t *testing.T) {
	s, err := frameconvv1.PublishTransformationsRequest{Topic: "ArUco.1.FrameTransformations"}.Encode()
	require.NoError(t, err)

	req, err := frameconvv1.DecodePublishTransformationsRequest(s)
	require.NoError(t, err)
	assert.Equal(t, "ArUco.1.FrameTransformations", req.Topic)
	assert.Empty(t, req.Transformations)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]any
		decode func(*structpb.Struct) error
	}{
		{
			name:   "path is not a list",
			fields: map[string]any{"path": "1.2"},
			decode: func(s *structpb.Struct) error {
				_, err := frameconvv1.DecodeGetTransformationRequest(s)
				return err
			},
		},
		{
			name:   "fractional frame id",
			fields: map[string]any{"path": []any{1.5, 2}},
			decode: func(s *structpb.Struct) error {
				_, err := frameconvv1.DecodeGetTransformationRequest(s)
				return err
			},
		},
		{
			name:   "matrix holds a string",
			fields: map[string]any{"from": 1, "to": 2, "matrix": []any{"x"}},
			decode: func(s *structpb.Struct) error {
				_, err := frameconvv1.DecodeTransformation(s)
				return err
			},
		},
		{
			name:   "batch element is not an object",
			fields: map[string]any{"topic": "t", "tfs": []any{1}},
			decode: func(s *structpb.Struct) error {
				_, err := frameconvv1.DecodePublishTransformationsRequest(s)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := structpb.NewStruct(tt.fields)
			require.NoError(t, err)
			err = tt.decode(s)
			require.Error(t, err)
			assert.ErrorIs(t, err, frameconvv1.ErrMalformedMessage)
		})
	}
}
