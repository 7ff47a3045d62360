package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boothiq/leadcapture/internal/llm"
	"github.com/boothiq/leadcapture/internal/models"
)

type fakeGateway struct {
	inputs [][]string
}

func (f *fakeGateway) Chat(context.Context, llm.ChatRequest) (*llm.ChatResponse, error) {
	return nil, nil
}

func (f *fakeGateway) Embed(_ context.Context, req llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	f.inputs = append(f.inputs, req.Input)
	out := make([][]float32, len(req.Input))
	for i := range out {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return &llm.EmbeddingResponse{Embeddings: out, Model: req.Model}, nil
}

func ptr(s string) *string { return &s }

func TestLeadIdentityText(t *testing.T) {
	tests := []struct {
		name string
		lead models.Lead
		want string
	}{
		{
			"all fields in fixed order",
			models.Lead{Name: ptr("Jane Smith"), Email: ptr("jane@acme.com"), Phone: ptr("+15551234"), Company: ptr("Acme")},
			"Jane Smith\nAcme\njane@acme.com\n+15551234",
		},
		{
			"blank and nil fields skipped",
			models.Lead{Name: ptr("  "), Company: ptr("Acme")},
			"Acme",
		},
		{
			"no identity at all",
			models.Lead{Interest: ptr("robotics")},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LeadIdentityText(&tt.lead))
		})
	}
}

func TestEmbedLead(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewService(gw, "text-embedding-3-small")

	vec, err := svc.EmbedLead(context.Background(), &models.Lead{Name: ptr("Jane"), Company: ptr("Acme")})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	require.Len(t, gw.inputs, 1)
	assert.Equal(t, []string{"Jane\nAcme"}, gw.inputs[0])
}

func TestEmbedLeadSkipsEmptyIdentity(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewService(gw, "")

	vec, err := svc.EmbedLead(context.Background(), &models.Lead{})
	require.NoError(t, err)
	assert.Nil(t, vec)
	assert.Empty(t, gw.inputs, "no API call for an empty identity")
}

func TestEmbedBatches(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewService(gw, "")

	texts := make([]string, 150)
	for i := range texts {
		texts[i] = "t"
	}

	out, err := svc.Embed(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, out, 150)
	require.Len(t, gw.inputs, 2)
	assert.Len(t, gw.inputs[0], 100)
	assert.Len(t, gw.inputs[1], 50)
}
