// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verdict

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/validardoc/pkg/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.ValidationOutcome
	}{
		{
			name: "approved page",
			text: "Relatório de Conformidade\nAssinado por: Jane Doe\nData da assinatura: 01/01/2024\nAssinatura aprovada\n",
			want: types.ValidationOutcome{SignerName: "Jane Doe", SignedAt: "01/01/2024", Status: types.StatusApproved},
		},
		{
			name: "rejected page",
			text: "Assinado por: John Roe\r\nData da assinatura: 02/03/2024 10:11:12\r\nAssinatura reprovada",
			want: types.ValidationOutcome{SignerName: "John Roe", SignedAt: "02/03/2024 10:11:12", Status: types.StatusRejected},
		},
		{
			name: "neither phrase",
			text: "Assinado por: Jane Doe\nData da assinatura: 01/01/2024\nProcessando...",
			want: types.ValidationOutcome{SignerName: "Jane Doe", SignedAt: "01/01/2024", Status: types.StatusError},
		},
		{
			name: "both phrases prefer approved",
			text: "Assinatura reprovada\nAssinatura aprovada",
			want: types.ValidationOutcome{SignerName: "Erro", SignedAt: "Erro", Status: types.StatusApproved},
		},
		{
			name: "labels matched case-insensitively",
			text: "ASSINADO POR: Maria Silva\ndata da assinatura: 05/05/2025\nassinatura APROVADA",
			want: types.ValidationOutcome{SignerName: "Maria Silva", SignedAt: "05/05/2025", Status: types.StatusApproved},
		},
		{
			name: "value on the following line",
			text: "Assinado por:\n  Jane Doe  \nData da assinatura:\n01/01/2024",
			want: types.ValidationOutcome{SignerName: "Jane Doe", SignedAt: "01/01/2024", Status: types.StatusError},
		},
		{
			name: "empty page",
			text: "",
			want: types.ErrorOutcome(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text))
		})
	}
}
