package pdf

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yudatch/kaien-pre-release-20250210-sub000/internal/model"
)

func TestRenderQuotation(t *testing.T) {
	due := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	view := &model.DocumentView{
		Document: model.Document{
			Type:        model.DocumentTypeQuotation,
			Number:      "QT20240701042",
			IssueDate:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			ExpiryDate:  &due,
			TaxMode:     model.TaxModeExclusive,
			Subtotal:    1100,
			TaxAmount:   110,
			TotalAmount: 1210,
			Notes:       "支払条件: 月末締め翌月末払い",
		},
		ProjectCode:  "PJ2407001",
		ProjectName:  "外壁改修工事",
		CustomerName: "株式会社テスト",
		Details: []model.DocumentDetailView{
			{
				DocumentDetail: model.DocumentDetail{
					ID:        1,
					Quantity:  2,
					Unit:      "個",
					UnitPrice: decimal.NewFromInt(500),
					Amount:    1000,
				},
				ProductName: "足場材",
			},
		},
	}

	content, err := NewGenerator().Render(view)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.Equal(t, "%PDF", string(content[:4]))
}

func TestRenderEmptyDraft(t *testing.T) {
	view := &model.DocumentView{
		Document: model.Document{
			Type:    model.DocumentTypeInvoice,
			Number:  "IV20240701315",
			TaxMode: model.TaxModeExclusive,
		},
	}

	content, err := NewGenerator().Render(view)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}
