package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealdesk-dev/dealdesk/internal/model"
)

const worksheetHeader = "buyer_name,customer_id,postal_code,vin,category,sale_price,vehicle_cost,rebates,cash_down,trade_allowance,trade_payoff,doc_fee,term_months,apr,deal_type"

func TestWorksheetParser_Parse(t *testing.T) {
	input := worksheetHeader + "\n" +
		"Jane Smith,CUST-100,90210,1HGCM82633A004352,new,28500.00,24000.00,1000.00,3000.00,8500.00,6200.00,599.00,60,6.49,financed\n" +
		"Bob Jones,CUST-101,75001,2FMDK48C87BA12345,used,\"$15,250.00\",13100.00,0,15250.00,0,0,599.00,,,cash\n"

	p := &WorksheetParser{}
	deals, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, deals, 2)

	d := deals[0]
	assert.Equal(t, "Jane Smith", d.BuyerName)
	assert.Equal(t, "CUST-100", d.CustomerID)
	assert.Equal(t, "90210", d.PostalCode)
	assert.Equal(t, "1HGCM82633A004352", d.VIN)
	assert.Equal(t, model.CategoryNew, d.Category)
	assert.Equal(t, model.DealTypeFinanced, d.Type)
	assert.Equal(t, model.StatusStructuring, d.Status)
	assert.Equal(t, "28500", d.SalePrice.String())
	assert.Equal(t, "24000", d.VehicleCost.String())
	assert.Equal(t, "8500", d.TradeAllowance.String())
	assert.Equal(t, 60, d.TermMonths)
	assert.Equal(t, "6.49", d.APR.String())
	assert.Empty(t, d.Number)
	assert.NotEqual(t, deals[1].ID, d.ID)

	cash := deals[1]
	assert.Equal(t, model.DealTypeCash, cash.Type)
	assert.Equal(t, model.CategoryUsed, cash.Category)
	assert.Equal(t, "15250", cash.SalePrice.String())
	assert.Zero(t, cash.TermMonths)
	assert.True(t, cash.APR.IsZero())
}

func TestWorksheetParser_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		wantErr string
	}{
		{
			name:    "unknown deal type",
			row:     "Jane,C1,90210,VIN1,new,100,90,0,0,0,0,0,12,5,lease",
			wantErr: "unknown deal type",
		},
		{
			name:    "missing buyer",
			row:     ",C1,90210,VIN1,new,100,90,0,0,0,0,0,12,5,financed",
			wantErr: "missing buyer_name",
		},
		{
			name:    "missing vin",
			row:     "Jane,C1,90210,,new,100,90,0,0,0,0,0,12,5,financed",
			wantErr: "missing vin",
		},
		{
			name:    "financed without term",
			row:     "Jane,C1,90210,VIN1,new,100,90,0,0,0,0,0,,5,financed",
			wantErr: "missing term_months",
		},
		{
			name:    "bad amount",
			row:     "Jane,C1,90210,VIN1,new,abc,90,0,0,0,0,0,12,5,financed",
			wantErr: "parsing sale_price",
		},
		{
			name:    "wrong column count",
			row:     "Jane,C1,90210",
			wantErr: "wrong number of fields",
		},
	}

	p := &WorksheetParser{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(strings.NewReader(worksheetHeader + "\n" + tt.row + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWorksheetParser_EmptyFile(t *testing.T) {
	p := &WorksheetParser{}
	_, err := p.Parse(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty worksheet")
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("worksheet"))
	assert.NotNil(t, r.Get("Worksheet"))
	assert.Nil(t, r.Get("unknown"))

	assert.Panics(t, func() {
		r.Register(&WorksheetParser{})
	})
}

func TestScanAndMarkProcessed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "import"), 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(root, "import", "deals.csv"), []byte(worksheetHeader+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "import", "notes.txt"), []byte("skip me"), 0o644))

	files, err := Scan(root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "deals.csv", files[0].Name)
	assert.Positive(t, files[0].Size)

	require.NoError(t, MarkProcessed(root, "deals.csv"))

	files, err = Scan(root)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = os.Stat(filepath.Join(root, "import", "processed", "deals.csv"))
	assert.NoError(t, err)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}
