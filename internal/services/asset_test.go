package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"itdesk/internal/dto"
	"itdesk/internal/entities"
	"itdesk/pkg/constants"
	"itdesk/pkg/utils"
)

func newTestAssetService() (AssetServiceInterface, *fakeAssetRepo, *mockTicketRepo) {
	assets := newFakeAssetRepo()
	tickets := new(mockTicketRepo)
	importer := NewAssetImporter(assets, &fakeClientRepo{}, zap.NewNop())
	return NewAssetService(assets, tickets, importer, zap.NewNop()), assets, tickets
}

func TestAssetService_CreateAndFind(t *testing.T) {
	svc, _, tickets := newTestAssetService()
	tickets.On("FindTicketsByAsset", mock.Anything, uint64(1)).
		Return([]entities.Ticket{{ID: 7, Issue: "Screen broken"}}, nil)

	res, err := svc.CreateAsset(context.Background(), dto.CreateAssetDTO{
		SerialNumber: "SN-1",
		Name:         "Dell Latitude",
		Type:         "Laptop",
	})

	require.NoError(t, err)
	assert.Equal(t, constants.AssetStatusInStorage, res.Status)
	require.Len(t, res.Tickets, 1)
	assert.Equal(t, uint64(7), res.Tickets[0].ID)
}

func TestAssetService_FindAsset_NotFound(t *testing.T) {
	svc, _, _ := newTestAssetService()
	_, err := svc.FindAsset(context.Background(), "missing")
	requireHTTPCode(t, err, http.StatusNotFound)
}

func TestAssetService_UpdateAsset(t *testing.T) {
	svc, assets, tickets := newTestAssetService()
	assets.bySerial["SN-1"] = entities.Asset{
		ID: 1, SerialNumber: "SN-1", Name: "Dell", Type: "Laptop",
		Status: constants.AssetStatusInStorage, ClientID: null.Uint64From(3),
	}
	tickets.On("FindTicketsByAsset", mock.Anything, uint64(1)).Return([]entities.Ticket{}, nil)

	res, err := svc.UpdateAsset(context.Background(), "SN-1", dto.UpdateAssetDTO{
		SerialNumber: null.StringFrom("SN-1A"),
		Status:       null.StringFrom(constants.AssetStatusDeployed),
		Sent:         utils.SentFields{"serial_number": true, "status": true, "client_id": true},
	})

	require.NoError(t, err)
	assert.Equal(t, "SN-1A", res.SerialNumber)
	assert.Equal(t, constants.AssetStatusDeployed, res.Status)
	assert.False(t, res.ClientID.Valid)
	assert.Equal(t, "Dell", res.Name)

	_, err = svc.UpdateAsset(context.Background(), "SN-1A", dto.UpdateAssetDTO{Sent: utils.SentFields{"type": true}})
	requireHTTPCode(t, err, http.StatusBadRequest)
}

func TestAssetService_DeleteAsset(t *testing.T) {
	svc, assets, _ := newTestAssetService()
	assets.bySerial["SN-1"] = entities.Asset{ID: 1, SerialNumber: "SN-1"}

	require.NoError(t, svc.DeleteAsset(context.Background(), " SN-1 "))
	requireHTTPCode(t, svc.DeleteAsset(context.Background(), "SN-1"), http.StatusNotFound)
}

func TestClientService_UpdateClient(t *testing.T) {
	repo := &fakeClientRepo{clients: []entities.Client{
		{ID: 1, Name: "Acme", Phone: null.StringFrom("555-0100"), Address: null.StringFrom("Main st.")},
	}}
	svc := NewClientService(repo, zap.NewNop())
	ctx := context.Background()

	res, err := svc.UpdateClient(ctx, 1, dto.UpdateClientDTO{
		Phone: null.StringFrom("555-0199"),
		Sent:  utils.SentFields{"phone": true, "address": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", res.Name)
	assert.Equal(t, "555-0199", res.Phone.String)
	assert.False(t, res.Address.Valid)

	_, err = svc.UpdateClient(ctx, 1, dto.UpdateClientDTO{Name: null.StringFrom(" "), Sent: utils.SentFields{"name": true}})
	requireHTTPCode(t, err, http.StatusBadRequest)

	_, err = svc.UpdateClient(ctx, 2, dto.UpdateClientDTO{Sent: utils.SentFields{}})
	requireHTTPCode(t, err, http.StatusNotFound)

	requireHTTPCode(t, svc.DeleteClient(ctx, 2), http.StatusNotFound)
}
