package sales

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homescout/homescout-backend/internal/enquiries"
	"github.com/homescout/homescout-backend/internal/listings"
	"github.com/homescout/homescout-backend/internal/users"
	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
)

func TestRequestToSaleFlow(t *testing.T) {
	f := newSaleFixture(t, nil)
	ctx := context.Background()
	conn := f.conn

	listingSvc, err := listings.NewService(listings.ServiceParams{
		Repo:  listings.NewRepository(conn),
		Names: users.NewRepository(conn),
		TX:    f.client,
	})
	require.NoError(t, err)
	enquirySvc, err := enquiries.NewService(enquiries.NewRepository(conn), listings.NewRepository(conn), f.client)
	require.NoError(t, err)

	request, err := listingSvc.SubmitRequest(ctx, actorOf(f.seller), listings.SubmitRequestInput{
		ApproxLocation: "Road 11, Banani",
		ApproxCity:     "Dhaka",
		ApproxPrice:    price("9000000"),
	})
	require.NoError(t, err)

	pending, err := listingSvc.AcceptRequest(ctx, actorOf(f.agent), request.ID)
	require.NoError(t, err)
	require.Equal(t, enums.LifecycleRequested, pending.LifecycleStatus)

	base := price("9000000")
	listed, err := listingSvc.Complete(ctx, actorOf(f.agent), pending.ID, listings.CompleteListingInput{
		Title:      "Banani family flat",
		AreaSqft:   1850,
		Floor:      6,
		TotalRooms: 4,
		Bathrooms:  3,
		BasePrice:  &base,
	})
	require.NoError(t, err)
	require.Equal(t, enums.LifecycleEnlisted, listed.LifecycleStatus)

	found, err := listingSvc.Search(ctx, listings.SearchFilters{City: "Dhaka"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, listed.ID, found[0].ID)

	enquiry, err := enquirySvc.Create(ctx, actorOf(f.buyer), enquiries.CreateInput{PropertyID: listed.ID, Notes: "weekend visit"})
	require.NoError(t, err)
	require.Equal(t, f.agent.ID, enquiry.EmployeeID)
	closed, err := enquirySvc.Update(ctx, actorOf(f.agent), enquiry.ID, enquiries.UpdateInput{Status: "Closed", Note: "buyer agreed on price"})
	require.NoError(t, err)
	require.Equal(t, enums.EnquiryStatusClosed, closed.Status)

	sale, err := f.svc.CompleteSale(ctx, actorOf(f.agent), CompleteSaleInput{
		PropertyID: listed.ID,
		BuyerID:    f.buyer.ID,
		FinalPrice: price("9200000"),
	})
	require.NoError(t, err)
	require.Equal(t, f.agent.ID, sale.EmployeeID)
	require.True(t, sale.Payments[1].Amount.Equal(price("8997600")))

	require.Equal(t, int64(1), f.count(t, &models.Sale{}))
	require.Equal(t, int64(3), f.count(t, &models.Payment{}))

	var reloaded models.Property
	require.NoError(t, f.conn.First(&reloaded, "id = ?", listed.ID).Error)
	require.Equal(t, listings.StateSold, listings.StateOf(&reloaded))

	found, err = listingSvc.Search(ctx, listings.SearchFilters{City: "Dhaka"})
	require.NoError(t, err)
	require.Empty(t, found)
}
