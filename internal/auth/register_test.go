package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homescout/homescout-backend/pkg/db"
	"github.com/homescout/homescout-backend/pkg/db/dbtest"
	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
	"github.com/homescout/homescout-backend/pkg/security"
)

func strPtr(s string) *string { return &s }

func newRegisterService(t *testing.T) (RegisterService, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewRegisterService(RegisterServiceParams{DB: client, Credentials: security.PlainText{}})
	require.NoError(t, err)
	return svc, client
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	svc, client := newRegisterService(t)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Username: "ayesha",
		Email:    strPtr(" Ayesha@Example.com "),
		Password: "pw",
		Role:     "Investor",
		FullName: "Ayesha Rahman",
	})
	require.NoError(t, err)
	require.Equal(t, enums.RoleInvestor, user.Role)
	require.Equal(t, "Ayesha Rahman", user.DisplayName)
	require.Equal(t, "ayesha@example.com", *user.Email)
	require.Nil(t, user.Phone)

	var investor models.Investor
	require.NoError(t, client.DB().First(&investor, "user_id = ?", user.ID).Error)
	require.True(t, investor.TotalInvested.IsZero())
}

func TestRegisterRejectsAdmin(t *testing.T) {
	svc, client := newRegisterService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "boss", Password: "pw", Role: "admin", FullName: "Boss",
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	var count int64
	require.NoError(t, client.DB().Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _ := newRegisterService(t)
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "who", Password: "pw", Role: "landlord", FullName: "Who",
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestRegisterCollisionWritesNothing(t *testing.T) {
	svc, client := newRegisterService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Username: "tanvir", Phone: strPtr("01700000001"), Password: "pw", Role: "seller", FullName: "Tanvir",
	})
	require.NoError(t, err)

	cases := []RegisterRequest{
		{Username: "tanvir", Password: "pw", Role: "buyer", FullName: "Other"},
		{Username: "tanvir2", Phone: strPtr("01700000001"), Password: "pw", Role: "buyer", FullName: "Other"},
	}
	for _, req := range cases {
		_, err := svc.Register(ctx, req)
		require.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict), "request %+v", req)
	}

	var users, buyers int64
	require.NoError(t, client.DB().Model(&models.User{}).Count(&users).Error)
	require.NoError(t, client.DB().Model(&models.Buyer{}).Count(&buyers).Error)
	require.Equal(t, int64(1), users)
	require.Zero(t, buyers)
}
