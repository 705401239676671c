package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/homescout/homescout-backend/pkg/auth"
	"github.com/homescout/homescout-backend/pkg/db"
	"github.com/homescout/homescout-backend/pkg/db/dbtest"
	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
	"github.com/homescout/homescout-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), client)
	require.NoError(t, err)
	return svc, client
}

func adminActor(user models.User) auth.Actor {
	return auth.Actor{UserID: user.ID, Username: user.Username, Role: enums.RoleAdmin}
}

func TestServiceListPaginates(t *testing.T) {
	svc, client := newTestService(t)
	conn := client.DB()
	admin := dbtest.CreateUser(t, conn, enums.RoleAdmin, "root")

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		user := models.User{
			Username:   "buyer" + string(rune('a'+i)),
			Credential: "pw",
			Role:       enums.RoleBuyer,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, conn.Create(&user).Error)
	}

	buyer := enums.RoleBuyer
	first, err := svc.List(context.Background(), adminActor(admin), ListParams{
		Params: pagination.Params{Limit: 2},
		Role:   &buyer,
	})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.Equal(t, "buyerc", first.Items[0].Username)
	require.Equal(t, "buyerb", first.Items[1].Username)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(context.Background(), adminActor(admin), ListParams{
		Params: pagination.Params{Limit: 2, Cursor: first.NextCursor},
		Role:   &buyer,
	})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	require.Equal(t, "buyera", second.Items[0].Username)
	require.Empty(t, second.NextCursor)
}

func TestServiceListRequiresAdmin(t *testing.T) {
	svc, client := newTestService(t)
	seller := dbtest.CreateUser(t, client.DB(), enums.RoleSeller, "seller")

	_, err := svc.List(context.Background(), auth.Actor{UserID: seller.ID, Role: enums.RoleSeller}, ListParams{})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	_, err = svc.List(context.Background(), auth.Actor{}, ListParams{})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))
}

func TestServiceGet(t *testing.T) {
	svc, client := newTestService(t)
	conn := client.DB()
	investor := dbtest.CreateUser(t, conn, enums.RoleInvestor, "fahim")
	other := dbtest.CreateUser(t, conn, enums.RoleBuyer, "other")

	self := auth.Actor{UserID: investor.ID, Role: enums.RoleInvestor}
	got, err := svc.Get(context.Background(), self, investor.ID)
	require.NoError(t, err)
	require.Equal(t, "fahim", got.DisplayName)
	require.Equal(t, enums.RoleInvestor, got.Role)

	_, err = svc.Get(context.Background(), self, other.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	admin := dbtest.CreateUser(t, conn, enums.RoleAdmin, "root")
	_, err = svc.Get(context.Background(), adminActor(admin), uuid.New())
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestServiceRemove(t *testing.T) {
	svc, client := newTestService(t)
	conn := client.DB()
	admin := dbtest.CreateUser(t, conn, enums.RoleAdmin, "root")
	seller := dbtest.CreateUser(t, conn, enums.RoleSeller, "seller")
	dbtest.CreateProperty(t, conn, seller.ID)
	buyer := dbtest.CreateUser(t, conn, enums.RoleBuyer, "buyer")

	err := svc.Remove(context.Background(), adminActor(admin), seller.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict))

	require.NoError(t, svc.Remove(context.Background(), adminActor(admin), buyer.ID))
	var count int64
	require.NoError(t, conn.Model(&models.User{}).Where("id = ?", buyer.ID).Count(&count).Error)
	require.Zero(t, count)

	err = svc.Remove(context.Background(), adminActor(admin), buyer.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	err = svc.Remove(context.Background(), adminActor(admin), admin.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
