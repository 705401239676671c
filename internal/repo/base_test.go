package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/pkg/db/dbtest"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
)

func TestBaseDBBindsContext(t *testing.T) {
	conn := dbtest.Open(t).DB()
	base := NewBase(conn)

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "value")
	bound := base.DB(ctx)
	require.NotNil(t, bound.Statement)
	require.Equal(t, "value", bound.Statement.Context.Value(key{}))

	require.Same(t, conn, base.DB(nil))
}

func TestBaseTxKeepsConnectionWhenNil(t *testing.T) {
	conn := dbtest.Open(t).DB()
	base := NewBase(conn)

	require.Same(t, conn, base.Tx(nil).db)

	tx := conn.Begin()
	defer tx.Rollback()
	require.Same(t, tx, base.Tx(tx).db)
}

func TestNotFoundMapsErrors(t *testing.T) {
	require.NoError(t, NotFound(nil, "x"))

	err := NotFound(gorm.ErrRecordNotFound, "property not found")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	err = NotFound(errors.New("connection reset"), "load property")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeDependency))
}
