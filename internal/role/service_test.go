// AngelaMos | 2026
// service_test.go

package role

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/carterperez-dev/eatme/internal/core"
	"github.com/carterperez-dev/eatme/internal/middleware"
	"github.com/carterperez-dev/eatme/internal/user"
)

func TestService_Subject(t *testing.T) {
	svc := NewService(newMemRoles(), users{1: true, 2: true}, nil)
	ctx := context.Background()

	_, err := svc.Subject(ctx, editor, 2)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	_, err = svc.Subject(ctx, nil, 2)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	_, err = svc.Subject(ctx, admin, 99)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	assert.ErrorIs(t, err, core.ErrNotFound)

	subject, err := svc.Subject(ctx, admin, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), subject.ID)
}

func TestService_GrantIsIdempotent(t *testing.T) {
	repo := newMemRoles()
	svc := NewService(repo, users{2: true}, nil)
	ctx := context.Background()
	subject := &user.User{ID: 2}

	require.NoError(t, svc.Grant(ctx, admin, subject, middleware.RoleEditor))
	require.NoError(t, svc.Grant(ctx, admin, subject, middleware.RoleEditor))

	roles, err := svc.Roles(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, []string{middleware.RoleEditor}, roles)

	require.NoError(t, svc.Revoke(ctx, admin, subject, middleware.RoleEditor))
	roles, err = svc.Roles(ctx, subject)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestService_UnknownRole(t *testing.T) {
	svc := NewService(newMemRoles(), users{2: true}, nil)

	err := svc.Grant(context.Background(), admin, &user.User{ID: 2}, "chef")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "No applicable role found", appErr.Message)
}

type failingRoles struct {
	*memRoles
}

func (failingRoles) Grant(context.Context, int64, string) error {
	return errors.New("connection reset")
}

func TestService_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	ctx := context.Background()
	subject := &user.User{ID: 2}

	require.NoError(t, NewService(newMemRoles(), users{2: true}, nil).Grant(ctx, admin, subject, middleware.RoleEditor))
	require.Error(t, NewService(newMemRoles(), users{2: true}, nil).Revoke(ctx, admin, subject, "chef"))
	require.Error(t, NewService(failingRoles{newMemRoles()}, users{2: true}, nil).Grant(ctx, admin, subject, middleware.RoleEditor))

	ended := recorder.Ended()
	require.Len(t, ended, 3)

	assert.Equal(t, "role.grant", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), core.AttrRole.String(middleware.RoleEditor))
	assert.Contains(t, ended[0].Attributes(), core.AttrUserID.Int64(2))
	assert.Contains(t, ended[0].Attributes(), core.AttrCallerID.Int64(admin.UserID))
	assert.Equal(t, codes.Unset, ended[0].Status().Code)

	assert.Equal(t, "role.revoke", ended[1].Name())
	require.Len(t, ended[1].Events(), 1)
	assert.Equal(t, "rejected", ended[1].Events()[0].Name)
	assert.Equal(t, codes.Unset, ended[1].Status().Code)

	assert.Equal(t, "role.grant", ended[2].Name())
	assert.Equal(t, codes.Error, ended[2].Status().Code)
}
