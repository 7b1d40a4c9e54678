package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vasiliy-maslov/ecommerce-console/internal/gateway"
	handler "github.com/vasiliy-maslov/ecommerce-console/internal/handler/http"
	"github.com/vasiliy-maslov/ecommerce-console/internal/metrics"
	"github.com/vasiliy-maslov/ecommerce-console/internal/owner"
	"github.com/vasiliy-maslov/ecommerce-console/internal/session"
)

type ownerFixture struct {
	gw       *MockOwnerGateway
	units    *MockUnits
	sessions *session.Registry[*owner.Form]
	router   http.Handler
}

func newOwnerFixture() *ownerFixture {
	f := &ownerFixture{
		gw:       new(MockOwnerGateway),
		units:    new(MockUnits),
		sessions: session.NewRegistry[*owner.Form]("owner", time.Hour),
	}
	f.router = newRouter(handler.NewOwnerHandler(f.sessions, f.gw, f.units, metrics.NewRegistry()))
	return f
}

func flores() gateway.Unit {
	return gateway.Unit{
		ID:      31,
		Name:    "Casa 31",
		Type:    owner.TypeOwner,
		Person:  "Maria Souza",
		Address: strPtr("Rua das Flores"),
	}
}

func TestOwnerHandler_OpenExistingFlagsAddress(t *testing.T) {
	f := newOwnerFixture()
	unitID := int64(31)
	f.units.On("Lookup", mock.Anything, unitID).Return(flores(), nil).Once()
	f.gw.On("Streets", mock.Anything).Return([]gateway.Street{{ID: 1, Name: "Rua A"}, {ID: 2, Name: "Rua B"}}, nil).Once()

	rr := doRequest(t, f.router, http.MethodPost, "/owner-sessions", handler.OpenOwnerRequest{UnitID: &unitID})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	resp := decode[handler.OwnerSessionResponse](t, rr)
	assert.NotEqual(t, uuid.Nil, resp.SessionID)
	assert.True(t, resp.Form.Existing)
	assert.Equal(t, "Rua das Flores", resp.Form.Record.Address)
	require.NotNil(t, resp.Form.AddressNotInList)
	assert.True(t, *resp.Form.AddressNotInList)
	assert.Equal(t, "loaded", resp.Form.Streets.State)

	rr = doRequest(t, f.router, http.MethodPatch, "/owner-sessions/"+resp.SessionID.String(), owner.Changes{Address: strPtr("Rua A")})
	require.Equal(t, http.StatusOK, rr.Code)
	patched := decode[handler.OwnerSessionResponse](t, rr)
	require.NotNil(t, patched.Form.AddressNotInList)
	assert.False(t, *patched.Form.AddressNotInList)
}

func TestOwnerHandler_OpenNewWhenStreetsFail(t *testing.T) {
	f := newOwnerFixture()
	f.gw.On("Streets", mock.Anything).Return(nil, errors.New("refused")).Once()

	rr := doRequest(t, f.router, http.MethodPost, "/owner-sessions", handler.OpenOwnerRequest{})
	require.Equal(t, http.StatusCreated, rr.Code)

	resp := decode[handler.OwnerSessionResponse](t, rr)
	assert.False(t, resp.Form.Existing)
	assert.Equal(t, "failed", resp.Form.Streets.State)
	assert.Nil(t, resp.Form.AddressNotInList)
	f.units.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestOwnerHandler_OpenUnknownUnit(t *testing.T) {
	f := newOwnerFixture()
	unitID := int64(404)
	f.units.On("Lookup", mock.Anything, unitID).Return(gateway.Unit{}, fmt.Errorf("unit 404: %w", gateway.ErrNotFound)).Once()

	rr := doRequest(t, f.router, http.MethodPost, "/owner-sessions", handler.OpenOwnerRequest{UnitID: &unitID})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Zero(t, f.sessions.Len())
}

func TestOwnerHandler_SaveFlow(t *testing.T) {
	f := newOwnerFixture()
	unitID := int64(31)
	f.units.On("Lookup", mock.Anything, unitID).Return(flores(), nil).Once()
	f.gw.On("Streets", mock.Anything).Return([]gateway.Street{{ID: 1, Name: "Rua das Flores"}}, nil).Once()

	rr := doRequest(t, f.router, http.MethodPost, "/owner-sessions", handler.OpenOwnerRequest{UnitID: &unitID})
	require.Equal(t, http.StatusCreated, rr.Code)
	base := "/owner-sessions/" + decode[handler.OwnerSessionResponse](t, rr).SessionID.String()

	rr = doRequest(t, f.router, http.MethodPatch, base, owner.Changes{Email: strPtr("not-an-email")})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, f.router, http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	invalid := decode[handler.ValidationErrorResponse](t, rr)
	assert.Equal(t, "email is not valid", invalid.Error)
	assert.Contains(t, invalid.Details, "email")

	rr = doRequest(t, f.router, http.MethodPatch, base, owner.Changes{Email: strPtr("maria@example.com")})
	require.Equal(t, http.StatusOK, rr.Code)

	lat, lon := -23.5, -46.6
	rr = doRequest(t, f.router, http.MethodPut, base+"/location", handler.LocationRequest{Latitude: &lat, Longitude: &lon})
	require.Equal(t, http.StatusOK, rr.Code)

	f.gw.On("UpdateUnit", mock.Anything, int64(31), mock.MatchedBy(func(p gateway.UnitPayload) bool {
		return gateway.StrValue(p.Email) == "maria@example.com" && p.Latitude != nil && *p.Latitude == lat
	})).Return(&gateway.Unit{ID: 31, Name: "Casa 31"}, nil).Once()
	f.units.On("Refresh", mock.Anything).Return(nil).Once()

	rr = doRequest(t, f.router, http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, int64(31), decode[gateway.Unit](t, rr).ID)
	assert.Zero(t, f.sessions.Len())
	f.units.AssertExpectations(t)
	f.gw.AssertExpectations(t)
}

func TestOwnerHandler_LocationValidation(t *testing.T) {
	f := newOwnerFixture()
	f.gw.On("Streets", mock.Anything).Return([]gateway.Street{}, nil).Once()

	rr := doRequest(t, f.router, http.MethodPost, "/owner-sessions", handler.OpenOwnerRequest{})
	require.Equal(t, http.StatusCreated, rr.Code)
	base := "/owner-sessions/" + decode[handler.OwnerSessionResponse](t, rr).SessionID.String()

	rr = doRequest(t, f.router, http.MethodPut, base+"/location", map[string]any{"latitude": 10})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "longitude is required")

	lat, lon := 95.0, 10.0
	rr = doRequest(t, f.router, http.MethodPut, base+"/location", handler.LocationRequest{Latitude: &lat, Longitude: &lon})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[handler.ValidationErrorResponse](t, rr).Details, "latitude")

	rr = doRequest(t, f.router, http.MethodDelete, base+"/location", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(t, f.router, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
