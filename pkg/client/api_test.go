package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_LoginAdoptsTokenAndLogoutClearsIt(t *testing.T) {
	var loggedOutWith string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			var body LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ada", body.Username)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			writeData(w, `{"user":{"username":"ada"},"token":{"access_token":"fresh","token_type":"Bearer"}}`)
		case "/api/v1/auth/logout":
			loggedOutWith = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
	c.SetToken("")

	res, err := c.Auth().Login(context.Background(), "ada", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ada", res.User.Username)
	assert.Equal(t, "fresh", c.Token())

	require.NoError(t, c.Auth().Logout(context.Background()))
	assert.Equal(t, "Bearer fresh", loggedOutWith)
	assert.Empty(t, c.Token())
}

func TestAuth_SignupConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"AUTH_001","message":"email already registered"}}`))
	})
	_, err := c.Auth().Signup(context.Background(), &SignupRequest{Email: "a@b.c"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "AUTH_001", apiErr.Code)
	assert.Equal(t, "test-token", c.Token(), "failed signup keeps the old token")
}

func TestPatents_Search(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/patents/search", r.URL.Path)
		assert.Equal(t, "solar cell & panel", r.URL.Query().Get("q"))
		writeData(w, `{"query":"solar cell & panel","patents":[{"id":"1","title":"Cell","url":"https://x/patent/US1/en"}],"degraded":false}`)
	})
	res, err := c.Patents().Search(context.Background(), "solar cell & panel")
	require.NoError(t, err)
	require.Len(t, res.Patents, 1)
	assert.Equal(t, "https://x/patent/US1/en", res.Patents[0].URL)

	_, err = c.Patents().Search(context.Background(), "  ")
	assert.Error(t, err)
}

func TestPatents_Get(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/patents/US7654321B2", r.URL.Path)
		writeData(w, `{"detail":{"id":"US7654321B2","title":"Widget","inventor":"Ada"},"graph":{"nodes":[{"id":"Ada","type":"plaintiff"}],"links":[]}}`)
	})
	res, err := c.Patents().Get(context.Background(), "US7654321B2")
	require.NoError(t, err)
	assert.Equal(t, "Widget", res.Detail.Title)
	require.NotNil(t, res.Graph)
	assert.Equal(t, "Ada", res.Graph.Nodes[0].ID)
}

func TestLitigation_GraphNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Acme Corp", r.URL.Query().Get("name"))
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"COMMON_005","message":"no litigation graph"}}`))
	})
	_, err := c.Litigation().Graph(context.Background(), "Acme Corp")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}

func TestHolders_SearchAndCreate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "acme", r.URL.Query().Get("q"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Empty(t, r.URL.Query().Get("page_size"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true,"data":[{"reference_id":"R1"}],"pagination":{"page":2,"page_size":20,"total":21}}`))
		case http.MethodPost:
			var h PatentHolder
			require.NoError(t, json.NewDecoder(r.Body).Decode(&h))
			w.WriteHeader(http.StatusCreated)
			b, _ := json.Marshal(h)
			_, _ = w.Write([]byte(`{"success":true,"data":` + string(b) + `}`))
		}
	})

	page, err := c.Holders().Search(context.Background(), "acme", 2, 0)
	require.NoError(t, err)
	require.Len(t, page.Holders, 1)
	assert.Equal(t, int64(21), page.Pagination.Total)

	out, err := c.Holders().Create(context.Background(), &PatentHolder{ReferenceID: "R9", PatentQuality: 5})
	require.NoError(t, err)
	assert.Equal(t, "R9", out.ReferenceID)
	assert.Equal(t, 5, out.PatentQuality)
}

//Personal.AI order the ending
