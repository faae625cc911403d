package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func credentialsForm(username, password string) url.Values {
	return url.Values{
		"username": {username},
		"password": {password},
	}
}

func decodeStatus(t *testing.T, resp *http.Response) Status {
	t.Helper()
	var status Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	return status
}

func TestRegisterLoginFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newClient(t)

	resp := postForm(t, client, srv.URL+"/register", credentialsForm("alice", "hunter2"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, client, srv.URL+"/me")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decodeStatus(t, resp)
	assert.True(t, status.LoggedIn)
	require.NotNil(t, status.Player)
	assert.Equal(t, "alice", status.Player.Username)
	assert.Equal(t, int64(1), status.Player.PlayerId)

	resp = post(t, client, srv.URL+"/logout")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, client, srv.URL+"/me")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status = decodeStatus(t, resp)
	assert.False(t, status.LoggedIn)
	assert.Nil(t, status.Player)

	resp = postForm(t, client, srv.URL+"/login", credentialsForm("alice", "hunter2"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, client, srv.URL+"/me")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status = decodeStatus(t, resp)
	assert.True(t, status.LoggedIn)
}

func TestMeAnonymous(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newClient(t)

	resp := get(t, client, srv.URL+"/me")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decodeStatus(t, resp)
	assert.False(t, status.LoggedIn)
	assert.Nil(t, status.Player)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postForm(t, newClient(t), srv.URL+"/register", credentialsForm("bob", "secret"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postForm(t, newClient(t), srv.URL+"/register", credentialsForm("bob", "other"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newClient(t)

	resp := postForm(t, client, srv.URL+"/register", credentialsForm("", "secret"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postForm(t, client, srv.URL+"/register", credentialsForm("carol", ""))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	tooLong := strings.Repeat("a", 73)
	resp = postForm(t, client, srv.URL+"/register", credentialsForm("carol", tooLong))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginFailures(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newClient(t)

	resp := postForm(t, client, srv.URL+"/register", credentialsForm("dave", "secret"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postForm(t, client, srv.URL+"/login", credentialsForm("dave", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postForm(t, client, srv.URL+"/login", credentialsForm("nobody", "secret"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLoginFromFreshClient(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postForm(t, newClient(t), srv.URL+"/register", credentialsForm("erin", "secret"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	client := newClient(t)
	resp = postForm(t, client, srv.URL+"/login", credentialsForm("erin", "secret"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, client, srv.URL+"/me")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decodeStatus(t, resp)
	assert.True(t, status.LoggedIn)
	require.NotNil(t, status.Player)
	assert.Equal(t, "erin", status.Player.Username)
}

func TestBrokenCookiesAreCleared(t *testing.T) {
	srv, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/me", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "auth", Value: "not.a-token"})
	req.AddCookie(&http.Cookie{Name: "sign", Value: "garbage"})

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	status := decodeStatus(t, resp)
	assert.False(t, status.LoggedIn)

	cleared := map[string]bool{}
	for _, cookie := range resp.Cookies() {
		if cookie.MaxAge < 0 {
			cleared[cookie.Name] = true
		}
	}
	assert.True(t, cleared["auth"])
	assert.True(t, cleared["sign"])
}
