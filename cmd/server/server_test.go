package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"example.com/golfbuddy/internal/auth"
	appkafka "example.com/golfbuddy/internal/broker"
	"example.com/golfbuddy/internal/models"
	"example.com/golfbuddy/internal/social"
	"example.com/golfbuddy/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//
// --- Setup test server ---
//

type testEnv struct {
	store *store.MockStore
	kafka *appkafka.MockKafka
	notes *store.MockNotifications
	srv   *httptest.Server
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store: store.NewMock(),
		kafka: &appkafka.MockKafka{},
		notes: store.NewMockNotifications(),
	}
	svc := social.NewService(env.store, auth.NewBcryptHasher(4), appkafka.NewEventPublisher(env.kafka))
	s := New(svc, auth.NewTokenService("test-secret", time.Hour), env.store, env.notes)
	env.srv = httptest.NewServer(s.Routes(nil))
	t.Cleanup(env.srv.Close)
	return env
}

//
// --- Helpers ---
//

// do sends a JSON request and returns status and raw body.
func (e *testEnv) do(t *testing.T, method, path, body, token string) (int, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

// expect asserts status and a JSON string message body.
func (e *testEnv) expect(t *testing.T, method, path, body, token string, status int, msg string) {
	t.Helper()
	code, got := e.do(t, method, path, body, token)
	require.Equal(t, status, code, got)
	want, _ := json.Marshal(msg)
	assert.JSONEq(t, string(want), got)
}

func userBody(name, email string) string {
	return `{"name":"` + name + `","email":"` + email + `","gender":"Male","birthdate":"1998-04-08","hcp":"1.0","password":"erikdavid"}`
}

// signup registers and logs in, returning the id and token.
func (e *testEnv) signup(t *testing.T, name, email string) (string, string) {
	t.Helper()
	e.expect(t, http.MethodPost, "/user", userBody(name, email), "", http.StatusOK, social.MsgUserCreated)
	return e.login(t, email)
}

func (e *testEnv) login(t *testing.T, email string) (string, string) {
	t.Helper()
	code, body := e.do(t, http.MethodPost, "/user/login", `{"email":"`+email+`","password":"erikdavid"}`, "")
	require.Equal(t, http.StatusOK, code, body)
	var res struct {
		Token string `json:"token"`
		ID    int64  `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	require.NotEmpty(t, res.Token)
	return strconv.FormatInt(res.ID, 10), res.Token
}

func firstPostID(t *testing.T, st *store.MockStore, uid string) string {
	t.Helper()
	id, err := strconv.ParseInt(uid, 10, 64)
	require.NoError(t, err)
	posts, err := st.ListPostsByUser(t.Context(), id)
	require.NoError(t, err)
	require.NotEmpty(t, posts)
	return strconv.FormatInt(posts[0].ID, 10)
}

//
// --- Tests ---
//

func TestHelloAndHealth(t *testing.T) {
	env := setupTestServer(t)
	env.expect(t, http.MethodGet, "/", "", "", http.StatusOK, "hello_world")

	code, body := env.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

// register -> duplicate -> login -> posts
func TestRegisterLoginPostFlow(t *testing.T) {
	env := setupTestServer(t)

	uid, token := env.signup(t, "david", "d@d.com")
	env.expect(t, http.MethodPost, "/user", userBody("david", "d@d.com"), "", http.StatusBadRequest, "This email already has an account")

	env.expect(t, http.MethodPost, "/user/"+uid+"/post", `{"text":""}`, token, http.StatusBadRequest, "Text must be between 0 to 501 signs")
	env.expect(t, http.MethodPost, "/user/"+uid+"/post", `{"text":"hejsan"}`, token, http.StatusOK, "Your post has successfully been uploaded")

	code, body := env.do(t, http.MethodGet, "/user/"+uid+"/post", "", token)
	require.Equal(t, http.StatusOK, code)
	var posts []social.PostView
	require.NoError(t, json.Unmarshal([]byte(body), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "hejsan", posts[0].Text)
}

func TestRegister_Errors(t *testing.T) {
	env := setupTestServer(t)
	env.expect(t, http.MethodPost, "/user", `{"name":"david"}`, "", http.StatusBadRequest, "Please enter all fields of data")
	env.expect(t, http.MethodPost, "/user", `not json`, "", http.StatusBadRequest, "Please enter all fields of data")
	env.expect(t, http.MethodPost, "/user",
		`{"name":"david","email":"d@d.com","gender":"Alien","birthdate":"1998-04-08","hcp":"1.0","password":"erikdavid"}`,
		"", http.StatusBadRequest, "Gender not correct")
}

func TestListUsers(t *testing.T) {
	env := setupTestServer(t)
	env.expect(t, http.MethodGet, "/user", "", "", http.StatusBadRequest, "There are no users")

	env.signup(t, "david", "d@d.com")
	code, body := env.do(t, http.MethodGet, "/user", "", "")
	require.Equal(t, http.StatusOK, code)

	var res struct {
		Members []map[string]any `json:"members"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	require.Len(t, res.Members, 1)
	assert.Equal(t, "david", res.Members[0]["name"])
	assert.NotContains(t, res.Members[0], "password")
}

func TestLogin_Wrong(t *testing.T) {
	env := setupTestServer(t)
	env.signup(t, "david", "d@d.com")
	env.expect(t, http.MethodPost, "/user/login", `{"email":"d@d.com","password":"nopenope"}`, "", http.StatusBadRequest, "Wrong username or password")
	env.expect(t, http.MethodPost, "/user/login", `{"email":"x@x.com","password":"erikdavid"}`, "", http.StatusBadRequest, "Wrong username or password")
}

func TestAuthRequired(t *testing.T) {
	env := setupTestServer(t)
	code, body := env.do(t, http.MethodGet, "/user/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.JSONEq(t, `{"msg":"Missing Authorization Header"}`, body)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := setupTestServer(t)
	uid, token := env.signup(t, "david", "d@d.com")

	env.expect(t, http.MethodPost, "/user/logout", "", token, http.StatusOK, "You are out")

	code, body := env.do(t, http.MethodGet, "/user/"+uid, "", token)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.JSONEq(t, `{"msg":"Token has been revoked"}`, body)

	// a fresh login still works
	_, fresh := env.login(t, "d@d.com")
	code, _ = env.do(t, http.MethodGet, "/user/"+uid, "", fresh)
	assert.Equal(t, http.StatusOK, code)
}

func TestMethodNotAllowed(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.signup(t, "david", "d@d.com")

	env.expect(t, http.MethodPatch, "/user", "", "", http.StatusMethodNotAllowed, "Method not allowed")
	env.expect(t, http.MethodPost, "/user/1/feed", "", token, http.StatusMethodNotAllowed, "Method not allowed")
	env.expect(t, http.MethodDelete, "/user/1/post", "", token, http.StatusMethodNotAllowed, "Method not allowed")

	code, _ := env.do(t, http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUserGetEditDelete(t *testing.T) {
	env := setupTestServer(t)
	uid, token := env.signup(t, "david", "d@d.com")
	env.signup(t, "erik", "e@e.com")

	code, body := env.do(t, http.MethodGet, "/user/"+uid, "", token)
	require.Equal(t, http.StatusOK, code)
	var u map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &u))
	assert.Equal(t, "d@d.com", u["email"])
	assert.NotContains(t, u, "password")
	for _, key := range []string{"posts", "following", "followers", "feed"} {
		assert.Contains(t, u, key)
	}

	env.expect(t, http.MethodGet, "/user/999", "", token, http.StatusBadRequest, "No such user")
	env.expect(t, http.MethodGet, "/user/abc", "", token, http.StatusBadRequest, "No such user")

	env.expect(t, http.MethodPut, "/user/"+uid, `{"email":"d@d.com","hcp":"2.5"}`, token, http.StatusOK, "User edited successfully")
	env.expect(t, http.MethodPut, "/user/"+uid, `{"email":"e@e.com"}`, token, http.StatusBadRequest, "Wrong input")
	env.expect(t, http.MethodPut, "/user/"+uid, `{"wronginput":"Erik"}`, token, http.StatusBadRequest, "Wrong input")

	env.expect(t, http.MethodDelete, "/user/"+uid, "", token, http.StatusOK, "User deleted")
	env.expect(t, http.MethodDelete, "/user/"+uid, "", token, http.StatusBadRequest, "No such user")
}

func TestFollowFlow(t *testing.T) {
	env := setupTestServer(t)
	a, token := env.signup(t, "david", "d@d.com")
	b, _ := env.signup(t, "erik", "e@e.com")

	env.expect(t, http.MethodPost, "/user/"+a+"/following", `{"user_id":"`+b+`"}`, token, http.StatusOK, "Follow added")
	env.expect(t, http.MethodPost, "/user/"+a+"/following", `{"user_id":`+b+`}`, token, http.StatusOK, "User is already following this user")
	env.expect(t, http.MethodPost, "/user/"+a+"/following", `{"user_id":`+a+`}`, token, http.StatusOK, "You cannot follow yourself")
	env.expect(t, http.MethodPost, "/user/"+a+"/following", `{"user_id":999}`, token, http.StatusBadRequest, "User to follow does not exist")
	env.expect(t, http.MethodPost, "/user/999/following", `{"user_id":`+b+`}`, token, http.StatusBadRequest, "User id does not exist")
	assert.Len(t, env.store.Follows, 1)

	env.expect(t, http.MethodDelete, "/user/"+a+"/following/"+a, "", token, http.StatusOK, "You cannot unfollow yourself")
	env.expect(t, http.MethodDelete, "/user/"+b+"/following/"+a, "", token, http.StatusOK, "User is currently not following this user")
	env.expect(t, http.MethodDelete, "/user/"+a+"/following/"+b, "", token, http.StatusOK, "Unfollowed user")
	assert.Empty(t, env.store.Follows)
}

func TestPostCommentLikeFlow(t *testing.T) {
	env := setupTestServer(t)
	a, tokenA := env.signup(t, "david", "d@d.com")
	b, tokenB := env.signup(t, "erik", "e@e.com")

	env.expect(t, http.MethodPost, "/user/"+a+"/post", `{}`, tokenA, http.StatusBadRequest, "Cannot find text")
	env.expect(t, http.MethodPost, "/user/"+a+"/post", `{"text":"hejsan"}`, tokenA, http.StatusOK, "Your post has successfully been uploaded")
	pid := firstPostID(t, env.store, a)
	post := "/user/" + a + "/post/" + pid

	env.expect(t, http.MethodGet, "/user/"+a+"/post/999", "", tokenA, http.StatusBadRequest, "There is no such post")
	env.expect(t, http.MethodGet, "/user/999/post/"+pid, "", tokenA, http.StatusBadRequest, "There is no such user")
	env.expect(t, http.MethodPut, "/user/"+b+"/post/"+pid, `{"text":"mine"}`, tokenB, http.StatusBadRequest, "You cannot delete someone elses post")
	env.expect(t, http.MethodPut, post, `{"body":"x"}`, tokenA, http.StatusBadRequest, "You can only edit the text of your own post")
	env.expect(t, http.MethodPut, post, `{"text":"hej igen"}`, tokenA, http.StatusOK, "Text edited successfully")

	// comments
	bpost := "/user/" + b + "/post/" + pid
	env.expect(t, http.MethodPost, bpost+"/comment", `{}`, tokenB, http.StatusBadRequest, "Cannot find comment")
	env.expect(t, http.MethodPost, bpost+"/comment", `{"comment":"`+strings.Repeat("c", 201)+`"}`, tokenB, http.StatusOK, "Comment must be between 0 to 201 signs")
	assert.Empty(t, env.store.Comments)
	env.expect(t, http.MethodPost, bpost+"/comment", `{"comment":"fin runda"}`, tokenB, http.StatusOK, "You have successfully added a comment")
	env.expect(t, http.MethodPost, "/user/999/post/"+pid+"/comment", `{"comment":"x"}`, tokenB, http.StatusBadRequest, "There is no such user")

	var cid string
	for id := range env.store.Comments {
		cid = strconv.FormatInt(id, 10)
	}
	code, body := env.do(t, http.MethodGet, bpost+"/comment/"+cid, "", tokenB)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"comment":"fin runda"`)
	env.expect(t, http.MethodGet, post+"/comment/"+cid, "", tokenA, http.StatusBadRequest, "No such comment")

	// likes
	env.expect(t, http.MethodPost, bpost+"/like", "", tokenB, http.StatusOK, "Like added")
	env.expect(t, http.MethodPost, bpost+"/like", "", tokenB, http.StatusOK, "This user already likes this post")
	assert.Len(t, env.store.Likes, 1)
	var lid string
	for id := range env.store.Likes {
		lid = strconv.FormatInt(id, 10)
	}

	code, body = env.do(t, http.MethodGet, post, "", tokenA)
	require.Equal(t, http.StatusOK, code)
	var pv social.PostView
	require.NoError(t, json.Unmarshal([]byte(body), &pv))
	assert.Equal(t, "hej igen", pv.Text)
	assert.Len(t, pv.Likes, 1)
	assert.Len(t, pv.Comments, 1)

	env.expect(t, http.MethodDelete, bpost+"/like/"+lid, "", tokenB, http.StatusOK, "Like removed")
	env.expect(t, http.MethodDelete, bpost+"/like/"+lid, "", tokenB, http.StatusOK, "The like to be removed does not exist")

	env.expect(t, http.MethodDelete, bpost+"/comment/"+cid, "", tokenB, http.StatusOK, "Comment deleted successfully")

	env.expect(t, http.MethodDelete, bpost, "", tokenB, http.StatusBadRequest, "You cannot delete someone elses post")
	env.expect(t, http.MethodDelete, post, "", tokenA, http.StatusOK, "Post deleted successfully")
	assert.Empty(t, env.store.Posts)
}

func TestEventsPublished(t *testing.T) {
	env := setupTestServer(t)
	a, tokenA := env.signup(t, "david", "d@d.com")
	b, tokenB := env.signup(t, "erik", "e@e.com")

	env.expect(t, http.MethodPost, "/user/"+b+"/following", `{"user_id":`+a+`}`, tokenB, http.StatusOK, "Follow added")
	env.expect(t, http.MethodPost, "/user/"+a+"/post", `{"text":"hejsan"}`, tokenA, http.StatusOK, "Your post has successfully been uploaded")
	pid := firstPostID(t, env.store, a)
	env.expect(t, http.MethodPost, "/user/"+b+"/post/"+pid+"/like", "", tokenB, http.StatusOK, "Like added")
	env.expect(t, http.MethodPost, "/user/"+b+"/post/"+pid+"/comment", `{"comment":"snyggt"}`, tokenB, http.StatusOK, "You have successfully added a comment")

	var keys []string
	for _, m := range env.kafka.Written() {
		keys = append(keys, string(m.Key))
	}
	assert.Equal(t, []string{"user_followed", "post_created", "post_liked", "post_commented"}, keys)
}

func TestPublishFailureStillSucceeds(t *testing.T) {
	env := setupTestServer(t)
	a, token := env.signup(t, "david", "d@d.com")
	env.kafka.ShouldFail = true
	env.expect(t, http.MethodPost, "/user/"+a+"/post", `{"text":"hejsan"}`, token, http.StatusOK, "Your post has successfully been uploaded")
}

func TestFeedEndpoint(t *testing.T) {
	env := setupTestServer(t)
	a, tokenA := env.signup(t, "david", "d@d.com")
	b, _ := env.signup(t, "erik", "e@e.com")
	aid, _ := strconv.ParseInt(a, 10, 64)
	bid, _ := strconv.ParseInt(b, 10, 64)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, env.store.CreatePost(t.Context(), &models.Post{UserID: aid, Text: "late", Created: base.Add(time.Hour)}))
	require.NoError(t, env.store.CreatePost(t.Context(), &models.Post{UserID: bid, Text: "early", Created: base}))

	env.expect(t, http.MethodPost, "/user/"+a+"/following", `{"user_id":`+b+`}`, tokenA, http.StatusOK, "Follow added")

	code, body := env.do(t, http.MethodGet, "/user/"+a+"/feed", "", tokenA)
	require.Equal(t, http.StatusOK, code)
	var feed []social.PostView
	require.NoError(t, json.Unmarshal([]byte(body), &feed))
	require.Len(t, feed, 2)
	assert.Equal(t, "early", feed[0].Text)
	assert.Equal(t, "late", feed[1].Text)
}

func TestNotificationsEndpoint(t *testing.T) {
	env := setupTestServer(t)
	a, token := env.signup(t, "david", "d@d.com")
	aid, _ := strconv.ParseInt(a, 10, 64)

	code, body := env.do(t, http.MethodGet, "/user/"+a+"/notifications", "", token)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, body)

	for i := range 3 {
		require.NoError(t, env.notes.AddNotification(t.Context(), models.Notification{
			UserID: aid, ID: strconv.Itoa(i), Type: models.EventUserFollowed, ActorID: 9, Created: time.Now(),
		}))
	}
	code, body = env.do(t, http.MethodGet, "/user/"+a+"/notifications?limit=2", "", token)
	require.Equal(t, http.StatusOK, code)
	var items []models.Notification
	require.NoError(t, json.Unmarshal([]byte(body), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "2", items[0].ID)

	env.expect(t, http.MethodGet, "/user/999/notifications", "", token, http.StatusBadRequest, "No such user")
}

func TestStoreFailureIs500(t *testing.T) {
	env := setupTestServer(t)
	env.store.ShouldFail = true
	env.expect(t, http.MethodGet, "/user", "", "", http.StatusInternalServerError, "Internal server error")
	env.expect(t, http.MethodPost, "/user", userBody("david", "d@d.com"), "", http.StatusInternalServerError, "Internal server error")
}

func TestInvalidJSONBodies(t *testing.T) {
	env := setupTestServer(t)
	a, token := env.signup(t, "david", "d@d.com")

	resp, err := http.Post(env.srv.URL+"/user/login", "application/json", bytes.NewBufferString(`{"email":`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env.expect(t, http.MethodPost, "/user/"+a+"/following", `{"user_id":"abc"}`, token, http.StatusBadRequest, "User to follow does not exist")
	env.expect(t, http.MethodPut, "/user/"+a, `[1,2]`, token, http.StatusBadRequest, "Wrong input")
}
