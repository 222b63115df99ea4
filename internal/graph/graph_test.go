package graph

import (
	"context"
	"encoding/json"
	"testing"

	"social-system/config"
	"social-system/internal/repository/memrepo"
	"social-system/internal/service"
	"social-system/pkg/jwt"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct{}

func (staticTokens) IssueToken(userID, _ string) (string, error) { return "tok-" + userID, nil }

func newTestSchema(t *testing.T) *graphql.Schema {
	t.Helper()
	svc := service.New(memrepo.New(), service.Deps{Tokens: staticTokens{}})
	schema, err := NewSchema(svc, config.GraphQLConfig{MaxDepth: 10, MaxParallelism: 4})
	require.NoError(t, err)
	return schema
}

func exec(t *testing.T, schema *graphql.Schema, ctx context.Context, query string, vars map[string]interface{}) (map[string]interface{}, *graphql.Response) {
	t.Helper()
	resp := schema.Exec(ctx, query, "", vars)
	var data map[string]interface{}
	if len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, &data))
	}
	return data, resp
}

func signUp(t *testing.T, schema *graphql.Schema, name string) (string, context.Context) {
	t.Helper()
	data, resp := exec(t, schema, context.Background(), `
		mutation($email: String!) {
			addUser(firstName: "`+name+`", lastName: "Test", email: $email, password: "pw") {
				token
				user { _id firstName }
			}
		}`, map[string]interface{}{"email": name + "@example.com"})
	require.Empty(t, resp.Errors)
	user := data["addUser"].(map[string]interface{})["user"].(map[string]interface{})
	id := user["_id"].(string)
	return id, jwt.WithActor(context.Background(), jwt.Actor{UserID: id})
}

func errorCode(resp *graphql.Response) string {
	if len(resp.Errors) == 0 || resp.Errors[0].Extensions == nil {
		return ""
	}
	code, _ := resp.Errors[0].Extensions["code"].(string)
	return code
}

func TestSchemaParses(t *testing.T) {
	newTestSchema(t)
}

func TestAuthFlow(t *testing.T) {
	schema := newTestSchema(t)
	id, ctx := signUp(t, schema, "ada")

	data, resp := exec(t, schema, context.Background(),
		`mutation { login(email: "ada@example.com", password: "pw") { token user { _id email } } }`, nil)
	require.Empty(t, resp.Errors)
	login := data["login"].(map[string]interface{})
	assert.Equal(t, "tok-"+id, login["token"])

	_, resp = exec(t, schema, context.Background(),
		`mutation { login(email: "nobody@example.com", password: "pw") { token } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Email address not found", resp.Errors[0].Message)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(resp))

	_, resp = exec(t, schema, context.Background(),
		`mutation { login(email: "ada@example.com", password: "nope") { token } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "Incorrect email/password", resp.Errors[0].Message)

	data, resp = exec(t, schema, ctx, `query { me { _id firstName posts { _id } } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Equal(t, id, data["me"].(map[string]interface{})["_id"])

	data, resp = exec(t, schema, context.Background(), `query { me { _id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "You need to be logged in!", resp.Errors[0].Message)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(resp))
	assert.Nil(t, data["me"])
}

func TestUnknownIDsResolveToNull(t *testing.T) {
	schema := newTestSchema(t)
	data, resp := exec(t, schema, context.Background(), `
		query {
			user(userId: "missing") { _id }
			userPost(postId: "missing") { _id }
			userGraffitiPost(userId: "missing") { _id }
			userMessage(userId: "missing") { _id }
			userPendingFriend(userId: "missing") { _id }
			userHomePage(userId: "missing") { _id }
		}`, nil)
	require.Empty(t, resp.Errors)
	for _, field := range []string{"user", "userPost", "userGraffitiPost", "userMessage", "userPendingFriend", "userHomePage"} {
		assert.Nil(t, data[field], field)
	}
}

func TestSocialGraph(t *testing.T) {
	schema := newTestSchema(t)
	aliceID, alice := signUp(t, schema, "alice")
	bobID, bob := signUp(t, schema, "bob")

	_, resp := exec(t, schema, alice, `mutation($id: ID!) { sendPendingFriend(receiverId: $id) { _id } }`,
		map[string]interface{}{"id": bobID})
	require.Empty(t, resp.Errors)

	data, resp := exec(t, schema, context.Background(),
		`query($id: ID!) { userPendingFriend(userId: $id) { pendingFriends { _id firstName } } }`,
		map[string]interface{}{"id": bobID})
	require.Empty(t, resp.Errors)
	pending := data["userPendingFriend"].(map[string]interface{})["pendingFriends"].([]interface{})
	require.Len(t, pending, 1)
	assert.Equal(t, aliceID, pending[0].(map[string]interface{})["_id"])

	data, resp = exec(t, schema, bob, `mutation($id: ID!) { addFriend(requesterId: $id) { friends { _id } pendingFriends { _id } } }`,
		map[string]interface{}{"id": aliceID})
	require.Empty(t, resp.Errors)
	accepter := data["addFriend"].(map[string]interface{})
	assert.Len(t, accepter["friends"], 1)
	assert.Empty(t, accepter["pendingFriends"])

	data, resp = exec(t, schema, bob, `mutation { addPost(postText: "hello") { _id author { _id } } }`, nil)
	require.Empty(t, resp.Errors)
	postID := data["addPost"].(map[string]interface{})["_id"].(string)

	data, resp = exec(t, schema, alice, `
		mutation($id: ID!) {
			addComment(postId: $id, commentText: "hi bob") {
				comments { commentText commentAuthor { _id } }
			}
		}`, map[string]interface{}{"id": postID})
	require.Empty(t, resp.Errors)
	comments := data["addComment"].(map[string]interface{})["comments"].([]interface{})
	require.Len(t, comments, 1)
	last := comments[0].(map[string]interface{})
	assert.Equal(t, "hi bob", last["commentText"])
	assert.Equal(t, aliceID, last["commentAuthor"].(map[string]interface{})["_id"])

	data, resp = exec(t, schema, context.Background(),
		`query($id: ID!) { userHomePage(userId: $id) { postText } user(userId: $id) { friends { _id posts { _id } } } }`,
		map[string]interface{}{"id": aliceID})
	require.Empty(t, resp.Errors)
	feed := data["userHomePage"].([]interface{})
	require.Len(t, feed, 1)
	friends := data["user"].(map[string]interface{})["friends"].([]interface{})
	require.Len(t, friends, 1)
	assert.Len(t, friends[0].(map[string]interface{})["posts"], 1)

	data, resp = exec(t, schema, alice, `
		mutation($id: ID!) {
			addGraffiti(receivingUser: $id, postText: "tag") { postingUser { _id } receivingUser { _id } }
		}`, map[string]interface{}{"id": bobID})
	require.Empty(t, resp.Errors)
	g := data["addGraffiti"].(map[string]interface{})
	assert.Equal(t, aliceID, g["postingUser"].(map[string]interface{})["_id"])
	assert.Equal(t, bobID, g["receivingUser"].(map[string]interface{})["_id"])

	_, resp = exec(t, schema, alice, `mutation { addComment(postId: "missing", commentText: "x") { _id } }`, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "NOT_FOUND", errorCode(resp))
}

func TestMessaging(t *testing.T) {
	schema := newTestSchema(t)
	aliceID, alice := signUp(t, schema, "alice")
	bobID, bob := signUp(t, schema, "bob")

	data, resp := exec(t, schema, alice, `mutation($id: ID!) { createMessageThread(recipientId: $id) { _id chatters { _id } } }`,
		map[string]interface{}{"id": bobID})
	require.Empty(t, resp.Errors)
	thread := data["createMessageThread"].(map[string]interface{})
	threadID := thread["_id"].(string)
	assert.Len(t, thread["chatters"], 2)

	data, resp = exec(t, schema, bob, `
		mutation($id: ID!) {
			sendMessage(threadId: $id, messageContent: "yo") { dm { messageContent messageAuthor { _id } } }
		}`, map[string]interface{}{"id": threadID})
	require.Empty(t, resp.Errors)
	dm := data["sendMessage"].(map[string]interface{})["dm"].([]interface{})
	require.Len(t, dm, 1)
	assert.Equal(t, bobID, dm[0].(map[string]interface{})["messageAuthor"].(map[string]interface{})["_id"])

	data, resp = exec(t, schema, context.Background(),
		`query($id: ID!) { userMessage(userId: $id) { messages { _id dm { messageContent } } } }`,
		map[string]interface{}{"id": aliceID})
	require.Empty(t, resp.Errors)
	threads := data["userMessage"].(map[string]interface{})["messages"].([]interface{})
	require.Len(t, threads, 1)
	assert.Equal(t, threadID, threads[0].(map[string]interface{})["_id"])

	data, resp = exec(t, schema, alice, `query { unreadCount }`, nil)
	require.Empty(t, resp.Errors)
	assert.EqualValues(t, 0, data["unreadCount"])

	data, resp = exec(t, schema, alice, `mutation($id: ID!) { markThreadRead(threadId: $id) }`,
		map[string]interface{}{"id": threadID})
	require.Empty(t, resp.Errors)
	assert.EqualValues(t, 0, data["markThreadRead"])
}

func TestUnauthenticatedMutations(t *testing.T) {
	schema := newTestSchema(t)
	for _, q := range []string{
		`mutation { deleteUser { _id } }`,
		`mutation { updateUser(email: "x@y.com") { _id } }`,
		`mutation { addPost(postText: "x") { _id } }`,
		`mutation { addComment(postId: "p", commentText: "x") { _id } }`,
		`mutation { addGraffiti(receivingUser: "u", postText: "x") { _id } }`,
		`mutation { sendPendingFriend(receiverId: "u") { _id } }`,
		`mutation { addFriend(requesterId: "u") { _id } }`,
		`mutation { createMessageThread(recipientId: "u") { _id } }`,
		`mutation { sendMessage(threadId: "t", messageContent: "x") { _id } }`,
	} {
		_, resp := exec(t, schema, context.Background(), q, nil)
		require.Len(t, resp.Errors, 1, q)
		assert.Equal(t, "UNAUTHENTICATED", errorCode(resp), q)
	}

	data, resp := exec(t, schema, context.Background(), `query { allUser { _id } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Empty(t, data["allUser"])
}
