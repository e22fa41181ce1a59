package services

import (
	"testing"

	"github.com/clmgranada/intensivo-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func modelResource(title, category string, week int, uploadedBy string) models.Resource {
	return models.Resource{
		Title:      title,
		Category:   category,
		Week:       week,
		FileType:   "pdf",
		UploadedBy: uploadedBy,
	}
}

func TestForumPostAndReplies(t *testing.T) {
	db := testDB(t)
	user, err := NewUserService(db, bcrypt.MinCost).CreateUser(testInput())
	require.NoError(t, err)

	forum := NewForumService(db)

	post, err := forum.CreatePost(user.ID, "¿Tarea de la semana 2?", "No encuentro el enlace.", "")
	require.NoError(t, err)
	assert.Equal(t, "general", post.Category, "empty category defaults")
	assert.Equal(t, "María García", post.AuthorName)
	assert.Zero(t, post.ReplyCount)

	reply, err := forum.CreateReply(post.ID, user.ID, "Está en recursos, semana 2.")
	require.NoError(t, err)
	assert.Equal(t, post.ID, reply.PostID)

	reloaded, replies, err := forum.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.ReplyCount)
	require.Len(t, replies, 1)
	assert.Equal(t, "Está en recursos, semana 2.", replies[0].Content)
}

func TestForumReplyToMissingPost(t *testing.T) {
	db := testDB(t)
	user, err := NewUserService(db, bcrypt.MinCost).CreateUser(testInput())
	require.NoError(t, err)

	_, err = NewForumService(db).CreateReply("no-such-post", user.ID, "hola")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestForumListFiltersByCategory(t *testing.T) {
	db := testDB(t)
	user, err := NewUserService(db, bcrypt.MinCost).CreateUser(testInput())
	require.NoError(t, err)

	forum := NewForumService(db)
	_, err = forum.CreatePost(user.ID, "Gramática", "Dudas del subjuntivo", "clases")
	require.NoError(t, err)
	_, err = forum.CreatePost(user.ID, "Tapas", "¿Dónde cenamos?", "social")
	require.NoError(t, err)

	social, err := forum.ListPosts("social", 0)
	require.NoError(t, err)
	require.Len(t, social, 1)
	assert.Equal(t, "Tapas", social[0].Title)

	all, err := forum.ListPosts("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestChatExchangePersistsTurns(t *testing.T) {
	db := testDB(t)
	user, err := NewUserService(db, bcrypt.MinCost).CreateUser(testInput())
	require.NoError(t, err)

	chats := NewChatService(db)

	conv, err := chats.Exchange(user.ID, "hola profesor")
	require.NoError(t, err)
	assert.NotEmpty(t, conv.Response)

	history, err := chats.History(user.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "hola profesor", history[0].Message)
}

func TestResourceCreateAndFilter(t *testing.T) {
	db := testDB(t)
	user, err := NewUserService(db, bcrypt.MinCost).CreateUser(testInput())
	require.NoError(t, err)

	resources := NewResourceService(db)
	_, err = resources.Create(modelResource("Vocabulario semana 1", "vocabulario", 1, user.ID))
	require.NoError(t, err)
	_, err = resources.Create(modelResource("Gramática semana 2", "gramática", 2, user.ID))
	require.NoError(t, err)

	week2, err := resources.List("", 2)
	require.NoError(t, err)
	require.Len(t, week2, 1)
	assert.Equal(t, "Gramática semana 2", week2[0].Title)

	all, err := resources.List("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
