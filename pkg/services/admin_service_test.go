package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/repository"
)

type sentMessage struct {
	chatID int64
	text   string
	fileID string
}

type fakeMessenger struct {
	sent       []sentMessage
	nextID     int
	failChatID int64
}

func (f *fakeMessenger) SendText(_ context.Context, chatID int64, text string) (int, error) {
	if f.failChatID != 0 && chatID == f.failChatID {
		return 0, errors.New("chat unavailable")
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	f.nextID++
	return f.nextID, nil
}

func (f *fakeMessenger) SendPhoto(_ context.Context, chatID int64, fileID, caption string) (int, error) {
	if f.failChatID != 0 && chatID == f.failChatID {
		return 0, errors.New("chat unavailable")
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: caption, fileID: fileID})
	f.nextID++
	return f.nextID, nil
}

const adminChatID = int64(99)

func newAdminService(messenger *fakeMessenger, responseCh chan domain.Response) *adminService {
	return NewAdminService("@owner", adminChatID, repository.NewStateRepository(), messenger, responseCh)
}

func TestSendContact(t *testing.T) {
	responseCh := make(chan domain.Response, 1)
	svc := newAdminService(&fakeMessenger{}, responseCh)

	svc.SendContact(context.Background(), 1)

	resp := <-responseCh
	assert.Contains(t, resp.Text, "@owner")
	assert.Contains(t, resp.Text, "/contact_admin")
}

func TestSendContact_WithoutAdminChatOmitsForwardFlow(t *testing.T) {
	responseCh := make(chan domain.Response, 1)
	svc := NewAdminService("@owner", 0, repository.NewStateRepository(), &fakeMessenger{}, responseCh)

	svc.SendContact(context.Background(), 1)

	resp := <-responseCh
	assert.Contains(t, resp.Text, "@owner")
	assert.NotContains(t, resp.Text, "/contact_admin")
}

func TestContactFlow_ForwardsAndRelaysReply(t *testing.T) {
	messenger := &fakeMessenger{}
	responseCh := make(chan domain.Response, 4)
	svc := newAdminService(messenger, responseCh)

	svc.RequestContactMessage(context.Background(), 1)
	<-responseCh
	require.True(t, svc.AwaitingContactMessage(1))

	svc.ForwardToAdmin(context.Background(), domain.ContactRequest{
		ChatID:   1,
		UserID:   42,
		Name:     "Ann",
		Username: "ann",
		Text:     "the bot is great",
	})

	resp := <-responseCh
	require.NoError(t, resp.Err)
	assert.Contains(t, resp.Text, "sent to the admin")
	assert.False(t, svc.AwaitingContactMessage(1), "the flow disarms after one message")

	require.Len(t, messenger.sent, 1)
	forwarded := messenger.sent[0]
	assert.Equal(t, adminChatID, forwarded.chatID)
	assert.Contains(t, forwarded.text, "Ann")
	assert.Contains(t, forwarded.text, "the bot is great")

	svc.RelayReply(context.Background(), messenger.nextID, "thanks!")

	resp = <-responseCh
	require.NoError(t, resp.Err)
	assert.Equal(t, "Reply delivered.", resp.Text)

	require.Len(t, messenger.sent, 2)
	relayed := messenger.sent[1]
	assert.Equal(t, int64(1), relayed.chatID)
	assert.Contains(t, relayed.text, "thanks!")
}

func TestRelayPhotoReply(t *testing.T) {
	messenger := &fakeMessenger{}
	responseCh := make(chan domain.Response, 3)
	svc := newAdminService(messenger, responseCh)

	svc.ForwardToAdmin(context.Background(), domain.ContactRequest{ChatID: 1, UserID: 42, Name: "Ann", Text: "got a screenshot?"})
	<-responseCh

	svc.RelayPhotoReply(context.Background(), messenger.nextID, "photo-file-id", "here you go")

	resp := <-responseCh
	require.NoError(t, resp.Err)
	assert.Equal(t, "Reply delivered.", resp.Text)

	require.Len(t, messenger.sent, 2)
	relayed := messenger.sent[1]
	assert.Equal(t, int64(1), relayed.chatID)
	assert.Equal(t, "photo-file-id", relayed.fileID)
	assert.Equal(t, "here you go", relayed.text)
}

func TestRelayPhotoReply_UnknownMessage(t *testing.T) {
	responseCh := make(chan domain.Response, 1)
	svc := newAdminService(&fakeMessenger{}, responseCh)

	svc.RelayPhotoReply(context.Background(), 12345, "photo-file-id", "")

	resp := <-responseCh
	assert.Equal(t, adminChatID, resp.ChatID)
	assert.Contains(t, resp.Text, "No matching user")
}

func TestRelayReply_UnknownMessage(t *testing.T) {
	responseCh := make(chan domain.Response, 1)
	svc := newAdminService(&fakeMessenger{}, responseCh)

	svc.RelayReply(context.Background(), 12345, "hello?")

	resp := <-responseCh
	assert.Equal(t, adminChatID, resp.ChatID)
	assert.Contains(t, resp.Text, "No matching user")
}

func TestBroadcast_SkipsFailedDeliveries(t *testing.T) {
	messenger := &fakeMessenger{failChatID: 2}
	responseCh := make(chan domain.Response, 1)
	svc := newAdminService(messenger, responseCh)

	svc.TrackChat(1)
	svc.TrackChat(2)
	svc.TrackChat(3)
	svc.TrackChat(adminChatID) // never broadcast to the admin's own chat

	svc.Broadcast(context.Background(), "maintenance tonight")

	resp := <-responseCh
	assert.Equal(t, adminChatID, resp.ChatID)
	assert.Contains(t, resp.Text, "2 of 3")

	for _, msg := range messenger.sent {
		assert.NotEqual(t, adminChatID, msg.chatID)
		assert.Contains(t, msg.text, "maintenance tonight")
	}
}

func TestBroadcast_NoKnownChats(t *testing.T) {
	responseCh := make(chan domain.Response, 1)
	svc := newAdminService(&fakeMessenger{}, responseCh)

	svc.Broadcast(context.Background(), "anyone?")

	resp := <-responseCh
	assert.Contains(t, resp.Text, "No known chats")
}

func TestIsAdmin(t *testing.T) {
	svc := newAdminService(&fakeMessenger{}, make(chan domain.Response, 1))

	assert.True(t, svc.IsAdmin(adminChatID))
	assert.False(t, svc.IsAdmin(1))

	open := NewAdminService("@owner", 0, repository.NewStateRepository(), &fakeMessenger{}, make(chan domain.Response, 1))
	assert.False(t, open.IsAdmin(0), "no one is admin when ADMIN_CHAT_ID is unset")
}
