package vk

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SevereCloud/vksdk/v2/api"
	"github.com/SevereCloud/vksdk/v2/api/params"
)

// Notifier posts plain-text messages to a VK conversation on behalf of a
// community.
type Notifier struct {
	vk     *api.VK
	peerID int
	log    *slog.Logger
}

func NewNotifier(token string, peerID int, log *slog.Logger) *Notifier {
	return &Notifier{vk: api.NewVK(token), peerID: peerID, log: log}
}

// SetMethodURL points the client at another API root, e.g. a test server.
func (n *Notifier) SetMethodURL(url string) {
	n.vk.MethodURL = url
}

func (n *Notifier) Notify(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msgID, err := sendMessageToUser(message, n.peerID, n.vk)
	if err != nil {
		return err
	}
	n.log.Info("Notification sent", slog.Int("peer_id", n.peerID), slog.Int("id", msgID))
	return nil
}

func sendMessageToUser(messageToUser string, peerID int, vk *api.VK) (int, error) {
	b := params.NewMessagesSendBuilder()
	b.Message(messageToUser)
	b.RandomID(0)
	b.PeerID(peerID)

	msgID, err := vk.MessagesSend(b.Params)
	if err != nil {
		return 0, fmt.Errorf("error sending message to peer %d: %w", peerID, err)
	}
	return msgID, nil
}
