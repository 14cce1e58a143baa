package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/engagement"
	m "github.com/FrankWaweru369/Infinity-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

const notificationListLimit = 30

// NotiParams feeds the title/body templates.
type NotiParams struct {
	SenderName string
	Entity     string // "post" | "reel" | "user"
}

func BuildTitleBody(t m.NotiType, p NotiParams) (title, body string, err error) {
	if p.SenderName == "" {
		return "", "", fmt.Errorf("missing SenderName")
	}
	entity := p.Entity
	if entity == "" {
		entity = "post"
	}
	switch t {
	case m.NotiFollow:
		return "New follower",
			fmt.Sprintf("%s started following you.", p.SenderName), nil
	case m.NotiLike:
		return "New like",
			fmt.Sprintf("%s liked your %s.", p.SenderName, entity), nil
	case m.NotiComment:
		return "New comment",
			fmt.Sprintf("%s commented on your %s.", p.SenderName, entity), nil
	case m.NotiCommentLike:
		return "Your comment was liked",
			fmt.Sprintf("%s liked your comment.", p.SenderName), nil
	case m.NotiReply:
		return "New reply",
			fmt.Sprintf("%s replied to your comment.", p.SenderName), nil
	}
	return "", "", fmt.Errorf("unknown noti type: %s", t)
}

type NotificationStore interface {
	Insert(ctx context.Context, n *m.Notification) error
	Latest(ctx context.Context, recipient bson.ObjectID, limit int64) ([]m.Notification, error)
	CountUnread(ctx context.Context, recipient bson.ObjectID) (int64, error)
	MarkRead(ctx context.Context, id, recipient bson.ObjectID) (*m.Notification, error)
	MarkAllRead(ctx context.Context, recipient bson.ObjectID) (int64, error)
}

type NotificationService struct {
	store   NotificationStore
	users   engagement.Resolver
	log     *zap.Logger
	timeout time.Duration
	pending sync.WaitGroup
}

func NewNotificationService(store NotificationStore, users engagement.Resolver, log *zap.Logger) *NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationService{store: store, users: users, log: log, timeout: 5 * time.Second}
}

// Deliver writes one notification. Self-notifications are dropped.
func (s *NotificationService) Deliver(ctx context.Context, typ m.NotiType, recipient, sender bson.ObjectID, ref m.Ref) error {
	if recipient.IsZero() || recipient == sender {
		return nil
	}
	name := m.DeletedProfile(sender).Username
	profiles, err := s.users.ResolveProfiles(ctx, []bson.ObjectID{sender})
	if err != nil {
		return err
	}
	if p, ok := profiles[sender]; ok {
		name = p.Username
	}

	title, body, err := BuildTitleBody(typ, NotiParams{SenderName: name, Entity: ref.Entity})
	if err != nil {
		return err
	}
	return s.store.Insert(ctx, &m.Notification{
		Recipient: recipient,
		Sender:    sender,
		Type:      typ,
		Title:     title,
		Message:   body,
		Ref:       ref,
		CreatedAt: time.Now().UTC(),
	})
}

// Notify delivers in the background; the triggering request never waits on
// or fails because of it.
func (s *NotificationService) Notify(typ m.NotiType, recipient, sender bson.ObjectID, ref m.Ref) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.Deliver(ctx, typ, recipient, sender, ref); err != nil {
			s.log.Warn("notification not delivered",
				zap.String("type", string(typ)),
				zap.String("recipient", recipient.Hex()),
				zap.Error(err))
		}
	}()
}

// Wait blocks until background deliveries finish or timeout passes. It
// reports whether everything was delivered in time.
func (s *NotificationService) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Latest lists the recipient's newest notifications with senders resolved.
func (s *NotificationService) Latest(ctx context.Context, recipient bson.ObjectID) (dto.NotificationListResp, error) {
	items, err := s.store.Latest(ctx, recipient, notificationListLimit)
	if err != nil {
		return dto.NotificationListResp{}, err
	}
	unread, err := s.store.CountUnread(ctx, recipient)
	if err != nil {
		return dto.NotificationListResp{}, err
	}

	senders := make([]bson.ObjectID, 0, len(items))
	for _, n := range items {
		senders = append(senders, n.Sender)
	}
	dir, err := lookup(ctx, s.users, senders)
	if err != nil {
		return dto.NotificationListResp{}, err
	}

	out := dto.NotificationListResp{
		Notifications: make([]dto.NotificationResp, 0, len(items)),
		UnreadCount:   int(unread),
	}
	for _, n := range items {
		out.Notifications = append(out.Notifications, toNotificationResp(n, dir))
	}
	return out, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, recipient bson.ObjectID) (dto.NotificationResp, error) {
	if recipient.IsZero() {
		return dto.NotificationResp{}, apperr.ErrUnauthorized
	}
	n, err := s.store.MarkRead(ctx, id, recipient)
	if err != nil {
		return dto.NotificationResp{}, err
	}
	dir, err := lookup(ctx, s.users, []bson.ObjectID{n.Sender})
	if err != nil {
		return dto.NotificationResp{}, err
	}
	return toNotificationResp(*n, dir), nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipient bson.ObjectID) (int64, error) {
	if recipient.IsZero() {
		return 0, apperr.ErrUnauthorized
	}
	return s.store.MarkAllRead(ctx, recipient)
}

func toNotificationResp(n m.Notification, dir engagement.Directory) dto.NotificationResp {
	return dto.NotificationResp{
		ID:        n.ID,
		Sender:    dir.Summary(n.Sender),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Ref:       n.Ref,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
