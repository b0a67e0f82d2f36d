package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Uday261104/lms-v2/database"
	"github.com/Uday261104/lms-v2/model"
)

type stubActionFinder struct {
	actions map[int64]*model.NotificationAction
}

func (s *stubActionFinder) FindAction(_ context.Context, id int64) (*model.NotificationAction, error) {
	action, ok := s.actions[id]
	if !ok {
		return nil, database.ErrActionNotFound
	}
	return action, nil
}

type recordingMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *recordingMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func TestDispatchSendsEmailWhenTemplateHasOne(t *testing.T) {
	finder := &stubActionFinder{actions: map[int64]*model.NotificationAction{
		1: {ID: 1, Message: "Welcome aboard", EmailSubject: "Welcome", EmailBody: "Glad to have you."},
	}}
	mailer := &recordingMailer{}
	svc := NewNotificationService(finder, mailer)

	message, err := svc.Dispatch(context.Background(), 1, "user@example.com")
	require.NoError(t, err)
	require.Equal(t, "Welcome aboard", message)

	require.Len(t, mailer.sent, 1)
	require.Equal(t, "user@example.com", mailer.sent[0].to)
	require.Equal(t, "Welcome", mailer.sent[0].subject)
	require.Equal(t, "Glad to have you.", mailer.sent[0].body)
}

func TestDispatchSkipsEmailWhenTemplateIsPlain(t *testing.T) {
	finder := &stubActionFinder{actions: map[int64]*model.NotificationAction{
		2: {ID: 2, Message: "Course updated"},
	}}
	mailer := &recordingMailer{}
	svc := NewNotificationService(finder, mailer)

	message, err := svc.Dispatch(context.Background(), 2, "user@example.com")
	require.NoError(t, err)
	require.Equal(t, "Course updated", message)
	require.Empty(t, mailer.sent)
}

func TestDispatchSkipsEmailWhenOnlyOneFieldPresent(t *testing.T) {
	finder := &stubActionFinder{actions: map[int64]*model.NotificationAction{
		3: {ID: 3, Message: "Half template", EmailSubject: "Subject only"},
	}}
	mailer := &recordingMailer{}
	svc := NewNotificationService(finder, mailer)

	message, err := svc.Dispatch(context.Background(), 3, "user@example.com")
	require.NoError(t, err)
	require.Equal(t, "Half template", message)
	require.Empty(t, mailer.sent)
}

func TestDispatchUnknownAction(t *testing.T) {
	svc := NewNotificationService(&stubActionFinder{}, &recordingMailer{})

	_, err := svc.Dispatch(context.Background(), 42, "user@example.com")
	require.ErrorIs(t, err, database.ErrActionNotFound)
}

func TestDispatchSurfacesTransportFailure(t *testing.T) {
	finder := &stubActionFinder{actions: map[int64]*model.NotificationAction{
		1: {ID: 1, Message: "Welcome aboard", EmailSubject: "Welcome", EmailBody: "Glad to have you."},
	}}
	transportErr := errors.New("connection refused")
	svc := NewNotificationService(finder, &recordingMailer{err: transportErr})

	_, err := svc.Dispatch(context.Background(), 1, "user@example.com")
	require.ErrorIs(t, err, transportErr)
}
