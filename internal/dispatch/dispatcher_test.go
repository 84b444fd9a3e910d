package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopforge/notification-service/internal/attachments"
	"github.com/shopforge/notification-service/internal/domain"
	apperrors "github.com/shopforge/notification-service/pkg/errors"
)

type mockTemplateResolver struct{ mock.Mock }

func (m *mockTemplateResolver) Resolve(eventName string) (string, bool) {
	args := m.Called(eventName)
	return args.String(0), args.Bool(1)
}

type mockAssembler struct{ mock.Mock }

func (m *mockAssembler) Assemble(ctx context.Context, kind domain.EventKind, payload map[string]any) (domain.RenderContext, *attachments.Input, error) {
	args := m.Called(ctx, kind, payload)
	var data domain.RenderContext
	if args.Get(0) != nil {
		data = args.Get(0).(domain.RenderContext)
	}
	var in *attachments.Input
	if args.Get(1) != nil {
		in = args.Get(1).(*attachments.Input)
	}
	return data, in, args.Error(2)
}

type mockAttachmentResolver struct{ mock.Mock }

func (m *mockAttachmentResolver) Resolve(ctx context.Context, kind domain.EventKind, in *attachments.Input, gen attachments.Generator) []domain.Attachment {
	args := m.Called(ctx, kind, in, gen)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Attachment)
}

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, templateID, to string, data domain.RenderContext, atts []domain.Attachment) error {
	args := m.Called(ctx, templateID, to, data, atts)
	return args.Error(0)
}

type dispatcherFixture struct {
	templates   *mockTemplateResolver
	assembler   *mockAssembler
	attachments *mockAttachmentResolver
	sender      *mockSender
	dispatcher  *Dispatcher
}

func newFixture() *dispatcherFixture {
	f := &dispatcherFixture{
		templates:   new(mockTemplateResolver),
		assembler:   new(mockAssembler),
		attachments: new(mockAttachmentResolver),
		sender:      new(mockSender),
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	f.dispatcher = New(f.templates, f.assembler, f.attachments, f.sender, logger)
	return f
}

func TestDispatch_Sent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	payload := map[string]any{"id": "order_1"}
	data := domain.RenderContext{"email": "c@example.com", "display_id": 7}

	f.templates.On("Resolve", domain.EventNameOrderPlaced).Return("order-placed", true)
	f.assembler.On("Assemble", ctx, domain.EventOrderPlaced, payload).Return(data, nil, nil)
	f.attachments.On("Resolve", ctx, domain.EventOrderPlaced, (*attachments.Input)(nil), nil).
		Return(nil)
	f.sender.On("Send", ctx, "order-placed", "c@example.com", data, []domain.Attachment(nil)).
		Return(nil)

	result, err := f.dispatcher.Dispatch(ctx, domain.EventNameOrderPlaced, payload, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSent, result.Status)
	assert.Equal(t, "c@example.com", result.To)
	assert.Equal(t, data, result.Data)
}

func TestDispatch_NoTemplateShortCircuits(t *testing.T) {
	f := newFixture()

	f.templates.On("Resolve", "order.placed").Return("", false)

	result, err := f.dispatcher.Dispatch(context.Background(), "order.placed", map[string]any{"id": "x"}, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNoTemplateFound, result.Status)
	assert.Empty(t, result.To)
	assert.Empty(t, result.Data)
	f.assembler.AssertNotCalled(t, "Assemble", mock.Anything, mock.Anything, mock.Anything)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_AssemblyErrorPropagates(t *testing.T) {
	f := newFixture()

	f.templates.On("Resolve", "order.placed").Return("order-placed", true)
	f.assembler.On("Assemble", mock.Anything, domain.EventOrderPlaced, mock.Anything).
		Return(nil, nil, errors.New("order service unavailable"))

	result, err := f.dispatcher.Dispatch(context.Background(), "order.placed", map[string]any{"id": "x"}, nil)

	assert.Error(t, err)
	assert.Nil(t, result)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_MissingRecipientIsNoData(t *testing.T) {
	f := newFixture()
	data := domain.RenderContext{"code": "GIFT123"}

	f.templates.On("Resolve", "gift_card.created").Return("gift-card-created", true)
	f.assembler.On("Assemble", mock.Anything, domain.EventGiftCardCreated, mock.Anything).
		Return(data, nil, nil)

	result, err := f.dispatcher.Dispatch(context.Background(), "gift_card.created", map[string]any{"id": "gc_1"}, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNoDataFound, result.Status)
	assert.Equal(t, data, result.Data)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_DeliveryErrorIsSwallowedAsFailed(t *testing.T) {
	f := newFixture()
	data := domain.RenderContext{"email": "c@example.com"}

	f.templates.On("Resolve", "order.placed").Return("order-placed", true)
	f.assembler.On("Assemble", mock.Anything, domain.EventOrderPlaced, mock.Anything).
		Return(data, nil, nil)
	f.attachments.On("Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)
	f.sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp timeout"))

	result, err := f.dispatcher.Dispatch(context.Background(), "order.placed", map[string]any{"id": "x"}, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFailed, result.Status)
	assert.Equal(t, "c@example.com", result.To)
	assert.Equal(t, data, result.Data)
}

func TestResend_ReusesStoredDataAndOverridesRecipient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	record := &domain.DispatchRecord{
		ID:        "disp_1",
		EventName: "order.placed",
		To:        "original@example.com",
		Status:    domain.StatusSent,
		Data:      domain.RenderContext{"email": "original@example.com", "total": "49.10 USD"},
	}

	f.templates.On("Resolve", "order.placed").Return("order-placed", true)
	f.attachments.On("Resolve", ctx, domain.EventOrderPlaced, (*attachments.Input)(nil), nil).
		Return(nil)
	f.sender.On("Send", ctx, "order-placed", "other@example.com", record.Data, []domain.Attachment(nil)).
		Return(nil)

	result, err := f.dispatcher.Resend(ctx, record, "other@example.com", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSent, result.Status)
	assert.Equal(t, "other@example.com", result.To)
	assert.Equal(t, record.Data, result.Data)
	// Assembly never runs again on resend.
	f.assembler.AssertNotCalled(t, "Assemble", mock.Anything, mock.Anything, mock.Anything)
}

func TestResend_FallsBackToStoredRecipient(t *testing.T) {
	f := newFixture()
	record := &domain.DispatchRecord{
		ID:        "disp_2",
		EventName: "order.placed",
		To:        "stored@example.com",
		Data:      domain.RenderContext{"email": "stored@example.com"},
	}

	f.templates.On("Resolve", "order.placed").Return("order-placed", true)
	f.attachments.On("Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)
	f.sender.On("Send", mock.Anything, "order-placed", "stored@example.com", mock.Anything, mock.Anything).
		Return(nil)

	result, err := f.dispatcher.Resend(context.Background(), record, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "stored@example.com", result.To)
}

func TestResend_MissingRecipientIsInvalidInput(t *testing.T) {
	f := newFixture()
	record := &domain.DispatchRecord{
		ID:        "disp_4",
		EventName: "gift_card.created",
		Status:    domain.StatusNoDataFound,
		Data:      domain.RenderContext{"code": "GIFT123"},
	}

	f.templates.On("Resolve", "gift_card.created").Return("gift-card-created", true)

	result, err := f.dispatcher.Resend(context.Background(), record, "", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Nil(t, result)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResend_NoTemplateShortCircuits(t *testing.T) {
	f := newFixture()
	record := &domain.DispatchRecord{ID: "disp_3", EventName: "custom.event"}

	f.templates.On("Resolve", "custom.event").Return("", false)

	result, err := f.dispatcher.Resend(context.Background(), record, "", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoTemplateFound, result.Status)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
